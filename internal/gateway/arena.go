package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/protocol"
	"github.com/jacl-coder/EpicGame-Server/internal/view"
)

// ArenaHandler Boss 查询
type ArenaHandler struct {
	factory chain.Factory
}

// NewArenaHandler 创建 Boss 处理器
func NewArenaHandler(factory chain.Factory) *ArenaHandler {
	return &ArenaHandler{factory: factory}
}

// RegisterHandlers 注册HTTP处理器
func (h *ArenaHandler) RegisterHandlers(r chi.Router) {
	r.Get("/boss", h.handleBoss)
}

// handleBoss 读取当前 Boss
func (h *ArenaHandler) handleBoss(w http.ResponseWriter, r *http.Request) {
	arena := view.NewArena(r.Context(), h.factory)
	defer arena.Close()

	if !awaitMount(r.Context(), arena.Mount()) {
		return
	}

	boss, ok := arena.Boss()
	if !ok {
		sendErrorResponse(w, "Boss 不可用", http.StatusServiceUnavailable)
		return
	}
	sendSuccessResponse(w, "查询成功", protocol.ConvertBoss(boss))
}
