// stats.go

package gateway

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// StatsHandler 排行榜和交易流水
type StatsHandler struct {
	registry Registry
	journal  Journal
}

// NewStatsHandler 创建统计处理器
func NewStatsHandler(registry Registry, journal Journal) *StatsHandler {
	return &StatsHandler{registry: registry, journal: journal}
}

// RegisterHandlers 注册HTTP处理器
func (h *StatsHandler) RegisterHandlers(r chi.Router) {
	r.Get("/leaderboard", h.handleLeaderboard)
	r.Get("/transactions", h.handleTransactions)
}

// handleLeaderboard 攻击次数排行榜
func (h *StatsHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		sendErrorResponse(w, "未启用排行榜", http.StatusServiceUnavailable)
		return
	}

	limit := parseLimit(r, 10, 100)
	entries, err := h.registry.TopAttackers(r.Context(), limit)
	if err != nil {
		log.Printf("查询排行榜失败: %v", err)
		sendErrorResponse(w, "查询排行榜失败", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.AttackerEntry{}
	}

	sendSuccessResponse(w, "查询成功", entries)
}

// handleTransactions 最近的链上交易流水
func (h *StatsHandler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		sendErrorResponse(w, "未启用交易流水", http.StatusServiceUnavailable)
		return
	}

	limit := parseLimit(r, 20, 100)
	records, err := h.journal.ListTransactions(r.Context(), limit)
	if err != nil {
		log.Printf("查询交易流水失败: %v", err)
		sendErrorResponse(w, "查询交易流水失败", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.TxRecord{}
	}

	sendSuccessResponse(w, "查询成功", records)
}
