// character.go

package gateway

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
	"github.com/jacl-coder/EpicGame-Server/internal/view"
)

// CharacterHandler 角色列表和铸造
type CharacterHandler struct {
	factory        chain.Factory
	registry       Registry
	journal        Journal
	cache          *CacheMiddleware
	confirmTimeout time.Duration
}

// NewCharacterHandler 创建角色处理器
func NewCharacterHandler(factory chain.Factory, registry Registry, journal Journal, cache *CacheMiddleware, confirmTimeout time.Duration) *CharacterHandler {
	return &CharacterHandler{
		factory:        factory,
		registry:       registry,
		journal:        journal,
		cache:          cache,
		confirmTimeout: confirmTimeout,
	}
}

// RegisterHandlers 注册HTTP处理器
func (h *CharacterHandler) RegisterHandlers(r chi.Router) {
	r.Get("/characters", h.handleCharacters)
	r.Post("/characters/{index}/mint", h.handleMint)
}

// MintResponse 铸造结果
type MintResponse struct {
	TxHash         string  `json:"txHash"`
	From           string  `json:"from"`
	CharacterIndex int     `json:"characterIndex"`
	TokenID        *uint64 `json:"tokenId,omitempty"`
}

// handleCharacters 处理角色列表查询
func (h *CharacterHandler) handleCharacters(w http.ResponseWriter, r *http.Request) {
	roster := view.NewRoster(r.Context(), h.factory)
	defer roster.Close()

	if !awaitMount(r.Context(), roster.Mount()) {
		return
	}
	if !roster.Ready() {
		sendErrorResponse(w, "链上服务不可用", http.StatusServiceUnavailable)
		return
	}

	// 读取失败时视图为空，返回 503 且不进入缓存
	entries := roster.Entries()
	if len(entries) == 0 {
		sendErrorResponse(w, "角色列表不可用", http.StatusServiceUnavailable)
		return
	}

	sendSuccessResponse(w, "查询成功", entries)
}

// handleMint 铸造指定索引的角色并等待确认
func (h *CharacterHandler) handleMint(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		sendErrorResponse(w, "无效的角色索引", http.StatusBadRequest)
		return
	}

	roster := view.NewRoster(r.Context(), h.factory)
	defer roster.Close()

	if !awaitMount(r.Context(), roster.Mount()) {
		return
	}
	if !roster.Ready() {
		sendErrorResponse(w, "链上服务不可用", http.StatusServiceUnavailable)
		return
	}
	entries := roster.Entries()
	if len(entries) == 0 {
		sendErrorResponse(w, "角色列表不可用", http.StatusServiceUnavailable)
		return
	}
	if index >= len(entries) {
		sendErrorResponse(w, "角色不存在", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.confirmTimeout)
	defer cancel()

	result, err := roster.Mint(ctx, index)
	h.journalMint(ctx, index, result, err)
	if err != nil {
		if errors.Is(err, view.ErrUnavailable) {
			sendErrorResponse(w, "链上服务不可用", http.StatusServiceUnavailable)
			return
		}
		sendErrorResponse(w, "铸造失败: "+err.Error(), http.StatusBadGateway)
		return
	}

	resp := MintResponse{
		TxHash:         result.TxHash.Hex(),
		From:           result.From.Hex(),
		CharacterIndex: index,
	}
	if result.Minted != nil {
		resp.TokenID = &result.Minted.TokenID
		if h.registry != nil {
			if err := h.registry.RecordMint(ctx, *result.Minted); err != nil {
				log.Printf("登记NFT失败: %v", err)
			}
		}
		h.cache.Invalidate("/api/players/" + strings.ToLower(result.Minted.Owner))
		h.cache.Invalidate("/api/players/" + result.Minted.Owner)
	}
	h.cache.Invalidate("/api/characters")

	sendSuccessResponse(w, "铸造成功", resp)
}

// journalMint 记录铸造交易，交易未发出时不记录
func (h *CharacterHandler) journalMint(ctx context.Context, index int, result view.MintResult, err error) {
	if h.journal == nil || result.TxHash == (common.Hash{}) {
		return
	}

	rec := models.TxRecord{
		Hash:           result.TxHash.Hex(),
		Kind:           models.TxMint,
		Account:        result.From.Hex(),
		CharacterIndex: &index,
		Status:         txStatus(err),
		CreatedAt:      time.Now(),
	}
	if result.Receipt != nil && result.Receipt.BlockNumber != nil {
		rec.BlockNumber = result.Receipt.BlockNumber.Uint64()
	}
	if err := h.journal.RecordTransaction(ctx, rec); err != nil {
		log.Printf("记录交易 %s 失败: %v", rec.Hash, err)
	}
}

func txStatus(err error) models.TxStatus {
	switch {
	case err == nil:
		return models.TxConfirmed
	case errors.Is(err, chain.ErrReverted):
		return models.TxReverted
	default:
		return models.TxFailed
	}
}

// awaitMount 等待视图初始化，请求先结束时返回 false
func awaitMount(ctx context.Context, done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
