// player.go

package gateway

import (
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// PlayerHandler 玩家（钱包地址）相关查询
type PlayerHandler struct {
	registry Registry
}

// NewPlayerHandler 创建玩家处理器
func NewPlayerHandler(registry Registry) *PlayerHandler {
	return &PlayerHandler{registry: registry}
}

// RegisterHandlers 注册HTTP处理器
func (h *PlayerHandler) RegisterHandlers(r chi.Router) {
	r.Get("/players/{address}/nfts", h.handlePlayerNFTs)
	r.Get("/players/{address}/rank", h.handlePlayerRank)
}

// PlayerRankInfo 玩家攻击排名，未上榜时 Rank 为 -1
type PlayerRankInfo struct {
	Account string `json:"account"`
	Rank    int    `json:"rank"`
}

// handlePlayerNFTs 查询地址铸造过的 NFT
func (h *PlayerHandler) handlePlayerNFTs(w http.ResponseWriter, r *http.Request) {
	address, ok := h.parseAddress(w, r)
	if !ok {
		return
	}

	nfts, err := h.registry.MintedBy(r.Context(), address)
	if err != nil {
		log.Printf("查询玩家NFT失败: %v", err)
		sendErrorResponse(w, "查询玩家NFT失败", http.StatusInternalServerError)
		return
	}
	if nfts == nil {
		nfts = []models.MintedNFT{}
	}

	sendSuccessResponse(w, "查询成功", nfts)
}

// handlePlayerRank 查询地址的攻击排名
func (h *PlayerHandler) handlePlayerRank(w http.ResponseWriter, r *http.Request) {
	address, ok := h.parseAddress(w, r)
	if !ok {
		return
	}

	rank, err := h.registry.AttackerRank(r.Context(), address)
	if err != nil {
		log.Printf("查询排名失败: %v", err)
		sendErrorResponse(w, "查询排名失败", http.StatusInternalServerError)
		return
	}

	sendSuccessResponse(w, "查询成功", PlayerRankInfo{Account: address, Rank: rank})
}

// parseAddress 校验路径中的地址并检查 Redis 是否启用
func (h *PlayerHandler) parseAddress(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := chi.URLParam(r, "address")
	if !common.IsHexAddress(address) {
		sendErrorResponse(w, "无效的地址", http.StatusBadRequest)
		return "", false
	}
	if h.registry == nil {
		sendErrorResponse(w, "未启用NFT登记", http.StatusServiceUnavailable)
		return "", false
	}
	return common.HexToAddress(address).Hex(), true
}
