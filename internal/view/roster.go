package view

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// RosterEntry 角色列表中的一项，Index 即铸造时传给合约的索引
type RosterEntry struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	ImageURI  string `json:"imageURI"`
	MintLabel string `json:"mintLabel"`
}

// MintResult 铸造交易的结果
type MintResult struct {
	TxHash  common.Hash
	From    common.Address
	Receipt *types.Receipt
	Minted  *models.MintedNFT
}

// Roster 可铸造角色列表视图
type Roster struct {
	*mount
	characters []models.Character
}

// NewRoster 创建角色列表视图，parent 结束即视为卸载
func NewRoster(parent context.Context, factory chain.Factory) *Roster {
	return &Roster{mount: newMount(parent, "roster", factory)}
}

// Mount 构造合约客户端并读取一次默认角色，返回的通道在初始化结束后关闭
func (r *Roster) Mount() <-chan struct{} {
	return r.start(r.fetchCharacters)
}

func (r *Roster) fetchCharacters(client chain.GameContract) {
	r.logf("正在获取可铸造的角色")
	raws, err := client.GetAllDefaultCharacters(r.ctx)
	if err != nil {
		r.logf("获取角色失败: %v", err)
		return
	}

	characters, err := models.TransformCharacters(raws)
	if err != nil {
		r.logf("转换角色数据失败: %v", err)
		return
	}

	if r.commit(func() { r.characters = characters }) {
		r.logf("已获取 %d 个角色", len(characters))
	}
}

// Characters 当前视图状态（副本）
func (r *Roster) Characters() []models.Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	characters := make([]models.Character, len(r.characters))
	copy(characters, r.characters)
	return characters
}

// Entries 渲染用的角色列表，顺序与合约返回一致
func (r *Roster) Entries() []RosterEntry {
	characters := r.Characters()

	entries := make([]RosterEntry, 0, len(characters))
	for i, character := range characters {
		entries = append(entries, RosterEntry{
			Index:     i,
			Name:      character.Name,
			ImageURI:  character.ImageURI,
			MintLabel: "Mint " + character.Name,
		})
	}
	return entries
}

// Mint 铸造第 index 个角色并等待确认；不修改视图状态，错误只返回给调用方
func (r *Roster) Mint(ctx context.Context, index int) (MintResult, error) {
	client := r.currentClient()
	if client == nil {
		r.logf("铸造失败: %v", ErrUnavailable)
		return MintResult{}, ErrUnavailable
	}

	r.logf("正在铸造角色 #%d", index)
	tx, err := client.MintCharacterNFT(ctx, index)
	if err != nil {
		r.logf("MintCharacterAction 错误: %v", err)
		return MintResult{}, err
	}

	result := MintResult{TxHash: tx.Hash(), From: tx.From()}
	receipt, err := tx.Wait(ctx)
	result.Receipt = receipt
	if err != nil {
		r.logf("MintCharacterAction 错误: %v", err)
		return result, err
	}

	ev, ok, err := chain.ParseMinted(receipt, tx.To())
	if err != nil {
		r.logf("解析铸造事件失败: %v", err)
	} else if ok {
		minted, err := mintedNFT(ev, tx.Hash())
		if err != nil {
			r.logf("铸造事件数值异常: %v", err)
		} else {
			result.Minted = minted
		}
	}

	r.logf("mintTxn: %s", tx.Hash().Hex())
	return result, nil
}

func mintedNFT(ev *chain.MintedEvent, hash common.Hash) (*models.MintedNFT, error) {
	if ev.TokenId == nil || !ev.TokenId.IsUint64() {
		return nil, fmt.Errorf("tokenId: %w", models.ErrUnsafeInteger)
	}
	if ev.CharacterIndex == nil || !ev.CharacterIndex.IsInt64() || ev.CharacterIndex.Int64() > models.MaxSafeInteger {
		return nil, fmt.Errorf("characterIndex: %w", models.ErrUnsafeInteger)
	}

	return &models.MintedNFT{
		Owner:          ev.Sender.Hex(),
		TokenID:        ev.TokenId.Uint64(),
		CharacterIndex: int(ev.CharacterIndex.Int64()),
		TxHash:         hash.Hex(),
		MintedAt:       time.Now(),
	}, nil
}
