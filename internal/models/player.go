// player.go

package models

import (
	"time"
)

// MintedNFT 玩家铸造的角色 NFT，来自 CharacterNFTMinted 事件
type MintedNFT struct {
	Owner          string    `json:"owner"`
	TokenID        uint64    `json:"tokenId"`
	CharacterIndex int       `json:"characterIndex"`
	TxHash         string    `json:"txHash"`
	MintedAt       time.Time `json:"mintedAt"`
}

// AttackOutcome 一次攻击确认后的结果，来自 AttackComplete 事件
type AttackOutcome struct {
	Attacker    string `json:"attacker"`
	TxHash      string `json:"txHash"`
	NewBossHp   int    `json:"newBossHp"`
	NewPlayerHp int    `json:"newPlayerHp"`
}
