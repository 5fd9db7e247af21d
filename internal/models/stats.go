// stats.go

package models

import (
	"time"
)

// TxKind 链上交易类型
type TxKind string

const (
	// TxDeploy 合约部署
	TxDeploy TxKind = "deploy"
	// TxMint 铸造角色
	TxMint TxKind = "mint"
	// TxAttack 攻击 Boss
	TxAttack TxKind = "attack"
)

// TxStatus 交易状态
type TxStatus string

const (
	// TxConfirmed 已上链且执行成功
	TxConfirmed TxStatus = "confirmed"
	// TxReverted 已上链但执行回滚
	TxReverted TxStatus = "reverted"
	// TxFailed 未能确认（签名被拒、超时等）
	TxFailed TxStatus = "failed"
)

// TxRecord 交易流水记录
type TxRecord struct {
	Hash           string    `json:"hash"`
	Kind           TxKind    `json:"kind"`
	Account        string    `json:"account"`
	CharacterIndex *int      `json:"characterIndex,omitempty"`
	Status         TxStatus  `json:"status"`
	BlockNumber    uint64    `json:"blockNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Deployment 合约部署记录
type Deployment struct {
	Address   string    `json:"address"`
	TxHash    string    `json:"txHash"`
	Network   string    `json:"network"`
	Deployer  string    `json:"deployer"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttackerEntry 攻击排行榜条目
type AttackerEntry struct {
	Account string `json:"account"`
	Attacks int64  `json:"attacks"`
	Rank    int    `json:"rank"` // 排名
}
