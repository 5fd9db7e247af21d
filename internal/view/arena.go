package view

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// AttackResult 攻击交易的结果
type AttackResult struct {
	TxHash  common.Hash
	From    common.Address
	Receipt *types.Receipt
	Outcome *models.AttackOutcome
}

// Arena 竞技场视图，Boss 状态只来自合约读取
type Arena struct {
	*mount
	boss *models.Character
}

// NewArena 创建竞技场视图，parent 结束即视为卸载
func NewArena(parent context.Context, factory chain.Factory) *Arena {
	return &Arena{mount: newMount(parent, "arena", factory)}
}

// Mount 构造合约客户端，就绪后读取一次 Boss
func (a *Arena) Mount() <-chan struct{} {
	return a.start(func(client chain.GameContract) {
		if err := a.fetchBoss(a.ctx, client); err != nil {
			a.logf("获取Boss失败: %v", err)
		}
	})
}

func (a *Arena) fetchBoss(ctx context.Context, client chain.GameContract) error {
	raw, err := client.GetBigBoss(ctx)
	if err != nil {
		return err
	}

	boss, err := models.TransformCharacterData(raw)
	if err != nil {
		return err
	}

	if !a.commit(func() { a.boss = &boss }) {
		return ErrUnavailable
	}
	return nil
}

// Boss 当前 Boss 状态
func (a *Arena) Boss() (models.Character, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.boss == nil {
		return models.Character{}, false
	}
	return *a.boss, true
}

// Refresh 重新读取 Boss，失败时保留原状态
func (a *Arena) Refresh(ctx context.Context) error {
	client := a.currentClient()
	if client == nil {
		return ErrUnavailable
	}

	if err := a.fetchBoss(ctx, client); err != nil {
		a.logf("刷新Boss失败: %v", err)
		return err
	}
	return nil
}

// Attack 攻击 Boss 并等待确认，成功后重新读取 Boss
func (a *Arena) Attack(ctx context.Context) (AttackResult, error) {
	client := a.currentClient()
	if client == nil {
		a.logf("攻击失败: %v", ErrUnavailable)
		return AttackResult{}, ErrUnavailable
	}

	a.logf("正在攻击Boss")
	tx, err := client.AttackBoss(ctx)
	if err != nil {
		a.logf("AttackBoss 错误: %v", err)
		return AttackResult{}, err
	}

	result := AttackResult{TxHash: tx.Hash(), From: tx.From()}
	receipt, err := tx.Wait(ctx)
	result.Receipt = receipt
	if err != nil {
		a.logf("AttackBoss 错误: %v", err)
		return result, err
	}

	ev, ok, err := chain.ParseAttack(receipt, tx.To())
	if err != nil {
		a.logf("解析攻击事件失败: %v", err)
	} else if ok {
		result.Outcome = &models.AttackOutcome{
			Attacker:    ev.Sender.Hex(),
			TxHash:      tx.Hash().Hex(),
			NewBossHp:   safeInt(ev.NewBossHp),
			NewPlayerHp: safeInt(ev.NewPlayerHp),
		}
	}
	a.logf("攻击完成: %s", tx.Hash().Hex())

	if err := a.Refresh(ctx); err != nil {
		a.logf("攻击后刷新Boss失败: %v", err)
	}
	return result, nil
}

// safeInt 事件中的 HP 超出安全范围时记为 -1
func safeInt(v *big.Int) int {
	if v == nil || v.Sign() < 0 || v.Cmp(big.NewInt(models.MaxSafeInteger)) > 0 {
		return -1
	}
	return int(v.Int64())
}
