package game

import (
	"context"
	"log"
	"time"

	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// AttackCounter 攻击排行榜计数
type AttackCounter interface {
	RecordAttack(ctx context.Context, attacker string) error
}

// TxJournal 交易流水
type TxJournal interface {
	RecordTransaction(ctx context.Context, rec models.TxRecord) error
}

// LedgerRecorder 把确认的攻击写入排行榜和交易流水，两者都可以为空
type LedgerRecorder struct {
	counter AttackCounter
	journal TxJournal
}

// NewLedgerRecorder 创建攻击记录器
func NewLedgerRecorder(counter AttackCounter, journal TxJournal) *LedgerRecorder {
	return &LedgerRecorder{counter: counter, journal: journal}
}

// RecordAttack 记录一次确认的攻击，失败只记日志
func (r *LedgerRecorder) RecordAttack(ctx context.Context, outcome models.AttackOutcome, blockNumber uint64) {
	if r.counter != nil {
		if err := r.counter.RecordAttack(ctx, outcome.Attacker); err != nil {
			log.Printf("更新攻击排行榜失败: %v", err)
		}
	}

	if r.journal != nil {
		rec := models.TxRecord{
			Hash:        outcome.TxHash,
			Kind:        models.TxAttack,
			Account:     outcome.Attacker,
			Status:      models.TxConfirmed,
			BlockNumber: blockNumber,
			CreatedAt:   time.Now(),
		}
		if err := r.journal.RecordTransaction(ctx, rec); err != nil {
			log.Printf("记录交易 %s 失败: %v", rec.Hash, err)
		}
	}
}
