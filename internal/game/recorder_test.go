package game

import (
	"context"
	"errors"
	"testing"

	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

type countingRegistry struct {
	attackers []string
	err       error
}

func (c *countingRegistry) RecordAttack(ctx context.Context, attacker string) error {
	c.attackers = append(c.attackers, attacker)
	return c.err
}

type txJournal struct {
	records []models.TxRecord
}

func (j *txJournal) RecordTransaction(ctx context.Context, rec models.TxRecord) error {
	j.records = append(j.records, rec)
	return nil
}

func TestLedgerRecorder(t *testing.T) {
	counter := &countingRegistry{err: errors.New("redis down")}
	journal := &txJournal{}
	outcome := models.AttackOutcome{Attacker: "0xCC", TxHash: "0xabc", NewBossHp: 9950, NewPlayerHp: 250}

	NewLedgerRecorder(counter, journal).RecordAttack(context.Background(), outcome, 7)

	if len(counter.attackers) != 1 || counter.attackers[0] != "0xCC" {
		t.Errorf("unexpected attackers %v", counter.attackers)
	}
	if len(journal.records) != 1 {
		t.Fatalf("counter failure must not skip the journal, got %d records", len(journal.records))
	}
	rec := journal.records[0]
	if rec.Kind != models.TxAttack || rec.Hash != "0xabc" || rec.BlockNumber != 7 || rec.Status != models.TxConfirmed {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestLedgerRecorderDisabled(t *testing.T) {
	NewLedgerRecorder(nil, nil).RecordAttack(context.Background(), models.AttackOutcome{TxHash: "0x1"}, 1)
}
