package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

type fakeExec struct {
	query string
	args  []interface{}
	err   error
}

func (f *fakeExec) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.query = query
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return driver.RowsAffected(1), nil
}

func (f *fakeExec) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeExec) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

// fakeRow 按顺序填充 Scan 目标
type fakeRow []interface{}

func (r fakeRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r[i].(string)
		case *int64:
			*p = r[i].(int64)
		case *sql.NullInt64:
			if r[i] == nil {
				*p = sql.NullInt64{}
			} else {
				*p = sql.NullInt64{Int64: r[i].(int64), Valid: true}
			}
		case *time.Time:
			*p = r[i].(time.Time)
		}
	}
	return nil
}

func TestRecordTransaction(t *testing.T) {
	exec := &fakeExec{}
	journal := &Journal{db: exec}
	index := 2

	err := journal.RecordTransaction(context.Background(), models.TxRecord{
		Hash:           "0xabc",
		Kind:           models.TxMint,
		Account:        "0xAbCd",
		CharacterIndex: &index,
		Status:         models.TxConfirmed,
		BlockNumber:    7,
	})
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}
	if !strings.Contains(exec.query, "chain_transactions") {
		t.Errorf("unexpected query %q", exec.query)
	}
	if exec.args[1] != "mint" || exec.args[2] != "0xabcd" || exec.args[4] != "confirmed" {
		t.Errorf("unexpected args %v", exec.args)
	}
	if got := exec.args[3].(sql.NullInt64); !got.Valid || got.Int64 != 2 {
		t.Errorf("character index = %+v", got)
	}
	if exec.args[6].(time.Time).IsZero() {
		t.Error("created_at should default to now")
	}
}

func TestRecordTransactionWithoutIndex(t *testing.T) {
	exec := &fakeExec{}
	journal := &Journal{db: exec}

	if err := journal.RecordTransaction(context.Background(), models.TxRecord{Hash: "0x1", Kind: models.TxAttack}); err != nil {
		t.Fatal(err)
	}
	if exec.args[3].(sql.NullInt64).Valid {
		t.Error("attack should store NULL character index")
	}
}

func TestRecordDeploymentError(t *testing.T) {
	journal := &Journal{db: &fakeExec{err: errors.New("connection refused")}}

	err := journal.RecordDeployment(context.Background(), models.Deployment{Address: "0x1"})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestJournalWithoutDatabase(t *testing.T) {
	var journal *Journal
	if err := journal.RecordTransaction(context.Background(), models.TxRecord{}); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
	if _, err := NewJournal(nil).ListTransactions(context.Background(), 10); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
}

func TestScanTxRecord(t *testing.T) {
	now := time.Now()
	rec, err := scanTxRecord(fakeRow{"0xabc", "mint", "0xaa", int64(1), "reverted", int64(12), now})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != models.TxMint || rec.Status != models.TxReverted || rec.BlockNumber != 12 {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.CharacterIndex == nil || *rec.CharacterIndex != 1 {
		t.Errorf("character index = %v", rec.CharacterIndex)
	}

	rec, err = scanTxRecord(fakeRow{"0xdef", "attack", "0xaa", nil, "confirmed", int64(0), now})
	if err != nil {
		t.Fatal(err)
	}
	if rec.CharacterIndex != nil {
		t.Error("expected nil character index")
	}
}

func TestClampLimit(t *testing.T) {
	tests := map[int]int{0: MaxListLimit, -5: MaxListLimit, 20: 20, 1000: MaxListLimit}
	for in, want := range tests {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
