package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// ErrNoDatabase 未启用数据库
var ErrNoDatabase = errors.New("database not enabled")

const (
	insertDeploymentSQL = `
INSERT INTO deployments (address, tx_hash, network, deployer, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (tx_hash) DO NOTHING`

	insertTransactionSQL = `
INSERT INTO chain_transactions (tx_hash, kind, account, character_index, status, block_number, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (tx_hash) DO UPDATE SET status = EXCLUDED.status, block_number = EXCLUDED.block_number`

	listTransactionsSQL = `
SELECT tx_hash, kind, account, character_index, status, block_number, created_at
FROM chain_transactions
ORDER BY created_at DESC, id DESC
LIMIT $1`

	latestDeploymentSQL = `
SELECT address, tx_hash, network, deployer, created_at
FROM deployments
WHERE network = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`

	// MaxListLimit 单次查询的最大条数
	MaxListLimit = 100
)

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Journal 部署和交易流水
type Journal struct {
	db execQuerier
}

// NewJournal 基于数据库连接创建流水记录器
func NewJournal(conn *sql.DB) *Journal {
	if conn == nil {
		return &Journal{}
	}
	return &Journal{db: conn}
}

// RecordDeployment 记录一次合约部署
func (j *Journal) RecordDeployment(ctx context.Context, d models.Deployment) error {
	if j == nil || j.db == nil {
		return ErrNoDatabase
	}

	_, err := j.db.ExecContext(ctx, insertDeploymentSQL,
		d.Address, d.TxHash, d.Network, d.Deployer, createdAt(d.CreatedAt))
	if err != nil {
		return fmt.Errorf("写入部署记录失败: %w", err)
	}
	return nil
}

// RecordTransaction 记录一笔交易，同一交易重复记录时更新状态
func (j *Journal) RecordTransaction(ctx context.Context, rec models.TxRecord) error {
	if j == nil || j.db == nil {
		return ErrNoDatabase
	}

	var index sql.NullInt64
	if rec.CharacterIndex != nil {
		index = sql.NullInt64{Int64: int64(*rec.CharacterIndex), Valid: true}
	}

	_, err := j.db.ExecContext(ctx, insertTransactionSQL,
		rec.Hash, string(rec.Kind), strings.ToLower(rec.Account), index,
		string(rec.Status), int64(rec.BlockNumber), createdAt(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("写入交易记录失败: %w", err)
	}
	return nil
}

// ListTransactions 最近的交易流水，新的在前
func (j *Journal) ListTransactions(ctx context.Context, limit int) ([]models.TxRecord, error) {
	if j == nil || j.db == nil {
		return nil, ErrNoDatabase
	}

	rows, err := j.db.QueryContext(ctx, listTransactionsSQL, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("查询交易记录失败: %w", err)
	}
	defer rows.Close()

	records := make([]models.TxRecord, 0)
	for rows.Next() {
		rec, err := scanTxRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LatestDeployment 某个网络上最近一次部署
func (j *Journal) LatestDeployment(ctx context.Context, network string) (*models.Deployment, error) {
	if j == nil || j.db == nil {
		return nil, ErrNoDatabase
	}

	var d models.Deployment
	err := j.db.QueryRowContext(ctx, latestDeploymentSQL, network).
		Scan(&d.Address, &d.TxHash, &d.Network, &d.Deployer, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询部署记录失败: %w", err)
	}
	return &d, nil
}

func scanTxRecord(row rowScanner) (models.TxRecord, error) {
	var (
		rec         models.TxRecord
		kind        string
		status      string
		index       sql.NullInt64
		blockNumber int64
	)
	if err := row.Scan(&rec.Hash, &kind, &rec.Account, &index, &status, &blockNumber, &rec.CreatedAt); err != nil {
		return models.TxRecord{}, fmt.Errorf("读取交易记录失败: %w", err)
	}

	rec.Kind = models.TxKind(kind)
	rec.Status = models.TxStatus(status)
	if blockNumber > 0 {
		rec.BlockNumber = uint64(blockNumber)
	}
	if index.Valid {
		i := int(index.Int64)
		rec.CharacterIndex = &i
	}
	return rec, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
