// schema.go

package db

// 交易流水表结构定义

// CreateAllTablesSQL 创建所有表的SQL语句
const CreateAllTablesSQL = `
-- 合约部署记录表
CREATE TABLE IF NOT EXISTS deployments (
    id SERIAL PRIMARY KEY,
    address VARCHAR(42) NOT NULL,
    tx_hash VARCHAR(66) UNIQUE NOT NULL,
    network VARCHAR(32) NOT NULL,
    deployer VARCHAR(42) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 链上交易流水表
CREATE TABLE IF NOT EXISTS chain_transactions (
    id SERIAL PRIMARY KEY,
    tx_hash VARCHAR(66) UNIQUE NOT NULL,
    kind VARCHAR(16) NOT NULL, -- deploy, mint, attack
    account VARCHAR(42) NOT NULL,
    character_index INT, -- 仅铸造交易
    status VARCHAR(16) NOT NULL, -- confirmed, reverted, failed
    block_number BIGINT DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 创建索引以提高查询性能
CREATE INDEX IF NOT EXISTS idx_deployments_network ON deployments(network);
CREATE INDEX IF NOT EXISTS idx_chain_transactions_account ON chain_transactions(account);
CREATE INDEX IF NOT EXISTS idx_chain_transactions_kind ON chain_transactions(kind);
CREATE INDEX IF NOT EXISTS idx_chain_transactions_created_at ON chain_transactions(created_at);
`

// DropAllTablesSQL 删除所有表
const DropAllTablesSQL = `
DROP TABLE IF EXISTS chain_transactions CASCADE;
DROP TABLE IF EXISTS deployments CASCADE;
`

// InitAllTables 初始化所有数据库表
func InitAllTables() error {
	_, err := DB.Exec(CreateAllTablesSQL)
	if err != nil {
		return err
	}
	return nil
}

// DropAllTables 删除所有表和数据
func DropAllTables() error {
	_, err := DB.Exec(DropAllTablesSQL)
	return err
}
