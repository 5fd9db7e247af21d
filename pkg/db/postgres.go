package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/jacl-coder/EpicGame-Server/config"
)

var (
	// DB 全局数据库连接实例
	DB *sql.DB
)

// OpenPostgres 按配置打开并验证一个PostgreSQL连接
func OpenPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 测试连接
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("数据库Ping失败: %w", err)
	}
	return conn, nil
}

// InitPostgres 初始化PostgreSQL连接，未启用数据库时不做任何事
func InitPostgres() error {
	cfg := config.GlobalConfig.Database
	if !cfg.Enabled {
		log.Println("未启用PostgreSQL，跳过交易流水")
		return nil
	}

	conn, err := OpenPostgres(cfg)
	if err != nil {
		return err
	}
	DB = conn

	log.Println("成功连接到PostgreSQL数据库")
	return nil
}

// Close 关闭数据库连接
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
		log.Println("数据库连接已关闭")
	}
}
