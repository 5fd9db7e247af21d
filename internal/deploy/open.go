package deploy

import (
	"context"
	"log"

	"github.com/jacl-coder/EpicGame-Server/config"
	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
	"github.com/jacl-coder/EpicGame-Server/pkg/db"
)

// Open 连接节点，启用数据库时同时打开流水；返回的 close 释放两者
func Open(ctx context.Context, cfg config.Config) (*Session, func(), error) {
	provider, err := chain.Dial(ctx, cfg.Chain)
	if err != nil {
		return nil, nil, err
	}

	session := &Session{
		Provider: provider,
		Network:  provider.ChainID().String(),
		Account:  provider.Account(),
	}
	closers := []func(){func() { provider.Close() }}

	if cfg.Database.Enabled {
		conn, err := db.OpenPostgres(cfg.Database)
		if err != nil {
			log.Printf("打开交易流水失败，继续运行: %v", err)
		} else {
			session.Journal = db.NewJournal(conn)
			closers = append(closers, func() { conn.Close() })
		}
	}

	return session, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

// Mint 铸造角色并等待确认
func (s *Session) Mint(ctx context.Context, contract chain.GameContract, index int) error {
	tx, err := contract.MintCharacterNFT(ctx, index)
	if err != nil {
		return err
	}
	_, err = s.Await(ctx, models.TxMint, tx, &index)
	return err
}

// Attack 攻击 Boss 并等待确认
func (s *Session) Attack(ctx context.Context, contract chain.GameContract) error {
	tx, err := contract.AttackBoss(ctx)
	if err != nil {
		return err
	}
	_, err = s.Await(ctx, models.TxAttack, tx, nil)
	return err
}
