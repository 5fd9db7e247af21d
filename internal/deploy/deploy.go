package deploy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// Deploy 部署合约并等待确认，返回绑定到新地址的合约句柄
func Deploy(ctx context.Context, provider chain.Provider, artifact *Artifact, params Params) (*chain.Contract, *types.Transaction, error) {
	args, err := ConstructorArgs(artifact.Parsed(), params)
	if err != nil {
		return nil, nil, err
	}

	opts, err := provider.Signer(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("获取签名失败: %w", err)
	}

	backend := provider.Backend()
	_, tx, _, err := bind.DeployContract(opts, artifact.Parsed(), artifact.Code(), backend, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("部署合约失败: %w", err)
	}

	address, err := bind.WaitDeployed(ctx, backend, tx)
	if err != nil {
		return nil, tx, fmt.Errorf("等待部署确认失败: %w", err)
	}
	log.Println("Contract deployed to:", address.Hex())

	contract, err := chain.NewClient(provider, address)
	if err != nil {
		return nil, tx, err
	}
	return contract, tx, nil
}

// Journal 交易流水记录
type Journal interface {
	RecordDeployment(ctx context.Context, d models.Deployment) error
	RecordTransaction(ctx context.Context, rec models.TxRecord) error
}

// Session 一次脚本运行：部署、等待交易，并在配置了数据库时记流水
type Session struct {
	Provider chain.Provider
	Journal  Journal
	Network  string
	Account  common.Address
}

// Deploy 部署合约并记录部署流水
func (s *Session) Deploy(ctx context.Context, artifact *Artifact, params Params) (*chain.Contract, error) {
	contract, tx, err := Deploy(ctx, s.Provider, artifact, params)
	if tx != nil {
		status := models.TxConfirmed
		if err != nil {
			status = models.TxFailed
		}
		s.record(ctx, models.TxRecord{
			Hash:      tx.Hash().Hex(),
			Kind:      models.TxDeploy,
			Account:   s.Account.Hex(),
			Status:    status,
			CreatedAt: time.Now(),
		})
	}
	if err != nil {
		return nil, err
	}

	if s.Journal != nil {
		d := models.Deployment{
			Address:   contract.Address().Hex(),
			TxHash:    tx.Hash().Hex(),
			Network:   s.Network,
			Deployer:  s.Account.Hex(),
			CreatedAt: time.Now(),
		}
		if err := s.Journal.RecordDeployment(ctx, d); err != nil {
			log.Printf("记录部署失败: %v", err)
		}
	}
	return contract, nil
}

// Await 等待交易确认并记录流水；characterIndex 仅铸造交易需要
func (s *Session) Await(ctx context.Context, kind models.TxKind, tx chain.Transaction, characterIndex *int) (*types.Receipt, error) {
	receipt, err := tx.Wait(ctx)

	rec := models.TxRecord{
		Hash:           tx.Hash().Hex(),
		Kind:           kind,
		Account:        tx.From().Hex(),
		CharacterIndex: characterIndex,
		Status:         txStatus(err),
		CreatedAt:      time.Now(),
	}
	if receipt != nil && receipt.BlockNumber != nil {
		rec.BlockNumber = receipt.BlockNumber.Uint64()
	}
	s.record(ctx, rec)

	return receipt, err
}

func (s *Session) record(ctx context.Context, rec models.TxRecord) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.RecordTransaction(ctx, rec); err != nil {
		log.Printf("记录交易 %s 失败: %v", rec.Hash, err)
	}
}

func txStatus(err error) models.TxStatus {
	switch {
	case err == nil:
		return models.TxConfirmed
	case errors.Is(err, chain.ErrReverted):
		return models.TxReverted
	default:
		return models.TxFailed
	}
}
