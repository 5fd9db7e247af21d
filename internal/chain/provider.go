package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/jacl-coder/EpicGame-Server/config"
)

// KeyedProvider 基于 JSON-RPC 节点和本地私钥的钱包
type KeyedProvider struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	account common.Address
	chainID *big.Int
}

// Dial 连接节点并加载私钥，未配置私钥时返回 ErrNoWallet
func Dial(ctx context.Context, cfg config.ChainConfig) (*KeyedProvider, error) {
	hexKey := strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x")
	if hexKey == "" {
		return nil, ErrNoWallet
	}

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("无效的私钥: %w", err)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("连接节点 %s 失败: %w", cfg.RPCURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("获取链ID失败: %w", err)
	}

	return &KeyedProvider{
		client:  client,
		key:     key,
		account: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}, nil
}

// Backend 节点连接
func (p *KeyedProvider) Backend() Backend {
	return p.client
}

// Signer 返回绑定 ctx 的交易签名参数
func (p *KeyedProvider) Signer(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(p.key, p.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// Account 钱包地址
func (p *KeyedProvider) Account() common.Address {
	return p.account
}

// ChainID 链ID
func (p *KeyedProvider) ChainID() *big.Int {
	return new(big.Int).Set(p.chainID)
}

// Close 关闭节点连接
func (p *KeyedProvider) Close() error {
	p.client.Close()
	return nil
}

// Factory 构造合约句柄，每次调用只尝试一次，不重试
type Factory func(ctx context.Context) (GameContract, error)

// NewFactory 根据配置创建合约句柄工厂
func NewFactory(cfg config.ChainConfig) Factory {
	return func(ctx context.Context) (GameContract, error) {
		address, err := ResolveAddress(cfg.ContractAddress)
		if err != nil {
			return nil, err
		}

		provider, err := Dial(ctx, cfg)
		if err != nil {
			return nil, err
		}

		contract, err := NewClient(provider, address)
		if err != nil {
			provider.Close()
			return nil, err
		}
		return contract, nil
	}
}
