package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

var (
	// ErrNoWallet 没有可用的钱包（未配置私钥或未注入 Provider）
	ErrNoWallet = errors.New("ethereum wallet not found")
	// ErrNoContract 合约地址无效
	ErrNoContract = errors.New("invalid contract address")
	// ErrReverted 交易已上链但执行失败
	ErrReverted = errors.New("transaction reverted")
)

// Backend 合约调用与部署所需的链上后端，*ethclient.Client 满足该接口
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Provider 钱包能力：提供后端连接和签名
type Provider interface {
	Backend() Backend
	Signer(ctx context.Context) (*bind.TransactOpts, error)
}

// Transaction 已广播、等待确认的交易
type Transaction interface {
	Hash() common.Hash
	From() common.Address
	To() common.Address
	Wait(ctx context.Context) (*types.Receipt, error)
}

// GameContract 视图层使用的合约能力
type GameContract interface {
	GetAllDefaultCharacters(ctx context.Context) ([]models.RawCharacter, error)
	GetBigBoss(ctx context.Context) (models.RawCharacter, error)
	MintCharacterNFT(ctx context.Context, characterIndex int) (Transaction, error)
	AttackBoss(ctx context.Context) (Transaction, error)
}

// Contract 绑定到固定地址和 ABI 的合约句柄
type Contract struct {
	abi      abi.ABI
	address  common.Address
	contract *bind.BoundContract
	provider Provider
}

// NewClient 用给定钱包构造合约句柄
func NewClient(provider Provider, address common.Address) (*Contract, error) {
	if provider == nil {
		return nil, ErrNoWallet
	}
	if address == (common.Address{}) {
		return nil, ErrNoContract
	}

	parsed, err := EpicGameMetaData.GetAbi()
	if err != nil {
		return nil, fmt.Errorf("解析合约ABI失败: %w", err)
	}

	backend := provider.Backend()
	return &Contract{
		abi:      *parsed,
		address:  address,
		contract: bind.NewBoundContract(address, *parsed, backend, backend, backend),
		provider: provider,
	}, nil
}

// ResolveAddress 解析配置中的合约地址，为空时使用 DefaultContractAddress
func ResolveAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultContractAddress
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q: %w", s, ErrNoContract)
	}
	return common.HexToAddress(s), nil
}

// Address 合约地址
func (c *Contract) Address() common.Address {
	return c.address
}

// Close 释放钱包持有的连接
func (c *Contract) Close() error {
	if closer, ok := c.provider.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetAllDefaultCharacters 读取所有可铸造的默认角色
func (c *Contract) GetAllDefaultCharacters(ctx context.Context) ([]models.RawCharacter, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllDefaultCharacters"); err != nil {
		return nil, fmt.Errorf("getAllDefaultCharacters: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("getAllDefaultCharacters: 空返回值")
	}

	characters := *abi.ConvertType(out[0], new([]models.RawCharacter)).(*[]models.RawCharacter)
	return characters, nil
}

// GetBigBoss 读取当前 Boss
func (c *Contract) GetBigBoss(ctx context.Context) (models.RawCharacter, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBigBoss"); err != nil {
		return models.RawCharacter{}, fmt.Errorf("getBigBoss: %w", err)
	}
	if len(out) == 0 {
		return models.RawCharacter{}, fmt.Errorf("getBigBoss: 空返回值")
	}

	boss := *abi.ConvertType(out[0], new(models.RawCharacter)).(*models.RawCharacter)
	return boss, nil
}

// TokenURI 读取 NFT 的元数据 URI（ERC721）
func (c *Contract) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokenURI", tokenID); err != nil {
		return "", fmt.Errorf("tokenURI: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("tokenURI: 空返回值")
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// MintCharacterNFT 发起铸造交易
func (c *Contract) MintCharacterNFT(ctx context.Context, characterIndex int) (Transaction, error) {
	if characterIndex < 0 {
		return nil, fmt.Errorf("无效的角色索引: %d", characterIndex)
	}
	return c.transact(ctx, "mintCharacterNFT", big.NewInt(int64(characterIndex)))
}

// AttackBoss 发起攻击交易
func (c *Contract) AttackBoss(ctx context.Context) (Transaction, error) {
	return c.transact(ctx, "attackBoss")
}

func (c *Contract) transact(ctx context.Context, method string, params ...interface{}) (Transaction, error) {
	opts, err := c.provider.Signer(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: 获取签名失败: %w", method, err)
	}

	tx, err := c.contract.Transact(opts, method, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	return &pendingTx{tx: tx, from: opts.From, backend: c.provider.Backend()}, nil
}

// pendingTx 等待确认的交易
type pendingTx struct {
	tx      *types.Transaction
	from    common.Address
	backend bind.DeployBackend
}

// NewTransaction 包装已广播的交易
func NewTransaction(tx *types.Transaction, from common.Address, backend bind.DeployBackend) Transaction {
	return &pendingTx{tx: tx, from: from, backend: backend}
}

func (p *pendingTx) Hash() common.Hash {
	return p.tx.Hash()
}

func (p *pendingTx) From() common.Address {
	return p.from
}

// To 交易调用的合约地址，部署交易为零地址
func (p *pendingTx) To() common.Address {
	if to := p.tx.To(); to != nil {
		return *to
	}
	return common.Address{}
}

// Wait 等待交易被打包，回滚的交易返回 ErrReverted 和回执
func (p *pendingTx) Wait(ctx context.Context) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return nil, fmt.Errorf("等待交易 %s 确认失败: %w", p.tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("交易 %s: %w", p.tx.Hash().Hex(), ErrReverted)
	}
	return receipt, nil
}
