package view

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

var errBoom = errors.New("boom")

var contractAddress = common.HexToAddress("0x00000000000000000000000000000000000000ec")

type stubTx struct {
	hash    common.Hash
	from    common.Address
	receipt *types.Receipt
	err     error
}

func (t *stubTx) Hash() common.Hash    { return t.hash }
func (t *stubTx) From() common.Address { return t.from }
func (t *stubTx) To() common.Address   { return contractAddress }
func (t *stubTx) Wait(ctx context.Context) (*types.Receipt, error) {
	return t.receipt, t.err
}

type stubContract struct {
	mu sync.Mutex

	characters []models.RawCharacter
	boss       models.RawCharacter
	readErr    error
	gate       chan struct{}

	tx      *stubTx
	txErr   error
	afterTx func()

	listCalls   int
	bossCalls   int
	mintIndexes []int
	attackCalls int
	closed      bool
}

func (s *stubContract) wait(ctx context.Context) error {
	if s.gate == nil {
		return nil
	}
	select {
	case <-s.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubContract) GetAllDefaultCharacters(ctx context.Context) ([]models.RawCharacter, error) {
	s.mu.Lock()
	s.listCalls++
	s.mu.Unlock()
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.characters, s.readErr
}

func (s *stubContract) GetBigBoss(ctx context.Context) (models.RawCharacter, error) {
	s.mu.Lock()
	s.bossCalls++
	boss := s.boss
	s.mu.Unlock()
	if err := s.wait(ctx); err != nil {
		return models.RawCharacter{}, err
	}
	return boss, s.readErr
}

func (s *stubContract) MintCharacterNFT(ctx context.Context, characterIndex int) (chain.Transaction, error) {
	s.mu.Lock()
	s.mintIndexes = append(s.mintIndexes, characterIndex)
	s.mu.Unlock()
	if s.txErr != nil {
		return nil, s.txErr
	}
	return s.tx, nil
}

func (s *stubContract) AttackBoss(ctx context.Context) (chain.Transaction, error) {
	s.mu.Lock()
	s.attackCalls++
	s.mu.Unlock()
	if s.txErr != nil {
		return nil, s.txErr
	}
	if s.afterTx != nil {
		s.afterTx()
	}
	return s.tx, nil
}

func (s *stubContract) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubContract) setBoss(raw models.RawCharacter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boss = raw
}

func (s *stubContract) counts() (list, boss, attack int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls, s.bossCalls, s.attackCalls
}

func (s *stubContract) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func factoryOf(c chain.GameContract) chain.Factory {
	return func(ctx context.Context) (chain.GameContract, error) { return c, nil }
}

func failingFactory(ctx context.Context) (chain.GameContract, error) {
	return nil, chain.ErrNoWallet
}

func raw(name string, hp, maxHp, attack int64) models.RawCharacter {
	return models.RawCharacter{
		CharacterIndex: big.NewInt(0),
		Name:           name,
		ImageURI:       "https://i.imgur.com/" + name + ".png",
		Hp:             big.NewInt(hp),
		MaxHp:          big.NewInt(maxHp),
		AttackDamage:   big.NewInt(attack),
	}
}

// indexed 按位置补上 characterIndex，和合约返回的元组一致
func indexed(raws ...models.RawCharacter) []models.RawCharacter {
	for i := range raws {
		raws[i].CharacterIndex = big.NewInt(int64(i))
	}
	return raws
}

func eventLog(t *testing.T, name string, values ...interface{}) *types.Log {
	t.Helper()
	parsed, err := chain.EpicGameMetaData.GetAbi()
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	event := parsed.Events[name]
	data, err := event.Inputs.NonIndexed().Pack(values...)
	if err != nil {
		t.Fatalf("pack %s: %v", name, err)
	}
	return &types.Log{Address: contractAddress, Topics: []common.Hash{event.ID}, Data: data}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("view did not finish mounting")
	}
}
