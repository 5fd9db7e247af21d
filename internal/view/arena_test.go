package view

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestArenaMountFetchesBossOnce(t *testing.T) {
	stub := &stubContract{boss: raw("CROCODILE", 10000, 10000, 50)}
	arena := NewArena(context.Background(), factoryOf(stub))
	defer arena.Close()

	waitDone(t, arena.Mount())
	waitDone(t, arena.Mount())

	boss, ok := arena.Boss()
	if !ok {
		t.Fatal("expected boss")
	}
	if boss.Name != "CROCODILE" || boss.Hp != 10000 || boss.MaxHp != 10000 || boss.AttackDamage != 50 {
		t.Errorf("unexpected boss %+v", boss)
	}
	if _, bossCalls, _ := stub.counts(); bossCalls != 1 {
		t.Errorf("expected one boss fetch, got %d", bossCalls)
	}
}

func TestArenaUnavailable(t *testing.T) {
	arena := NewArena(context.Background(), failingFactory)
	defer arena.Close()
	waitDone(t, arena.Mount())

	if _, ok := arena.Boss(); ok {
		t.Error("expected no boss")
	}
	if err := arena.Refresh(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Refresh: expected ErrUnavailable, got %v", err)
	}
	if _, err := arena.Attack(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Attack: expected ErrUnavailable, got %v", err)
	}
}

func TestArenaAttackRefreshesBoss(t *testing.T) {
	sender := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	stub := &stubContract{boss: raw("CROCODILE", 10000, 10000, 50)}
	stub.tx = &stubTx{
		hash: common.HexToHash("0xbeef"),
		from: sender,
		receipt: &types.Receipt{
			Status: types.ReceiptStatusSuccessful,
			Logs:   []*types.Log{eventLog(t, "AttackComplete", sender, big.NewInt(9700), big.NewInt(250))},
		},
	}
	stub.afterTx = func() { stub.setBoss(raw("CROCODILE", 9700, 10000, 50)) }

	arena := NewArena(context.Background(), factoryOf(stub))
	defer arena.Close()
	waitDone(t, arena.Mount())

	result, err := arena.Attack(context.Background())
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if result.Outcome == nil || result.Outcome.NewBossHp != 9700 || result.Outcome.NewPlayerHp != 250 {
		t.Errorf("unexpected outcome %+v", result.Outcome)
	}
	if result.Outcome.Attacker != sender.Hex() {
		t.Errorf("unexpected attacker %s", result.Outcome.Attacker)
	}

	boss, _ := arena.Boss()
	if boss.Hp != 9700 {
		t.Errorf("expected refreshed hp 9700, got %d", boss.Hp)
	}
	if _, bossCalls, attacks := stub.counts(); bossCalls != 2 || attacks != 1 {
		t.Errorf("expected 2 boss fetches and 1 attack, got %d/%d", bossCalls, attacks)
	}
}

func TestArenaAttackFailureKeepsBoss(t *testing.T) {
	stub := &stubContract{boss: raw("CROCODILE", 10000, 10000, 50), txErr: errBoom}
	arena := NewArena(context.Background(), factoryOf(stub))
	defer arena.Close()
	waitDone(t, arena.Mount())

	if _, err := arena.Attack(context.Background()); !errors.Is(err, errBoom) {
		t.Errorf("expected errBoom, got %v", err)
	}
	boss, ok := arena.Boss()
	if !ok || boss.Hp != 10000 {
		t.Errorf("boss changed after failed attack: %+v", boss)
	}
	if _, bossCalls, _ := stub.counts(); bossCalls != 1 {
		t.Errorf("failed attack must not refetch, got %d", bossCalls)
	}
}

func TestArenaRefreshErrorKeepsBoss(t *testing.T) {
	stub := &stubContract{boss: raw("CROCODILE", 10000, 10000, 50)}
	arena := NewArena(context.Background(), factoryOf(stub))
	defer arena.Close()
	waitDone(t, arena.Mount())

	huge := raw("CROCODILE", 1, 1, 1)
	huge.Hp = new(big.Int).Lsh(big.NewInt(1), 255)
	stub.setBoss(huge)

	if err := arena.Refresh(context.Background()); err == nil {
		t.Error("expected unsafe integer error")
	}
	if boss, _ := arena.Boss(); boss.Hp != 10000 {
		t.Errorf("boss changed after failed refresh: %+v", boss)
	}
}

func TestArenaCloseBeforeFetch(t *testing.T) {
	stub := &stubContract{boss: raw("CROCODILE", 10000, 10000, 50), gate: make(chan struct{})}
	arena := NewArena(context.Background(), factoryOf(stub))

	done := arena.Mount()
	arena.Close()
	close(stub.gate)
	waitDone(t, done)

	if _, ok := arena.Boss(); ok {
		t.Error("result arrived after close must be discarded")
	}
}

func TestArenaRefreshAfterClose(t *testing.T) {
	stub := &stubContract{boss: raw("CROCODILE", 10000, 10000, 50)}
	arena := NewArena(context.Background(), factoryOf(stub))
	waitDone(t, arena.Mount())

	stub.gate = make(chan struct{})
	stub.setBoss(raw("CROCODILE", 9000, 10000, 50))

	errc := make(chan error, 1)
	go func() { errc <- arena.Refresh(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, bossCalls, _ := stub.counts(); bossCalls == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("refresh did not reach the contract")
		}
		time.Sleep(time.Millisecond)
	}

	arena.Close()
	close(stub.gate)

	select {
	case err := <-errc:
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not return")
	}
	if boss, _ := arena.Boss(); boss.Hp != 10000 {
		t.Errorf("boss changed after close: %+v", boss)
	}
}

func TestSafeInt(t *testing.T) {
	if got := safeInt(big.NewInt(42)); got != 42 {
		t.Errorf("safeInt(42) = %d", got)
	}
	if got := safeInt(new(big.Int).Lsh(big.NewInt(1), 53)); got != -1 {
		t.Errorf("safeInt(2^53) = %d", got)
	}
	if got := safeInt(nil); got != -1 {
		t.Errorf("safeInt(nil) = %d", got)
	}
}
