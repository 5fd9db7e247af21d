package view

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

func defaultRoster() []models.RawCharacter {
	return indexed(
		raw("ZORO", 100, 100, 100),
		raw("NAMI", 200, 200, 50),
		raw("USOPP", 300, 300, 25),
	)
}

func TestRosterEntriesInContractOrder(t *testing.T) {
	stub := &stubContract{characters: defaultRoster()}
	roster := NewRoster(context.Background(), factoryOf(stub))
	defer roster.Close()

	waitDone(t, roster.Mount())

	entries := roster.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, name := range []string{"ZORO", "NAMI", "USOPP"} {
		if entries[i].Index != i || entries[i].Name != name {
			t.Errorf("entry %d = %+v", i, entries[i])
		}
		if entries[i].MintLabel != "Mint "+name {
			t.Errorf("entry %d label = %q", i, entries[i].MintLabel)
		}
	}
	if list, _, _ := stub.counts(); list != 1 {
		t.Errorf("expected one fetch, got %d", list)
	}
}

func TestRosterMountOnce(t *testing.T) {
	stub := &stubContract{characters: defaultRoster()}
	roster := NewRoster(context.Background(), factoryOf(stub))
	defer roster.Close()

	waitDone(t, roster.Mount())
	waitDone(t, roster.Mount())

	if list, _, _ := stub.counts(); list != 1 {
		t.Errorf("expected one fetch, got %d", list)
	}
}

func TestRosterUnavailable(t *testing.T) {
	roster := NewRoster(context.Background(), failingFactory)
	defer roster.Close()

	waitDone(t, roster.Mount())

	if roster.Ready() {
		t.Error("roster should not be ready")
	}
	if len(roster.Entries()) != 0 {
		t.Error("expected no entries")
	}
	if _, err := roster.Mint(context.Background(), 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRosterFetchError(t *testing.T) {
	stub := &stubContract{readErr: errBoom}
	roster := NewRoster(context.Background(), factoryOf(stub))
	defer roster.Close()

	waitDone(t, roster.Mount())

	if !roster.Ready() {
		t.Error("client should still be usable after a read error")
	}
	if len(roster.Entries()) != 0 {
		t.Error("expected no entries")
	}
}

func TestRosterRejectsUnsafeCharacter(t *testing.T) {
	bad := raw("HUGE", 1, 1, 1)
	bad.Hp = new(big.Int).Lsh(big.NewInt(1), 60)
	stub := &stubContract{characters: indexed(raw("ZORO", 100, 100, 100), bad)}
	roster := NewRoster(context.Background(), factoryOf(stub))
	defer roster.Close()

	waitDone(t, roster.Mount())

	if len(roster.Entries()) != 0 {
		t.Error("unsafe data must not reach the view")
	}
}

func TestRosterMintIgnoresForeignEvent(t *testing.T) {
	sender := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	foreign := eventLog(t, "CharacterNFTMinted", sender, big.NewInt(7), big.NewInt(2))
	foreign.Address = common.HexToAddress("0x00000000000000000000000000000000000000ff")
	stub := &stubContract{
		characters: defaultRoster(),
		tx: &stubTx{
			hash:    common.HexToHash("0xabc"),
			from:    sender,
			receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, Logs: []*types.Log{foreign}},
		},
	}
	roster := NewRoster(context.Background(), factoryOf(stub))
	defer roster.Close()
	waitDone(t, roster.Mount())

	result, err := roster.Mint(context.Background(), 2)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if result.Minted != nil {
		t.Errorf("event from another contract must be ignored, got %+v", result.Minted)
	}
}

func TestRosterMint(t *testing.T) {
	sender := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	hash := common.HexToHash("0xabc")
	stub := &stubContract{
		characters: defaultRoster(),
		tx: &stubTx{
			hash: hash,
			from: sender,
			receipt: &types.Receipt{
				Status: types.ReceiptStatusSuccessful,
				Logs:   []*types.Log{eventLog(t, "CharacterNFTMinted", sender, big.NewInt(1), big.NewInt(2))},
			},
		},
	}
	roster := NewRoster(context.Background(), factoryOf(stub))
	defer roster.Close()
	waitDone(t, roster.Mount())
	before := roster.Entries()

	result, err := roster.Mint(context.Background(), 2)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if result.TxHash != hash || result.From != sender {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Minted == nil || result.Minted.TokenID != 1 || result.Minted.CharacterIndex != 2 {
		t.Errorf("unexpected minted %+v", result.Minted)
	}
	if result.Minted.Owner != sender.Hex() || result.Minted.TxHash != hash.Hex() {
		t.Errorf("unexpected minted owner/hash %+v", result.Minted)
	}
	if len(stub.mintIndexes) != 1 || stub.mintIndexes[0] != 2 {
		t.Errorf("expected one mint with index 2, got %v", stub.mintIndexes)
	}

	after := roster.Entries()
	if fmt.Sprint(before) != fmt.Sprint(after) {
		t.Errorf("mint must not change the roster: %v -> %v", before, after)
	}
	if list, _, _ := stub.counts(); list != 1 {
		t.Errorf("mint must not refetch, got %d fetches", list)
	}
}

func TestRosterMintFailures(t *testing.T) {
	reverted := &stubTx{
		hash:    common.HexToHash("0xdead"),
		receipt: &types.Receipt{Status: types.ReceiptStatusFailed},
		err:     fmt.Errorf("%w: 0xdead", chain.ErrReverted),
	}

	tests := []struct {
		name    string
		tx      *stubTx
		txErr   error
		wantErr error
	}{
		{name: "submit error", txErr: errBoom, wantErr: errBoom},
		{name: "reverted", tx: reverted, wantErr: chain.ErrReverted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubContract{characters: defaultRoster(), tx: tt.tx, txErr: tt.txErr}
			roster := NewRoster(context.Background(), factoryOf(stub))
			defer roster.Close()
			waitDone(t, roster.Mount())

			_, err := roster.Mint(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(roster.Entries()) != 3 {
				t.Error("roster changed after failed mint")
			}
			if len(stub.mintIndexes) != 1 {
				t.Errorf("expected exactly one mint call, got %d", len(stub.mintIndexes))
			}
		})
	}
}

func TestRosterCloseBeforeFetch(t *testing.T) {
	stub := &stubContract{characters: defaultRoster(), gate: make(chan struct{})}
	roster := NewRoster(context.Background(), factoryOf(stub))

	done := roster.Mount()
	roster.Close()
	close(stub.gate)
	waitDone(t, done)

	if len(roster.Entries()) != 0 {
		t.Error("result arrived after close must be discarded")
	}
	if roster.Ready() {
		t.Error("closed roster should not be ready")
	}
}

func TestRosterParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubContract{characters: defaultRoster()}
	roster := NewRoster(ctx, factoryOf(stub))
	waitDone(t, roster.Mount())

	if len(roster.Entries()) != 0 {
		t.Error("cancelled parent must discard results")
	}
	if !stub.isClosed() {
		t.Error("client built after unmount should be closed")
	}
}
