package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MintedEvent CharacterNFTMinted 事件
type MintedEvent struct {
	Sender         common.Address
	TokenId        *big.Int
	CharacterIndex *big.Int
}

// AttackEvent AttackComplete 事件
type AttackEvent struct {
	Sender      common.Address
	NewBossHp   *big.Int
	NewPlayerHp *big.Int
}

// ParseMinted 从回执中解析 contract 发出的 CharacterNFTMinted 事件，没有该事件时返回 false
func ParseMinted(receipt *types.Receipt, contract common.Address) (*MintedEvent, bool, error) {
	ev := new(MintedEvent)
	ok, err := unpackEvent(receipt, contract, "CharacterNFTMinted", ev)
	if err != nil || !ok {
		return nil, ok, err
	}
	return ev, true, nil
}

// ParseAttack 从回执中解析 contract 发出的 AttackComplete 事件，没有该事件时返回 false
func ParseAttack(receipt *types.Receipt, contract common.Address) (*AttackEvent, bool, error) {
	ev := new(AttackEvent)
	ok, err := unpackEvent(receipt, contract, "AttackComplete", ev)
	if err != nil || !ok {
		return nil, ok, err
	}
	return ev, true, nil
}

func unpackEvent(receipt *types.Receipt, contract common.Address, name string, out interface{}) (bool, error) {
	if receipt == nil {
		return false, nil
	}

	parsed, err := EpicGameMetaData.GetAbi()
	if err != nil {
		return false, err
	}
	event, ok := parsed.Events[name]
	if !ok {
		return false, fmt.Errorf("ABI中没有事件 %s", name)
	}

	for _, l := range receipt.Logs {
		if l == nil || l.Address != contract || len(l.Topics) == 0 || l.Topics[0] != event.ID {
			continue
		}
		if err := parsed.UnpackIntoInterface(out, name, l.Data); err != nil {
			return false, fmt.Errorf("解析事件 %s 失败: %w", name, err)
		}
		return true, nil
	}
	return false, nil
}
