// character.go

package models

import (
	"errors"
	"fmt"
	"math/big"
)

// MaxSafeInteger 可无损转换的最大整数 (2^53-1)，超过后浏览器端 JSON 数值会丢失精度
const MaxSafeInteger = 1<<53 - 1

// ErrUnsafeInteger 链上整数超出安全范围
var ErrUnsafeInteger = errors.New("integer outside safe range")

var maxSafe = big.NewInt(MaxSafeInteger)

// RawCharacter 合约返回的原始角色元组，字段名需与 ABI 组件一致
type RawCharacter struct {
	CharacterIndex *big.Int
	Name           string
	ImageURI       string
	Hp             *big.Int
	MaxHp          *big.Int
	AttackDamage   *big.Int
}

// Character 用于展示的角色/Boss 记录
type Character struct {
	Index        int    `json:"characterIndex"`
	Name         string `json:"name"`
	ImageURI     string `json:"imageURI"`
	Hp           int    `json:"hp"`
	MaxHp        int    `json:"maxHp"`
	AttackDamage int    `json:"attackDamage"`
}

// TransformCharacterData 将原始元组转换为展示记录
func TransformCharacterData(raw RawCharacter) (Character, error) {
	index, err := narrowIndex(raw.CharacterIndex)
	if err != nil {
		return Character{}, err
	}
	hp, err := narrow("hp", raw.Hp)
	if err != nil {
		return Character{}, err
	}
	maxHp, err := narrow("maxHp", raw.MaxHp)
	if err != nil {
		return Character{}, err
	}
	attack, err := narrow("attackDamage", raw.AttackDamage)
	if err != nil {
		return Character{}, err
	}

	return Character{
		Index:        index,
		Name:         raw.Name,
		ImageURI:     raw.ImageURI,
		Hp:           hp,
		MaxHp:        maxHp,
		AttackDamage: attack,
	}, nil
}

// TransformCharacters 按顺序转换一组元组，遇到第一个非法元组即返回错误
func TransformCharacters(raws []RawCharacter) ([]Character, error) {
	characters := make([]Character, 0, len(raws))
	for i, raw := range raws {
		character, err := TransformCharacterData(raw)
		if err != nil {
			return nil, fmt.Errorf("角色 #%d: %w", i, err)
		}
		characters = append(characters, character)
	}
	return characters, nil
}

// Raw 将展示记录重新序列化为原始元组
func (c Character) Raw() RawCharacter {
	return RawCharacter{
		CharacterIndex: big.NewInt(int64(c.Index)),
		Name:           c.Name,
		ImageURI:       c.ImageURI,
		Hp:             big.NewInt(int64(c.Hp)),
		MaxHp:          big.NewInt(int64(c.MaxHp)),
		AttackDamage:   big.NewInt(int64(c.AttackDamage)),
	}
}

// IsDefeated Boss/角色 HP 是否已归零
func (c Character) IsDefeated() bool {
	return c.Hp <= 0
}

// narrowIndex 角色索引缺失时按 0 处理，Boss 元组通常不带索引
func narrowIndex(v *big.Int) (int, error) {
	if v == nil {
		return 0, nil
	}
	return narrow("characterIndex", v)
}

func narrow(field string, v *big.Int) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%s: nil: %w", field, ErrUnsafeInteger)
	}
	if v.Sign() < 0 || v.Cmp(maxSafe) > 0 {
		return 0, fmt.Errorf("%s: %s: %w", field, v.String(), ErrUnsafeInteger)
	}
	return int(v.Int64()), nil
}
