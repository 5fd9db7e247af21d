package deploy

import (
	"math/big"
)

// Params 合约构造参数
type Params struct {
	CharacterNames     []string
	CharacterImageURIs []string
	CharacterHp        []*big.Int
	CharacterAttackDmg []*big.Int

	BossName         string
	BossImageURI     string
	BossHp           *big.Int
	BossAttackDamage *big.Int
}

// DefaultParams 默认角色和Boss
func DefaultParams() Params {
	return Params{
		CharacterNames: []string{"ZORO", "NAMI", "USOPP"},
		CharacterImageURIs: []string{
			"https://i.imgur.com/TZEhCTX.png",
			"https://i.imgur.com/WVAaMPA.png",
			"https://i.imgur.com/pCMZeiM.png",
		},
		CharacterHp:        bigs(100, 200, 300),
		CharacterAttackDmg: bigs(100, 50, 25),

		BossName:         "CROCODILE",
		BossImageURI:     "https://i.imgur.com/BehawOh.png",
		BossHp:           big.NewInt(10000),
		BossAttackDamage: big.NewInt(50),
	}
}

// Validate 检查角色参数长度一致
func (p Params) Validate() error {
	n := len(p.CharacterNames)
	if n == 0 {
		return errEmptyRoster
	}
	if len(p.CharacterImageURIs) != n || len(p.CharacterHp) != n || len(p.CharacterAttackDmg) != n {
		return errRosterMismatch
	}
	return nil
}

func bigs(values ...int64) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = big.NewInt(v)
	}
	return out
}
