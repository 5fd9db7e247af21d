package protocol

import (
	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// ConvertBoss 将 Boss 模型转换为协议消息
func ConvertBoss(boss models.Character) *BossInfo {
	return &BossInfo{
		Name:         boss.Name,
		ImageURI:     boss.ImageURI,
		Hp:           boss.Hp,
		MaxHp:        boss.MaxHp,
		AttackDamage: boss.AttackDamage,
		Defeated:     boss.IsDefeated(),
	}
}

// ConvertAttackOutcome 将攻击结果转换为协议消息
func ConvertAttackOutcome(outcome models.AttackOutcome) *AttackResultInfo {
	return &AttackResultInfo{
		TxHash:      outcome.TxHash,
		Attacker:    outcome.Attacker,
		NewBossHp:   outcome.NewBossHp,
		NewPlayerHp: outcome.NewPlayerHp,
	}
}

// ConvertError 将错误转换为协议消息
func ConvertError(err error) *ErrorInfo {
	return &ErrorInfo{Message: err.Error()}
}
