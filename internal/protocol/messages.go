// Package protocol 竞技场推送服务的 JSON 消息。
package protocol

import (
	"encoding/json"
	"fmt"
)

// 消息类型
const (
	TypeBoss         = "boss"
	TypeAttack       = "attack"
	TypeAttackResult = "attack_result"
	TypeBossChanged  = "boss_changed"
	TypeError        = "error"
)

// Message 消息结构
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// BossInfo Boss 快照
type BossInfo struct {
	Name         string `json:"name"`
	ImageURI     string `json:"imageURI"`
	Hp           int    `json:"hp"`
	MaxHp        int    `json:"maxHp"`
	AttackDamage int    `json:"attackDamage"`
	Defeated     bool   `json:"defeated"`
}

// AttackResultInfo 攻击确认结果，只发给发起者
type AttackResultInfo struct {
	TxHash      string `json:"txHash"`
	Attacker    string `json:"attacker"`
	NewBossHp   int    `json:"newBossHp"`
	NewPlayerHp int    `json:"newPlayerHp"`
}

// BossChangedInfo Boss 状态已在链上改变
type BossChangedInfo struct {
	TxHash string `json:"txHash"`
}

// ErrorInfo 错误消息
type ErrorInfo struct {
	Message string `json:"message"`
}

// Encode 序列化一条消息
func Encode(msgType string, payload interface{}) ([]byte, error) {
	msg := Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("序列化 %s 失败: %w", msgType, err)
		}
		msg.Payload = data
	}
	return json.Marshal(msg)
}

// Decode 解析一条消息
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("解析消息失败: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("消息缺少 type")
	}
	return msg, nil
}
