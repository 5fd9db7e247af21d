// Package deploy 合约部署与一次性交互脚本的公共部分。
package deploy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	errEmptyRoster    = errors.New("角色列表为空")
	errRosterMismatch = errors.New("角色参数长度不一致")
	// ErrConstructorArity 构造函数参数个数既不是 4 也不是 8
	ErrConstructorArity = errors.New("unsupported constructor arity")
)

// Artifact Hardhat 编译产物
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`

	parsed abi.ABI
	code   []byte
}

// LoadArtifact 读取编译产物
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取编译产物失败: %w", err)
	}
	return ParseArtifact(data)
}

// ParseArtifact 解析编译产物 JSON
func ParseArtifact(data []byte) (*Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("解析编译产物失败: %w", err)
	}
	if len(artifact.ABI) == 0 {
		return nil, errors.New("编译产物缺少 abi")
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("解析 abi 失败: %w", err)
	}
	artifact.parsed = parsed

	artifact.code = common.FromHex(artifact.Bytecode)
	if len(artifact.code) == 0 {
		return nil, errors.New("编译产物缺少 bytecode")
	}
	return &artifact, nil
}

// Parsed 已解析的 ABI
func (a *Artifact) Parsed() abi.ABI {
	return a.parsed
}

// Code 部署字节码
func (a *Artifact) Code() []byte {
	return a.code
}

// ConstructorArgs 按合约实际的构造函数签名选择参数：8 个参数时带上Boss，4 个时不带
func ConstructorArgs(parsed abi.ABI, p Params) ([]interface{}, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	args := []interface{}{p.CharacterNames, p.CharacterImageURIs, p.CharacterHp, p.CharacterAttackDmg}
	switch n := len(parsed.Constructor.Inputs); n {
	case 4:
		return args, nil
	case 8:
		return append(args, p.BossName, p.BossImageURI, p.BossHp, p.BossAttackDamage), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrConstructorArity, n)
	}
}
