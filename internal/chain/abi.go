// Package chain 封装 MyEpicGame 合约的链上调用。
package chain

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// DefaultContractAddress 编译进程序的合约地址（本地 hardhat 节点首次部署的地址）
const DefaultContractAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// EpicGameABI MyEpicGame 合约的 ABI
const EpicGameABI = `[
	{
		"inputs": [
			{"internalType": "string[]",  "name": "characterNames",       "type": "string[]"},
			{"internalType": "string[]",  "name": "characterImageURIs",   "type": "string[]"},
			{"internalType": "uint256[]", "name": "characterHp",          "type": "uint256[]"},
			{"internalType": "uint256[]", "name": "characterAttackDmg",   "type": "uint256[]"},
			{"internalType": "string",    "name": "bossName",             "type": "string"},
			{"internalType": "string",    "name": "bossImageURI",         "type": "string"},
			{"internalType": "uint256",   "name": "bossHp",               "type": "uint256"},
			{"internalType": "uint256",   "name": "bossAttackDamage",     "type": "uint256"}
		],
		"stateMutability": "nonpayable",
		"type": "constructor"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "_characterIndex", "type": "uint256"}],
		"name": "mintCharacterNFT",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "attackBoss",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getAllDefaultCharacters",
		"outputs": [
			{
				"components": [
					{"internalType": "uint256", "name": "characterIndex", "type": "uint256"},
					{"internalType": "string",  "name": "name",           "type": "string"},
					{"internalType": "string",  "name": "imageURI",       "type": "string"},
					{"internalType": "uint256", "name": "hp",             "type": "uint256"},
					{"internalType": "uint256", "name": "maxHp",          "type": "uint256"},
					{"internalType": "uint256", "name": "attackDamage",   "type": "uint256"}
				],
				"internalType": "struct MyEpicGame.CharacterAttributes[]",
				"name": "",
				"type": "tuple[]"
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getBigBoss",
		"outputs": [
			{
				"components": [
					{"internalType": "uint256", "name": "characterIndex", "type": "uint256"},
					{"internalType": "string",  "name": "name",           "type": "string"},
					{"internalType": "string",  "name": "imageURI",       "type": "string"},
					{"internalType": "uint256", "name": "hp",             "type": "uint256"},
					{"internalType": "uint256", "name": "maxHp",          "type": "uint256"},
					{"internalType": "uint256", "name": "attackDamage",   "type": "uint256"}
				],
				"internalType": "struct MyEpicGame.CharacterAttributes",
				"name": "",
				"type": "tuple"
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "_tokenId", "type": "uint256"}],
		"name": "tokenURI",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": false, "internalType": "address", "name": "sender",         "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "tokenId",        "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "characterIndex", "type": "uint256"}
		],
		"name": "CharacterNFTMinted",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": false, "internalType": "address", "name": "sender",      "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "newBossHp",   "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "newPlayerHp", "type": "uint256"}
		],
		"name": "AttackComplete",
		"type": "event"
	}
]`

// EpicGameMetaData ABI 元数据，解析结果只计算一次
var EpicGameMetaData = &bind.MetaData{
	ABI: EpicGameABI,
}
