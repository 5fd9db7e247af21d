package models

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

// RedisRegistry Redis 铸造登记与攻击排行榜
type RedisRegistry struct {
	client redis.Cmdable
}

// NewRedisRegistry 创建 Redis 登记管理器
func NewRedisRegistry(client redis.Cmdable) *RedisRegistry {
	return &RedisRegistry{client: client}
}

// Redis键名
const (
	LeaderboardAttacksKey = "leaderboard:attacks"

	// 玩家NFT键前缀，后接小写钱包地址
	OwnerNFTPrefix = "nft:owner:"
)

// RecordMint 记录一次已确认的铸造
func (rr *RedisRegistry) RecordMint(ctx context.Context, nft MintedNFT) error {
	data, err := json.Marshal(nft)
	if err != nil {
		return err
	}

	field := strconv.FormatUint(nft.TokenID, 10)
	return rr.client.HSet(ctx, ownerKey(nft.Owner), field, data).Err()
}

// MintedBy 获取某个钱包铸造的全部NFT，按 tokenId 升序
func (rr *RedisRegistry) MintedBy(ctx context.Context, owner string) ([]MintedNFT, error) {
	values, err := rr.client.HGetAll(ctx, ownerKey(owner)).Result()
	if err != nil {
		return nil, err
	}

	nfts := make([]MintedNFT, 0, len(values))
	for field, value := range values {
		var nft MintedNFT
		if err := json.Unmarshal([]byte(value), &nft); err != nil {
			return nil, fmt.Errorf("解析NFT记录 %s 失败: %w", field, err)
		}
		nfts = append(nfts, nft)
	}

	sort.Slice(nfts, func(i, j int) bool {
		return nfts[i].TokenID < nfts[j].TokenID
	})
	return nfts, nil
}

// RecordAttack 攻击者计数加一，排行榜是计数的唯一来源，不设过期
func (rr *RedisRegistry) RecordAttack(ctx context.Context, attacker string) error {
	return rr.client.ZIncrBy(ctx, LeaderboardAttacksKey, 1, normalizeAccount(attacker)).Err()
}

// TopAttackers 获取攻击排行榜（按次数降序）
func (rr *RedisRegistry) TopAttackers(ctx context.Context, limit int) ([]AttackerEntry, error) {
	if limit <= 0 {
		return []AttackerEntry{}, nil
	}

	members, err := rr.client.ZRevRangeWithScores(ctx, LeaderboardAttacksKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]AttackerEntry, 0, len(members))
	for i, member := range members {
		account, ok := member.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, AttackerEntry{
			Account: account,
			Attacks: int64(member.Score),
			Rank:    i + 1,
		})
	}
	return entries, nil
}

// AttackerRank 获取攻击者排名，不在榜上返回 -1
func (rr *RedisRegistry) AttackerRank(ctx context.Context, account string) (int, error) {
	rank, err := rr.client.ZRevRank(ctx, LeaderboardAttacksKey, normalizeAccount(account)).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, nil
		}
		return -1, err
	}

	return int(rank) + 1, nil // Redis排名从0开始
}

func ownerKey(owner string) string {
	return OwnerNFTPrefix + normalizeAccount(owner)
}

func normalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}
