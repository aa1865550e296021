package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"merx/internal/pkg/redis"
	"merx/internal/service/promotion/domain"
)

const activeCampaignKey = "promotion:campaign:active"

// CampaignRedisCache 用 Redis 缓存当前生效活动的解析结果，
// 避免每次试算都回表。缓存层的任何失败都只是缓存未命中，
// 从不向调用方传播错误。
type CampaignRedisCache struct {
	redisClient *redis.Client
}

// NewCampaignRedisCache 创建一个新的活动缓存适配器。
func NewCampaignRedisCache(redisClient *redis.Client) *CampaignRedisCache {
	return &CampaignRedisCache{redisClient: redisClient}
}

// Get 读取缓存中的活动快照。
func (c *CampaignRedisCache) Get(ctx context.Context) (*domain.DiscountSet, bool) {
	raw, err := c.redisClient.GetClient().Get(ctx, activeCampaignKey).Bytes()
	if err != nil {
		return nil, false
	}
	var campaign domain.DiscountSet
	if err := json.Unmarshal(raw, &campaign); err != nil {
		log.Warn().Err(err).Msg("corrupt campaign snapshot in cache, dropping it")
		c.Invalidate(ctx)
		return nil, false
	}
	return &campaign, true
}

// Set 写入活动快照。
func (c *CampaignRedisCache) Set(ctx context.Context, campaign *domain.DiscountSet, ttl time.Duration) {
	raw, err := json.Marshal(campaign)
	if err != nil {
		return
	}
	if err := c.redisClient.GetClient().Set(ctx, activeCampaignKey, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache campaign snapshot")
	}
}

// Invalidate 在活动配置变更后清掉快照。
func (c *CampaignRedisCache) Invalidate(ctx context.Context) {
	if err := c.redisClient.GetClient().Del(ctx, activeCampaignKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate campaign snapshot")
	}
}
