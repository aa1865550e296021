package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"merx/internal/pkg/logger"
	"merx/internal/service/promotion/domain"
)

const (
	campaignCacheTTL       = 30 * time.Second
	activationLockResource = "campaign-activation"
)

// PromotionService 定义了促销服务提供的所有业务用例。
// 引擎本身是纯函数，这一层负责围绕它取活动配置、做准入判断、
// 记录指标与追踪。
type PromotionService struct {
	repo        domain.CampaignRepository
	cache       domain.CampaignCache
	eligibility domain.EligibilityEvaluator
	lock        domain.ActivationLock
	tracer      trace.Tracer
}

// NewPromotionService 创建一个新的促销服务实例。cache 与 lock 允许为
// nil（单机部署、或测试环境），此时退化为直连仓储与本地执行。
func NewPromotionService(
	repo domain.CampaignRepository,
	cache domain.CampaignCache,
	eligibility domain.EligibilityEvaluator,
	lock domain.ActivationLock,
	tracer trace.Tracer,
) *PromotionService {
	return &PromotionService{
		repo:        repo,
		cache:       cache,
		eligibility: eligibility,
		lock:        lock,
		tracer:      tracer,
	}
}

// QuoteCart 对一车行项目试算折扣。这是引擎的唯一入口：
// 客户端的实时反馈与服务端的结账复算都走这里，保证结果一致。
//
// 找不到活动、活动不符合准入条件都不是错误——返回零折扣结果。
func (s *PromotionService) QuoteCart(ctx context.Context, req *QuoteCartRequest) (*QuoteCartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.QuoteCart")
	defer span.End()

	lines := req.ToDomainLines()
	span.SetAttributes(attribute.Int("cart.lines", len(lines)))

	campaign := s.activeCampaign(ctx)
	if campaign != nil && campaign.EligibilityExpr != "" && s.eligibility != nil {
		if !s.eligibility.Eligible(campaign.EligibilityExpr, domain.Facts(lines)) {
			logger.Ctx(ctx).Debug().Str("campaign", campaign.Name).Msg("cart not eligible for campaign")
			campaign = nil
		}
	}

	result := domain.Process(lines, campaign)

	quotesTotal.Inc()
	if campaign == nil {
		quotesWithoutCampaign.Inc()
	}
	discountGrantedTotal.Add(result.TotalItemDiscount + result.TotalCartDiscount)
	span.SetAttributes(
		attribute.Float64("quote.item_discount", result.TotalItemDiscount),
		attribute.Float64("quote.cart_discount", result.TotalCartDiscount),
	)

	name := ""
	if campaign != nil {
		name = campaign.Name
	}
	return ToQuoteResponse(name, result), nil
}

// ActiveCampaign 返回当前生效的默认活动，没有则返回 ErrCampaignNotFound。
func (s *PromotionService) ActiveCampaign(ctx context.Context) (*domain.DiscountSet, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.ActiveCampaign")
	defer span.End()

	if campaign := s.activeCampaign(ctx); campaign != nil {
		return campaign, nil
	}
	return nil, domain.ErrCampaignNotFound
}

// ActivateCampaign 把指定活动设为唯一默认活动。多个节点可能同时
// 操作后台，切换动作经由分布式锁串行化。
func (s *PromotionService) ActivateCampaign(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "promotion.ActivateCampaign")
	defer span.End()
	span.SetAttributes(attribute.String("campaign.name", name))

	activate := func() error {
		if err := s.repo.ActivateByName(ctx, name); err != nil {
			return err
		}
		s.InvalidateCache(ctx)
		logger.Ctx(ctx).Info().Str("campaign", name).Msg("campaign activated as default")
		return nil
	}

	if s.lock == nil {
		return activate()
	}
	return s.lock.WithLock(activationLockResource, activate)
}

// InvalidateCache 在活动配置被后台改写后丢弃缓存快照。
func (s *PromotionService) InvalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// activeCampaign 按缓存 -> 仓储的顺序取当前活动，取不到返回 nil。
func (s *PromotionService) activeCampaign(ctx context.Context) *domain.DiscountSet {
	if s.cache != nil {
		if campaign, ok := s.cache.Get(ctx); ok {
			return campaign
		}
	}
	campaign, err := s.repo.FindActiveDefault(ctx)
	if err != nil {
		// 配置缺失不阻塞试算，按无活动处理
		logger.Ctx(ctx).Debug().Err(err).Msg("no active campaign available")
		return nil
	}
	if s.cache != nil {
		s.cache.Set(ctx, campaign, campaignCacheTTL)
	}
	return campaign
}
