package domain

import (
	"context"
	"errors"
	"time"
)

// 领域层可见的错误集合，接口层据此映射 HTTP 状态码。
var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignInvalid  = errors.New("campaign configuration invalid")
)

// CampaignRepository 定义了活动配置的持久化接口，
// 是领域层与基础设施层之间的"插座"。
type CampaignRepository interface {
	FindActiveDefault(ctx context.Context) (*DiscountSet, error)
	FindByName(ctx context.Context, name string) (*DiscountSet, error)
	Save(ctx context.Context, campaign *DiscountSet) error
	// ActivateByName 原子地把目标活动设为唯一的默认活动。
	ActivateByName(ctx context.Context, name string) error
}

// CampaignCache 缓存当前生效活动的解析结果，未命中不算错误。
type CampaignCache interface {
	Get(ctx context.Context) (*DiscountSet, bool)
	Set(ctx context.Context, campaign *DiscountSet, ttl time.Duration)
	Invalidate(ctx context.Context)
}

// EligibilityEvaluator 对活动的准入表达式求值。
// 求值失败等同于不符合条件，从不向上抛错。
type EligibilityEvaluator interface {
	Eligible(expr string, facts CartFacts) bool
}

// ActivationLock 串行化"切换默认活动"这类集群内互斥操作。
type ActivationLock interface {
	WithLock(resource string, fn func() error) error
}
