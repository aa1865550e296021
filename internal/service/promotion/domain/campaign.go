package domain

// RuleKind 定义了规则金额的计算方式。
type RuleKind string

const (
	RuleKindPercentage RuleKind = "percentage" // 按百分比折扣
	RuleKindFixed      RuleKind = "fixed"      // 按固定金额折扣
)

// RuleType 标识一条已生效折扣记录的来源，用于小票与前端展示。
// 这组取值是对外契约的一部分，不能随意改名。
type RuleType string

const (
	RuleTypeProductConfigValue      RuleType = "product_config_value"
	RuleTypeProductConfigQuantity   RuleType = "product_config_quantity"
	RuleTypeCampaignDefaultValue    RuleType = "campaign_default_value"
	RuleTypeCampaignDefaultQuantity RuleType = "campaign_default_quantity"
	RuleTypeBuyGetFree              RuleType = "buy_get_free"
	RuleTypeCampaignGlobalValue     RuleType = "campaign_global_value"
	RuleTypeCampaignGlobalQuantity  RuleType = "campaign_global_quantity"
	RuleTypeCustomItemDiscount      RuleType = "custom_item_discount"
)

// ValueRule 是一条可配置的折扣规则。
// 规则对某个度量 m（行金额或行数量）"符合条件" 当且仅当
// conditionMin <= m <= conditionMax，两端均为闭区间，未设置的边界不参与判断。
type ValueRule struct {
	Enabled      bool
	Name         string
	Kind         RuleKind
	Value        float64
	ConditionMin *float64
	ConditionMax *float64
	// ApplyOnce 为 true 时固定金额只计算一次；
	// 为 false 时按符合条件的单位数量逐件计算。
	ApplyOnce bool
}

// Qualifies 判断规则是否对给定度量生效。
// 被禁用、配置残缺或金额非正的规则一律视为不符合条件，绝不报错（结账不能被坏规则阻塞）。
func (r *ValueRule) Qualifies(metric float64) bool {
	if r == nil || !r.Enabled {
		return false
	}
	if r.Kind != RuleKindPercentage && r.Kind != RuleKindFixed {
		return false
	}
	if r.Value <= 0 {
		return false
	}
	if r.ConditionMin != nil && metric < *r.ConditionMin {
		return false
	}
	if r.ConditionMax != nil && metric > *r.ConditionMax {
		return false
	}
	return true
}

// Amount 按规则语义计算一行的折扣金额（未做行金额封顶，由调用方裁剪）。
func (r *ValueRule) Amount(unitPrice, quantity float64) float64 {
	switch r.Kind {
	case RuleKindPercentage:
		return Round2(unitPrice * quantity * r.Value / 100)
	case RuleKindFixed:
		if r.ApplyOnce {
			return Round2(r.Value)
		}
		return Round2(r.Value * quantity)
	}
	return 0
}

// ProductOverride 是针对单个商品的规则覆盖配置，
// 命中时替代活动的默认行规则。数量规则比金额规则更具体，优先生效。
type ProductOverride struct {
	ProductID    string
	Active       bool
	QuantityRule *ValueRule // 以行数量为度量
	ValueRule    *ValueRule // 以行金额为度量
}

// BuyGetRule 描述一条 "买 N 送 M" 跨行促销。
// 买与送可以是同一个商品，此时赠品份额从付费份额之外的余量中扣取。
type BuyGetRule struct {
	BuyProductID  string
	BuyQuantity   float64
	GetProductID  string
	GetQuantity   float64
	DiscountKind  RuleKind
	DiscountValue float64
	Repeatable    bool
}

// DiscountSet 是一个促销活动的完整配置，在一次引擎调用期间必须被当作只读对象。
type DiscountSet struct {
	Name    string
	Active  bool
	Default bool
	// OneTimePerTransaction 为 true 时整单规则与前置折扣互斥：
	// 只要任何行级或买赠折扣已经生效，整单规则就不再触发。
	OneTimePerTransaction bool

	DefaultLineRule *ValueRule
	// GlobalCartRule 以扣除行级折扣后的净小计为度量。
	GlobalCartRule *ValueRule
	// GlobalCartQuantityRule 是整单规则的数量变体，仅在金额变体未触发时评估。
	GlobalCartQuantityRule *ValueRule

	BuyGetRules      []BuyGetRule
	ProductOverrides map[string]*ProductOverride

	// EligibilityExpr 是可选的 CEL 准入表达式，在引擎之外、
	// 选定活动时求值；表达式求值失败按不符合条件处理。
	EligibilityExpr string
}

// Override 返回某商品生效中的覆盖配置，没有则返回 nil。
func (s *DiscountSet) Override(productID string) *ProductOverride {
	if s == nil || s.ProductOverrides == nil {
		return nil
	}
	ov := s.ProductOverrides[productID]
	if ov == nil || !ov.Active {
		return nil
	}
	return ov
}

// CartFacts 是准入表达式可见的购物车事实。
type CartFacts struct {
	CartTotal     float64
	TotalQuantity float64
	LineCount     int
}
