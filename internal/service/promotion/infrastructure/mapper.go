package infrastructure

import (
	"encoding/json"

	"merx/internal/service/promotion/domain"
)

// 持久化的活动配置使用松散的 JSON 字段，这里一次性解析成封闭的
// 规则类型集合，引擎内部从不接触原始 JSON。字段名是对外契约，
// 由播种/导入工具直接生产。
//
// 解析失败的规则一律映射为 nil（即被禁用的规则）：坏配置永远
// 不能阻塞结账，这是引擎错误处理的总原则。

type valueRuleJSON struct {
	IsEnabled      bool     `json:"isEnabled"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Value          float64  `json:"value"`
	ConditionMin   *float64 `json:"conditionMin"`
	ConditionMax   *float64 `json:"conditionMax"`
	ApplyFixedOnce bool     `json:"applyFixedOnce"`
}

type buyGetRuleJSON struct {
	BuyProductID  string  `json:"buyProductId"`
	BuyQuantity   float64 `json:"buyQuantity"`
	GetProductID  string  `json:"getProductId"`
	GetQuantity   float64 `json:"getQuantity"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	IsRepeatable  bool    `json:"isRepeatable"`
}

// parseValueRule 解析一条规则 JSON；空串或解析失败返回 nil。
func parseValueRule(blob string) *domain.ValueRule {
	if blob == "" || blob == "null" {
		return nil
	}
	var raw valueRuleJSON
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil
	}
	return &domain.ValueRule{
		Enabled:      raw.IsEnabled,
		Name:         raw.Name,
		Kind:         domain.RuleKind(raw.Type),
		Value:        raw.Value,
		ConditionMin: raw.ConditionMin,
		ConditionMax: raw.ConditionMax,
		ApplyOnce:    raw.ApplyFixedOnce,
	}
}

// parseBuyGetRules 解析买赠规则数组，保持配置顺序。
func parseBuyGetRules(blob string) []domain.BuyGetRule {
	if blob == "" || blob == "null" {
		return nil
	}
	var raw []buyGetRuleJSON
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil
	}
	rules := make([]domain.BuyGetRule, 0, len(raw))
	for _, r := range raw {
		rules = append(rules, domain.BuyGetRule{
			BuyProductID:  r.BuyProductID,
			BuyQuantity:   r.BuyQuantity,
			GetProductID:  r.GetProductID,
			GetQuantity:   r.GetQuantity,
			DiscountKind:  domain.RuleKind(r.DiscountType),
			DiscountValue: r.DiscountValue,
			Repeatable:    r.IsRepeatable,
		})
	}
	return rules
}

// ToDomainDiscountSet 将数据库模型转换为领域模型。
func ToDomainDiscountSet(model *DiscountSetModel) *domain.DiscountSet {
	if model == nil {
		return nil
	}
	set := &domain.DiscountSet{
		Name:                   model.Name,
		Active:                 model.IsActive,
		Default:                model.IsDefault,
		OneTimePerTransaction:  model.IsOneTimePerTransaction,
		DefaultLineRule:        parseValueRule(model.DefaultLineItemValueRuleJSON),
		GlobalCartRule:         parseValueRule(model.GlobalCartPriceRuleJSON),
		GlobalCartQuantityRule: parseValueRule(model.GlobalCartQuantityRuleJSON),
		BuyGetRules:            parseBuyGetRules(model.BuyGetRulesJSON),
		EligibilityExpr:        model.EligibilityExpr,
	}
	if len(model.ProductConfigurations) > 0 {
		set.ProductOverrides = make(map[string]*domain.ProductOverride, len(model.ProductConfigurations))
		for _, pc := range model.ProductConfigurations {
			set.ProductOverrides[pc.ProductID] = &domain.ProductOverride{
				ProductID:    pc.ProductID,
				Active:       pc.IsActiveForProductInCampaign,
				QuantityRule: parseValueRule(pc.LineItemQuantityRuleJSON),
				ValueRule:    parseValueRule(pc.LineItemValueRuleJSON),
			}
		}
	}
	return set
}

// CampaignDocument 是播种/导入工具消费的活动配置文档，
// 字段名与持久化 JSON 契约逐字一致。
type CampaignDocument struct {
	Name                    string `json:"name"`
	IsActive                bool   `json:"isActive"`
	IsDefault               bool   `json:"isDefault"`
	IsOneTimePerTransaction bool   `json:"isOneTimePerTransaction"`
	EligibilityExpr         string `json:"eligibilityExpr,omitempty"`

	DefaultLineItemValueRuleJSON json.RawMessage `json:"defaultLineItemValueRuleJson"`
	GlobalCartPriceRuleJSON      json.RawMessage `json:"globalCartPriceRuleJson"`
	GlobalCartQuantityRuleJSON   json.RawMessage `json:"globalCartQuantityRuleJson,omitempty"`
	BuyGetRulesJSON              json.RawMessage `json:"buyGetRulesJson"`

	ProductConfigurations []ProductConfigurationDocument `json:"productConfigurations"`
}

// ProductConfigurationDocument 是文档中的单条商品覆盖配置。
type ProductConfigurationDocument struct {
	ProductID                    string          `json:"productId"`
	IsActiveForProductInCampaign bool            `json:"isActiveForProductInCampaign"`
	LineItemQuantityRuleJSON     json.RawMessage `json:"lineItemQuantityRuleJson,omitempty"`
	LineItemValueRuleJSON        json.RawMessage `json:"lineItemValueRuleJson,omitempty"`
}

// ToModel 把文档转换为数据库模型（用于插入或整体覆盖）。
func (d *CampaignDocument) ToModel() *DiscountSetModel {
	model := &DiscountSetModel{
		Name:                         d.Name,
		IsActive:                     d.IsActive,
		IsDefault:                    d.IsDefault,
		IsOneTimePerTransaction:      d.IsOneTimePerTransaction,
		EligibilityExpr:              d.EligibilityExpr,
		DefaultLineItemValueRuleJSON: string(d.DefaultLineItemValueRuleJSON),
		GlobalCartPriceRuleJSON:      string(d.GlobalCartPriceRuleJSON),
		GlobalCartQuantityRuleJSON:   string(d.GlobalCartQuantityRuleJSON),
		BuyGetRulesJSON:              string(d.BuyGetRulesJSON),
	}
	for _, pc := range d.ProductConfigurations {
		model.ProductConfigurations = append(model.ProductConfigurations, ProductConfigurationModel{
			ProductID:                    pc.ProductID,
			IsActiveForProductInCampaign: pc.IsActiveForProductInCampaign,
			LineItemQuantityRuleJSON:     string(pc.LineItemQuantityRuleJSON),
			LineItemValueRuleJSON:        string(pc.LineItemValueRuleJSON),
		})
	}
	return model
}

// ToDomain 让文档不落库也能直接喂给引擎（试算接口用）。
func (d *CampaignDocument) ToDomain() *domain.DiscountSet {
	return ToDomainDiscountSet(d.ToModel())
}
