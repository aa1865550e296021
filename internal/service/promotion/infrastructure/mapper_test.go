package infrastructure

import (
	"encoding/json"
	"testing"

	"merx/internal/service/promotion/domain"
)

func TestParseValueRule(t *testing.T) {
	t.Run("契约字段逐字解析", func(t *testing.T) {
		blob := `{"isEnabled":true,"name":"10% over 1000","type":"percentage","value":10,"conditionMin":1000,"conditionMax":5000,"applyFixedOnce":false}`
		rule := parseValueRule(blob)
		if rule == nil {
			t.Fatal("expected a rule")
		}
		if !rule.Enabled || rule.Name != "10% over 1000" || rule.Kind != domain.RuleKindPercentage || rule.Value != 10 {
			t.Fatalf("rule = %+v", rule)
		}
		if *rule.ConditionMin != 1000 || *rule.ConditionMax != 5000 {
			t.Fatalf("conditions = %v/%v", rule.ConditionMin, rule.ConditionMax)
		}
	})

	t.Run("缺省边界解析为 nil 指针", func(t *testing.T) {
		rule := parseValueRule(`{"isEnabled":true,"name":"flat","type":"fixed","value":5,"applyFixedOnce":true}`)
		if rule == nil || rule.ConditionMin != nil || rule.ConditionMax != nil {
			t.Fatalf("rule = %+v", rule)
		}
		if !rule.ApplyOnce {
			t.Fatal("applyFixedOnce must map to ApplyOnce")
		}
	})

	t.Run("坏 JSON 静默映射为 nil", func(t *testing.T) {
		for _, blob := range []string{"", "null", "{broken", `{"value":"not-a-number"}`} {
			if rule := parseValueRule(blob); rule != nil {
				t.Fatalf("blob %q must map to nil, got %+v", blob, rule)
			}
		}
	})
}

func TestParseBuyGetRules(t *testing.T) {
	blob := `[
		{"buyProductId":"soap","buyQuantity":2,"getProductId":"soap","getQuantity":1,"discountType":"percentage","discountValue":100,"isRepeatable":true},
		{"buyProductId":"ink","buyQuantity":3,"getProductId":"pen","getQuantity":2,"discountType":"fixed","discountValue":10,"isRepeatable":false}
	]`
	rules := parseBuyGetRules(blob)
	if len(rules) != 2 {
		t.Fatalf("rules = %+v", rules)
	}
	// 配置顺序必须保持：它决定了买赠记录在汇总里的顺序
	if rules[0].BuyProductID != "soap" || rules[1].BuyProductID != "ink" {
		t.Fatalf("configuration order lost: %+v", rules)
	}
	if rules[0].DiscountKind != domain.RuleKindPercentage || !rules[0].Repeatable {
		t.Fatalf("rules[0] = %+v", rules[0])
	}
	if rules[1].DiscountKind != domain.RuleKindFixed || rules[1].GetQuantity != 2 {
		t.Fatalf("rules[1] = %+v", rules[1])
	}

	if got := parseBuyGetRules("{bad"); got != nil {
		t.Fatalf("bad blob must map to nil, got %+v", got)
	}
}

func TestToDomainDiscountSet(t *testing.T) {
	model := &DiscountSetModel{
		Name:                         "diwali",
		IsActive:                     true,
		IsDefault:                    true,
		IsOneTimePerTransaction:      true,
		DefaultLineItemValueRuleJSON: `{"isEnabled":true,"name":"d","type":"percentage","value":5}`,
		GlobalCartPriceRuleJSON:      `{"isEnabled":true,"name":"g","type":"fixed","value":250,"conditionMin":5000,"applyFixedOnce":true}`,
		BuyGetRulesJSON:              `[{"buyProductId":"a","buyQuantity":1,"getProductId":"b","getQuantity":1,"discountType":"percentage","discountValue":50,"isRepeatable":false}]`,
		EligibilityExpr:              "cartTotal >= 100.0",
		ProductConfigurations: []ProductConfigurationModel{{
			ProductID:                    "paste",
			IsActiveForProductInCampaign: true,
			LineItemQuantityRuleJSON:     `{"isEnabled":true,"name":"q","type":"fixed","value":5,"conditionMin":3}`,
			LineItemValueRuleJSON:        `{"isEnabled":false,"name":"v","type":"percentage","value":1}`,
		}},
	}

	set := ToDomainDiscountSet(model)
	if set.Name != "diwali" || !set.Active || !set.Default || !set.OneTimePerTransaction {
		t.Fatalf("flags lost: %+v", set)
	}
	if set.DefaultLineRule == nil || set.GlobalCartRule == nil || set.GlobalCartQuantityRule != nil {
		t.Fatalf("rules = %+v", set)
	}
	if len(set.BuyGetRules) != 1 || set.BuyGetRules[0].GetProductID != "b" {
		t.Fatalf("buy-get = %+v", set.BuyGetRules)
	}
	ov := set.Override("paste")
	if ov == nil || ov.QuantityRule == nil || ov.QuantityRule.Value != 5 {
		t.Fatalf("override = %+v", ov)
	}
	if set.EligibilityExpr != "cartTotal >= 100.0" {
		t.Fatalf("eligibility = %q", set.EligibilityExpr)
	}
}

func TestCampaignDocumentRoundTrip(t *testing.T) {
	// 播种工具喂进来的文档必须原封不动地落到 JSON 契约列上
	raw := `{
		"name": "weekly",
		"isActive": true,
		"isDefault": false,
		"isOneTimePerTransaction": false,
		"defaultLineItemValueRuleJson": {"isEnabled":true,"name":"d","type":"percentage","value":10,"conditionMin":1000},
		"globalCartPriceRuleJson": {"isEnabled":false,"name":"g","type":"fixed","value":0,"applyFixedOnce":true},
		"buyGetRulesJson": [{"buyProductId":"soap","buyQuantity":2,"getProductId":"soap","getQuantity":1,"discountType":"percentage","discountValue":100,"isRepeatable":true}],
		"productConfigurations": [
			{"productId":"paste","isActiveForProductInCampaign":true,"lineItemQuantityRuleJson":{"isEnabled":true,"name":"q","type":"fixed","value":5,"conditionMin":3}}
		]
	}`

	var doc CampaignDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}

	set := doc.ToDomain()
	if set.Name != "weekly" || !set.Active {
		t.Fatalf("set = %+v", set)
	}
	if set.DefaultLineRule == nil || *set.DefaultLineRule.ConditionMin != 1000 {
		t.Fatalf("default rule = %+v", set.DefaultLineRule)
	}
	// isEnabled:false 的规则解析后仍然存在，但对任何度量都不符合条件
	if set.GlobalCartRule == nil || set.GlobalCartRule.Qualifies(99999) {
		t.Fatalf("disabled cart rule must never qualify: %+v", set.GlobalCartRule)
	}
	if len(set.BuyGetRules) != 1 || set.Override("paste") == nil {
		t.Fatalf("set = %+v", set)
	}
}
