package domain

import (
	"reflect"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func percentRule(name string, value float64, min *float64) *ValueRule {
	return &ValueRule{Enabled: true, Name: name, Kind: RuleKindPercentage, Value: value, ConditionMin: min}
}

func fixedRule(name string, value float64, min *float64, applyOnce bool) *ValueRule {
	return &ValueRule{Enabled: true, Name: name, Kind: RuleKindFixed, Value: value, ConditionMin: min, ApplyOnce: applyOnce}
}

func TestProcess_BuyTwoGetOneFree(t *testing.T) {
	// 3 x 肥皂 @80，买二送一（100%），可重复
	lines := []SaleLine{{LineID: "l1", ProductID: "soap", Quantity: 3, UnitPrice: 80}}
	campaign := &DiscountSet{
		Name:   "weekly",
		Active: true,
		BuyGetRules: []BuyGetRule{{
			BuyProductID: "soap", BuyQuantity: 2,
			GetProductID: "soap", GetQuantity: 1,
			DiscountKind: RuleKindPercentage, DiscountValue: 100,
			Repeatable: true,
		}},
	}

	res := Process(lines, campaign)

	if got := res.LineItems[0].TotalDiscount; got != 80.00 {
		t.Fatalf("line discount = %v, want 80.00", got)
	}
	if got := res.LineItems[0].Net; got != 160.00 {
		t.Fatalf("line net = %v, want 160.00", got)
	}
	summary := res.AppliedRulesSummary()
	if len(summary) != 1 || summary[0].RuleType != RuleTypeBuyGetFree {
		t.Fatalf("summary = %+v, want single buy_get_free record", summary)
	}
	if summary[0].TotalCalculatedDiscount != 80.00 {
		t.Fatalf("buy-get discount = %v, want 80.00", summary[0].TotalCalculatedDiscount)
	}
}

func TestProcess_PerUnitFixedQuantityOverride(t *testing.T) {
	// 3 x 牙膏 @150，数量 >= 3 时每件立减 5
	lines := []SaleLine{{LineID: "l1", ProductID: "paste", Quantity: 3, UnitPrice: 150}}
	campaign := &DiscountSet{
		Name:   "weekly",
		Active: true,
		ProductOverrides: map[string]*ProductOverride{
			"paste": {
				ProductID:    "paste",
				Active:       true,
				QuantityRule: fixedRule("5 off per unit", 5, fptr(3), false),
			},
		},
	}

	res := Process(lines, campaign)

	if got := res.LineItems[0].TotalDiscount; got != 15.00 {
		t.Fatalf("line discount = %v, want 15.00", got)
	}
	if got := res.LineItems[0].Net; got != 435.00 {
		t.Fatalf("line net = %v, want 435.00", got)
	}
	if rt := res.LineItems[0].AutoRule.RuleType; rt != RuleTypeProductConfigQuantity {
		t.Fatalf("rule type = %s, want product_config_quantity", rt)
	}
}

func TestProcess_DefaultRuleBoundaryInclusive(t *testing.T) {
	// 行金额恰好等于条件下界时规则必须生效（闭区间）
	lines := []SaleLine{{LineID: "l1", ProductID: "tv", Quantity: 1, UnitPrice: 1000}}
	campaign := &DiscountSet{
		Name:            "weekly",
		Active:          true,
		DefaultLineRule: percentRule("10% over 1000", 10, fptr(1000)),
	}

	res := Process(lines, campaign)

	if got := res.TotalItemDiscount; got != 100.00 {
		t.Fatalf("item discount = %v, want 100.00", got)
	}
	if rt := res.LineItems[0].AutoRule.RuleType; rt != RuleTypeCampaignDefaultValue {
		t.Fatalf("rule type = %s, want campaign_default_value", rt)
	}
}

func TestProcess_GlobalCartRuleFiresOnce(t *testing.T) {
	// 净小计恰好 5000，整单满 5000 减 250，只减一次
	lines := []SaleLine{
		{LineID: "l1", ProductID: "a", Quantity: 2, UnitPrice: 1500},
		{LineID: "l2", ProductID: "b", Quantity: 1, UnitPrice: 2000},
	}
	campaign := &DiscountSet{
		Name:           "weekly",
		Active:         true,
		GlobalCartRule: fixedRule("250 off 5000+", 250, fptr(5000), true),
	}

	res := Process(lines, campaign)

	if got := res.TotalCartDiscount; got != 250.00 {
		t.Fatalf("cart discount = %v, want 250.00", got)
	}
	if got := res.TotalItemDiscount; got != 0.00 {
		t.Fatalf("item discount = %v, want 0", got)
	}
	summary := res.AppliedRulesSummary()
	if len(summary) != 1 || summary[0].RuleType != RuleTypeCampaignGlobalValue {
		t.Fatalf("summary = %+v, want single campaign_global_value record", summary)
	}
}

func TestProcess_NilCampaignYieldsZeroResult(t *testing.T) {
	lines := []SaleLine{{LineID: "l1", ProductID: "a", Quantity: 2, UnitPrice: 10}}

	res := Process(lines, nil)

	if res.TotalItemDiscount != 0 || res.TotalCartDiscount != 0 {
		t.Fatalf("totals = %v/%v, want zero", res.TotalItemDiscount, res.TotalCartDiscount)
	}
	if len(res.AppliedRulesSummary()) != 0 {
		t.Fatalf("summary should be empty")
	}
	if len(res.LineItems) != 1 || res.LineItems[0].Net != 20.00 {
		t.Fatalf("line view should survive with zero discount: %+v", res.LineItems)
	}
}

func TestProcess_EmptyCart(t *testing.T) {
	campaign := &DiscountSet{Name: "weekly", Active: true, DefaultLineRule: percentRule("10%", 10, nil)}
	res := Process(nil, campaign)
	if len(res.LineItems) != 0 || res.TotalItemDiscount != 0 || res.TotalCartDiscount != 0 {
		t.Fatalf("empty cart must yield zero result: %+v", res)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	lines := []SaleLine{
		{LineID: "l1", ProductID: "a", Quantity: 3, UnitPrice: 80},
		{LineID: "l2", ProductID: "b", Quantity: 2, UnitPrice: 150, Custom: &CustomDiscount{Kind: RuleKindFixed, Value: 20}},
	}
	campaign := &DiscountSet{
		Name:            "weekly",
		Active:          true,
		DefaultLineRule: percentRule("10%", 10, nil),
		GlobalCartRule:  percentRule("5% cart", 5, fptr(100)),
		BuyGetRules: []BuyGetRule{{
			BuyProductID: "a", BuyQuantity: 2, GetProductID: "a", GetQuantity: 1,
			DiscountKind: RuleKindPercentage, DiscountValue: 100, Repeatable: true,
		}},
	}

	first := Process(lines, campaign)
	second := Process(lines, campaign)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("engine must be deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestProcess_DisabledRuleHasNoEffect(t *testing.T) {
	lines := []SaleLine{{LineID: "l1", ProductID: "a", Quantity: 1, UnitPrice: 500}}
	rule := percentRule("10%", 10, nil)
	rule.Enabled = false
	campaign := &DiscountSet{Name: "weekly", Active: true, DefaultLineRule: rule}

	res := Process(lines, campaign)
	if res.TotalItemDiscount != 0 || len(res.AppliedRulesSummary()) != 0 {
		t.Fatalf("disabled rule must be invisible: %+v", res)
	}
}

func TestProcess_CustomDiscountSuppressesAutoRule(t *testing.T) {
	lines := []SaleLine{{
		LineID: "l1", ProductID: "a", Quantity: 1, UnitPrice: 200,
		Custom: &CustomDiscount{Kind: RuleKindPercentage, Value: 25},
	}}
	campaign := &DiscountSet{
		Name:            "weekly",
		Active:          true,
		DefaultLineRule: percentRule("50% off everything", 50, nil),
	}

	res := Process(lines, campaign)

	rec := res.LineItems[0].AutoRule
	if rec == nil || rec.RuleType != RuleTypeCustomItemDiscount {
		t.Fatalf("expected custom_item_discount, got %+v", rec)
	}
	if rec.TotalCalculatedDiscount != 50.00 {
		t.Fatalf("custom discount = %v, want 50.00", rec.TotalCalculatedDiscount)
	}
}

func TestProcess_DiscountNeverExceedsLineValue(t *testing.T) {
	lines := []SaleLine{{LineID: "l1", ProductID: "a", Quantity: 1, UnitPrice: 30}}
	campaign := &DiscountSet{
		Name:            "weekly",
		Active:          true,
		DefaultLineRule: fixedRule("1000 off", 1000, nil, true),
	}

	res := Process(lines, campaign)
	if got := res.LineItems[0].TotalDiscount; got != 30.00 {
		t.Fatalf("discount = %v, want clamped to 30.00", got)
	}
	if res.LineItems[0].Net != 0 {
		t.Fatalf("net = %v, want 0", res.LineItems[0].Net)
	}
}

func TestProcess_NegativeInputsClampedToZero(t *testing.T) {
	lines := []SaleLine{
		{LineID: "l1", ProductID: "a", Quantity: -3, UnitPrice: 80},
		{LineID: "l2", ProductID: "b", Quantity: 2, UnitPrice: -10},
	}
	campaign := &DiscountSet{Name: "weekly", Active: true, DefaultLineRule: percentRule("10%", 10, nil)}

	res := Process(lines, campaign)
	if res.TotalItemDiscount != 0 || res.TotalCartDiscount != 0 {
		t.Fatalf("negative inputs must never produce discounts: %+v", res)
	}
	for _, li := range res.LineItems {
		if li.TotalDiscount < 0 || li.Net < 0 {
			t.Fatalf("negative amounts leaked: %+v", li)
		}
	}
}

func TestProcess_OneTimePerTransaction(t *testing.T) {
	lines := []SaleLine{{LineID: "l1", ProductID: "a", Quantity: 1, UnitPrice: 1000}}
	campaign := &DiscountSet{
		Name:                  "weekly",
		Active:                true,
		OneTimePerTransaction: true,
		DefaultLineRule:       percentRule("10%", 10, nil),
		GlobalCartRule:        percentRule("5% cart", 5, nil),
	}

	t.Run("行级折扣已生效时整单规则被跳过", func(t *testing.T) {
		res := Process(lines, campaign)
		if res.TotalItemDiscount != 100.00 {
			t.Fatalf("item discount = %v, want 100.00", res.TotalItemDiscount)
		}
		if res.TotalCartDiscount != 0 {
			t.Fatalf("cart discount = %v, want 0 (mutually exclusive)", res.TotalCartDiscount)
		}
	})

	t.Run("关闭互斥开关后两层自由叠加", func(t *testing.T) {
		open := *campaign
		open.OneTimePerTransaction = false
		res := Process(lines, &open)
		if res.TotalItemDiscount != 100.00 || res.TotalCartDiscount != 45.00 {
			t.Fatalf("discounts = %v/%v, want 100.00/45.00", res.TotalItemDiscount, res.TotalCartDiscount)
		}
	})
}

func TestProcess_SummaryOrderIsStable(t *testing.T) {
	// 顺序契约：行级记录按输入行序，买赠按配置顺序，整单殿后
	lines := []SaleLine{
		{LineID: "l1", ProductID: "a", Quantity: 2, UnitPrice: 600},
		{LineID: "l2", ProductID: "b", Quantity: 4, UnitPrice: 300},
	}
	campaign := &DiscountSet{
		Name:            "weekly",
		Active:          true,
		DefaultLineRule: percentRule("10% over 1000", 10, fptr(1000)),
		GlobalCartRule:  percentRule("5% cart", 5, nil),
		BuyGetRules: []BuyGetRule{
			{BuyProductID: "a", BuyQuantity: 2, GetProductID: "b", GetQuantity: 1, DiscountKind: RuleKindPercentage, DiscountValue: 100},
			{BuyProductID: "b", BuyQuantity: 4, GetProductID: "a", GetQuantity: 1, DiscountKind: RuleKindFixed, DiscountValue: 50},
		},
	}

	summary := Process(lines, campaign).AppliedRulesSummary()

	wantTypes := []RuleType{
		RuleTypeCampaignDefaultValue, // l1
		RuleTypeCampaignDefaultValue, // l2
		RuleTypeBuyGetFree,           // 第一条买赠
		RuleTypeBuyGetFree,           // 第二条买赠
		RuleTypeCampaignGlobalValue,  // 整单
	}
	if len(summary) != len(wantTypes) {
		t.Fatalf("summary length = %d, want %d: %+v", len(summary), len(wantTypes), summary)
	}
	for i, want := range wantTypes {
		if summary[i].RuleType != want {
			t.Fatalf("summary[%d].RuleType = %s, want %s", i, summary[i].RuleType, want)
		}
	}
	if summary[2].ProductID != "b" || summary[3].ProductID != "a" {
		t.Fatalf("buy-get records out of configuration order: %+v", summary[2:4])
	}
}

func TestProcess_TotalsNeverExceedGross(t *testing.T) {
	lines := []SaleLine{
		{LineID: "l1", ProductID: "a", Quantity: 3, UnitPrice: 19.99},
		{LineID: "l2", ProductID: "b", Quantity: 1, UnitPrice: 0.5},
	}
	campaign := &DiscountSet{
		Name:            "weekly",
		Active:          true,
		DefaultLineRule: fixedRule("huge", 500, nil, false),
		GlobalCartRule:  fixedRule("cart", 9999, nil, true),
	}

	res := Process(lines, campaign)
	var gross float64
	for _, li := range res.LineItems {
		gross += li.Gross
		if li.TotalDiscount < 0 || li.TotalDiscount > li.Gross {
			t.Fatalf("line discount out of range: %+v", li)
		}
	}
	if res.TotalItemDiscount+res.TotalCartDiscount > gross {
		t.Fatalf("total discounts %v exceed gross %v",
			res.TotalItemDiscount+res.TotalCartDiscount, gross)
	}
}

func TestFacts(t *testing.T) {
	lines := []SaleLine{
		{ProductID: "a", Quantity: 2, UnitPrice: 10},
		{ProductID: "b", Quantity: 1, UnitPrice: 5.5},
	}
	facts := Facts(lines)
	if facts.CartTotal != 25.50 || facts.TotalQuantity != 3 || facts.LineCount != 2 {
		t.Fatalf("facts = %+v", facts)
	}
}
