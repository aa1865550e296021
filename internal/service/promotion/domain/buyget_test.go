package domain

import "testing"

func TestApplyBuyGet_RepeatableRepetitions(t *testing.T) {
	lines := []SaleLine{{LineID: "l1", ProductID: "soap", Quantity: 7, UnitPrice: 80}}
	rules := []BuyGetRule{{
		BuyProductID: "soap", BuyQuantity: 2,
		GetProductID: "soap", GetQuantity: 1,
		DiscountKind: RuleKindPercentage, DiscountValue: 100,
		Repeatable: true,
	}}

	// 7 件：floor(7/2)=3 次，但付费份额 6 件后池里只剩 1 件可送
	records, alloc := applyBuyGet(lines, rules, "weekly", make([]float64, 1))
	if len(records) != 1 {
		t.Fatalf("records = %+v, want 1", records)
	}
	if alloc[0] != 80.00 {
		t.Fatalf("alloc = %v, want 80.00 (a single free unit)", alloc[0])
	}
}

func TestApplyBuyGet_NonRepeatableFiresOnce(t *testing.T) {
	lines := []SaleLine{
		{LineID: "l1", ProductID: "soap", Quantity: 6, UnitPrice: 80},
		{LineID: "l2", ProductID: "brush", Quantity: 4, UnitPrice: 30},
	}
	rules := []BuyGetRule{{
		BuyProductID: "soap", BuyQuantity: 2,
		GetProductID: "brush", GetQuantity: 1,
		DiscountKind: RuleKindPercentage, DiscountValue: 100,
		Repeatable: false,
	}}

	records, alloc := applyBuyGet(lines, rules, "weekly", make([]float64, 2))
	if len(records) != 1 || records[0].TotalCalculatedDiscount != 30.00 {
		t.Fatalf("records = %+v, want one record of 30.00", records)
	}
	if alloc[1] != 30.00 {
		t.Fatalf("alloc = %v, reward must land on the brush line", alloc)
	}
}

func TestApplyBuyGet_RewardSpansMultipleLines(t *testing.T) {
	// 同一赠品分散在两行批次上，按行序分摊
	lines := []SaleLine{
		{LineID: "l1", ProductID: "pen", Quantity: 1, UnitPrice: 10},
		{LineID: "l2", ProductID: "ink", Quantity: 3, UnitPrice: 100},
		{LineID: "l3", ProductID: "pen", Quantity: 5, UnitPrice: 12},
	}
	rules := []BuyGetRule{{
		BuyProductID: "ink", BuyQuantity: 3,
		GetProductID: "pen", GetQuantity: 2,
		DiscountKind: RuleKindPercentage, DiscountValue: 100,
	}}

	records, alloc := applyBuyGet(lines, rules, "weekly", make([]float64, 3))
	if len(records) != 1 {
		t.Fatalf("records = %+v", records)
	}
	if alloc[0] != 10.00 || alloc[2] != 12.00 {
		t.Fatalf("alloc = %v, want 10.00 on l1 then 12.00 on l3", alloc)
	}
	if records[0].TotalCalculatedDiscount != 22.00 {
		t.Fatalf("total = %v, want 22.00", records[0].TotalCalculatedDiscount)
	}
}

func TestApplyBuyGet_UnknownProductComputesZero(t *testing.T) {
	lines := []SaleLine{{LineID: "l1", ProductID: "soap", Quantity: 2, UnitPrice: 80}}
	rules := []BuyGetRule{{
		BuyProductID: "ghost", BuyQuantity: 1,
		GetProductID: "soap", GetQuantity: 1,
		DiscountKind: RuleKindPercentage, DiscountValue: 100,
	}}

	records, alloc := applyBuyGet(lines, rules, "weekly", make([]float64, 1))
	if len(records) != 0 || alloc[0] != 0 {
		t.Fatalf("rule on a product absent from the cart must be a no-op: %+v %v", records, alloc)
	}
}

func TestApplyBuyGet_RewardCappedByCartPresence(t *testing.T) {
	// 买 1 瓶洗发水送 3 把梳子，但车里只有 2 把
	lines := []SaleLine{
		{LineID: "l1", ProductID: "shampoo", Quantity: 1, UnitPrice: 200},
		{LineID: "l2", ProductID: "comb", Quantity: 2, UnitPrice: 15},
	}
	rules := []BuyGetRule{{
		BuyProductID: "shampoo", BuyQuantity: 1,
		GetProductID: "comb", GetQuantity: 3,
		DiscountKind: RuleKindPercentage, DiscountValue: 100,
	}}

	records, _ := applyBuyGet(lines, rules, "weekly", make([]float64, 2))
	if len(records) != 1 || records[0].TotalCalculatedDiscount != 30.00 {
		t.Fatalf("records = %+v, want 30.00 (2 combs only)", records)
	}
}

func TestApplyBuyGet_ClampedToRemainingPayable(t *testing.T) {
	// 行级折扣已吃掉大半行金额时，买赠只能分走剩余可付部分
	lines := []SaleLine{{LineID: "l1", ProductID: "soap", Quantity: 3, UnitPrice: 80}}
	paid := []float64{200} // gross=240，剩 40 可付
	rules := []BuyGetRule{{
		BuyProductID: "soap", BuyQuantity: 2,
		GetProductID: "soap", GetQuantity: 1,
		DiscountKind: RuleKindPercentage, DiscountValue: 100,
		Repeatable: true,
	}}

	records, alloc := applyBuyGet(lines, rules, "weekly", paid)
	if alloc[0] != 40.00 {
		t.Fatalf("alloc = %v, want clamped to 40.00", alloc[0])
	}
	if records[0].TotalCalculatedDiscount != 40.00 {
		t.Fatalf("record = %+v", records[0])
	}
}

func TestApplyBuyGet_FixedDiscountPerRewardUnit(t *testing.T) {
	lines := []SaleLine{
		{LineID: "l1", ProductID: "a", Quantity: 4, UnitPrice: 100},
		{LineID: "l2", ProductID: "b", Quantity: 2, UnitPrice: 60},
	}
	rules := []BuyGetRule{{
		BuyProductID: "a", BuyQuantity: 2,
		GetProductID: "b", GetQuantity: 1,
		DiscountKind: RuleKindFixed, DiscountValue: 25,
		Repeatable: true,
	}}

	// 2 次重复 -> 2 件奖励，每件固定减 25
	records, _ := applyBuyGet(lines, rules, "weekly", make([]float64, 2))
	if len(records) != 1 || records[0].TotalCalculatedDiscount != 50.00 {
		t.Fatalf("records = %+v, want 50.00", records)
	}
}

func TestApplyBuyGet_MalformedRuleSkipped(t *testing.T) {
	lines := []SaleLine{{LineID: "l1", ProductID: "a", Quantity: 5, UnitPrice: 10}}
	rules := []BuyGetRule{
		{BuyProductID: "a", BuyQuantity: 0, GetProductID: "a", GetQuantity: 1, DiscountKind: RuleKindFixed, DiscountValue: 5},
		{BuyProductID: "a", BuyQuantity: 1, GetProductID: "a", GetQuantity: 1, DiscountKind: "bogus", DiscountValue: 5},
		{BuyProductID: "a", BuyQuantity: 1, GetProductID: "a", GetQuantity: 1, DiscountKind: RuleKindFixed, DiscountValue: -5},
	}

	records, alloc := applyBuyGet(lines, rules, "weekly", make([]float64, 1))
	if len(records) != 0 || alloc[0] != 0 {
		t.Fatalf("malformed rules must be silently skipped: %+v %v", records, alloc)
	}
}
