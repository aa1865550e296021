package domain

import (
	"fmt"
	"math"
)

// applyBuyGet 按配置顺序评估全部买赠规则。
//
// 奖励资格只看原始购买数量，与前一阶段已经打掉多少金额无关；
// 金额裁剪才会参考该行剩余可付金额。paid[i] 是第 i 行已生效的
// 行级折扣，返回值 alloc[i] 是本阶段分摊到第 i 行的买赠折扣。
//
// 实现上用每个商品的剩余数量计数器做分摊，而不是原地修改购物车行，
// 保证本阶段仍是纯函数。
func applyBuyGet(lines []SaleLine, rules []BuyGetRule, campaignName string, paid []float64) ([]AppliedRuleRecord, []float64) {
	alloc := make([]float64, len(lines))
	var records []AppliedRuleRecord

	for _, rule := range rules {
		if rule.BuyQuantity <= 0 || rule.GetQuantity <= 0 || rule.DiscountValue <= 0 {
			continue // 残缺规则按不生效处理
		}
		if rule.DiscountKind != RuleKindPercentage && rule.DiscountKind != RuleKindFixed {
			continue
		}

		availableBuy := quantityOf(lines, rule.BuyProductID)
		var repetitions float64
		if rule.Repeatable {
			repetitions = math.Floor(availableBuy / rule.BuyQuantity)
		} else if availableBuy >= rule.BuyQuantity {
			repetitions = 1
		}
		if repetitions <= 0 {
			continue
		}

		// 奖励份额不能超过购物车里实际存在的赠品数量；
		// 买赠同品时先扣掉已付费的买入份额。
		rewardQty := repetitions * rule.GetQuantity
		pool := quantityOf(lines, rule.GetProductID)
		if rule.GetProductID == rule.BuyProductID {
			pool -= repetitions * rule.BuyQuantity
		}
		if pool < 0 {
			pool = 0
		}
		if rewardQty > pool {
			rewardQty = pool
		}
		if rewardQty <= 0 {
			continue
		}

		// 按行序把奖励份额分摊到赠品所在的各行（同一商品可能分散在多行批次上）
		total := 0.0
		remaining := rewardQty
		for i, line := range lines {
			if remaining <= 0 {
				break
			}
			if line.ProductID != rule.GetProductID || line.Quantity <= 0 {
				continue
			}
			units := math.Min(remaining, line.Quantity)
			perUnit := rule.DiscountValue
			if rule.DiscountKind == RuleKindPercentage {
				perUnit = line.UnitPrice * rule.DiscountValue / 100
			}
			amount := Round2(perUnit * units)
			payable := line.Gross() - paid[i] - alloc[i]
			amount = clamp(amount, payable)
			alloc[i] += amount
			total += amount
			remaining -= units
		}

		if total > 0 {
			records = append(records, AppliedRuleRecord{
				RuleSetName:             campaignName,
				SourceRuleName:          buyGetRuleName(rule),
				RuleType:                RuleTypeBuyGetFree,
				ProductID:               rule.GetProductID,
				TotalCalculatedDiscount: Round2(total),
			})
		}
	}

	return records, alloc
}

func quantityOf(lines []SaleLine, productID string) float64 {
	var total float64
	for _, l := range lines {
		if l.ProductID == productID {
			total += l.Quantity
		}
	}
	return total
}

func buyGetRuleName(rule BuyGetRule) string {
	return fmt.Sprintf("buy %g %s get %g %s", rule.BuyQuantity, rule.BuyProductID, rule.GetQuantity, rule.GetProductID)
}
