package domain

// applyCartRule 对扣除行级与买赠折扣后的净小计评估整单规则。
//
// 金额变体优先，未触发时再评估数量变体，整单层最多一条规则生效。
// 活动配置了 OneTimePerTransaction 且前面任何一层已产生折扣时，
// 整单规则被整体跳过（互斥语义）。
func applyCartRule(netSubtotal, totalQuantity float64, campaign *DiscountSet, earlierFired bool) *AppliedRuleRecord {
	if netSubtotal <= 0 {
		return nil
	}
	if campaign.OneTimePerTransaction && earlierFired {
		return nil
	}

	if campaign.GlobalCartRule.Qualifies(netSubtotal) {
		return newCartRecord(campaign.Name, campaign.GlobalCartRule, RuleTypeCampaignGlobalValue, netSubtotal, totalQuantity)
	}
	if campaign.GlobalCartQuantityRule.Qualifies(totalQuantity) {
		return newCartRecord(campaign.Name, campaign.GlobalCartQuantityRule, RuleTypeCampaignGlobalQuantity, netSubtotal, totalQuantity)
	}
	return nil
}

func newCartRecord(campaignName string, rule *ValueRule, ruleType RuleType, netSubtotal, totalQuantity float64) *AppliedRuleRecord {
	var amount float64
	switch {
	case rule.Kind == RuleKindPercentage:
		amount = Round2(netSubtotal * rule.Value / 100)
	case rule.ApplyOnce:
		amount = Round2(rule.Value)
	default:
		// 固定金额逐件计算时，整单层的 "件" 是整车商品数量
		amount = Round2(rule.Value * totalQuantity)
	}
	amount = clamp(amount, netSubtotal)
	if amount <= 0 {
		return nil
	}
	return &AppliedRuleRecord{
		RuleSetName:             campaignName,
		SourceRuleName:          rule.Name,
		RuleType:                ruleType,
		TotalCalculatedDiscount: amount,
	}
}
