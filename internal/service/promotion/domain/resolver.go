package domain

// resolveLine 为一行挑选至多一条自动生效的规则并计算其折扣。
//
// 优先级从高到低：
//  1. 收银员手工折扣（压制后续所有自动规则）；
//  2. 商品覆盖配置的数量规则（数量促销被认为更具体）；
//  3. 商品覆盖配置的金额规则；
//  4. 活动默认的行金额规则。
//
// 行级阶段不叠加：最多只有一条规则生效。买赠与整单折扣在后续阶段另行叠加。
func resolveLine(line SaleLine, campaign *DiscountSet) *AppliedRuleRecord {
	gross := line.Gross()
	if gross <= 0 {
		return nil
	}

	if line.Custom != nil {
		return resolveCustom(line, gross, campaign.Name)
	}

	if ov := campaign.Override(line.ProductID); ov != nil {
		if ov.QuantityRule.Qualifies(line.Quantity) {
			return newLineRecord(campaign.Name, ov.QuantityRule, RuleTypeProductConfigQuantity, line, gross)
		}
		if ov.ValueRule.Qualifies(gross) {
			return newLineRecord(campaign.Name, ov.ValueRule, RuleTypeProductConfigValue, line, gross)
		}
		// 覆盖配置存在但都不符合条件时，仍回落到活动默认规则
	}

	if campaign.DefaultLineRule.Qualifies(gross) {
		return newLineRecord(campaign.Name, campaign.DefaultLineRule, RuleTypeCampaignDefaultValue, line, gross)
	}

	return nil
}

// resolveCustom 把手工折扣转成审计记录。金额为非正时记录仍然存在
// （它压制了自动规则这一事实需要可见），但折扣被钳为零。
func resolveCustom(line SaleLine, gross float64, campaignName string) *AppliedRuleRecord {
	var amount float64
	switch line.Custom.Kind {
	case RuleKindPercentage:
		amount = Round2(gross * line.Custom.Value / 100)
	case RuleKindFixed:
		amount = Round2(line.Custom.Value)
	}
	amount = clamp(amount, gross)
	return &AppliedRuleRecord{
		RuleSetName:             campaignName,
		SourceRuleName:          "manual",
		RuleType:                RuleTypeCustomItemDiscount,
		ProductID:               line.ProductID,
		TotalCalculatedDiscount: amount,
	}
}

func newLineRecord(campaignName string, rule *ValueRule, ruleType RuleType, line SaleLine, gross float64) *AppliedRuleRecord {
	amount := clamp(rule.Amount(line.UnitPrice, line.Quantity), gross)
	return &AppliedRuleRecord{
		RuleSetName:             campaignName,
		SourceRuleName:          rule.Name,
		RuleType:                ruleType,
		ProductID:               line.ProductID,
		TotalCalculatedDiscount: amount,
	}
}

// clamp 把折扣裁剪到 [0, max]，折扣超出行应付金额属于静默纠正而不是错误。
func clamp(amount, max float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount > max {
		return Round2(max)
	}
	return amount
}
