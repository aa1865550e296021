package domain

// Process 对一车行项目执行完整的促销计算流水线：
//
//	行级规则 -> 买赠匹配 -> 整单规则 -> 聚合
//
// 它是 (lines, campaign) 的纯函数：不做 I/O、不持有跨调用状态，
// 相同输入永远产生相同结果，因此客户端实时试算与服务端结账复算
// 可以共用同一实现。活动为 nil、未启用或购物车为空时返回零折扣
// 结果而不是错误——结账永远不会被促销配置阻塞。
func Process(lines []SaleLine, campaign *DiscountSet) *EngineResult {
	sanitized := sanitizeLines(lines)

	if campaign == nil || !campaign.Active || len(sanitized) == 0 {
		return zeroResult(sanitized)
	}

	// 阶段一：每行至多一条自动规则
	autoRecords := make([]*AppliedRuleRecord, len(sanitized))
	paid := make([]float64, len(sanitized))
	for i, line := range sanitized {
		if rec := resolveLine(line, campaign); rec != nil {
			autoRecords[i] = rec
			paid[i] = rec.TotalCalculatedDiscount
		}
	}

	// 阶段二：买赠在行级结果之上叠加，永不替换
	buyGetRecords, buyGetAlloc := applyBuyGet(sanitized, campaign.BuyGetRules, campaign.Name, paid)

	// 聚合行视图
	result := &EngineResult{LineItems: make([]LineResult, len(sanitized))}
	var grossTotal, totalQuantity float64
	for i, line := range sanitized {
		gross := line.Gross()
		total := clamp(Round2(paid[i]+buyGetAlloc[i]), gross)
		result.LineItems[i] = LineResult{
			LineID:         line.LineID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			Gross:          gross,
			AutoRule:       autoRecords[i],
			BuyGetDiscount: buyGetAlloc[i],
			TotalDiscount:  total,
			Net:            Round2(gross - total),
		}
		result.TotalItemDiscount = Round2(result.TotalItemDiscount + total)
		grossTotal += gross
		totalQuantity += line.Quantity
	}

	// 阶段三：整单规则作用于净小计
	netSubtotal := Round2(grossTotal - result.TotalItemDiscount)
	earlierFired := result.TotalItemDiscount > 0
	cartRecord := applyCartRule(netSubtotal, totalQuantity, campaign, earlierFired)
	if cartRecord != nil {
		result.TotalCartDiscount = cartRecord.TotalCalculatedDiscount
	}

	// 汇总顺序是契约：行级记录按输入行序，买赠按配置顺序，整单殿后
	for _, rec := range autoRecords {
		if rec != nil {
			result.appliedRules = append(result.appliedRules, *rec)
		}
	}
	result.appliedRules = append(result.appliedRules, buyGetRecords...)
	if cartRecord != nil {
		result.appliedRules = append(result.appliedRules, *cartRecord)
	}

	return result
}

// Facts 从输入行提取准入表达式可见的购物车事实。
func Facts(lines []SaleLine) CartFacts {
	facts := CartFacts{LineCount: len(lines)}
	for _, l := range sanitizeLines(lines) {
		facts.CartTotal = Round2(facts.CartTotal + l.Gross())
		facts.TotalQuantity += l.Quantity
	}
	return facts
}

// zeroResult 输出一份零折扣、但行视图完整的结果。
func zeroResult(lines []SaleLine) *EngineResult {
	result := &EngineResult{LineItems: make([]LineResult, len(lines))}
	for i, line := range lines {
		gross := line.Gross()
		result.LineItems[i] = LineResult{
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Gross:     gross,
			Net:       gross,
		}
	}
	return result
}
