package domain

import "math"

// CustomDiscount 是收银员手工录入的行折扣，
// 存在时压制该行的自动规则，但不影响买赠与整单层。
type CustomDiscount struct {
	Kind  RuleKind
	Value float64
}

// SaleLine 是引擎的输入行：一件商品、数量与单价。
// 引擎从不修改输入，所有结果都以新对象返回。
type SaleLine struct {
	LineID    string
	ProductID string
	Quantity  float64
	UnitPrice float64
	Custom    *CustomDiscount
}

// Gross 返回该行的应付原值。
func (l SaleLine) Gross() float64 {
	return Round2(l.UnitPrice * l.Quantity)
}

// AppliedRuleRecord 是一条已生效折扣的审计记录，
// 小票、前端与备份都按这份记录还原折扣明细。
type AppliedRuleRecord struct {
	RuleSetName             string
	SourceRuleName          string
	RuleType                RuleType
	ProductID               string // 受影响的商品，整单规则为空
	TotalCalculatedDiscount float64
}

// LineResult 是聚合后的单行视图。
type LineResult struct {
	LineID    string
	ProductID string
	Quantity  float64
	UnitPrice float64
	Gross     float64

	AutoRule       *AppliedRuleRecord
	BuyGetDiscount float64
	// TotalDiscount = 自动规则 + 买赠分摊，恒在 [0, Gross] 内。
	TotalDiscount float64
	Net           float64
}

// EngineResult 是一次引擎调用的完整产物。
type EngineResult struct {
	LineItems         []LineResult
	TotalItemDiscount float64
	TotalCartDiscount float64

	appliedRules []AppliedRuleRecord
}

// AppliedRulesSummary 按契约顺序返回全部生效记录：
// 先按输入行序的行级记录，再按配置顺序的买赠记录，最后是整单记录。
// 这个顺序驱动小票与前端的展示，属于对外契约。
func (r *EngineResult) AppliedRulesSummary() []AppliedRuleRecord {
	out := make([]AppliedRuleRecord, len(r.appliedRules))
	copy(out, r.appliedRules)
	return out
}

// Round2 将金额四舍五入到货币最小单位（两位小数）。
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sanitizeLines 在进入计算前把上游传入的越界数值钳到零，
// 负数量或负单价绝不可能产生负折扣。
func sanitizeLines(lines []SaleLine) []SaleLine {
	out := make([]SaleLine, len(lines))
	for i, l := range lines {
		if l.Quantity < 0 {
			l.Quantity = 0
		}
		if l.UnitPrice < 0 {
			l.UnitPrice = 0
		}
		out[i] = l
	}
	return out
}
