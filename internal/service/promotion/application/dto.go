package application

import "merx/internal/service/promotion/domain"

// CustomDiscountDTO 是收银员手工折扣的线格式。
type CustomDiscountDTO struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// QuoteLineItem 是试算请求中的一行。
type QuoteLineItem struct {
	LineID         string             `json:"lineId"`
	ProductID      string             `json:"productId"`
	Quantity       float64            `json:"quantity"`
	UnitPrice      float64            `json:"unitPrice"`
	CustomDiscount *CustomDiscountDTO `json:"customDiscount,omitempty"`
}

// QuoteCartRequest 是试算用例的输入。
type QuoteCartRequest struct {
	Items []QuoteLineItem `json:"items"`
}

// AppliedRuleDTO 是一条生效折扣记录的线格式。
type AppliedRuleDTO struct {
	RuleSetName             string  `json:"ruleSetName"`
	SourceRuleName          string  `json:"sourceRuleName"`
	RuleType                string  `json:"ruleType"`
	ProductIDAffected       string  `json:"productIdAffected,omitempty"`
	TotalCalculatedDiscount float64 `json:"totalCalculatedDiscount"`
}

// QuoteLineResult 是试算响应中的单行视图。
type QuoteLineResult struct {
	LineID        string  `json:"lineId"`
	ProductID     string  `json:"productId"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Gross         float64 `json:"gross"`
	TotalDiscount float64 `json:"totalDiscount"`
	Net           float64 `json:"net"`
}

// QuoteCartResponse 是试算用例的输出，折扣明细的顺序与引擎契约一致。
type QuoteCartResponse struct {
	CampaignName      string            `json:"campaignName,omitempty"`
	LineItems         []QuoteLineResult `json:"lineItems"`
	TotalItemDiscount float64           `json:"totalItemDiscount"`
	TotalCartDiscount float64           `json:"totalCartDiscount"`
	AppliedRules      []AppliedRuleDTO  `json:"appliedRules"`
}

// ToDomainLines 把请求行转换为引擎输入。
func (r *QuoteCartRequest) ToDomainLines() []domain.SaleLine {
	lines := make([]domain.SaleLine, 0, len(r.Items))
	for _, item := range r.Items {
		line := domain.SaleLine{
			LineID:    item.LineID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.CustomDiscount != nil {
			line.Custom = &domain.CustomDiscount{
				Kind:  domain.RuleKind(item.CustomDiscount.Kind),
				Value: item.CustomDiscount.Value,
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// ToQuoteResponse 把引擎结果转换为响应 DTO。
func ToQuoteResponse(campaignName string, result *domain.EngineResult) *QuoteCartResponse {
	resp := &QuoteCartResponse{
		CampaignName:      campaignName,
		LineItems:         make([]QuoteLineResult, 0, len(result.LineItems)),
		TotalItemDiscount: result.TotalItemDiscount,
		TotalCartDiscount: result.TotalCartDiscount,
	}
	for _, li := range result.LineItems {
		resp.LineItems = append(resp.LineItems, QuoteLineResult{
			LineID:        li.LineID,
			ProductID:     li.ProductID,
			Quantity:      li.Quantity,
			UnitPrice:     li.UnitPrice,
			Gross:         li.Gross,
			TotalDiscount: li.TotalDiscount,
			Net:           li.Net,
		})
	}
	for _, rec := range result.AppliedRulesSummary() {
		resp.AppliedRules = append(resp.AppliedRules, AppliedRuleDTO{
			RuleSetName:             rec.RuleSetName,
			SourceRuleName:          rec.SourceRuleName,
			RuleType:                string(rec.RuleType),
			ProductIDAffected:       rec.ProductID,
			TotalCalculatedDiscount: rec.TotalCalculatedDiscount,
		})
	}
	return resp
}
