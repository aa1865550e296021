package application

import promotion "merx/internal/service/promotion/application"

// CheckoutItem 是收银端提交的一行商品，单价由商品目录解析，
// 前端不允许传价格。
type CheckoutItem struct {
	ProductID      string                       `json:"productId"`
	Quantity       float64                      `json:"quantity"`
	CustomDiscount *promotion.CustomDiscountDTO `json:"customDiscount,omitempty"`
}

// CheckoutRequest 是 POST /sales/checkout 的请求体。
type CheckoutRequest struct {
	CashierID string         `json:"cashierId"`
	Items     []CheckoutItem `json:"items"`
}

// ReceiptLine 是小票上的一行。
type ReceiptLine struct {
	LineID      string  `json:"lineId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Gross       float64 `json:"gross"`
	Discount    float64 `json:"discount"`
	Net         float64 `json:"net"`
}

// CheckoutResponse 是结账成功后的小票视图。
type CheckoutResponse struct {
	SaleID            string                     `json:"saleId"`
	CampaignName      string                     `json:"campaignName,omitempty"`
	LineItems         []ReceiptLine              `json:"lineItems"`
	AppliedRules      []promotion.AppliedRuleDTO `json:"appliedRules"`
	Subtotal          float64                    `json:"subtotal"`
	TotalItemDiscount float64                    `json:"totalItemDiscount"`
	TotalCartDiscount float64                    `json:"totalCartDiscount"`
	Total             float64                    `json:"total"`
}
