package domain

import "time"

// SaleCompletedEvent 在结账落库后发布到消息总线，
// 供报表、库存扣减等下游系统消费。
type SaleCompletedEvent struct {
	EventID           string    `json:"event_id"`
	SaleID            string    `json:"sale_id"`
	CashierID         string    `json:"cashier_id"`
	CampaignName      string    `json:"campaign_name,omitempty"`
	LineCount         int       `json:"line_count"`
	Subtotal          float64   `json:"subtotal"`
	TotalItemDiscount float64   `json:"total_item_discount"`
	TotalCartDiscount float64   `json:"total_cart_discount"`
	Total             float64   `json:"total"`
	OccurredAt        time.Time `json:"occurred_at"`
}
