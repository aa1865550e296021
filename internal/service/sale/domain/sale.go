package domain

import (
	"errors"
	"time"
)

// State 是销售单的生命周期状态。
type State string

const (
	StateDraft     State = "DRAFT"     // 已组装，未落库
	StateCompleted State = "COMPLETED" // 结账完成
)

var (
	ErrEmptyCart      = errors.New("cannot checkout an empty cart")
	ErrUnknownProduct = errors.New("unknown product in cart")
	ErrSaleNotFound   = errors.New("sale not found")
)

// Line 是销售单中的一行，金额字段是结账时刻引擎输出的快照。
type Line struct {
	LineID      string
	ProductID   string
	ProductName string
	Quantity    float64
	UnitPrice   float64
	Gross       float64
	Discount    float64
	Net         float64
}

// AppliedRule 是随销售单一起归档的折扣审计记录，
// 小票重打与备份都从这里还原，顺序与引擎汇总一致。
type AppliedRule struct {
	RuleSetName    string
	SourceRuleName string
	RuleType       string
	ProductID      string
	Amount         float64
}

// Sale 是销售聚合根。折扣明细在结账时刻定格：之后活动怎么改，
// 这张单子的账目都不再变化。
type Sale struct {
	ID        string
	CashierID string
	State     State

	Lines        []Line
	AppliedRules []AppliedRule

	Subtotal          float64
	TotalItemDiscount float64
	TotalCartDiscount float64
	Total             float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSale 用于创建一张新的销售单。
func NewSale(id, cashierID string, lines []Line, rules []AppliedRule, totalItemDiscount, totalCartDiscount float64) (*Sale, error) {
	if id == "" || len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var subtotal float64
	for _, l := range lines {
		subtotal += l.Gross
	}

	now := time.Now()
	return &Sale{
		ID:                id,
		CashierID:         cashierID,
		State:             StateDraft,
		Lines:             lines,
		AppliedRules:      rules,
		Subtotal:          subtotal,
		TotalItemDiscount: totalItemDiscount,
		TotalCartDiscount: totalCartDiscount,
		Total:             subtotal - totalItemDiscount - totalCartDiscount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// MarkCompleted 把销售单置为完成态。
func (s *Sale) MarkCompleted() error {
	if s.State != StateDraft {
		return errors.New("sale can only be completed from draft state")
	}
	s.State = StateCompleted
	s.UpdatedAt = time.Now()
	return nil
}
