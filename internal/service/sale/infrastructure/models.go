package infrastructure

import "time"

// SaleModel 是销售单的持久化模型。主键用业务侧生成的 UUID，
// 跨库备份时不依赖自增序列。
type SaleModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	CashierID string `gorm:"size:64;index"`
	State     string `gorm:"size:16"`

	Subtotal          float64 `gorm:"type:decimal(10,2)"`
	TotalItemDiscount float64 `gorm:"type:decimal(10,2)"`
	TotalCartDiscount float64 `gorm:"type:decimal(10,2)"`
	Total             float64 `gorm:"type:decimal(10,2)"`

	Lines        []SaleLineModel        `gorm:"foreignKey:SaleID"`
	AppliedRules []SaleAppliedRuleModel `gorm:"foreignKey:SaleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SaleModel) TableName() string {
	return "sales"
}

// SaleLineModel 是销售单行的持久化模型。
type SaleLineModel struct {
	ID          uint   `gorm:"primaryKey"`
	SaleID      string `gorm:"size:36;index"`
	LineID      string `gorm:"size:36"`
	ProductID   string `gorm:"size:64;index"`
	ProductName string `gorm:"size:255"`

	Quantity  float64 `gorm:"type:decimal(10,3)"`
	UnitPrice float64 `gorm:"type:decimal(10,2)"`
	Gross     float64 `gorm:"type:decimal(10,2)"`
	Discount  float64 `gorm:"type:decimal(10,2)"`
	Net       float64 `gorm:"type:decimal(10,2)"`

	// Position 保住行在购物车里的原始顺序
	Position int `gorm:"index"`
}

func (SaleLineModel) TableName() string {
	return "sale_lines"
}

// SaleAppliedRuleModel 是随单归档的折扣审计记录。
type SaleAppliedRuleModel struct {
	ID     uint   `gorm:"primaryKey"`
	SaleID string `gorm:"size:36;index"`

	RuleSetName    string  `gorm:"size:255"`
	SourceRuleName string  `gorm:"size:255"`
	RuleType       string  `gorm:"size:64"`
	ProductID      string  `gorm:"size:64"`
	Amount         float64 `gorm:"type:decimal(10,2)"`

	// Position 保住折扣明细的汇总顺序
	Position int `gorm:"index"`
}

func (SaleAppliedRuleModel) TableName() string {
	return "sale_applied_rules"
}
