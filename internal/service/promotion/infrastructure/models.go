package infrastructure

import "gorm.io/gorm"

// DiscountSetModel 对应数据库中的 discount_sets 表。
// 四个规则列保持外部契约的 JSON 原文（导入/播种工具直接写入这些列），
// 解析成类型化规则的工作只在 mapper 这一处边界发生。
type DiscountSetModel struct {
	gorm.Model
	Name                    string `gorm:"uniqueIndex;size:128"`
	IsActive                bool
	IsDefault               bool
	IsOneTimePerTransaction bool

	DefaultLineItemValueRuleJSON string `gorm:"column:default_line_item_value_rule_json;type:json"`
	GlobalCartPriceRuleJSON      string `gorm:"column:global_cart_price_rule_json;type:json"`
	GlobalCartQuantityRuleJSON   string `gorm:"column:global_cart_quantity_rule_json;type:json"`
	BuyGetRulesJSON              string `gorm:"column:buy_get_rules_json;type:json"`

	EligibilityExpr string `gorm:"type:text"`

	// 关联关系
	ProductConfigurations []ProductConfigurationModel `gorm:"foreignKey:DiscountSetID"`
}

// TableName 指定 GORM 应该使用的表名
func (DiscountSetModel) TableName() string {
	return "discount_sets"
}

// ProductConfigurationModel 对应 discount_set_product_configs 表，
// 每行是一条针对单个商品的规则覆盖。
type ProductConfigurationModel struct {
	gorm.Model
	DiscountSetID                uint   `gorm:"index"`
	ProductID                    string `gorm:"index;size:64"`
	IsActiveForProductInCampaign bool

	LineItemQuantityRuleJSON string `gorm:"column:line_item_quantity_rule_json;type:json"`
	LineItemValueRuleJSON    string `gorm:"column:line_item_value_rule_json;type:json"`
}

// TableName 指定 GORM 应该使用的表名
func (ProductConfigurationModel) TableName() string {
	return "discount_set_product_configs"
}
