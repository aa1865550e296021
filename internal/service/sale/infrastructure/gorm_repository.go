package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"merx/internal/service/sale/domain"
)

// GormSaleRepository 实现 domain.SaleRepository。
type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save 以一个事务写入销售单及其全部明细。销售单是只增不改的账目，
// 不做 upsert。
func (r *GormSaleRepository) Save(ctx context.Context, sale *domain.Sale) error {
	model := toModel(sale)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return errors.Wrapf(err, "save sale %s", sale.ID)
	}
	return nil
}

// FindByID 按主键加载销售单，带全部行与折扣明细。
func (r *GormSaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	var model SaleModel
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("AppliedRules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, errors.Wrapf(err, "find sale %s", id)
	}
	return toDomain(&model), nil
}

func toModel(sale *domain.Sale) *SaleModel {
	model := &SaleModel{
		ID:                sale.ID,
		CashierID:         sale.CashierID,
		State:             string(sale.State),
		Subtotal:          sale.Subtotal,
		TotalItemDiscount: sale.TotalItemDiscount,
		TotalCartDiscount: sale.TotalCartDiscount,
		Total:             sale.Total,
		CreatedAt:         sale.CreatedAt,
		UpdatedAt:         sale.UpdatedAt,
	}
	for i, l := range sale.Lines {
		model.Lines = append(model.Lines, SaleLineModel{
			SaleID:      sale.ID,
			LineID:      l.LineID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Gross:       l.Gross,
			Discount:    l.Discount,
			Net:         l.Net,
			Position:    i,
		})
	}
	for i, rec := range sale.AppliedRules {
		model.AppliedRules = append(model.AppliedRules, SaleAppliedRuleModel{
			SaleID:         sale.ID,
			RuleSetName:    rec.RuleSetName,
			SourceRuleName: rec.SourceRuleName,
			RuleType:       rec.RuleType,
			ProductID:      rec.ProductID,
			Amount:         rec.Amount,
			Position:       i,
		})
	}
	return model
}

func toDomain(model *SaleModel) *domain.Sale {
	sale := &domain.Sale{
		ID:                model.ID,
		CashierID:         model.CashierID,
		State:             domain.State(model.State),
		Subtotal:          model.Subtotal,
		TotalItemDiscount: model.TotalItemDiscount,
		TotalCartDiscount: model.TotalCartDiscount,
		Total:             model.Total,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
	for _, l := range model.Lines {
		sale.Lines = append(sale.Lines, domain.Line{
			LineID:      l.LineID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Gross:       l.Gross,
			Discount:    l.Discount,
			Net:         l.Net,
		})
	}
	for _, rec := range model.AppliedRules {
		sale.AppliedRules = append(sale.AppliedRules, domain.AppliedRule{
			RuleSetName:    rec.RuleSetName,
			SourceRuleName: rec.SourceRuleName,
			RuleType:       rec.RuleType,
			ProductID:      rec.ProductID,
			Amount:         rec.Amount,
		})
	}
	return sale
}
