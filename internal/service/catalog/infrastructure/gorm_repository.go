package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"merx/internal/service/catalog/domain"
)

// ProductModel 是商品的持久化模型。
type ProductModel struct {
	ID        string  `gorm:"primaryKey;size:64"`
	Name      string  `gorm:"size:255"`
	Category  string  `gorm:"size:64;index"`
	UnitPrice float64 `gorm:"type:decimal(10,2)"`
	Active    bool    `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

// GormProductRepository 实现 domain.ProductRepository。
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Save 按货号 upsert：导入价格表时同一 SKU 可以反复提交。
func (r *GormProductRepository) Save(ctx context.Context, product *domain.Product) error {
	model := &ProductModel{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		UnitPrice: product.UnitPrice,
		Active:    product.Active,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "unit_price", "active", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return errors.Wrapf(err, "save product %s", product.ID)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, errors.Wrapf(err, "find product %s", id)
	}
	return toDomain(&model), nil
}

func (r *GormProductRepository) List(ctx context.Context, category string) ([]*domain.Product, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var models []ProductModel
	if err := query.Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products := make([]*domain.Product, 0, len(models))
	for i := range models {
		products = append(products, toDomain(&models[i]))
	}
	return products, nil
}

func toDomain(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Category:  model.Category,
		UnitPrice: model.UnitPrice,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
