package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInvalid  = errors.New("product definition is invalid")
)

// Product 是商品目录中的一件商品。ID 用门店自己的货号（SKU），
// 促销配置里的 productId 引用的就是它。
type Product struct {
	ID        string
	Name      string
	Category  string
	UnitPrice float64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct 创建一件商品并做基础校验。
func NewProduct(id, name, category string, unitPrice float64) (*Product, error) {
	if id == "" || name == "" {
		return nil, ErrProductInvalid
	}
	if unitPrice < 0 {
		return nil, ErrProductInvalid
	}
	now := time.Now()
	return &Product{
		ID:        id,
		Name:      name,
		Category:  category,
		UnitPrice: unitPrice,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ProductRepository 定义商品目录的持久化端口。
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, category string) ([]*Product, error)
}
