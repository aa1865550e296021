package adapter

import (
	"context"

	catalog "merx/internal/service/catalog/application"
	"merx/internal/service/sale/application"
)

// CatalogAdapter 把商品目录服务适配成销售侧的单价解析端口。
// 两个上下文跑在同一进程里，调用是进程内直连。
type CatalogAdapter struct {
	catalog *catalog.CatalogService
}

func NewCatalogAdapter(service *catalog.CatalogService) *CatalogAdapter {
	return &CatalogAdapter{catalog: service}
}

func (a *CatalogAdapter) Resolve(ctx context.Context, productID string) (*application.Product, error) {
	product, err := a.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &application.Product{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Active:    product.Active,
	}, nil
}
