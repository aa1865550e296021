package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"merx/internal/pkg/logger"
	"merx/internal/service/catalog/domain"
)

// ProductDTO 是商品的线格式。
type ProductDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
	Active    bool    `json:"active"`
}

// CatalogService 承载商品目录的维护与查询用例。
type CatalogService struct {
	repo   domain.ProductRepository
	tracer trace.Tracer
}

func NewCatalogService(repo domain.ProductRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, tracer: tracer}
}

// UpsertProduct 新建或更新一件商品。
func (s *CatalogService) UpsertProduct(ctx context.Context, dto *ProductDTO) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpsertProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", dto.ID))

	product, err := domain.NewProduct(dto.ID, dto.Name, dto.Category, dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	product.Active = dto.Active

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("product_id", product.ID).Float64("unit_price", product.UnitPrice).Msg("product saved")
	return product, nil
}

// GetProduct 按货号查询一件商品。
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetProduct")
	defer span.End()
	return s.repo.FindByID(ctx, id)
}

// ListProducts 列出商品，category 为空时列出全部。
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListProducts")
	defer span.End()
	return s.repo.List(ctx, category)
}

// ToDTO 把领域商品转换为线格式。
func ToDTO(product *domain.Product) *ProductDTO {
	return &ProductDTO{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		UnitPrice: product.UnitPrice,
		Active:    product.Active,
	}
}
