package application

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"

	"merx/internal/service/catalog/domain"
)

type fakeProductRepo struct {
	byID map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[string]*domain.Product)}
}

func (f *fakeProductRepo) Save(_ context.Context, product *domain.Product) error {
	f.byID[product.ID] = product
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeProductRepo) List(_ context.Context, category string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range f.byID {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestUpsertProduct(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, otel.Tracer("test"))

	product, err := svc.UpsertProduct(context.Background(), &ProductDTO{
		ID: "soap", Name: "Bar Soap", Category: "hygiene", UnitPrice: 40, Active: true,
	})
	if err != nil {
		t.Fatalf("UpsertProduct returned error: %v", err)
	}
	if product.UnitPrice != 40 || !product.Active {
		t.Fatalf("unexpected product: %+v", product)
	}

	got, err := svc.GetProduct(context.Background(), "soap")
	if err != nil {
		t.Fatalf("GetProduct returned error: %v", err)
	}
	if got.Name != "Bar Soap" {
		t.Fatalf("name = %q, want %q", got.Name, "Bar Soap")
	}
}

func TestUpsertProduct_RejectsInvalid(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), otel.Tracer("test"))

	cases := []struct {
		name string
		dto  *ProductDTO
	}{
		{"missing id", &ProductDTO{Name: "x", UnitPrice: 1}},
		{"missing name", &ProductDTO{ID: "x", UnitPrice: 1}},
		{"negative price", &ProductDTO{ID: "x", Name: "x", UnitPrice: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpsertProduct(context.Background(), tc.dto); !errors.Is(err, domain.ErrProductInvalid) {
				t.Fatalf("err = %v, want ErrProductInvalid", err)
			}
		})
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), otel.Tracer("test"))

	if _, err := svc.GetProduct(context.Background(), "nope"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}
