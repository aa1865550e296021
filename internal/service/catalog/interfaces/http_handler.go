package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"merx/internal/service/catalog/application"
	"merx/internal/service/catalog/domain"
)

// CatalogHandler 封装了商品目录的 HTTP 处理器。
type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/catalog/products", h.handleProducts)
	mux.HandleFunc("/catalog/products/", h.handleProductByID)
}

func (h *CatalogHandler) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	switch r.Method {
	case http.MethodPost:
		var dto application.ProductDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		product, err := h.service.UpsertProduct(ctx, &dto)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, application.ToDTO(product))
	case http.MethodGet:
		products, err := h.service.ListProducts(ctx, r.URL.Query().Get("category"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		dtos := make([]*application.ProductDTO, 0, len(products))
		for _, p := range products {
			dtos = append(dtos, application.ToDTO(p))
		}
		writeJSON(w, dtos)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CatalogHandler) handleProductByID(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/catalog/products/")
	if id == "" {
		http.Error(w, "product id is required", http.StatusBadRequest)
		return
	}

	product, err := h.service.GetProduct(ctx, id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, application.ToDTO(product))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProductInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func extract(r *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
