package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"merx/internal/service/sale/application"
	"merx/internal/service/sale/domain"
)

// SaleHandler 封装了销售服务的 HTTP 处理器。
type SaleHandler struct {
	service *application.SaleService
}

func NewSaleHandler(service *application.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *SaleHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/sales/checkout", h.handleCheckout)
	mux.HandleFunc("/sales/", h.handleSaleByID)
}

func (h *SaleHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req application.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Checkout(ctx, &req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *SaleHandler) handleSaleByID(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/sales/")
	if id == "" {
		http.Error(w, "sale id is required", http.StatusBadRequest)
		return
	}

	sale, err := h.service.FindSale(ctx, id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, sale)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSaleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrUnknownProduct):
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
