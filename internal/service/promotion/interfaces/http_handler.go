package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"merx/internal/service/promotion/application"
	"merx/internal/service/promotion/domain"
	"merx/internal/service/promotion/infrastructure"
)

// CampaignDocumentStore 是后台写入活动配置文档的接口，
// 由 GORM 仓储实现。
type CampaignDocumentStore interface {
	SaveDocument(ctx context.Context, doc *infrastructure.CampaignDocument) error
}

// PromotionHandler 封装了 promotion 服务的 HTTP 处理器。
type PromotionHandler struct {
	service *application.PromotionService
	docs    CampaignDocumentStore
}

// NewPromotionHandler 创建一个新的 HTTP 处理器实例。
func NewPromotionHandler(service *application.PromotionService, docs CampaignDocumentStore) *PromotionHandler {
	return &PromotionHandler{service: service, docs: docs}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *PromotionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/promotion/quote", h.handleQuote)
	mux.HandleFunc("/promotion/campaigns", h.handleUpsertCampaign)
	mux.HandleFunc("/promotion/campaigns/activate", h.handleActivateCampaign)
	mux.HandleFunc("/promotion/campaigns/active", h.handleActiveCampaign)
}

func (h *PromotionHandler) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req application.QuoteCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.QuoteCart(ctx, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

func (h *PromotionHandler) handleUpsertCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var doc infrastructure.CampaignDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.docs.SaveDocument(ctx, &doc); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	h.service.InvalidateCache(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromotionHandler) handleActivateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.service.ActivateCampaign(ctx, name); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromotionHandler) handleActiveCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	campaign, err := h.service.ActiveCampaign(ctx)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, campaign)
}

// statusFor 根据错误类型返回不同的 HTTP 状态码。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCampaignNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCampaignInvalid):
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
