package interfaces

import (
	"net/http"

	"github.com/gorilla/websocket"

	"merx/internal/pkg/logger"
	promotion "merx/internal/service/promotion/application"
	"merx/internal/service/sale/application"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// 收银终端和服务端同源部署
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveQuoteHandler 为收银界面提供实时报价：购物车每改一次，
// 客户端推一帧当前车况，服务端回一帧带折扣的报价。
// 报价只是预览，结账时服务端会重新计算。
type LiveQuoteHandler struct {
	quotes application.QuoteProvider
}

func NewLiveQuoteHandler(quotes application.QuoteProvider) *LiveQuoteHandler {
	return &LiveQuoteHandler{quotes: quotes}
}

// RegisterRoutes 在 ServeMux 上注册 WebSocket 路由。
func (h *LiveQuoteHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/sales/live-quote", h.handleLiveQuote)
}

func (h *LiveQuoteHandler) handleLiveQuote(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := logger.Ctx(ctx)
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("live quote session opened")

	for {
		var req promotion.QuoteCartRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("live quote session aborted")
			}
			return
		}

		resp, err := h.quotes.QuoteCart(ctx, &req)
		if err != nil {
			log.Error().Err(err).Msg("live quote failed")
			_ = conn.WriteJSON(map[string]string{"error": "quote failed"})
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Warn().Err(err).Msg("failed to write quote frame")
			return
		}
	}
}
