package application

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"merx/internal/pkg/logger"
	promotion "merx/internal/service/promotion/application"
	"merx/internal/service/sale/domain"
)

// Product 是销售侧看到的商品视图：只取结账需要的字段。
type Product struct {
	ID        string
	Name      string
	UnitPrice float64
	Active    bool
}

// ProductResolver 从商品目录解析单价，由目录上下文的适配器实现。
type ProductResolver interface {
	Resolve(ctx context.Context, productID string) (*Product, error)
}

// QuoteProvider 是折扣试算端口，由促销服务直接满足。
type QuoteProvider interface {
	QuoteCart(ctx context.Context, req *promotion.QuoteCartRequest) (*promotion.QuoteCartResponse, error)
}

// SaleService 承载结账用例：解析单价、复算折扣、落库、发事件。
type SaleService struct {
	repo     domain.SaleRepository
	products ProductResolver
	quotes   QuoteProvider
	producer domain.SaleEventProducer
	tracer   trace.Tracer
}

// NewSaleService 创建销售服务。producer 允许为 nil（本地开发无 Kafka），
// 此时事件静默丢弃。
func NewSaleService(
	repo domain.SaleRepository,
	products ProductResolver,
	quotes QuoteProvider,
	producer domain.SaleEventProducer,
	tracer trace.Tracer,
) *SaleService {
	return &SaleService{
		repo:     repo,
		products: products,
		quotes:   quotes,
		producer: producer,
		tracer:   tracer,
	}
}

// Checkout 执行一次结账。单价一律以商品目录为准，折扣由服务端
// 重新试算——客户端看到的实时报价只是预览，不参与计费。
func (s *SaleService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "sale.Checkout")
	defer span.End()

	if len(req.Items) == 0 {
		checkoutFailures.Inc()
		return nil, domain.ErrEmptyCart
	}
	span.SetAttributes(
		attribute.Int("cart.lines", len(req.Items)),
		attribute.String("cashier.id", req.CashierID),
	)

	products, err := s.resolveProducts(ctx, req.Items)
	if err != nil {
		checkoutFailures.Inc()
		return nil, err
	}

	quoteReq := &promotion.QuoteCartRequest{Items: make([]promotion.QuoteLineItem, 0, len(req.Items))}
	for _, item := range req.Items {
		quoteReq.Items = append(quoteReq.Items, promotion.QuoteLineItem{
			LineID:         uuid.NewString(),
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      products[item.ProductID].UnitPrice,
			CustomDiscount: item.CustomDiscount,
		})
	}

	quote, err := s.quotes.QuoteCart(ctx, quoteReq)
	if err != nil {
		checkoutFailures.Inc()
		return nil, errors.Wrap(err, "quote cart at checkout")
	}

	lines := make([]domain.Line, 0, len(quote.LineItems))
	for _, li := range quote.LineItems {
		lines = append(lines, domain.Line{
			LineID:      li.LineID,
			ProductID:   li.ProductID,
			ProductName: products[li.ProductID].Name,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Gross:       li.Gross,
			Discount:    li.TotalDiscount,
			Net:         li.Net,
		})
	}
	rules := make([]domain.AppliedRule, 0, len(quote.AppliedRules))
	for _, r := range quote.AppliedRules {
		rules = append(rules, domain.AppliedRule{
			RuleSetName:    r.RuleSetName,
			SourceRuleName: r.SourceRuleName,
			RuleType:       r.RuleType,
			ProductID:      r.ProductIDAffected,
			Amount:         r.TotalCalculatedDiscount,
		})
	}

	sale, err := domain.NewSale(uuid.NewString(), req.CashierID, lines, rules, quote.TotalItemDiscount, quote.TotalCartDiscount)
	if err != nil {
		checkoutFailures.Inc()
		return nil, err
	}
	if err := sale.MarkCompleted(); err != nil {
		checkoutFailures.Inc()
		return nil, err
	}

	if err := s.repo.Save(ctx, sale); err != nil {
		checkoutFailures.Inc()
		return nil, errors.Wrap(err, "persist sale")
	}

	s.publishCompleted(ctx, sale, quote.CampaignName)

	checkoutsTotal.Inc()
	revenueTotal.Add(sale.Total)
	span.SetAttributes(
		attribute.String("sale.id", sale.ID),
		attribute.Float64("sale.total", sale.Total),
	)
	logger.Ctx(ctx).Info().
		Str("sale_id", sale.ID).
		Float64("total", sale.Total).
		Float64("discount", sale.TotalItemDiscount+sale.TotalCartDiscount).
		Msg("sale completed")

	return toCheckoutResponse(sale, quote.CampaignName, quote.AppliedRules), nil
}

// FindSale 按 ID 查询一张销售单，小票重打用。
func (s *SaleService) FindSale(ctx context.Context, id string) (*domain.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "sale.FindSale")
	defer span.End()
	return s.repo.FindByID(ctx, id)
}

// resolveProducts 并发解析购物车中的全部商品。任一商品不存在或
// 已下架都让整单失败。
func (s *SaleService) resolveProducts(ctx context.Context, items []CheckoutItem) (map[string]*Product, error) {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	var mu sync.Mutex
	products := make(map[string]*Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			p, err := s.products.Resolve(gctx, id)
			if err != nil {
				return errors.Wrapf(domain.ErrUnknownProduct, "product %s: %v", id, err)
			}
			if !p.Active {
				return errors.Wrapf(domain.ErrUnknownProduct, "product %s is inactive", id)
			}
			mu.Lock()
			products[id] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

// publishCompleted 发布结账完成事件。发布失败只记日志，不回滚交易。
func (s *SaleService) publishCompleted(ctx context.Context, sale *domain.Sale, campaignName string) {
	if s.producer == nil {
		return
	}
	event := &domain.SaleCompletedEvent{
		EventID:           uuid.NewString(),
		SaleID:            sale.ID,
		CashierID:         sale.CashierID,
		CampaignName:      campaignName,
		LineCount:         len(sale.Lines),
		Subtotal:          sale.Subtotal,
		TotalItemDiscount: sale.TotalItemDiscount,
		TotalCartDiscount: sale.TotalCartDiscount,
		Total:             sale.Total,
		OccurredAt:        sale.UpdatedAt,
	}
	if err := s.producer.PublishSaleCompleted(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("sale_id", sale.ID).Msg("failed to publish sale completed event")
	}
}

func toCheckoutResponse(sale *domain.Sale, campaignName string, rules []promotion.AppliedRuleDTO) *CheckoutResponse {
	resp := &CheckoutResponse{
		SaleID:            sale.ID,
		CampaignName:      campaignName,
		LineItems:         make([]ReceiptLine, 0, len(sale.Lines)),
		AppliedRules:      rules,
		Subtotal:          sale.Subtotal,
		TotalItemDiscount: sale.TotalItemDiscount,
		TotalCartDiscount: sale.TotalCartDiscount,
		Total:             sale.Total,
	}
	for _, l := range sale.Lines {
		resp.LineItems = append(resp.LineItems, ReceiptLine{
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
	return resp
}
