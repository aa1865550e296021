package domain

import "context"

// SaleRepository 定义销售单的持久化端口。
type SaleRepository interface {
	Save(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id string) (*Sale, error)
}

// SaleEventProducer 定义销售事件的发布端口。
type SaleEventProducer interface {
	PublishSaleCompleted(ctx context.Context, event *SaleCompletedEvent) error
}
