package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"merx/internal/pkg/mq"
	"merx/internal/service/sale/domain"
)

// SaleKafkaAdapter 实现 domain.SaleEventProducer，把销售事件写入 Kafka。
type SaleKafkaAdapter struct {
	writer *kafka.Writer
}

func NewSaleKafkaAdapter(writer *kafka.Writer) *SaleKafkaAdapter {
	return &SaleKafkaAdapter{writer: writer}
}

// PublishSaleCompleted 以销售单 ID 为分区键发布事件，
// 保证同一张单子的事件落在同一分区。
func (a *SaleKafkaAdapter) PublishSaleCompleted(ctx context.Context, event *domain.SaleCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal sale completed event")
	}
	if err := mq.ProduceMessage(ctx, a.writer, []byte(event.SaleID), payload); err != nil {
		return errors.Wrapf(err, "publish sale completed event %s", event.EventID)
	}
	return nil
}

// Close 关闭底层生产者。
func (a *SaleKafkaAdapter) Close() error {
	return a.writer.Close()
}
