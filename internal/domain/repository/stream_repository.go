package repository

import (
	"context"

	"github.com/floodwatch-service/internal/domain"
)

// StreamRepository is the work-queue transport for asynchronous backtest
// execution, backed by redis streams with consumer groups.
type StreamRepository interface {
	CreateConsumerGroup(ctx context.Context, stream, group string) error
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)
	AckMessage(ctx context.Context, stream, group, messageID string) error
	PublishMessage(ctx context.Context, stream string, data []byte) error
}
