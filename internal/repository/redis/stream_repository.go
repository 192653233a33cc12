package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
)

const payloadField = "payload"

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		logger: logger,
	}
}

func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// ConsumeStream reads messages for the given consumer and forwards them on a
// channel until the context is cancelled. Messages must be acked explicitly.
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	messages := make(chan domain.StreamMessage)

	go func() {
		defer close(messages)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			entries, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    10,
				Block:    5 * time.Second,
			}).Result()
			if err != nil {
				if err == redis.Nil || ctx.Err() != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				r.logger.Warn("stream read failed",
					zap.String("stream", stream),
					zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, entry := range entries {
				for _, message := range entry.Messages {
					payload, _ := message.Values[payloadField].(string)
					select {
					case messages <- domain.StreamMessage{ID: message.ID, Data: payload}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return messages, nil
}

func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return r.client.XAck(ctx, stream, group, messageID).Err()
}

func (r *streamRepository) PublishMessage(ctx context.Context, stream string, data []byte) error {
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{payloadField: string(data)},
	}).Err()
}
