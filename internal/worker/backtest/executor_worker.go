package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/domain"
	"github.com/floodwatch-service/internal/domain/repository"
	"github.com/floodwatch-service/internal/usecase"
	"github.com/floodwatch-service/internal/worker"
)

const retryBackoff = 2 * time.Second

// ExecutorWorker consumes queued backtest runs from the request stream and
// executes them. Failed runs are recorded on the run row and acked; only
// transient execution errors are retried.
type ExecutorWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	backtestUC   usecase.BacktestUsecase
	stream       string
	consumerName string
	maxRetries   int
}

func NewExecutorWorker(
	streamRepo repository.StreamRepository,
	backtestUC usecase.BacktestUsecase,
	stream string,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *ExecutorWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &ExecutorWorker{
		BaseWorker:   worker.NewBaseWorker("backtest-executor", consumerGroup, logger),
		streamRepo:   streamRepo,
		backtestUC:   backtestUC,
		stream:       stream,
		consumerName: consumerName,
		maxRetries:   maxRetries,
	}
}

func (w *ExecutorWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting backtest executor",
		zap.String("stream", w.stream),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.stream, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	messages, err := w.streamRepo.ConsumeStream(ctx, w.stream, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case message, ok := <-messages:
			if !ok {
				logger.Warn("Stream channel closed")
				return nil
			}
			w.handleMessage(ctx, message)
		}
	}
}

func (w *ExecutorWorker) handleMessage(ctx context.Context, message domain.StreamMessage) {
	logger := w.Logger()

	var request domain.BacktestRequest
	if err := json.Unmarshal([]byte(message.Data), &request); err != nil {
		logger.Error("Dropping malformed backtest request",
			zap.String("message_id", message.ID),
			zap.Error(err))
		w.ack(ctx, message.ID)
		return
	}

	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = w.backtestUC.Execute(ctx, request.RunID); err == nil {
			break
		}
		logger.Warn("Backtest execution failed",
			zap.String("run_id", request.RunID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < w.maxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryBackoff):
			}
		}
	}
	if err != nil {
		logger.Error("Giving up on backtest run",
			zap.String("run_id", request.RunID.String()),
			zap.Int("attempts", w.maxRetries))
	}

	w.ack(ctx, message.ID)
}

func (w *ExecutorWorker) ack(ctx context.Context, messageID string) {
	if err := w.streamRepo.AckMessage(ctx, w.stream, w.ConsumerGroup(), messageID); err != nil {
		w.Logger().Error("Failed to ack message",
			zap.String("message_id", messageID),
			zap.Error(err))
	}
}
