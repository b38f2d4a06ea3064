package dispatcher

import (
	"context"
	"fmt"

	"banking-os-go/internal/models"

	"go.uber.org/zap"
)

// EventSink is notified after every dispatched operation.
type EventSink interface {
	Publish(ctx context.Context, result *models.OperationResult)
}

// LogSink narrates each operation as a sent/received message pair.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.L()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, result *models.OperationResult) {
	s.logger.Info("Message sent",
		zap.String("message", describe(result)),
		zap.Int64("account_id", result.AccountId),
		zap.String("transaction_id", result.TransactionId))
	s.logger.Info("Message received",
		zap.String("message", "transaction completed"),
		zap.String("status", result.Status))
}

func describe(result *models.OperationResult) string {
	switch result.Kind {
	case models.OperationDeposit:
		return "money deposited"
	case models.OperationWithdraw:
		return "money withdrawn"
	case models.OperationBalance:
		return "balance checked"
	}
	return fmt.Sprintf("%s completed", result.Kind)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Publish(context.Context, *models.OperationResult) {}
