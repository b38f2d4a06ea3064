package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scheduler accumulates the transaction history of the process.
// Appends and simulation runs share one lock: a run rewrites the
// RemainingTime of every record it covers.
type Scheduler struct {
	mu      sync.Mutex
	history []*models.Transaction
	lastRun int // history index where the previous run's batch ended

	quantum int
	scope   models.ScheduleScope
}

func New(quantum int, scope models.ScheduleScope) (*Scheduler, error) {
	if quantum < 1 {
		return nil, fmt.Errorf("%w: quantum must be at least 1, got %d", store.ErrInvalidConfiguration, quantum)
	}
	switch scope {
	case "":
		scope = models.ScheduleScopeHistory
	case models.ScheduleScopeHistory, models.ScheduleScopeLatest:
	default:
		return nil, fmt.Errorf("%w: unknown schedule scope %q", store.ErrInvalidConfiguration, scope)
	}
	return &Scheduler{quantum: quantum, scope: scope}, nil
}

func (s *Scheduler) Quantum() int {
	return s.quantum
}

func (s *Scheduler) Scope() models.ScheduleScope {
	return s.scope
}

// NewTransaction builds a pending transaction for an account.
func NewTransaction(accountId int64, kind models.OperationKind, burstTime int) *models.Transaction {
	return &models.Transaction{
		Id:            uuid.New().String(),
		AccountId:     accountId,
		Kind:          kind,
		BurstTime:     burstTime,
		RemainingTime: burstTime,
	}
}

// Append adds tx to the end of the history.
func (s *Scheduler) Append(tx *models.Transaction) error {
	if tx.BurstTime < 1 {
		return fmt.Errorf("%w: burst time must be at least 1, got %d", store.ErrInvalidConfiguration, tx.BurstTime)
	}

	s.mu.Lock()
	s.history = append(s.history, tx)
	s.mu.Unlock()
	return nil
}

// Schedule simulates the configured scope of the history under the run lock.
// It returns ErrEmptyTransactionSet when there is nothing to schedule.
func (s *Scheduler) Schedule() (*models.ScheduleReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runLocked(true)
}

// Preview simulates the same scope as Schedule without consuming it, so a
// pending latest batch is still scheduled by the next Schedule call.
func (s *Scheduler) Preview() (*models.ScheduleReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runLocked(false)
}

func (s *Scheduler) runLocked(advance bool) (*models.ScheduleReport, error) {
	batch := s.history
	if s.scope == models.ScheduleScopeLatest {
		batch = s.history[s.lastRun:]
	}

	report, err := Run(batch, s.quantum)
	if err != nil {
		if !errors.Is(err, store.ErrEmptyTransactionSet) {
			zap.L().Error("Scheduling run failed", zap.Error(err))
		}
		return nil, err
	}
	if advance {
		s.lastRun = len(s.history)
	}

	zap.L().Debug("Round robin run completed",
		zap.Int("transactions", len(batch)),
		zap.Int("slices", len(report.Gantt)),
		zap.Int("total_time", report.TotalTime),
		zap.Float64("average_waiting_time", report.AverageWaitingTime))
	return report, nil
}

// History returns copies of every submitted transaction in submission order.
func (s *Scheduler) History() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Transaction, len(s.history))
	for i, tx := range s.history {
		out[i] = *tx
	}
	return out
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
