package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// bank is the part of the dispatcher the workload exercises.
type bank interface {
	OpenAccount(ctx context.Context, username, password string, balance int64) (int64, error)
	Deposit(ctx context.Context, id, amount int64) (*models.OperationResult, error)
	Withdraw(ctx context.Context, id, amount int64) (*models.OperationResult, error)
	CheckBalance(ctx context.Context, id int64) (*models.OperationResult, error)
	Schedule() (*models.ScheduleReport, error)
	Reconcile(ctx context.Context, id int64) error
}

type workload struct {
	Accounts       int
	Operations     int
	InitialBalance int64
	Rng            *rand.Rand
}

type summary struct {
	AccountIds    []int64
	Dispatched    int
	Failed        int
	TotalBalance  int64
	ExpectedTotal int64
	Mismatches    int
	Report        *models.ScheduleReport
}

type plannedOp struct {
	kind    models.OperationKind
	account int64
	amount  int64
}

// Run opens the accounts, fires every operation on its own goroutine and
// reconciles the outcome.
func (w workload) Run(ctx context.Context, b bank) (*summary, error) {
	if w.Accounts < 1 || w.Operations < 0 {
		return nil, fmt.Errorf("%w: need at least one account", store.ErrInvalidConfiguration)
	}

	ids := make([]int64, 0, w.Accounts)
	for i := 0; i < w.Accounts; i++ {
		id, err := b.OpenAccount(ctx, fmt.Sprintf("user%d", i+1), fmt.Sprintf("pass%d", i+1), w.InitialBalance)
		if err != nil {
			return nil, fmt.Errorf("opening account %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}

	plan := w.plan(ids)

	var (
		failed atomic.Int64
		mu     sync.Mutex
		net    int64 // sum of confirmed deposits minus confirmed withdrawals
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, op := range plan {
		op := op
		g.Go(func() error {
			result, err := dispatch(gctx, b, op)
			switch {
			case err == nil:
			case errors.Is(err, store.ErrInsufficientFunds):
				failed.Add(1)
				return nil
			default:
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			switch result.Kind {
			case models.OperationDeposit:
				net += result.Amount
			case models.OperationWithdraw:
				net -= result.Amount
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &summary{
		AccountIds:    ids,
		Dispatched:    len(plan),
		Failed:        int(failed.Load()),
		ExpectedTotal: int64(len(ids))*w.InitialBalance + net,
	}
	for _, id := range ids {
		if err := b.Reconcile(ctx, id); err != nil {
			zap.L().Error("Account failed reconciliation", zap.Int64("account_id", id), zap.Error(err))
			out.Mismatches++
		}
	}

	// The final balance sweep is itself billed, so report after it.
	for _, id := range ids {
		result, err := b.CheckBalance(ctx, id)
		if err != nil {
			return nil, err
		}
		out.TotalBalance += result.Balance
	}

	report, err := b.Schedule()
	switch {
	case err == nil:
		out.Report = report
	case errors.Is(err, store.ErrEmptyTransactionSet):
	default:
		return nil, err
	}
	return out, nil
}

func (w workload) plan(ids []int64) []plannedOp {
	kinds := []models.OperationKind{models.OperationDeposit, models.OperationWithdraw, models.OperationBalance}
	plan := make([]plannedOp, w.Operations)
	for i := range plan {
		plan[i] = plannedOp{
			kind:    kinds[w.Rng.Intn(len(kinds))],
			account: ids[w.Rng.Intn(len(ids))],
			amount:  int64(w.Rng.Intn(100) + 1),
		}
	}
	return plan
}

func dispatch(ctx context.Context, b bank, op plannedOp) (*models.OperationResult, error) {
	switch op.kind {
	case models.OperationDeposit:
		return b.Deposit(ctx, op.account, op.amount)
	case models.OperationWithdraw:
		return b.Withdraw(ctx, op.account, op.amount)
	default:
		return b.CheckBalance(ctx, op.account)
	}
}
