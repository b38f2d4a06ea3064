/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"banking-os-go/internal/cache"
	"banking-os-go/internal/clock"
	"banking-os-go/internal/models"
	"banking-os-go/internal/scheduler"
	"banking-os-go/internal/store"

	"go.uber.org/zap"
)

// Dispatcher is the only component that knows about the ledger, the
// scheduler and the cache at once. It drives every request through them in
// a fixed order: ledger, transaction append, cache touch, scheduling run.
type Dispatcher struct {
	ledger    store.LedgerStore
	cache     *cache.AccessCache
	scheduler *scheduler.Scheduler
	clock     *clock.Logical
	journal   store.Journal
	sink      EventSink
	bursts    models.BurstTimes
}

// Options wires the dispatcher. Journal and Sink are optional.
type Options struct {
	Ledger    store.LedgerStore
	Cache     *cache.AccessCache
	Scheduler *scheduler.Scheduler
	Clock     *clock.Logical
	Journal   store.Journal
	Sink      EventSink
	Bursts    models.BurstTimes
}

func New(opts Options) (*Dispatcher, error) {
	if opts.Ledger == nil || opts.Cache == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("%w: ledger, cache and scheduler are required", store.ErrInvalidConfiguration)
	}
	for _, kind := range []models.OperationKind{models.OperationDeposit, models.OperationWithdraw, models.OperationBalance} {
		if opts.Bursts.For(kind) < 1 {
			return nil, fmt.Errorf("%w: burst time for %s must be at least 1", store.ErrInvalidConfiguration, kind)
		}
	}

	d := &Dispatcher{
		ledger:    opts.Ledger,
		cache:     opts.Cache,
		scheduler: opts.Scheduler,
		clock:     opts.Clock,
		journal:   opts.Journal,
		sink:      opts.Sink,
		bursts:    opts.Bursts,
	}
	if d.clock == nil {
		d.clock = clock.New()
	}
	if d.sink == nil {
		d.sink = NopSink{}
	}
	return d, nil
}

// OpenAccount opens an account and journals its opening balance.
func (d *Dispatcher) OpenAccount(ctx context.Context, username, password string, balance int64) (int64, error) {
	id, err := d.ledger.Open(ctx, models.OpenAccountRequest{
		Username:       username,
		Password:       password,
		InitialBalance: balance,
	})
	if err != nil {
		return 0, err
	}

	d.record(ctx, models.JournalEntry{
		AccountId:    id,
		Kind:         models.OperationOpen,
		Amount:       balance,
		BalanceAfter: balance,
		Status:       models.StatusConfirmed,
	})
	return id, nil
}

func (d *Dispatcher) Authenticate(ctx context.Context, username, password string) (int64, error) {
	return d.ledger.Authenticate(ctx, username, password)
}

func (d *Dispatcher) Deposit(ctx context.Context, id, amount int64) (*models.OperationResult, error) {
	return d.dispatch(ctx, models.OperationDeposit, id, amount)
}

func (d *Dispatcher) Withdraw(ctx context.Context, id, amount int64) (*models.OperationResult, error) {
	return d.dispatch(ctx, models.OperationWithdraw, id, amount)
}

func (d *Dispatcher) CheckBalance(ctx context.Context, id int64) (*models.OperationResult, error) {
	return d.dispatch(ctx, models.OperationBalance, id, 0)
}

// InspectCache returns resident account ids in cache storage order.
func (d *Dispatcher) InspectCache() []int64 {
	return d.cache.Snapshot()
}

func (d *Dispatcher) CachePages() []models.Page {
	return d.cache.Pages()
}

// Transactions returns the scheduler's accumulated history.
func (d *Dispatcher) Transactions() []models.Transaction {
	return d.scheduler.History()
}

// Schedule runs the scheduler over its configured scope without submitting anything.
func (d *Dispatcher) Schedule() (*models.ScheduleReport, error) {
	return d.scheduler.Schedule()
}

// PreviewSchedule reports what Schedule would produce without consuming the latest batch.
func (d *Dispatcher) PreviewSchedule() (*models.ScheduleReport, error) {
	return d.scheduler.Preview()
}

// History returns the journaled operations of an account, newest first.
func (d *Dispatcher) History(ctx context.Context, id int64, limit, offset int) ([]models.JournalEntry, error) {
	if d.journal == nil {
		return nil, nil
	}
	if !d.ledger.Exists(id) {
		return nil, fmt.Errorf("%w: %d", store.ErrAccountNotFound, id)
	}
	return d.journal.History(ctx, id, limit, offset)
}

// Reconcile checks the ledger balance of an account against its journal.
// It reads the ledger directly and is not billed to the scheduler.
func (d *Dispatcher) Reconcile(ctx context.Context, id int64) error {
	if d.journal == nil {
		return nil
	}
	balance, err := d.ledger.Balance(ctx, id)
	if err != nil {
		return err
	}
	return d.journal.ReconcileBalance(ctx, id, balance)
}

// Ping reports whether the journal is reachable.
func (d *Dispatcher) Ping(ctx context.Context) error {
	if d.journal == nil {
		return nil
	}
	return d.journal.Ping(ctx)
}

func (d *Dispatcher) dispatch(ctx context.Context, kind models.OperationKind, id, amount int64) (*models.OperationResult, error) {
	// 1. the account must exist
	if !d.ledger.Exists(id) {
		zap.L().Warn("Operation for unknown account", zap.Int64("account_id", id), zap.String("kind", string(kind)))
		return nil, fmt.Errorf("%w: %d", store.ErrAccountNotFound, id)
	}

	// 2-4 run under the account lock so bookkeeping follows ledger commit order.
	var (
		result *models.OperationResult
		opErr  error
		tx     *models.Transaction
	)
	err := d.ledger.Within(ctx, id, func(acct store.AccountOps) error {
		// 2. ledger mutation or read
		before := acct.Balance()
		balance, err := apply(acct, kind, amount)
		if err != nil && !billable(err) {
			return err
		}
		opErr = err

		result = &models.OperationResult{
			Kind:      kind,
			AccountId: id,
			Amount:    amount,
			Balance:   balance,
			Status:    models.StatusConfirmed,
		}
		if opErr != nil {
			result.Status = models.StatusFailed
			result.Error = opErr.Error()
		}

		// 3. the attempt is billed whether or not the ledger accepted it
		tx = scheduler.NewTransaction(id, kind, d.bursts.For(kind))
		result.TransactionId = tx.Id
		if err := d.scheduler.Append(tx); err != nil {
			return err
		}

		// 4. cache touch at the current logical time
		result.CacheEvent = d.cache.Touch(id, d.clock.Tick())

		d.record(ctx, models.JournalEntry{
			Id:            tx.Id,
			AccountId:     id,
			Kind:          kind,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  result.Balance,
			Status:        result.Status,
			BurstTime:     tx.BurstTime,
			Error:         result.Error,
		})
		return nil
	})
	if err != nil {
		zap.L().Warn("Operation aborted before commit",
			zap.Int64("account_id", id),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, err
	}

	// 5. simulate the accumulated history
	report, schedErr := d.scheduler.Schedule()
	switch {
	case schedErr == nil:
		result.Report = report
	case errors.Is(schedErr, store.ErrEmptyTransactionSet):
		// A concurrent run already covered this transaction.
	default:
		return nil, schedErr
	}

	d.sink.Publish(ctx, result)

	zap.L().Info("Operation dispatched",
		zap.String("transaction_id", tx.Id),
		zap.Int64("account_id", id),
		zap.String("kind", string(kind)),
		zap.String("status", result.Status),
		zap.Int64("balance", result.Balance),
		zap.String("cache_event", string(result.CacheEvent.Kind)))

	// 6. composite result; failed operations still carry their bookkeeping
	return result, opErr
}

func apply(acct store.AccountOps, kind models.OperationKind, amount int64) (int64, error) {
	switch kind {
	case models.OperationDeposit:
		return acct.Deposit(amount)
	case models.OperationWithdraw:
		return acct.Withdraw(amount)
	case models.OperationBalance:
		return acct.Balance(), nil
	}
	return acct.Balance(), fmt.Errorf("unsupported operation kind %q", kind)
}

func (d *Dispatcher) record(ctx context.Context, entry models.JournalEntry) {
	if d.journal == nil {
		return
	}
	// The journal is an audit trail; losing an entry must not fail the operation.
	if err := d.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		zap.L().Error("Failed to journal operation",
			zap.Int64("account_id", entry.AccountId),
			zap.String("kind", string(entry.Kind)),
			zap.Error(err))
	}
}

// billable reports whether a failed ledger call still counts as an executed transaction.
func billable(err error) bool {
	return errors.Is(err, store.ErrInsufficientFunds) || errors.Is(err, store.ErrInvalidAmount)
}
