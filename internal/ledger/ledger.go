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

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Compile-time check: *Ledger must satisfy store.LedgerStore.
var _ store.LedgerStore = (*Ledger)(nil)

type account struct {
	id           int64
	username     string
	passwordHash []byte

	// lock guards balance; a weighted semaphore of size 1 so waiters honor ctx.
	lock    *semaphore.Weighted
	balance int64
}

// Ledger owns every account and its exclusion lock.
type Ledger struct {
	mu         sync.RWMutex // guards accounts, byUsername and the id sequence
	accounts   map[int64]*account
	byUsername map[string]int64
	nextId     int64

	maxAccounts  int
	lockTimeout  time.Duration
	passwordCost int
	validate     *validator.Validate
}

type Options struct {
	MaxAccounts  int
	LockTimeout  time.Duration
	PasswordCost int
}

func New(opts Options) (*Ledger, error) {
	if opts.MaxAccounts <= 0 {
		return nil, fmt.Errorf("%w: max accounts must be positive, got %d", store.ErrInvalidConfiguration, opts.MaxAccounts)
	}
	if opts.LockTimeout < 0 {
		return nil, fmt.Errorf("%w: lock timeout cannot be negative, got %v", store.ErrInvalidConfiguration, opts.LockTimeout)
	}
	cost := opts.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: password cost %d out of range", store.ErrInvalidConfiguration, cost)
	}

	return &Ledger{
		accounts:     make(map[int64]*account),
		byUsername:   make(map[string]int64),
		nextId:       1,
		maxAccounts:  opts.MaxAccounts,
		lockTimeout:  opts.LockTimeout,
		passwordCost: cost,
		validate:     validator.New(),
	}, nil
}

// Open appends a new account and returns its id. Ids are assigned sequentially from 1.
func (l *Ledger) Open(ctx context.Context, req models.OpenAccountRequest) (int64, error) {
	if err := l.validateOpen(req); err != nil {
		zap.L().Warn("Rejected account opening", zap.String("username", req.Username), zap.Error(err))
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Hash outside the append lock.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), l.passwordCost)
	if err != nil {
		return 0, fmt.Errorf("unable to hash password: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.accounts) >= l.maxAccounts {
		zap.L().Warn("Account capacity reached", zap.Int("max_accounts", l.maxAccounts))
		return 0, fmt.Errorf("%w: maximum of %d accounts reached", store.ErrCapacityExceeded, l.maxAccounts)
	}
	if _, taken := l.byUsername[req.Username]; taken {
		return 0, fmt.Errorf("%w: %s", store.ErrDuplicateUsername, req.Username)
	}

	id := l.nextId
	l.nextId++
	l.accounts[id] = &account{
		id:           id,
		username:     req.Username,
		passwordHash: hash,
		lock:         semaphore.NewWeighted(1),
		balance:      req.InitialBalance,
	}
	l.byUsername[req.Username] = id

	zap.L().Info("Account opened",
		zap.Int64("account_id", id),
		zap.String("username", req.Username),
		zap.Int64("initial_balance", req.InitialBalance))
	return id, nil
}

// Authenticate returns the id of the account whose username and password match.
func (l *Ledger) Authenticate(ctx context.Context, username, password string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.RLock()
	id, ok := l.byUsername[username]
	var acct *account
	if ok {
		acct = l.accounts[id]
	}
	l.mu.RUnlock()

	if acct == nil {
		zap.L().Warn("Login failed: unknown username", zap.String("username", username))
		return 0, store.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		zap.L().Warn("Login failed: password mismatch", zap.String("username", username))
		return 0, store.ErrInvalidCredentials
	}

	zap.L().Info("Login successful", zap.Int64("account_id", id))
	return id, nil
}

func (l *Ledger) Exists(id int64) bool {
	_, err := l.lookup(id)
	return err == nil
}

func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}

// Within runs fn while holding the lock of account id. Everything fn does is
// ordered with every other operation on the same account.
func (l *Ledger) Within(ctx context.Context, id int64, fn func(store.AccountOps) error) error {
	acct, err := l.lookup(id)
	if err != nil {
		return err
	}
	if err := l.acquire(ctx, acct); err != nil {
		return err
	}
	defer acct.lock.Release(1)
	return fn(lockedAccount{acct})
}

// Deposit adds amount to the account balance and returns the new balance.
func (l *Ledger) Deposit(ctx context.Context, id, amount int64) (int64, error) {
	var balance int64
	err := l.Within(ctx, id, func(acct store.AccountOps) error {
		var err error
		balance, err = acct.Deposit(amount)
		return err
	})
	return balance, err
}

// Withdraw subtracts amount from the account balance and returns the new balance.
// When funds are insufficient the balance is left untouched and returned with ErrInsufficientFunds.
func (l *Ledger) Withdraw(ctx context.Context, id, amount int64) (int64, error) {
	var balance int64
	err := l.Within(ctx, id, func(acct store.AccountOps) error {
		var err error
		balance, err = acct.Withdraw(amount)
		return err
	})
	return balance, err
}

func (l *Ledger) Balance(ctx context.Context, id int64) (int64, error) {
	var balance int64
	err := l.Within(ctx, id, func(acct store.AccountOps) error {
		balance = acct.Balance()
		return nil
	})
	return balance, err
}

// lockedAccount mutates an account whose lock the caller holds.
type lockedAccount struct {
	acct *account
}

func (a lockedAccount) Balance() int64 {
	zap.L().Debug("Retrieved balance", zap.Int64("account_id", a.acct.id), zap.Int64("balance", a.acct.balance))
	return a.acct.balance
}

func (a lockedAccount) Deposit(amount int64) (int64, error) {
	if amount <= 0 {
		return a.acct.balance, fmt.Errorf("%w: deposit amount must be positive, got %d", store.ErrInvalidAmount, amount)
	}
	a.acct.balance += amount

	zap.L().Info("Deposit applied",
		zap.Int64("account_id", a.acct.id),
		zap.Int64("amount", amount),
		zap.Int64("new_balance", a.acct.balance))
	return a.acct.balance, nil
}

func (a lockedAccount) Withdraw(amount int64) (int64, error) {
	if amount <= 0 {
		return a.acct.balance, fmt.Errorf("%w: withdrawal amount must be positive, got %d", store.ErrInvalidAmount, amount)
	}
	if a.acct.balance < amount {
		zap.L().Warn("Insufficient funds",
			zap.Int64("account_id", a.acct.id),
			zap.Int64("balance", a.acct.balance),
			zap.Int64("withdrawal_amount", amount))
		return a.acct.balance, fmt.Errorf("%w: account %d has %d, requested %d", store.ErrInsufficientFunds, a.acct.id, a.acct.balance, amount)
	}
	a.acct.balance -= amount

	zap.L().Info("Withdrawal applied",
		zap.Int64("account_id", a.acct.id),
		zap.Int64("amount", amount),
		zap.Int64("new_balance", a.acct.balance))
	return a.acct.balance, nil
}

func (l *Ledger) lookup(id int64) (*account, error) {
	l.mu.RLock()
	acct, ok := l.accounts[id]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", store.ErrAccountNotFound, id)
	}
	return acct, nil
}

// acquire takes the account lock, giving up after the lock timeout or when ctx is done.
func (l *Ledger) acquire(ctx context.Context, acct *account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	waitCtx := ctx
	if l.lockTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.lockTimeout)
		defer cancel()
	}

	if err := acct.lock.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			zap.L().Warn("Lock wait timed out", zap.Int64("account_id", acct.id), zap.Duration("timeout", l.lockTimeout))
			return fmt.Errorf("%w: account %d after %v", store.ErrTimeout, acct.id, l.lockTimeout)
		}
		return err
	}
	return nil
}

func (l *Ledger) validateOpen(req models.OpenAccountRequest) error {
	err := l.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	first := validationErrs[0]
	if first.Field() == "InitialBalance" {
		return store.NewValidationError(first.Field(), "initial balance cannot be negative", store.ErrInvalidAmount)
	}
	return store.NewValidationError(first.Field(), fmt.Sprintf("failed on '%s' tag", first.Tag()), nil)
}
