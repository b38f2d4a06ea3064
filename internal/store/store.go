package store

import (
	"context"
	"errors"
	"fmt"

	"banking-os-go/internal/models"
)

// Sentinel errors shared by the ledger, scheduler and dispatcher.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrEmptyTransactionSet  = errors.New("no pending transactions")
	ErrTimeout              = errors.New("timed out waiting for account lock")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string, cause error) error {
	return &ValidationError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// LedgerStore defines the contract of the account ledger.
// Every balance-touching call blocks only on the lock of the account it names.
type LedgerStore interface {
	Open(ctx context.Context, req models.OpenAccountRequest) (int64, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
	Exists(id int64) bool
	Deposit(ctx context.Context, id, amount int64) (int64, error)
	Withdraw(ctx context.Context, id, amount int64) (int64, error)
	Balance(ctx context.Context, id int64) (int64, error)
	// Within runs fn under the account lock; fn sees the account as AccountOps.
	Within(ctx context.Context, id int64, fn func(AccountOps) error) error
	Count() int
}

// AccountOps operates on one account whose lock is already held.
// Failed calls leave the balance untouched and return it with the error.
type AccountOps interface {
	Balance() int64
	Deposit(amount int64) (int64, error)
	Withdraw(amount int64) (int64, error)
}

// Journal is the audit trail of dispatched operations.
type Journal interface {
	Record(ctx context.Context, entry models.JournalEntry) error
	History(ctx context.Context, accountId int64, limit, offset int) ([]models.JournalEntry, error)
	ReconcileBalance(ctx context.Context, accountId, balance int64) error
	Ping(ctx context.Context) error
	Close()
}
