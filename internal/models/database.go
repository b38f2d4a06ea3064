package models

import "time"

// OperationKind identifies a ledger operation
type OperationKind string

const (
	OperationOpen     OperationKind = "open"
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
	OperationBalance  OperationKind = "balance"
)

// Operation statuses recorded in the journal and returned to callers
const (
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Transaction is one unit of work for the round-robin scheduler.
// RemainingTime is owned by the scheduler and stays within [0, BurstTime].
type Transaction struct {
	Id            string        `json:"id"`
	AccountId     int64         `json:"account_id"`
	Kind          OperationKind `json:"kind"`
	BurstTime     int           `json:"burst_time"`
	RemainingTime int           `json:"remaining_time"`
}

// JournalEntry is an immutable record of a dispatched operation (audit trail)
type JournalEntry struct {
	Id            string        `db:"id"`
	AccountId     int64         `db:"account_id"`
	Kind          OperationKind `db:"kind"`
	Amount        int64         `db:"amount"`
	BalanceBefore int64         `db:"balance_before"`
	BalanceAfter  int64         `db:"balance_after"`
	Status        string        `db:"status"`
	BurstTime     int           `db:"burst_time"`
	Error         string        `db:"error"`
	CreatedAt     time.Time     `db:"created_at"`
}

// Delta returns the signed balance change the entry caused.
func (e JournalEntry) Delta() int64 {
	return e.BalanceAfter - e.BalanceBefore
}
