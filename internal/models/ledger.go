package models

// Slice is one Gantt interval of the simulated schedule
type Slice struct {
	TransactionId string `json:"transaction_id"`
	AccountId     int64  `json:"account_id"`
	Start         int    `json:"start"`
	End           int    `json:"end"`
}

// Duration returns the length of the slice in time units.
func (s Slice) Duration() int {
	return s.End - s.Start
}

// Completion records when a transaction finished in the simulated schedule
type Completion struct {
	TransactionId  string `json:"transaction_id"`
	AccountId      int64  `json:"account_id"`
	BurstTime      int    `json:"burst_time"`
	CompletionTime int    `json:"completion_time"`
	WaitingTime    int    `json:"waiting_time"`
}

// ScheduleReport is the outcome of one round-robin run
type ScheduleReport struct {
	Quantum            int          `json:"quantum"`
	Gantt              []Slice      `json:"gantt"`
	Completions        []Completion `json:"completions"`
	TotalTime          int          `json:"total_time"`
	AverageWaitingTime float64      `json:"average_waiting_time"`
}

// CacheEventKind classifies the outcome of a cache touch
type CacheEventKind string

const (
	CacheHit     CacheEventKind = "hit"
	CacheMiss    CacheEventKind = "miss"
	CacheEvicted CacheEventKind = "evicted"
)

// CacheEvent reports what a touch did to the access cache.
// EvictedId is only set when Kind is CacheEvicted.
type CacheEvent struct {
	Kind      CacheEventKind `json:"kind"`
	AccountId int64          `json:"account_id"`
	EvictedId int64          `json:"evicted_id,omitempty"`
}

// Page is a resident entry of the access cache
type Page struct {
	AccountId int64 `json:"account_id"`
	LastUsed  int64 `json:"last_used"`
}

// OperationResult is the composite outcome of a dispatched operation
type OperationResult struct {
	TransactionId string          `json:"transaction_id"`
	Kind          OperationKind   `json:"kind"`
	AccountId     int64           `json:"account_id"`
	Amount        int64           `json:"amount,omitempty"`
	Balance       int64           `json:"balance"`
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
	Report        *ScheduleReport `json:"report,omitempty"`
	CacheEvent    CacheEvent      `json:"cache_event"`
}

// Succeeded reports whether the ledger part of the operation was applied.
func (r *OperationResult) Succeeded() bool {
	return r != nil && r.Status == StatusConfirmed
}
