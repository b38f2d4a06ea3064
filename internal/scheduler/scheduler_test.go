package scheduler

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id string, account int64, burst int) *models.Transaction {
	return &models.Transaction{Id: id, AccountId: account, BurstTime: burst, RemainingTime: burst}
}

func TestRunEmpty(t *testing.T) {
	_, err := Run(nil, 2)
	assert.ErrorIs(t, err, store.ErrEmptyTransactionSet)
}

func TestRunRejectsBadInput(t *testing.T) {
	_, err := Run([]*models.Transaction{tx("a", 1, 5)}, 0)
	assert.ErrorIs(t, err, store.ErrInvalidConfiguration)

	_, err = Run([]*models.Transaction{tx("a", 1, 0)}, 2)
	assert.ErrorIs(t, err, store.ErrInvalidConfiguration)
}

func TestRunDepositThenWithdraw(t *testing.T) {
	t1 := tx("t1", 1, 5)
	t2 := tx("t2", 2, 7)

	report, err := Run([]*models.Transaction{t1, t2}, 2)
	require.NoError(t, err)

	expected := []models.Slice{
		{TransactionId: "t1", AccountId: 1, Start: 0, End: 2},
		{TransactionId: "t2", AccountId: 2, Start: 2, End: 4},
		{TransactionId: "t1", AccountId: 1, Start: 4, End: 6},
		{TransactionId: "t2", AccountId: 2, Start: 6, End: 8},
		{TransactionId: "t1", AccountId: 1, Start: 8, End: 9},
		{TransactionId: "t2", AccountId: 2, Start: 9, End: 11},
		{TransactionId: "t2", AccountId: 2, Start: 11, End: 12},
	}
	assert.Equal(t, expected, report.Gantt)
	assert.Equal(t, 12, report.TotalTime)

	require.Len(t, report.Completions, 2)
	assert.Equal(t, 9, report.Completions[0].CompletionTime)
	assert.Equal(t, 4, report.Completions[0].WaitingTime)
	assert.Equal(t, 12, report.Completions[1].CompletionTime)
	assert.Equal(t, 5, report.Completions[1].WaitingTime)
	assert.InDelta(t, 4.5, report.AverageWaitingTime, 1e-9)

	assert.Zero(t, t1.RemainingTime)
	assert.Zero(t, t2.RemainingTime)
}

func TestRunSingleTransaction(t *testing.T) {
	report, err := Run([]*models.Transaction{tx("only", 3, 3)}, 2)
	require.NoError(t, err)
	assert.Len(t, report.Gantt, 2)
	assert.Equal(t, 3, report.TotalTime)
	assert.Zero(t, report.AverageWaitingTime)
}

func TestRunResetsRemainingTime(t *testing.T) {
	t1 := tx("t1", 1, 5)
	t1.RemainingTime = 0

	report, err := Run([]*models.Transaction{t1}, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, report.TotalTime)
}

func TestRunProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(12) + 1
		quantum := rng.Intn(5) + 1
		txs := make([]*models.Transaction, n)
		totalBurst := 0
		for i := range txs {
			burst := rng.Intn(10) + 1
			totalBurst += burst
			txs[i] = tx(fmt.Sprintf("t%d", i), int64(i+1), burst)
		}

		report, err := Run(txs, quantum)
		require.NoError(t, err)

		assert.Equal(t, totalBurst, report.TotalTime)
		assert.GreaterOrEqual(t, report.AverageWaitingTime, 0.0)
		require.Len(t, report.Completions, n)

		perTx := make(map[string]int)
		prevEnd := 0
		for _, s := range report.Gantt {
			assert.Equal(t, prevEnd, s.Start, "slices must be contiguous")
			assert.LessOrEqual(t, s.Duration(), quantum)
			assert.Positive(t, s.Duration())
			perTx[s.TransactionId] += s.Duration()
			prevEnd = s.End
		}
		for _, tr := range txs {
			assert.Zero(t, tr.RemainingTime)
			assert.Equal(t, tr.BurstTime, perTx[tr.Id])
		}

		prevCompletion := -1
		for _, c := range report.Completions {
			assert.Greater(t, c.CompletionTime, prevCompletion)
			assert.GreaterOrEqual(t, c.WaitingTime, 0)
			prevCompletion = c.CompletionTime
		}
	}
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(0, models.ScheduleScopeHistory)
	assert.ErrorIs(t, err, store.ErrInvalidConfiguration)

	_, err = New(2, "sometimes")
	assert.ErrorIs(t, err, store.ErrInvalidConfiguration)

	s, err := New(2, "")
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleScopeHistory, s.scope)
}

func submit(t *testing.T, s *Scheduler, tx *models.Transaction) (*models.ScheduleReport, error) {
	t.Helper()
	require.NoError(t, s.Append(tx))
	return s.Schedule()
}

func TestScheduleResimulatesWholeHistory(t *testing.T) {
	s, err := New(2, models.ScheduleScopeHistory)
	require.NoError(t, err)

	_, err = s.Schedule()
	assert.ErrorIs(t, err, store.ErrEmptyTransactionSet)

	report, err := submit(t, s, NewTransaction(1, models.OperationDeposit, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, report.TotalTime)

	report, err = submit(t, s, NewTransaction(1, models.OperationWithdraw, 7))
	require.NoError(t, err)
	assert.Equal(t, 12, report.TotalTime)
	assert.Len(t, report.Completions, 2)

	report, err = submit(t, s, NewTransaction(2, models.OperationBalance, 3))
	require.NoError(t, err)
	assert.Equal(t, 15, report.TotalTime)
	assert.Equal(t, 3, s.Len())

	for _, h := range s.History() {
		assert.Zero(t, h.RemainingTime)
	}
}

func TestScheduleLatestScope(t *testing.T) {
	s, err := New(2, models.ScheduleScopeLatest)
	require.NoError(t, err)

	_, err = submit(t, s, NewTransaction(1, models.OperationDeposit, 5))
	require.NoError(t, err)

	report, err := submit(t, s, NewTransaction(1, models.OperationWithdraw, 7))
	require.NoError(t, err)
	assert.Equal(t, 7, report.TotalTime)
	assert.Len(t, report.Completions, 1)
	assert.Equal(t, 2, s.Len())

	_, err = s.Schedule()
	assert.ErrorIs(t, err, store.ErrEmptyTransactionSet)
}

func TestScheduleLatestScopeBatchesPendingAppends(t *testing.T) {
	s, err := New(2, models.ScheduleScopeLatest)
	require.NoError(t, err)

	require.NoError(t, s.Append(NewTransaction(1, models.OperationDeposit, 5)))
	require.NoError(t, s.Append(NewTransaction(2, models.OperationBalance, 3)))

	report, err := s.Schedule()
	require.NoError(t, err)
	assert.Equal(t, 8, report.TotalTime)
	assert.Len(t, report.Completions, 2)
}

func TestPreviewDoesNotConsumeLatestBatch(t *testing.T) {
	s, err := New(2, models.ScheduleScopeLatest)
	require.NoError(t, err)

	_, err = s.Preview()
	assert.ErrorIs(t, err, store.ErrEmptyTransactionSet)

	require.NoError(t, s.Append(NewTransaction(1, models.OperationDeposit, 5)))
	require.NoError(t, s.Append(NewTransaction(2, models.OperationBalance, 3)))

	for i := 0; i < 2; i++ {
		report, err := s.Preview()
		require.NoError(t, err)
		assert.Equal(t, 8, report.TotalTime)
		assert.Len(t, report.Completions, 2)
	}

	report, err := s.Schedule()
	require.NoError(t, err)
	assert.Equal(t, 8, report.TotalTime)

	_, err = s.Preview()
	assert.ErrorIs(t, err, store.ErrEmptyTransactionSet)
}

func TestAppendRejectsZeroBurst(t *testing.T) {
	s, err := New(2, models.ScheduleScopeHistory)
	require.NoError(t, err)

	err = s.Append(NewTransaction(1, models.OperationDeposit, 0))
	assert.ErrorIs(t, err, store.ErrInvalidConfiguration)
	assert.Zero(t, s.Len())
}

func TestConcurrentAppendAndSchedule(t *testing.T) {
	s, err := New(2, models.ScheduleScopeHistory)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(NewTransaction(int64(i%5+1), models.OperationBalance, 3)))
			_, err := s.Schedule()
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	report, err := s.Schedule()
	require.NoError(t, err)
	assert.Equal(t, 40*3, report.TotalTime)
	assert.Equal(t, 40, s.Len())
}
