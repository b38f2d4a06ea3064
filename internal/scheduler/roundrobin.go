package scheduler

import (
	"fmt"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"
)

// Run simulates round-robin execution of transactions with the given quantum.
//
// Every transaction's RemainingTime is reset to its BurstTime and then consumed
// in slices of at most quantum units, one pass at a time in slice order, until
// all reach zero. Waiting time is completion time minus burst time, all
// transactions arriving at time 0.
func Run(transactions []*models.Transaction, quantum int) (*models.ScheduleReport, error) {
	if len(transactions) == 0 {
		return nil, store.ErrEmptyTransactionSet
	}
	if quantum < 1 {
		return nil, fmt.Errorf("%w: quantum must be at least 1, got %d", store.ErrInvalidConfiguration, quantum)
	}
	for _, tx := range transactions {
		if tx.BurstTime < 1 {
			return nil, fmt.Errorf("%w: transaction %s has burst time %d", store.ErrInvalidConfiguration, tx.Id, tx.BurstTime)
		}
		tx.RemainingTime = tx.BurstTime
	}

	report := &models.ScheduleReport{
		Quantum:     quantum,
		Gantt:       make([]models.Slice, 0, len(transactions)),
		Completions: make([]models.Completion, 0, len(transactions)),
	}

	now := 0
	totalWaiting := 0
	for len(report.Completions) < len(transactions) {
		for _, tx := range transactions {
			if tx.RemainingTime == 0 {
				continue
			}

			run := min(tx.RemainingTime, quantum)
			report.Gantt = append(report.Gantt, models.Slice{
				TransactionId: tx.Id,
				AccountId:     tx.AccountId,
				Start:         now,
				End:           now + run,
			})
			now += run
			tx.RemainingTime -= run

			if tx.RemainingTime == 0 {
				waiting := now - tx.BurstTime
				totalWaiting += waiting
				report.Completions = append(report.Completions, models.Completion{
					TransactionId:  tx.Id,
					AccountId:      tx.AccountId,
					BurstTime:      tx.BurstTime,
					CompletionTime: now,
					WaitingTime:    waiting,
				})
			}
		}
	}

	report.TotalTime = now
	report.AverageWaitingTime = float64(totalWaiting) / float64(len(transactions))
	return report, nil
}
