package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"banking-os-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record appends an entry to the journal. A missing id or timestamp is filled in.
func (s *Service) Record(ctx context.Context, entry models.JournalEntry) error {
	if entry.Id == "" {
		entry.Id = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = models.StatusConfirmed
	}

	_, err := s.db.ExecContext(ctx, queryInsertJournalEntry,
		entry.Id, entry.AccountId, string(entry.Kind), entry.Amount,
		entry.BalanceBefore, entry.BalanceAfter, entry.Status, entry.BurstTime,
		entry.Error, entry.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to record journal entry",
			zap.String("entry_id", entry.Id),
			zap.Int64("account_id", entry.AccountId),
			zap.String("kind", string(entry.Kind)),
			zap.Error(err))
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	zap.L().Debug("Journal entry recorded",
		zap.String("entry_id", entry.Id),
		zap.Int64("account_id", entry.AccountId),
		zap.String("kind", string(entry.Kind)),
		zap.String("status", entry.Status))
	return nil
}

// History returns paginated journal entries for an account, newest first
func (s *Service) History(ctx context.Context, accountId int64, limit, offset int) ([]models.JournalEntry, error) {
	zap.L().Debug("Getting journal history",
		zap.Int64("account_id", accountId),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	rows, err := s.db.QueryContext(ctx, queryGetJournalHistory, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		var kind string
		err := rows.Scan(&entry.Id, &entry.AccountId, &kind, &entry.Amount,
			&entry.BalanceBefore, &entry.BalanceAfter, &entry.Status, &entry.BurstTime,
			&entry.Error, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.Kind = models.OperationKind(kind)
		entries = append(entries, entry)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during journal row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}

	return entries, nil
}

// Count returns the number of journal entries recorded for an account
func (s *Service) Count(ctx context.Context, accountId int64) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, queryCountJournalEntries, accountId).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}
