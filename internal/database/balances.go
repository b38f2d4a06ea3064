package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CalculatedBalance sums the confirmed balance changes journaled for an account
func (s *Service) CalculatedBalance(ctx context.Context, accountId int64) (int64, error) {
	var calculated int64
	if err := s.db.QueryRowContext(ctx, queryReconcileBalance, accountId).Scan(&calculated); err != nil {
		return 0, fmt.Errorf("failed to calculate balance from journal: %w", err)
	}
	return calculated, nil
}

// ReconcileBalance verifies that the ledger balance matches the sum of all confirmed journal entries
func (s *Service) ReconcileBalance(ctx context.Context, accountId, balance int64) error {
	zap.L().Info("Reconciling balance", zap.Int64("account_id", accountId))

	calculated, err := s.CalculatedBalance(ctx, accountId)
	if err != nil {
		return err
	}

	if calculated != balance {
		zap.L().Error("Balance reconciliation failed",
			zap.Int64("account_id", accountId),
			zap.Int64("current_balance", balance),
			zap.Int64("calculated_balance", calculated),
			zap.Int64("difference", balance-calculated))
		return fmt.Errorf("balance mismatch: current=%d, calculated=%d", balance, calculated)
	}

	zap.L().Info("Balance reconciliation successful",
		zap.Int64("account_id", accountId),
		zap.Int64("balance", balance))
	return nil
}
