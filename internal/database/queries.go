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

package database

const (
	queryInitSchema = `
	-- Operation journal (audit trail of every dispatched operation)
	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		account_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		amount INTEGER NOT NULL DEFAULT 0,
		balance_before INTEGER NOT NULL,
		balance_after INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'confirmed',
		burst_time INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_journal_account_id ON journal_entries(account_id);
	CREATE INDEX IF NOT EXISTS idx_journal_created_at ON journal_entries(created_at);
	CREATE INDEX IF NOT EXISTS idx_journal_status ON journal_entries(status);
	`

	queryInsertJournalEntry = `
		INSERT INTO journal_entries (
			id, account_id, kind, amount, balance_before, balance_after, status, burst_time, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetJournalHistory = `
		SELECT id, account_id, kind, amount, balance_before, balance_after, status, burst_time, error, created_at
		FROM journal_entries
		WHERE account_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`

	queryReconcileBalance = `
		SELECT COALESCE(SUM(balance_after - balance_before), 0) AS calculated_balance
		FROM journal_entries
		WHERE account_id = ? AND status = 'confirmed'`

	queryCountJournalEntries = `
		SELECT COUNT(*) FROM journal_entries WHERE account_id = ?`
)
