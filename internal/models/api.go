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

package models

import "time"

// OpenAccountRequest carries the fields needed to open an account
type OpenAccountRequest struct {
	Username       string `json:"username" validate:"required,max=20"`
	Password       string `json:"password" validate:"required,max=20"`
	InitialBalance int64  `json:"initial_balance" validate:"gte=0"`
}

// CredentialsRequest carries a login attempt
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AmountRequest carries the amount of a deposit or withdrawal.
// Non-positive amounts are rejected by the ledger, not at decode time.
type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// AccountResponse is returned after opening an account or authenticating
type AccountResponse struct {
	AccountId int64 `json:"account_id"`
}

// CacheResponse describes the current residency of the access cache
type CacheResponse struct {
	Resident []int64 `json:"resident"`
	Pages    []Page  `json:"pages"`
}

// TransactionRecord represents a journal entry in the account's history
type TransactionRecord struct {
	Id            string        `json:"id"`
	Kind          OperationKind `json:"kind"`
	Amount        int64         `json:"amount"`
	BalanceBefore int64         `json:"balance_before"`
	BalanceAfter  int64         `json:"balance_after"`
	Status        string        `json:"status"`
	Error         string        `json:"error,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ErrorResponse is the JSON body of every failed HTTP request
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
	Result  *OperationResult  `json:"result,omitempty"`
}
