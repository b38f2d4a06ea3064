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

package api

import (
	"context"
	"fmt"
	"net/http"

	"banking-os-go/internal/dispatcher"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// BankService exposes the dispatcher over HTTP
type BankService struct {
	dispatcher *dispatcher.Dispatcher
	validate   *validator.Validate
}

func NewBankService(d *dispatcher.Dispatcher) *BankService {
	return &BankService{
		dispatcher: d,
		validate:   validator.New(),
	}
}

func (s *BankService) HealthCheck(ctx context.Context) error {
	if err := s.dispatcher.Ping(ctx); err != nil {
		return fmt.Errorf("journal health check failed: %w", err)
	}
	return nil
}

// Router returns the HTTP routes of the bank.
func (s *BankService) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/accounts", s.openAccount).Methods(http.MethodPost)
	r.HandleFunc("/sessions", s.login).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id:[0-9]+}/deposit", s.deposit).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id:[0-9]+}/withdraw", s.withdraw).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id:[0-9]+}/balance", s.balance).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}/transactions", s.transactions).Methods(http.MethodGet)
	r.HandleFunc("/cache", s.cache).Methods(http.MethodGet)
	r.HandleFunc("/schedule", s.schedule).Methods(http.MethodGet)
	return r
}

func (s *BankService) health(w http.ResponseWriter, r *http.Request) {
	if err := s.HealthCheck(r.Context()); err != nil {
		sendError(w, err.Error(), http.StatusServiceUnavailable, nil)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
