package api

import (
	"context"
	"net/http"

	"banking-os-go/internal/models"
)

type amountOperation func(ctx context.Context, id, amount int64) (*models.OperationResult, error)

func (s *BankService) deposit(w http.ResponseWriter, r *http.Request) {
	s.applyAmount(w, r, s.dispatcher.Deposit)
}

func (s *BankService) withdraw(w http.ResponseWriter, r *http.Request) {
	s.applyAmount(w, r, s.dispatcher.Withdraw)
}

func (s *BankService) applyAmount(w http.ResponseWriter, r *http.Request, op amountOperation) {
	id, ok := accountId(w, r)
	if !ok {
		return
	}
	var req models.AmountRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := op(r.Context(), id, req.Amount)
	if err != nil {
		sendOperationError(w, err, result)
		return
	}
	sendJSON(w, http.StatusOK, result)
}

func (s *BankService) balance(w http.ResponseWriter, r *http.Request) {
	id, ok := accountId(w, r)
	if !ok {
		return
	}

	result, err := s.dispatcher.CheckBalance(r.Context(), id)
	if err != nil {
		sendOperationError(w, err, result)
		return
	}
	sendJSON(w, http.StatusOK, result)
}

func (s *BankService) transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := accountId(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	entries, err := s.dispatcher.History(r.Context(), id, limit, offset)
	if err != nil {
		sendOperationError(w, err, nil)
		return
	}

	records := make([]models.TransactionRecord, len(entries))
	for i, e := range entries {
		records[i] = models.TransactionRecord{
			Id:            e.Id,
			Kind:          e.Kind,
			Amount:        e.Amount,
			BalanceBefore: e.BalanceBefore,
			BalanceAfter:  e.BalanceAfter,
			Status:        e.Status,
			Error:         e.Error,
			CreatedAt:     e.CreatedAt,
		}
	}
	sendJSON(w, http.StatusOK, records)
}

func (s *BankService) cache(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, http.StatusOK, models.CacheResponse{
		Resident: s.dispatcher.InspectCache(),
		Pages:    s.dispatcher.CachePages(),
	})
}

// schedule reports the current simulation without submitting a transaction
// or consuming the pending latest batch.
func (s *BankService) schedule(w http.ResponseWriter, _ *http.Request) {
	report, err := s.dispatcher.PreviewSchedule()
	if err != nil {
		sendOperationError(w, err, nil)
		return
	}
	sendJSON(w, http.StatusOK, report)
}
