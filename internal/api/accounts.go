package api

import (
	"net/http"

	"banking-os-go/internal/models"

	"go.uber.org/zap"
)

func (s *BankService) openAccount(w http.ResponseWriter, r *http.Request) {
	var req models.OpenAccountRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	id, err := s.dispatcher.OpenAccount(r.Context(), req.Username, req.Password, req.InitialBalance)
	if err != nil {
		zap.L().Warn("Account opening failed", zap.String("username", req.Username), zap.Error(err))
		sendOperationError(w, err, nil)
		return
	}
	sendJSON(w, http.StatusCreated, models.AccountResponse{AccountId: id})
}

func (s *BankService) login(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	id, err := s.dispatcher.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		sendOperationError(w, err, nil)
		return
	}
	sendJSON(w, http.StatusOK, models.AccountResponse{AccountId: id})
}
