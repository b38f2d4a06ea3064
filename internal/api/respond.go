package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("Failed to encode response", zap.Error(err))
	}
}

// sendError writes an ErrorResponse. Validator failures are expanded per field.
func sendError(w http.ResponseWriter, message string, status int, cause error) {
	resp := models.ErrorResponse{Error: message}

	var fieldErrs validator.ValidationErrors
	var validationErr *store.ValidationError
	switch {
	case errors.As(cause, &fieldErrs):
		resp.Details = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			resp.Details[fe.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", fe.Tag())
		}
	case errors.As(cause, &validationErr):
		resp.Details = map[string]string{validationErr.Field: validationErr.Message}
	}

	sendJSON(w, status, resp)
}

// sendOperationError reports a failed operation, attaching its result when the
// attempt was still billed to the scheduler and cache.
func sendOperationError(w http.ResponseWriter, err error, result *models.OperationResult) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("Operation failed", zap.Error(err))
	}
	resp := models.ErrorResponse{Error: err.Error(), Result: result}
	var validationErr *store.ValidationError
	if errors.As(err, &validationErr) {
		resp.Details = map[string]string{validationErr.Field: validationErr.Message}
	}
	sendJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrAccountNotFound), errors.Is(err, store.ErrEmptyTransactionSet):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrInvalidAmount), store.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrCapacityExceeded), errors.Is(err, store.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, store.ErrTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest, nil)
		return false
	}
	return true
}

// decodeValid reads a JSON body into dst and validates it.
func (s *BankService) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decode(w, r, dst) {
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		sendError(w, "validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

func accountId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendError(w, "invalid account id", http.StatusBadRequest, nil)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
