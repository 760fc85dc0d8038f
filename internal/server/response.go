package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/apb-demo-bank/internal/commands"
	"github.com/sheikh-saqib/apb-demo-bank/internal/ledger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// statusFor maps a recovered command error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ledger.ErrInvalidCredentials), errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, commands.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrMissingField), errors.Is(err, ledger.ErrUnknownStaffRole):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrSelfTransfer),
		errors.Is(err, ledger.ErrLoanLimitExceeded),
		errors.Is(err, ledger.ErrNoActiveLoan),
		errors.Is(err, ledger.ErrAlreadyOwned):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeResult(w http.ResponseWriter, res commands.Result, successCode int) {
	code := statusFor(res.Err)
	if res.Err == nil {
		code = successCode
	}
	writeJSON(w, code, res)
}
