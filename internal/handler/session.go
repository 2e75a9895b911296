package handler

import (
	"encoding/json"
	"net/http"

	"github.com/perrijuan/sistema-bancario/internal/logging"
)

type loginRequest struct {
	AccountNumber string `json:"account_number"`
	Password      string `json:"password"`
}

func (r loginRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountNumber == "" {
		errs = append(errs, FieldError{Field: "account_number", Message: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	return errs
}

func (h *BankHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	ok, err := h.engine.Login(r.Context(), req.AccountNumber, req.Password)
	if err != nil {
		logging.FromContext(r.Context()).Error("login failed", "error", err)
		RespondDomainError(w, err)
		return
	}
	if !ok {
		RespondAppError(w, ErrInvalidCredentials, nil)
		return
	}

	account, _ := h.engine.Current()
	RespondSuccess(w, http.StatusOK, toAccountDTO(&account))
}

func (h *BankHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.engine.Logout()
	RespondSuccess(w, http.StatusOK, map[string]bool{"logged_in": false})
}
