package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/perrijuan/sistema-bancario/internal/domain"
	"github.com/perrijuan/sistema-bancario/internal/logging"
)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	DestinationAccount string          `json:"destination_account"`
	Amount             decimal.Decimal `json:"amount"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.DestinationAccount == "" {
		errs = append(errs, FieldError{Field: "destination_account", Message: "required"})
	}
	return errs
}

type transactionDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Timestamp          time.Time       `json:"timestamp"`
	Type               string          `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	SourceAccount      string          `json:"source_account"`
	DestinationAccount *string         `json:"destination_account"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:                 t.ID,
		Timestamp:          t.Timestamp,
		Type:               string(t.Type),
		Amount:             t.Amount,
		Description:        t.Description,
		SourceAccount:      t.SourceAccount,
		DestinationAccount: t.DestAccount,
	}
}

func (h *BankHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if err := h.engine.Deposit(r.Context(), req.Amount); err != nil {
		logging.FromContext(r.Context()).Warn("deposit rejected", "error", err)
		RespondDomainError(w, err)
		return
	}
	h.respondAccount(w)
}

func (h *BankHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if err := h.engine.Withdraw(r.Context(), req.Amount); err != nil {
		logging.FromContext(r.Context()).Warn("withdrawal rejected", "error", err)
		RespondDomainError(w, err)
		return
	}
	h.respondAccount(w)
}

func (h *BankHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}
	if err := h.engine.Transfer(r.Context(), req.DestinationAccount, req.Amount); err != nil {
		logging.FromContext(r.Context()).Warn("transfer rejected", "error", err)
		RespondDomainError(w, err)
		return
	}
	h.respondAccount(w)
}

func (h *BankHandler) RequestManagerVisit(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RequestManagerVisit(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("manager visit rejected", "error", err)
		RespondDomainError(w, err)
		return
	}
	h.respondAccount(w)
}

func (h *BankHandler) Statement(w http.ResponseWriter, r *http.Request) {
	entries, err := h.engine.Statement(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(entries))
	for i := range entries {
		dtos[i] = toTransactionDTO(&entries[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *BankHandler) respondAccount(w http.ResponseWriter) {
	account, _ := h.engine.Current()
	RespondSuccess(w, http.StatusOK, toAccountDTO(&account))
}
