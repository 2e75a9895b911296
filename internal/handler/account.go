package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/perrijuan/sistema-bancario/internal/domain"
	"github.com/perrijuan/sistema-bancario/internal/logging"
)

type bankEngine interface {
	CreateAccount(ctx context.Context, number, accountType, login, password string) (*domain.Account, error)
	Login(ctx context.Context, number, password string) (bool, error)
	Logout()
	Current() (domain.Account, bool)
	Balance(ctx context.Context) (decimal.Decimal, error)
	Deposit(ctx context.Context, amount decimal.Decimal) error
	Withdraw(ctx context.Context, amount decimal.Decimal) error
	Transfer(ctx context.Context, dest string, amount decimal.Decimal) error
	RequestManagerVisit(ctx context.Context) error
	Statement(ctx context.Context) ([]domain.Transaction, error)
}

// BankHandler exposes the engine's single session over HTTP. The engine is
// not safe for concurrent use, so routes must be mounted behind
// middleware.Serialize.
type BankHandler struct {
	engine bankEngine
}

func NewBankHandler(engine bankEngine) *BankHandler {
	return &BankHandler{engine: engine}
}

func (h *BankHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccount)
	mux.HandleFunc("POST /api/v1/session", h.Login)
	mux.HandleFunc("DELETE /api/v1/session", h.Logout)
	mux.HandleFunc("GET /api/v1/session/account", h.CurrentAccount)
	mux.HandleFunc("POST /api/v1/session/deposits", h.Deposit)
	mux.HandleFunc("POST /api/v1/session/withdrawals", h.Withdraw)
	mux.HandleFunc("POST /api/v1/session/transfers", h.Transfer)
	mux.HandleFunc("POST /api/v1/session/manager-visits", h.RequestManagerVisit)
	mux.HandleFunc("GET /api/v1/session/statement", h.Statement)
}

type createAccountRequest struct {
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	Login         string `json:"login"`
	Password      string `json:"password"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountNumber == "" {
		errs = append(errs, FieldError{Field: "account_number", Message: "required"})
	}
	if r.AccountType == "" {
		errs = append(errs, FieldError{Field: "account_type", Message: "required"})
	}
	if r.Login == "" {
		errs = append(errs, FieldError{Field: "login", Message: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	return errs
}

type accountDTO struct {
	Number        string          `json:"account_number"`
	Type          string          `json:"account_type"`
	Login         string          `json:"login"`
	Balance       decimal.Decimal `json:"balance"`
	NegativeSince *time.Time      `json:"negative_since"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		Number:        a.Number,
		Type:          string(a.Type),
		Login:         a.Login,
		Balance:       a.Balance,
		NegativeSince: a.NegativeSince,
	}
}

func (h *BankHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.engine.CreateAccount(r.Context(), req.AccountNumber, req.AccountType, req.Login, req.Password)
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

// CurrentAccount reports the session account after bringing overdraft
// interest up to date.
func (h *BankHandler) CurrentAccount(w http.ResponseWriter, r *http.Request) {
	if _, err := h.engine.Balance(r.Context()); err != nil {
		RespondDomainError(w, err)
		return
	}
	account, _ := h.engine.Current()
	RespondSuccess(w, http.StatusOK, toAccountDTO(&account))
}
