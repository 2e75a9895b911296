package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/perrijuan/sistema-bancario/internal/domain"
	"github.com/perrijuan/sistema-bancario/internal/repository/memory"
	"github.com/perrijuan/sistema-bancario/internal/service/ledger"
	"github.com/perrijuan/sistema-bancario/internal/statement"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	engine := ledger.NewEngine(store, statement.NewLog(store), ledger.DefaultPolicy(),
		ledger.WithPasswordCost(bcrypt.MinCost))
	mux := http.NewServeMux()
	NewBankHandler(engine).Routes(mux)
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestBankHandler_TransferFlow(t *testing.T) {
	h := newTestServer(t)

	code, _ := do(t, h, http.MethodPost, "/api/v1/accounts",
		`{"account_number":"11111","account_type":"NORMAL","login":"testUser1","password":"1234"}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, h, http.MethodPost, "/api/v1/accounts",
		`{"account_number":"22222","account_type":"vip","login":"testUser2","password":"5678"}`)
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, h, http.MethodPost, "/api/v1/session", `{"account_number":"11111","password":"1234"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, h, http.MethodPost, "/api/v1/session/deposits", `{"amount":"500"}`)
	require.Equal(t, http.StatusOK, code)

	code, env := do(t, h, http.MethodPost, "/api/v1/session/transfers", `{"destination_account":"22222","amount":100}`)
	require.Equal(t, http.StatusOK, code)
	var acct accountDTO
	require.NoError(t, json.Unmarshal(env.Data, &acct))
	assert.Equal(t, "392", acct.Balance.String())

	code, env = do(t, h, http.MethodGet, "/api/v1/session/statement", "")
	require.Equal(t, http.StatusOK, code)
	var entries []transactionDTO
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "TRANSFER_SENT", entries[1].Type)
	assert.Equal(t, "TRANSFER_FEE", entries[2].Type)
	assert.Equal(t, "-8", entries[2].Amount.String())
}

func TestBankHandler_ErrorMapping(t *testing.T) {
	h := newTestServer(t)

	code, env := do(t, h, http.MethodPost, "/api/v1/session/deposits", `{"amount":"10"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NO_SESSION", env.Error.Code)

	code, env = do(t, h, http.MethodPost, "/api/v1/accounts",
		`{"account_number":"123","account_type":"NORMAL","login":"x","password":"1234"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_ACCOUNT_NUMBER", env.Error.Code)

	code, env = do(t, h, http.MethodPost, "/api/v1/accounts", `{"account_number":"11111"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	code, _ = do(t, h, http.MethodPost, "/api/v1/accounts",
		`{"account_number":"11111","account_type":"NORMAL","login":"x","password":"1234"}`)
	require.Equal(t, http.StatusCreated, code)
	code, env = do(t, h, http.MethodPost, "/api/v1/accounts",
		`{"account_number":"11111","account_type":"NORMAL","login":"x","password":"1234"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ACCOUNT_ALREADY_EXISTS", env.Error.Code)

	code, env = do(t, h, http.MethodPost, "/api/v1/session", `{"account_number":"11111","password":"9999"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	code, _ = do(t, h, http.MethodPost, "/api/v1/session", `{"account_number":"11111","password":"1234"}`)
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"negative deposit", "/api/v1/session/deposits", `{"amount":"-1"}`, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"overdraw normal", "/api/v1/session/withdrawals", `{"amount":"1"}`, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"self transfer", "/api/v1/session/transfers", `{"destination_account":"11111","amount":"1"}`, http.StatusBadRequest, "SELF_TRANSFER_NOT_ALLOWED"},
		{"unknown recipient", "/api/v1/session/transfers", `{"destination_account":"99999","amount":"1"}`, http.StatusBadRequest, "RECIPIENT_NOT_FOUND"},
		{"normal manager visit", "/api/v1/session/manager-visits", ``, http.StatusConflict, "VIP_ONLY"},
		{"malformed body", "/api/v1/session/deposits", `{`, http.StatusBadRequest, "INVALID_REQUEST"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, env := do(t, h, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.wantCode, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.wantErr, env.Error.Code)
		})
	}
}

func TestRespondDomainError_Persistence(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, errors.Join(domain.ErrPersistence, errors.New("disk full")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "PERSISTENCE_FAILURE")
}

type stubPinger struct {
	err         error
	calls       int
	hadDeadline bool
}

func (p *stubPinger) Ping(ctx context.Context) error {
	p.calls++
	_, p.hadDeadline = ctx.Deadline()
	return p.err
}

func (p *stubPinger) Driver() string { return "sqlite" }

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{"store answers", nil, http.StatusOK, "ok"},
		{"store down", errors.New("database is locked"), http.StatusServiceUnavailable, "down"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pinger := &stubPinger{err: tc.err}
			rec := httptest.NewRecorder()
			NewHealthHandler(pinger).Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			require.Equal(t, tc.wantCode, rec.Code)

			var body struct {
				Status string `json:"status"`
				Checks struct {
					Store struct {
						Driver string `json:"driver"`
						Status string `json:"status"`
					} `json:"store"`
				} `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantStatus, body.Status)
			assert.Equal(t, tc.wantStatus, body.Checks.Store.Status)
			assert.Equal(t, "sqlite", body.Checks.Store.Driver)
			assert.True(t, pinger.hadDeadline)
		})
	}
}

func TestHealthHandler_ReadinessPingsEveryRequest(t *testing.T) {
	pinger := &stubPinger{}
	h := NewHealthHandler(pinger)

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	pinger.err = errors.New("connection refused")
	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 2, pinger.calls)
}
