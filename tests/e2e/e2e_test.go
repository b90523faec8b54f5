//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lazvegas61/MyCafe-sql/internal/config"
	"github.com/Lazvegas61/MyCafe-sql/internal/infra"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/router"
	"github.com/Lazvegas61/MyCafe-sql/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server  *httptest.Server
	token   string // admin JWT
	table   *model.Table
	product *model.Product
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("mycafe_test"),
		tcPostgres.WithUsername("mycafe"),
		tcPostgres.WithPassword("mycafe"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		BusinessName:       "MyCafe E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Seed an admin, one standard table and one product.
	hash, err := bcrypt.GenerateFromPassword([]byte("mycafe2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Username:     "admin-e2e",
		FullName:     "Admin E2E",
		PasswordHash: string(hash),
		Role:         "ADMIN",
		IsActive:     true,
	}).Error)

	table := &model.Table{TableNumber: 1, Name: "Window 1", Kind: model.TableStandard, IsActive: true}
	require.NoError(t, db.Create(table).Error)

	product := &model.Product{
		Name:     "Espresso",
		Category: "coffee",
		Price:    decimal.NewFromFloat(3.50),
		Stock:    decimal.NewFromInt(50),
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin-e2e", "password": "mycafe2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, table: table, product: product}
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full cycle: open day → invoice → line → exact payment → close day.
func TestE2E_FullServiceCycle(t *testing.T) {
	env := setupTestEnv(t)

	openResp := do(t, env.server, "POST", "/v1/days/open", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)
	openResp.Body.Close()

	invResp := do(t, env.server, "POST", "/v1/invoices",
		jsonBody(t, map[string]any{"table_id": env.table.ID.String()}), env.token)
	require.Equal(t, http.StatusCreated, invResp.StatusCode)
	var inv struct {
		ID string `json:"id"`
	}
	decodeJSON(t, invResp, &inv)

	lineResp := do(t, env.server, "POST", "/v1/invoices/"+inv.ID+"/lines",
		jsonBody(t, map[string]any{
			"line_type":  "NORMAL",
			"product_id": env.product.ID.String(),
			"quantity":   2,
		}), env.token)
	require.Equal(t, http.StatusCreated, lineResp.StatusCode)
	var invWithLine struct {
		TotalAmount decimal.Decimal `json:"total_amount"`
	}
	decodeJSON(t, lineResp, &invWithLine)
	assert.Equal(t, "7", invWithLine.TotalAmount.String())

	validateResp := do(t, env.server, "POST", "/v1/payments/validate",
		jsonBody(t, map[string]any{"invoice_id": inv.ID, "amount": 5}), env.token)
	require.Equal(t, http.StatusOK, validateResp.StatusCode)
	var validation struct {
		Remaining decimal.Decimal `json:"remaining"`
		IsValid   bool            `json:"is_valid"`
	}
	decodeJSON(t, validateResp, &validation)
	assert.Equal(t, "7", validation.Remaining.String())
	assert.False(t, validation.IsValid)

	// Anything but the exact remainder is rejected.
	badPay := do(t, env.server, "POST", "/v1/payments",
		jsonBody(t, map[string]any{"invoice_id": inv.ID, "payment_method": "CASH", "amount": 5}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, badPay.StatusCode)
	badPay.Body.Close()

	payResp := do(t, env.server, "POST", "/v1/payments",
		jsonBody(t, map[string]any{"invoice_id": inv.ID, "payment_method": "CASH", "amount": 7}), env.token)
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	var pay struct {
		Success       bool `json:"success"`
		InvoiceClosed bool `json:"invoice_closed"`
		TableFreed    bool `json:"table_freed"`
	}
	decodeJSON(t, payResp, &pay)
	assert.True(t, pay.Success)
	assert.True(t, pay.InvoiceClosed)
	assert.True(t, pay.TableFreed)

	closeResp := do(t, env.server, "POST", "/v1/days/close", jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusOK, closeResp.StatusCode)
	closeResp.Body.Close()
}

// Debt payment raises the customer balance; repayment brings it back to zero.
func TestE2E_DebtLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	openResp := do(t, env.server, "POST", "/v1/days/open", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)
	openResp.Body.Close()

	custResp := do(t, env.server, "POST", "/v1/customers",
		jsonBody(t, map[string]any{"full_name": "Regular Guest"}), env.token)
	require.Equal(t, http.StatusCreated, custResp.StatusCode)
	var cust struct {
		ID string `json:"id"`
	}
	decodeJSON(t, custResp, &cust)

	invResp := do(t, env.server, "POST", "/v1/invoices",
		jsonBody(t, map[string]any{"table_id": env.table.ID.String()}), env.token)
	require.Equal(t, http.StatusCreated, invResp.StatusCode)
	var inv struct {
		ID string `json:"id"`
	}
	decodeJSON(t, invResp, &inv)

	lineResp := do(t, env.server, "POST", "/v1/invoices/"+inv.ID+"/lines",
		jsonBody(t, map[string]any{
			"line_type":  "NORMAL",
			"product_id": env.product.ID.String(),
			"quantity":   4,
		}), env.token)
	require.Equal(t, http.StatusCreated, lineResp.StatusCode)
	lineResp.Body.Close()

	payResp := do(t, env.server, "POST", "/v1/payments",
		jsonBody(t, map[string]any{
			"invoice_id":     inv.ID,
			"payment_method": "DEBT",
			"amount":         14,
			"customer_id":    cust.ID,
		}), env.token)
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	var pay struct {
		NewBalance *decimal.Decimal `json:"new_balance"`
	}
	decodeJSON(t, payResp, &pay)
	require.NotNil(t, pay.NewBalance)
	assert.Equal(t, "14", pay.NewBalance.String())

	balResp := do(t, env.server, "GET", "/v1/customers/"+cust.ID+"/balance", nil, env.token)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	var bal struct {
		CurrentBalance decimal.Decimal `json:"current_balance"`
	}
	decodeJSON(t, balResp, &bal)
	assert.Equal(t, "14", bal.CurrentBalance.String())

	payDebtResp := do(t, env.server, "POST", "/v1/debts/pay",
		jsonBody(t, map[string]any{
			"customer_id":    cust.ID,
			"amount":         14,
			"payment_method": "CASH",
		}), env.token)
	require.Equal(t, http.StatusCreated, payDebtResp.StatusCode)
	var settled struct {
		NewBalance decimal.Decimal `json:"new_balance"`
	}
	decodeJSON(t, payDebtResp, &settled)
	assert.Equal(t, "0", settled.NewBalance.String())
}

// Nothing operates while no day is open; the public gate says so.
func TestE2E_DayGate(t *testing.T) {
	env := setupTestEnv(t)

	statusResp := do(t, env.server, "GET", "/v1/days/status", nil, "")
	require.Equal(t, http.StatusOK, statusResp.StatusCode)
	var status struct {
		IsOpen     bool `json:"is_open"`
		CanOperate bool `json:"can_operate"`
	}
	decodeJSON(t, statusResp, &status)
	assert.False(t, status.IsOpen)
	assert.False(t, status.CanOperate)

	invResp := do(t, env.server, "POST", "/v1/invoices",
		jsonBody(t, map[string]any{"table_id": env.table.ID.String()}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, invResp.StatusCode)
	var apiErr struct {
		ErrorCode string `json:"error_code"`
	}
	decodeJSON(t, invResp, &apiErr)
	assert.Equal(t, "CLOSED_DAY_VIOLATION", apiErr.ErrorCode)
}
