package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"arzflow/api"
	"arzflow/config"
	"arzflow/internal/ledger"
	"arzflow/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	cfg := config.Config{
		JWTSecret:     "test_secret",
		AdminUser:     "admin",
		AdminPassword: "admin123",
		Operator:      "admin",
		UploadDir:     t.TempDir(),
	}
	require.NoError(t, api.InitRoutes(router, cfg))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// TestLedgerHappyPath_FullFlow exercises login, entity creation, a
// purchase, a sale, the ledger, and the reports end to end.
func TestLedgerHappyPath_FullFlow(t *testing.T) {
	router := newTestRouter(t)

	var token string
	var supplierID, clientID string

	t.Run("POST_Login", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/login", "",
			map[string]string{"username": "admin", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Expected 401 for bad credentials")

		w = doJSON(t, router, http.MethodPost, "/login", "",
			map[string]string{"username": "admin", "password": "admin123"})
		require.Equal(t, http.StatusOK, w.Code, "Expected 200 for valid credentials")

		var resp struct {
			Token    string `json:"token"`
			Username string `json:"username"`
			Role     string `json:"role"`
		}
		decode(t, w, &resp)
		assert.NotEmpty(t, resp.Token, "Expected a session token")
		assert.Equal(t, "SUPER_ADMIN", resp.Role, "Expected the configured role")
		token = resp.Token
	})
	require.NotEmpty(t, token, "login did not produce a token")

	t.Run("GET_RequiresAuth", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/suppliers", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Expected 401 without a token")

		w = doJSON(t, router, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code, "Expected health to stay open")
	})

	t.Run("POST_CreateCounterparties", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/suppliers", token,
			map[string]string{"name": "Al Salam Exchange", "phone": "0501234567"})
		require.Equal(t, http.StatusCreated, w.Code)

		var supplier ledger.Supplier
		decode(t, w, &supplier)
		assert.NotEmpty(t, supplier.ID, "Expected supplier ID to be generated")
		assert.True(t, supplier.CurrentBalance.IsZero(), "Expected zero opening balance")
		supplierID = supplier.ID

		w = doJSON(t, router, http.MethodPost, "/api/clients", token,
			map[string]string{"name": "Ahmed Ali", "phone": "0555111222"})
		require.Equal(t, http.StatusCreated, w.Code)

		var client ledger.Client
		decode(t, w, &client)
		assert.NotEmpty(t, client.ID, "Expected client ID to be generated")
		clientID = client.ID
	})
	require.NotEmpty(t, supplierID)
	require.NotEmpty(t, clientID)

	t.Run("POST_RecordPurchase", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/purchases", token, map[string]any{
			"supplier_id":    supplierID,
			"quantity":       "100000",
			"unit_price":     "3.75",
			"payment_method": "CASH",
			"date":           "2025-03-01",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var purchase ledger.PurchaseTransaction
		decode(t, w, &purchase)
		assert.True(t, purchase.TotalPrice.Equal(dec("375000")),
			"Expected total price 375000, got %s", purchase.TotalPrice)
	})

	t.Run("POST_RecordSale", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/sales", token, map[string]any{
			"supplier_id":    supplierID,
			"client_id":      clientID,
			"quantity":       "50000",
			"unit_price":     "3.80",
			"payment_method": "BANK",
			"date":           "2025-03-02",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var sale ledger.SalesTransaction
		decode(t, w, &sale)
		assert.True(t, sale.PurchasePriceAtTime.Equal(dec("3.75")),
			"Expected cost basis 3.75, got %s", sale.PurchasePriceAtTime)
		assert.True(t, sale.Profit.Equal(dec("2500")),
			"Expected profit 2500, got %s", sale.Profit)
	})

	t.Run("POST_SaleOverBalance", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/sales", token, map[string]any{
			"supplier_id": supplierID,
			"client_id":   clientID,
			"quantity":    "50001",
			"unit_price":  "3.80",
		})
		assert.Equal(t, http.StatusConflict, w.Code, "Expected 409 for insufficient balance")
	})

	t.Run("GET_SupplierBalance", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/suppliers", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var suppliers []ledger.Supplier
		decode(t, w, &suppliers)
		require.Len(t, suppliers, 1)
		assert.True(t, suppliers[0].CurrentBalance.Equal(dec("50000")),
			"Expected balance 50000, got %s", suppliers[0].CurrentBalance)
		assert.True(t, suppliers[0].TotalIn.Equal(dec("100000")))
		assert.True(t, suppliers[0].TotalOut.Equal(dec("50000")))
	})

	t.Run("GET_Ledger", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/ledger?supplier_id="+supplierID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []ledger.LedgerEntry
		decode(t, w, &entries)
		require.Len(t, entries, 2, "Expected purchase and sale entries")
		assert.Equal(t, ledger.EntryPurchase, entries[0].Type)
		assert.True(t, entries[0].BalanceAfter.Equal(dec("100000")))
		assert.Equal(t, ledger.EntrySale, entries[1].Type)
		assert.True(t, entries[1].BalanceAfter.Equal(dec("50000")))
		assert.Equal(t, "admin", entries[1].Operator, "Expected the operator label")
	})

	t.Run("GET_Dashboard", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/dashboard", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var stats report.DashboardStats
		decode(t, w, &stats)
		assert.True(t, stats.TotalBalance.Equal(dec("50000")))
		assert.True(t, stats.TotalProfit.Equal(dec("2500")))
		assert.Equal(t, 1, stats.SupplierCount)
		assert.Equal(t, 1, stats.ClientCount)
	})

	t.Run("GET_FinancialSummary", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/reports/summary?supplier_id="+supplierID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var sum report.FinancialSummary
		decode(t, w, &sum)
		assert.True(t, sum.TotalRevenue.Equal(dec("190000")),
			"Expected revenue 190000, got %s", sum.TotalRevenue)
		assert.True(t, sum.TotalCost.Equal(dec("187500")),
			"Expected cost 187500, got %s", sum.TotalCost)
		assert.True(t, sum.TotalProfit.Equal(dec("2500")),
			"Expected profit 2500, got %s", sum.TotalProfit)
	})

	t.Run("GET_ExportStatement", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/reports/export?report=statement", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.NotZero(t, w.Body.Len(), "Expected workbook bytes")
	})

	t.Run("GET_AuditTrail", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/audit", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var logs []ledger.AuditLog
		decode(t, w, &logs)
		assert.NotEmpty(t, logs, "Expected audit records for the recorded operations")
	})
}

// TestAdjustmentFlow credits a fresh supplier manually and sells against
// the assumed-margin cost basis.
func TestAdjustmentFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/login", "",
		map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)

	w = doJSON(t, router, http.MethodPost, "/api/suppliers", login.Token,
		map[string]string{"name": "Riyadh Currency Office", "phone": "0507654321"})
	require.Equal(t, http.StatusCreated, w.Code)
	var supplier ledger.Supplier
	decode(t, w, &supplier)

	w = doJSON(t, router, http.MethodPost, "/api/clients", login.Token,
		map[string]string{"name": "Elite Gallery"})
	require.Equal(t, http.StatusCreated, w.Code)
	var client ledger.Client
	decode(t, w, &client)

	w = doJSON(t, router, http.MethodPost, "/api/adjustments", login.Token, map[string]any{
		"supplier_id": supplier.ID,
		"quantity":    "1000",
		"notes":       "opening balance",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry ledger.LedgerEntry
	decode(t, w, &entry)
	assert.Equal(t, ledger.EntryAdjustment, entry.Type)
	assert.True(t, entry.BalanceAfter.Equal(dec("1000")))

	w = doJSON(t, router, http.MethodPost, "/api/sales", login.Token, map[string]any{
		"supplier_id": supplier.ID,
		"client_id":   client.ID,
		"quantity":    "200",
		"unit_price":  "10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sale ledger.SalesTransaction
	decode(t, w, &sale)
	assert.True(t, sale.PurchasePriceAtTime.Equal(dec("9.5")),
		"Expected assumed cost basis 9.5, got %s", sale.PurchasePriceAtTime)
	assert.True(t, sale.Profit.Equal(dec("100")),
		"Expected profit 100, got %s", sale.Profit)
}
