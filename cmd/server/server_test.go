package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-rails/internal/config"
	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/provider/sepa"
	"github.com/yourorg/payment-rails/internal/provider/ukpay"
	"github.com/yourorg/payment-rails/internal/refstore"
	"github.com/yourorg/payment-rails/internal/registry"
	"github.com/yourorg/payment-rails/internal/reporting"
	"github.com/yourorg/payment-rails/internal/sca"
	"github.com/yourorg/payment-rails/internal/sca/store"
	"github.com/yourorg/payment-rails/internal/service"
)

const testCode = "123456"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy, err := sca.NewRequirementPolicy("", 50000)
	require.NoError(t, err)
	engine, err := sca.NewEngine(sca.Config{}, sca.Deps{
		Store:  store.NewMemoryStore(),
		Policy: policy,
		Codes:  sca.StaticCodeSource(testCode),
	})
	require.NoError(t, err)

	refs := refstore.NewMemoryStore()
	reg := registry.New()
	reg.MustRegister(sepa.New(engine, refs))
	reg.MustRegister(ukpay.New(engine, refs))

	journal := reporting.NewMemoryJournal()
	svc := service.New(reg, service.Options{Journal: journal})

	router, err := setupRouter(svc, reg, journal)
	require.NoError(t, err)
	return router
}

func post(t *testing.T, router *gin.Engine, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func paymentBody(pt string, amountMinor int64) map[string]interface{} {
	return map[string]interface{}{
		"requestId":       "req-http-1",
		"paymentType":     pt,
		"amountMinor":     amountMinor,
		"currency":        "EUR",
		"debtorAccount":   "DE89370400440532013000",
		"creditorAccount": "FR1420041010050500013M02606",
	}
}

func TestPayments_SimulateLowValue(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/payments/simulate", paymentBody("SEPA_SCT", 10000))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res payment.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, payment.StatusValidated, res.Status)
	assert.False(t, res.ScaRequired)
	assert.NotEmpty(t, res.SimulationReference)
}

func TestPayments_SimulateThenExecuteWithSca(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/payments/simulate", paymentBody("SEPA_SCT", 1000000))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var simRes payment.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &simRes))
	require.True(t, simRes.ScaRequired)
	require.True(t, simRes.ScaDeliveryTriggered)
	require.NotEmpty(t, simRes.SimulationReference)

	execBody := paymentBody("SEPA_SCT", 1000000)
	execBody["simulationReference"] = simRes.SimulationReference
	execBody["sca"] = map[string]interface{}{"authenticationCode": testCode}

	w = post(t, router, "/payments/execute", execBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var execRes payment.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &execRes))
	assert.True(t, execRes.Success)
	assert.Equal(t, payment.StatusCompleted, execRes.Status)
	assert.True(t, execRes.ScaCompleted)
	assert.NotEmpty(t, execRes.ClearingReference)
}

func TestPayments_ChapsCancellationRejected(t *testing.T) {
	router := newTestRouter(t)

	body := paymentBody("UK_CHAPS", 10000)
	body["currency"] = "GBP"
	w := post(t, router, "/payments/cancel", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res payment.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, payment.ErrCodeCancellationNotSupported, res.ErrorCode)
}

func TestPayments_NoProviderForPaymentType(t *testing.T) {
	router := newTestRouter(t)

	// ACH payments have no registered backend in this wiring.
	w := post(t, router, "/payments/execute", paymentBody("ACH_CREDIT", 10000))
	require.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), payment.ErrCodeNoProvider)
}

func TestPayments_ValidationRejections(t *testing.T) {
	router := newTestRouter(t)

	t.Run("schema violation", func(t *testing.T) {
		body := paymentBody("SEPA_SCT", 10000)
		delete(body, "currency")
		w := post(t, router, "/payments/simulate", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), payment.ErrCodeValidation)
	})

	t.Run("zero amount", func(t *testing.T) {
		w := post(t, router, "/payments/simulate", paymentBody("SEPA_SCT", 0))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown operation", func(t *testing.T) {
		w := post(t, router, "/payments/teleport", paymentBody("SEPA_SCT", 10000))
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Providers map[string]bool `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Providers[string(payment.SepaProvider)])
	assert.True(t, body.Providers[string(payment.UKProvider)])
}

func TestRetrospective(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 3; i++ {
		body := paymentBody("SEPA_SCT", 10000)
		body["requestId"] = fmt.Sprintf("req-retro-%d", i)
		w := post(t, router, "/payments/simulate", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/retrospective", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var report reporting.RetrospectiveReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.TotalOperations)
	assert.Equal(t, 3, report.OperationBreakdown["simulate"])
}

func TestNewHTTPServer_CarriesTimeouts(t *testing.T) {
	router := newTestRouter(t)
	srv := newHTTPServer(config.ServerConfig{
		Port:         "9191",
		ReadTimeout:  7 * time.Second,
		WriteTimeout: 9 * time.Second,
	}, router)

	assert.Equal(t, ":9191", srv.Addr)
	assert.Equal(t, 7*time.Second, srv.ReadTimeout)
	assert.Equal(t, 9*time.Second, srv.WriteTimeout)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/payments/simulate", paymentBody("SEPA_SCT", 10000))
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payment_operations_total")
}
