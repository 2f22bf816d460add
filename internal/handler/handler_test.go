package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/lendbook/loan-service/internal/repository"
	"github.com/lendbook/loan-service/internal/service"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := service.NewService(repository.NewMemoryStore(), log)
	h, err := NewHandler(svc, log)
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/lend", h.Lend).Methods("POST")
	r.HandleFunc("/payment", h.Payment).Methods("POST")
	r.HandleFunc("/ledger/{loan_id}", h.Ledger).Methods("GET")
	r.HandleFunc("/overview/{customer_id}", h.Overview).Methods("GET")
	return r
}

func doJSON(r *mux.Router, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLendHandler(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/lend", []byte(`{
		"customer_id": "cust-1",
		"loan_amount": 10000,
		"loan_period": 2,
		"rate_of_interest": 8
	}`))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp["loan_id"])
	assert.Equal(t, 11600.0, resp["total_amount"])
	assert.Equal(t, 483.33, resp["monthly_emi"])
}

func TestLendHandler_MalformedBody(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/lend", []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLendHandler_MissingFields(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/lend", []byte(`{"customer_id": "cust-1"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp["error"])
}

func TestLendHandler_NegativeAmount(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/lend", []byte(`{
		"customer_id": "cust-1",
		"loan_amount": -100,
		"loan_period": 1,
		"rate_of_interest": 5
	}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler(t *testing.T) {
	r := newTestRouter(t)
	doJSON(r, http.MethodPost, "/lend", []byte(`{
		"customer_id": "cust-1",
		"loan_amount": 10000,
		"loan_period": 2,
		"rate_of_interest": 8
	}`))

	w := doJSON(r, http.MethodPost, "/payment", []byte(`{"loan_id": 1, "amount": 5000}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment successful", resp["message"])
	assert.Equal(t, 6600.0, resp["remaining_amount"])
}

func TestPaymentHandler_UnknownLoan(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/payment", []byte(`{"loan_id": 42, "amount": 100}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLedgerHandler(t *testing.T) {
	r := newTestRouter(t)
	doJSON(r, http.MethodPost, "/lend", []byte(`{
		"customer_id": "cust-1",
		"loan_amount": 10000,
		"loan_period": 2,
		"rate_of_interest": 8
	}`))
	doJSON(r, http.MethodPost, "/payment", []byte(`{"loan_id": 1, "amount": 5000}`))

	w := doJSON(r, http.MethodGet, "/ledger/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10000.0, resp["principal"])
	assert.Equal(t, 11600.0, resp["total_amount"])
	assert.Equal(t, 5000.0, resp["total_paid"])
	assert.Equal(t, 6600.0, resp["balance_amount"])
	assert.Equal(t, 14.0, resp["emis_left"])
	assert.Len(t, resp["transactions"], 1)
}

func TestLedgerHandler_UnknownLoan(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/ledger/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLedgerHandler_InvalidID(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/ledger/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOverviewHandler(t *testing.T) {
	r := newTestRouter(t)
	doJSON(r, http.MethodPost, "/lend", []byte(`{
		"customer_id": "cust-1",
		"loan_amount": 10000,
		"loan_period": 2,
		"rate_of_interest": 8
	}`))
	doJSON(r, http.MethodPost, "/lend", []byte(`{
		"customer_id": "cust-1",
		"loan_amount": 5000,
		"loan_period": 1,
		"rate_of_interest": 10
	}`))

	w := doJSON(r, http.MethodGet, "/overview/cust-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CustomerID string `json:"customer_id"`
		Loans      []struct {
			LoanID        int64   `json:"loan_id"`
			TotalInterest float64 `json:"total_interest"`
			EMIsLeft      int     `json:"emis_left"`
		} `json:"loans"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cust-1", resp.CustomerID)
	assert.Len(t, resp.Loans, 2)
	assert.Equal(t, 1600.0, resp.Loans[0].TotalInterest)
	assert.Equal(t, 24, resp.Loans[0].EMIsLeft)
}

func TestOverviewHandler_UnknownCustomer(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/overview/nobody", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
