package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vivendi/backend/internal/api"
	"vivendi/backend/internal/email"
	"vivendi/backend/internal/erp"
)

// fakeLaudus stands in for the ERP: it issues tokens and accepts orders.
func fakeLaudus(t *testing.T, orderStatus int) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/security/login":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token":      "tok",
				"expiration": time.Now().Add(time.Hour),
			})
		case "/sales/orders":
			w.WriteHeader(orderStatus)
			if orderStatus < 300 {
				_, _ = w.Write([]byte(`{"salesOrderId": 99}`))
			}
		case "/production/products/stock":
			_, _ = w.Write([]byte(`{"products": []}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestERPHandler_CreateOrder(t *testing.T) {
	orderBody := `{
		"customerId": 100,
		"sellerId": 7,
		"paymentTermId": "30D",
		"clientId": "` + clientID + `",
		"contact": {"name": "Juan", "email": "juan@acme.cl"},
		"items": [{"sku": "SKU-1", "quantity": 2, "unitPrice": 1000}]
	}`

	t.Run("Success sends a confirmation email", func(t *testing.T) {
		laudus := fakeLaudus(t, http.StatusCreated)

		var mailPath string
		var mail email.SendRequest
		relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mailPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&mail))
			_, _ = w.Write([]byte(`{"success": true}`))
		}))
		t.Cleanup(relay.Close)

		handler := api.NewERPHandler(
			erp.NewGateway(erp.Config{BaseURL: laudus.URL}),
			email.NewClient(relay.URL),
			api.NewResponder(true),
		)

		req := httptest.NewRequest(http.MethodPost, "/v1/erp/orders", strings.NewReader(orderBody))
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"success": true, "data": {"salesOrderId": 99}}`, rr.Body.String())

		assert.Equal(t, "/api/"+clientID+"/email/send", mailPath)
		assert.Equal(t, []string{"juan@acme.cl"}, mail.To)
		assert.Contains(t, mail.Subject, "#99")
	})

	t.Run("Email failure does not fail the order", func(t *testing.T) {
		laudus := fakeLaudus(t, http.StatusCreated)
		relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(relay.Close)

		handler := api.NewERPHandler(
			erp.NewGateway(erp.Config{BaseURL: laudus.URL}),
			email.NewClient(relay.URL),
			api.NewResponder(true),
		)

		req := httptest.NewRequest(http.MethodPost, "/v1/erp/orders", strings.NewReader(orderBody))
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("ERP rejection surfaces as 500", func(t *testing.T) {
		laudus := fakeLaudus(t, http.StatusUnprocessableEntity)

		handler := api.NewERPHandler(
			erp.NewGateway(erp.Config{BaseURL: laudus.URL}),
			nil,
			api.NewResponder(true),
		)

		req := httptest.NewRequest(http.MethodPost, "/v1/erp/orders", strings.NewReader(orderBody))
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Empty items rejected before any ERP call", func(t *testing.T) {
		handler := api.NewERPHandler(nil, nil, api.NewResponder(true))

		req := httptest.NewRequest(http.MethodPost, "/v1/erp/orders", strings.NewReader(`{
			"customerId": 100,
			"sellerId": 7,
			"paymentTermId": "30D",
			"items": []
		}`))
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Contains(t, body["message"], "items")
	})
}

func TestERPHandler_Stock(t *testing.T) {
	laudus := fakeLaudus(t, http.StatusOK)
	handler := api.NewERPHandler(
		erp.NewGateway(erp.Config{BaseURL: laudus.URL}),
		nil,
		api.NewResponder(true),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/erp/stock?warehouseId=014", nil)
	rr := httptest.NewRecorder()
	handler.Stock(rr, req)

	// The fixture's default payload is an empty list, which the stock
	// endpoint decodes as an empty products envelope.
	assert.Equal(t, http.StatusOK, rr.Code)
}
