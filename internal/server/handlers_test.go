package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ateliernord/pudo-bridge/internal/server"
	"github.com/ateliernord/pudo-bridge/internal/telemetry"
	"github.com/ateliernord/pudo-bridge/pkg/orders"
	"github.com/ateliernord/pudo-bridge/pkg/pudo"
	"github.com/ateliernord/pudo-bridge/pkg/shipment"
	"github.com/ateliernord/pudo-bridge/pkg/spring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Registered once: the metrics use the default Prometheus registry.
var testMetrics = telemetry.NewMetrics()

type fakeOrders struct {
	order *orders.Order
	err   error
}

func (f *fakeOrders) GetOrder(ctx context.Context, orderNumber string) (*orders.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func testNetworks() *pudo.NetworkMap {
	networks := pudo.NewNetworkMap()
	networks.Register(pudo.Network{
		Country:          "FR",
		CarrierFragment:  "mondial relay",
		MethodSubstrings: []string{"Mondial Relay"},
	})
	networks.Register(pudo.Network{
		Country:          "PL",
		CarrierFragment:  "inpost",
		MethodSubstrings: []string{"InPost", "Paczkomaty"},
		RequiresCity:     true,
	})
	return networks
}

type serverOptions struct {
	mockAPI  *spring.MockAPIClient
	orders   orders.Provider
	testMode bool
}

func newTestServer(t *testing.T, opts serverOptions) (*http.ServeMux, *spring.MockAPIClient) {
	t.Helper()

	mockAPI := opts.mockAPI
	if mockAPI == nil {
		mockAPI = spring.NewMockAPIClient()
	}
	orderProvider := opts.orders
	if orderProvider == nil {
		orderProvider = &fakeOrders{err: orders.ErrNotConfigured}
	}

	logger := otelzap.New(zap.NewNop())
	client := spring.NewWithAPIClient(spring.Config{}, mockAPI, logger, nil)
	networks := testNetworks()

	builder := shipment.NewBuilder(shipment.Config{
		Sender: spring.Address{
			Name:         "Atelier Nord",
			AddressLine1: "Telliskivi 60a",
			City:         "Tallinn",
			Zip:          "10412",
			Country:      "EE",
		},
		DefaultService: "PPTT",
		PudoServices:   []string{"PPTT"},
		Currency:       "EUR",
		HSCode:         "61091000",
		LabelFormat:    "PDF",
	}, client, logger)

	handlers := &server.Handlers{
		Pudo:       pudo.NewService(client, networks, pudo.NewCache(time.Hour), logger),
		Builder:    builder,
		Orders:     orderProvider,
		Aggregator: client,
		Options: server.Options{
			TestMode:           opts.testMode,
			DefaultPudoCountry: "FR",
			AllowedServices:    []string{"PPTT", "TRCK", "SIGN"},
			AllowedSpringClear: []string{"PPTR"},
		},
		Logger:  logger,
		Metrics: testMetrics,
	}

	return server.New(server.Config{Port: 0}, handlers, logger).Routes(), mockAPI
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 && strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, body := doJSON(t, mux, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestLocations(t *testing.T) {
	mockAPI := spring.NewMockAPIClient()
	mockAPI.OnGetLocations = func(ctx context.Context, q *spring.LocationQuery) (*spring.LocationsResponse, error) {
		return &spring.LocationsResponse{Locations: []spring.Location{
			{ID: "mr-001", Carrier: "Mondial Relay", Country: "FR"},
			{ID: "mr-002", Carrier: "Mondial Relay", Country: "FR"},
			{ID: "cp-001", Carrier: "Colis Prive", Country: "FR"},
		}}, nil
	}
	mux, _ := newTestServer(t, serverOptions{mockAPI: mockAPI})

	rec, body := doJSON(t, mux, http.MethodGet, "/apps/xbs-pudo?country=FR&zip=75001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "FR", body["country"])
	assert.EqualValues(t, 3, body["totalFound"])
	assert.EqualValues(t, 2, body["filtered"])
	assert.Len(t, body["locations"], 2)
}

func TestLocations_MissingCountry(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, body := doJSON(t, mux, http.MethodGet, "/apps/xbs-pudo", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestLocations_UnsupportedCountry(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, _ := doJSON(t, mux, http.MethodGet, "/apps/xbs-pudo?country=DE", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocations_AggregatorFailure(t *testing.T) {
	mockAPI := spring.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	mux, _ := newTestServer(t, serverOptions{mockAPI: mockAPI})

	rec, body := doJSON(t, mux, http.MethodGet, "/apps/xbs-pudo?country=FR", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestCreateShipment(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, body := doJSON(t, mux, http.MethodPost, "/apps/xbs-shipment", map[string]interface{}{
		"orderNumber":    "1001",
		"weight":         0.7,
		"pudoLocationId": "FR-12345",
		"recipient": map[string]string{
			"name":     "Claire Dubois",
			"address1": "8 Rue de la Paix",
			"city":     "Paris",
			"zip":      "75002",
			"country":  "FR",
		},
		"contents": []map[string]interface{}{
			{"description": "Linen shirt", "quantity": 2, "value": 45},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["trackingNumber"])
	assert.Equal(t, "Mondial Relay", body["carrier"])
}

func TestCreateShipment_ValidationFailure(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	// PUDO-tier service without a pickup-point selection
	rec, body := doJSON(t, mux, http.MethodPost, "/apps/xbs-shipment", map[string]interface{}{
		"weight": 0.7,
		"recipient": map[string]string{
			"name":     "Claire Dubois",
			"address1": "8 Rue de la Paix",
			"country":  "FR",
		},
		"contents": []map[string]interface{}{
			{"description": "Linen shirt", "quantity": 1, "value": 45},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "pudoLocationId")
}

func TestCreateShipment_InvalidJSON(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodPost, "/apps/xbs-shipment", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func pudoOrder() *orders.Order {
	return &orders.Order{
		Name:       "#1042",
		Email:      "claire@example.com",
		TotalPrice: "94.80",
		Currency:   "EUR",
		ShippingAddress: orders.Address{
			Name:        "Claire Dubois",
			Address1:    "8 Rue de la Paix",
			City:        "Paris",
			Zip:         "75002",
			CountryCode: "FR",
		},
		ShippingLines: []orders.ShippingLine{
			{Title: "Mondial Relay - Point Relais", Code: "MR-PR"},
		},
		LineItems: []orders.LineItem{
			{Title: "Linen shirt", Quantity: 2, Grams: 350, Price: 45, SKU: "AN-LS-01"},
		},
	}
}

func TestCompleteOrder(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{
		orders: &fakeOrders{order: pudoOrder()},
	})

	rec, body := doJSON(t, mux, http.MethodPost, "/apps/complete-inpost-order", map[string]string{
		"orderId":        "450001",
		"pudoLocationId": "FR-12345",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["trackingNumber"])
	// Country derived from the shipping-method descriptor
	assert.Equal(t, "FR", body["country"])
	assert.Equal(t, "Shipment booked for order #1042", body["message"])
}

func TestCompleteOrder_ExplicitCountryWins(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{
		orders: &fakeOrders{order: pudoOrder()},
	})

	rec, body := doJSON(t, mux, http.MethodPost, "/apps/complete-inpost-order", map[string]string{
		"orderNumber":    "#1042",
		"pudoLocationId": "PL-98765",
		"country":        "pl",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PL", body["country"])
}

func TestCompleteOrder_MissingOrderIdentifier(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, body := doJSON(t, mux, http.MethodPost, "/apps/complete-inpost-order", map[string]string{
		"pudoLocationId": "FR-12345",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "orderNumber")
}

func TestCompleteOrder_FetchFailureSurfaces(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{
		orders: &fakeOrders{err: orders.ErrNotFound},
	})

	rec, body := doJSON(t, mux, http.MethodPost, "/apps/complete-inpost-order", map[string]string{
		"orderId":        "450001",
		"pudoLocationId": "FR-12345",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestCompleteOrder_TestModeFallsBackToPlaceholder(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{
		orders:   &fakeOrders{err: orders.ErrNotFound},
		testMode: true,
	})

	rec, body := doJSON(t, mux, http.MethodPost, "/apps/complete-inpost-order", map[string]string{
		"orderId":        "450001",
		"pudoLocationId": "FR-12345",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "FR", body["country"])
}

func TestCheckOrder(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, body := doJSON(t, mux, http.MethodGet, "/apps/check-inpost-order/450001", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["needsPudoSelection"])
	assert.Equal(t, "450001", body["orderId"])
}

func TestServices(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, body := doJSON(t, mux, http.MethodGet, "/apps/xbs-services", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["success"])
	assert.ElementsMatch(t, []interface{}{"PPTT", "TRCK", "SIGN"}, body["allowedServices"])
	assert.ElementsMatch(t, []interface{}{"PPTR"}, body["allowedSpringClear"])
	all, ok := body["allServices"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, all, "PPTT")
}

func TestTrack(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	rec, body := doJSON(t, mux, http.MethodGet, "/apps/xbs-track/CC123456789FR", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "CC123456789FR", body["trackingNumber"])
	assert.NotEmpty(t, body["events"])
}

func TestTrack_AggregatorFailure(t *testing.T) {
	mockAPI := spring.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	mux, _ := newTestServer(t, serverOptions{mockAPI: mockAPI})

	rec, body := doJSON(t, mux, http.MethodGet, "/apps/xbs-track/CC123456789FR", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestSelectionPage(t *testing.T) {
	mux, _ := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodGet, "/pudo-selection?orderId=450001", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "450001")
}
