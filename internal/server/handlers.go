package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ateliernord/pudo-bridge/internal/telemetry"
	"github.com/ateliernord/pudo-bridge/pkg/orders"
	"github.com/ateliernord/pudo-bridge/pkg/pudo"
	"github.com/ateliernord/pudo-bridge/pkg/shipment"
	"github.com/ateliernord/pudo-bridge/pkg/spring"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// AggregatorAPI is the slice of the aggregator client the pass-through
// endpoints need.
type AggregatorAPI interface {
	Services(ctx context.Context) (map[string]string, error)
	Track(ctx context.Context, trackingNumber string) (*spring.TrackingInfo, error)
}

// Options holds endpoint-level settings.
type Options struct {
	TestMode           bool
	DefaultPudoCountry string
	AllowedServices    []string
	AllowedSpringClear []string
}

// Handlers binds the HTTP endpoints to the underlying components.
type Handlers struct {
	Pudo       *pudo.Service
	Builder    *shipment.Builder
	Orders     orders.Provider
	Aggregator AggregatorAPI
	Options    Options
	Logger     *otelzap.Logger
	Metrics    *telemetry.Metrics
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// locationsResponse is the pickup-point search payload.
type locationsResponse struct {
	Success    bool               `json:"success"`
	Country    string             `json:"country"`
	TotalFound int                `json:"totalFound"`
	Filtered   int                `json:"filtered"`
	Locations  []pudo.PickupPoint `json:"locations"`
}

// Locations handles GET /apps/xbs-pudo.
func (h *Handlers) Locations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query()
	result, err := h.Pudo.Lookup(r.Context(), query.Get("country"), query.Get("zip"), query.Get("city"))
	if err != nil {
		status := h.writeError(w, "xbs-pudo", err)
		h.observe("xbs-pudo", status, start)
		return
	}

	if result.FromCache {
		h.Metrics.CacheHits.Inc()
	} else {
		h.Metrics.CacheMisses.Inc()
	}

	locations := result.Locations
	if locations == nil {
		locations = []pudo.PickupPoint{}
	}
	h.writeJSON(w, http.StatusOK, locationsResponse{
		Success:    true,
		Country:    result.Country,
		TotalFound: result.TotalFound,
		Filtered:   result.Filtered,
		Locations:  locations,
	})
	h.observe("xbs-pudo", http.StatusOK, start)
}

// shipmentResponse is the shipment-creation payload.
type shipmentResponse struct {
	Success          bool   `json:"success"`
	TrackingNumber   string `json:"trackingNumber"`
	ShipperReference string `json:"shipperReference"`
	Carrier          string `json:"carrier"`
	LabelImage       string `json:"labelImage"`
	LabelFormat      string `json:"labelFormat"`
	Warning          string `json:"warning,omitempty"`
}

// CreateShipment handles POST /apps/xbs-shipment.
func (h *Handlers) CreateShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var input shipment.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		status := h.writeError(w, "xbs-shipment", shipment.NewValidationError("body", "invalid JSON: "+err.Error()))
		h.observe("xbs-shipment", status, start)
		return
	}

	result, err := h.Builder.Create(r.Context(), &input)
	if err != nil {
		status := h.writeError(w, "xbs-shipment", err)
		h.observe("xbs-shipment", status, start)
		return
	}

	h.writeJSON(w, http.StatusOK, shipmentResponse{
		Success:          true,
		TrackingNumber:   result.TrackingNumber,
		ShipperReference: result.ShipperReference,
		Carrier:          result.Carrier,
		LabelImage:       result.LabelImage,
		LabelFormat:      result.LabelFormat,
		Warning:          result.Warning,
	})
	h.observe("xbs-shipment", http.StatusOK, start)
}

// completeOrderRequest is the order-completion input.
type completeOrderRequest struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	PudoLocationID string `json:"pudoLocationId"`
	Country        string `json:"country,omitempty"`
}

// completeOrderResponse is the order-completion payload.
type completeOrderResponse struct {
	Success        bool   `json:"success"`
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
	Country        string `json:"country"`
	Message        string `json:"message"`
	Warning        string `json:"warning,omitempty"`
}

// CompleteOrder handles POST /apps/complete-inpost-order: fetches the
// order, derives weight and destination network, and books the shipment.
func (h *Handlers) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req completeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := h.writeError(w, "complete-order", shipment.NewValidationError("body", "invalid JSON: "+err.Error()))
		h.observe("complete-order", status, start)
		return
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = req.OrderID
	}
	if orderNumber == "" {
		status := h.writeError(w, "complete-order", shipment.NewValidationError("orderNumber", "orderId or orderNumber is required"))
		h.observe("complete-order", status, start)
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), orderNumber)
	if err != nil {
		if !h.Options.TestMode {
			status := h.writeError(w, "complete-order", err)
			h.observe("complete-order", status, start)
			return
		}
		h.Logger.Warn("Order fetch failed, substituting placeholder data (test mode)",
			zap.String("order", orderNumber),
			zap.Error(err),
		)
		order = orders.Placeholder(orderNumber)
	}

	country := strings.ToUpper(req.Country)
	if country == "" {
		if matched, ok := shipment.Classify(order, h.Pudo.Networks()); ok {
			country = matched
		} else {
			country = h.Options.DefaultPudoCountry
		}
	}

	input := orderToInput(order, req, country)
	result, err := h.Builder.Create(r.Context(), input)
	if err != nil {
		status := h.writeError(w, "complete-order", err)
		h.observe("complete-order", status, start)
		return
	}

	h.writeJSON(w, http.StatusOK, completeOrderResponse{
		Success:        true,
		TrackingNumber: result.TrackingNumber,
		Carrier:        result.Carrier,
		Country:        country,
		Message:        fmt.Sprintf("Shipment booked for order %s", order.Name),
		Warning:        result.Warning,
	})
	h.observe("complete-order", http.StatusOK, start)
}

// orderToInput assembles the shipment input from order data.
func orderToInput(order *orders.Order, req completeOrderRequest, country string) *shipment.Input {
	addr := order.ShippingAddress
	recipientCountry := addr.CountryCode
	if recipientCountry == "" {
		recipientCountry = country
	}

	input := &shipment.Input{
		OrderID:        req.OrderID,
		OrderNumber:    order.Name,
		Weight:         shipment.TotalWeight(order.LineItems),
		Value:          order.TotalPrice,
		Currency:       order.Currency,
		PudoLocationID: req.PudoLocationID,
		Recipient: &shipment.RecipientInput{
			Name:     addr.Name,
			Company:  addr.Company,
			Address1: addr.Address1,
			Address2: addr.Address2,
			City:     addr.City,
			Zip:      addr.Zip,
			Country:  recipientCountry,
			Phone:    addr.Phone,
			Email:    order.Email,
		},
	}

	for _, item := range order.LineItems {
		input.Contents = append(input.Contents, shipment.ContentInput{
			Description: item.Title,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			Value:       item.Price,
		})
	}

	return input
}

// CheckOrder handles GET /apps/check-inpost-order/{orderId}.
// The storefront polls it before showing the selection page.
func (h *Handlers) CheckOrder(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"needsPudoSelection": true,
		"orderId":            r.PathValue("orderId"),
	})
}

// servicesResponse is the service-listing payload.
type servicesResponse struct {
	Success            bool              `json:"success"`
	AllowedServices    []string          `json:"allowedServices"`
	AllowedSpringClear []string          `json:"allowedSpringClear"`
	AllServices        map[string]string `json:"allServices"`
}

// Services handles GET /apps/xbs-services.
func (h *Handlers) Services(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	all, err := h.Aggregator.Services(r.Context())
	if err != nil {
		status := h.writeError(w, "xbs-services", err)
		h.observe("xbs-services", status, start)
		return
	}

	h.writeJSON(w, http.StatusOK, servicesResponse{
		Success:            true,
		AllowedServices:    h.Options.AllowedServices,
		AllowedSpringClear: h.Options.AllowedSpringClear,
		AllServices:        all,
	})
	h.observe("xbs-services", http.StatusOK, start)
}

// trackResponse is the tracking payload.
type trackResponse struct {
	Success        bool                   `json:"success"`
	TrackingNumber string                 `json:"trackingNumber"`
	Carrier        string                 `json:"carrier"`
	Events         []spring.TrackingEvent `json:"events"`
}

// Track handles GET /apps/xbs-track/{trackingNumber}.
func (h *Handlers) Track(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	trackingNumber := r.PathValue("trackingNumber")
	info, err := h.Aggregator.Track(r.Context(), trackingNumber)
	if err != nil {
		status := h.writeError(w, "xbs-track", err)
		h.observe("xbs-track", status, start)
		return
	}

	events := info.Events
	if events == nil {
		events = []spring.TrackingEvent{}
	}
	h.writeJSON(w, http.StatusOK, trackResponse{
		Success:        true,
		TrackingNumber: info.TrackingNumber,
		Carrier:        info.Carrier,
		Events:         events,
	})
	h.observe("xbs-track", http.StatusOK, start)
}

func (h *Handlers) observe(endpoint string, status int, start time.Time) {
	h.Metrics.RecordRequest(endpoint, strconv.Itoa(status), time.Since(start).Seconds())
}
