package spring

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGetLocations      func(ctx context.Context, q *LocationQuery) (*LocationsResponse, error)
	OnGetLocationsDaily func(ctx context.Context, q *LocationQuery) (*LocationsResponse, error)
	OnOrderShipment     func(ctx context.Context, shipment *Shipment) (*ShipmentResponse, error)
	OnGetServices       func(ctx context.Context) (*ServicesResponse, error)
	OnTrackShipment     func(ctx context.Context, trackingNumber string) (*TrackingResponse, error)

	// locationCalls counts aggregator location lookups across both commands.
	locationCalls atomic.Int64
}

// LocationCallCount returns how many location lookups reached the mock.
func (m *MockAPIClient) LocationCallCount() int {
	return int(m.locationCalls.Load())
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetLocations returns mock pickup points.
func (m *MockAPIClient) GetLocations(ctx context.Context, q *LocationQuery) (*LocationsResponse, error) {
	m.locationCalls.Add(1)
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewAPIError(CommandGetLocations, 10, "Simulated API error")
	}

	if m.OnGetLocations != nil {
		return m.OnGetLocations(ctx, q)
	}

	return &LocationsResponse{
		ErrorLevel: 0,
		Locations:  defaultLocations(q.Country),
	}, nil
}

// GetLocationsDaily returns the mock daily list.
func (m *MockAPIClient) GetLocationsDaily(ctx context.Context, q *LocationQuery) (*LocationsResponse, error) {
	m.locationCalls.Add(1)
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewAPIError(CommandGetLocationsDaily, 10, "Simulated API error")
	}

	if m.OnGetLocationsDaily != nil {
		return m.OnGetLocationsDaily(ctx, q)
	}

	return &LocationsResponse{
		ErrorLevel: 0,
		Locations:  defaultLocations(q.Country),
	}, nil
}

// OrderShipment books a mock shipment.
func (m *MockAPIClient) OrderShipment(ctx context.Context, shipment *Shipment) (*ShipmentResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewAPIError(CommandOrderShipment, 10, "Simulated API error")
	}

	if m.OnOrderShipment != nil {
		return m.OnOrderShipment(ctx, shipment)
	}

	trackingNumber := fmt.Sprintf("%d", 100000000000+time.Now().UnixNano()%900000000000)

	return &ShipmentResponse{
		ErrorLevel: 0,
		Shipment: &ShipmentResult{
			TrackingNumber:   trackingNumber,
			ShipperReference: shipment.ShipperReference,
			Carrier:          "Mondial Relay",
			LabelImage:       "JVBERi0xLjQK", // truncated PDF header
			LabelFormat:      shipment.LabelFormat,
		},
	}, nil
}

// GetServices returns mock account services.
func (m *MockAPIClient) GetServices(ctx context.Context) (*ServicesResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewAPIError(CommandGetServices, 10, "Simulated API error")
	}

	if m.OnGetServices != nil {
		return m.OnGetServices(ctx)
	}

	return &ServicesResponse{
		ErrorLevel: 0,
		Services: map[string]string{
			"PPTT": "Tracked Parcel to PUDO",
			"TRCK": "Tracked Parcel",
			"SIGN": "Tracked Parcel with Signature",
			"PPTR": "Clear Tracked Parcel",
		},
	}, nil
}

// TrackShipment returns mock tracking events.
func (m *MockAPIClient) TrackShipment(ctx context.Context, trackingNumber string) (*TrackingResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewAPIError(CommandTrackShipment, 10, "Simulated API error")
	}

	if m.OnTrackShipment != nil {
		return m.OnTrackShipment(ctx, trackingNumber)
	}

	now := time.Now()
	return &TrackingResponse{
		ErrorLevel: 0,
		Shipment: &TrackingInfo{
			TrackingNumber: trackingNumber,
			Carrier:        "Mondial Relay",
			Events: []TrackingEvent{
				{
					DateTime:    now.Add(-48 * time.Hour).Format(time.RFC3339),
					Description: "Parcel accepted at origin hub",
					Location:    "Tallinn",
					Country:     "EE",
				},
				{
					DateTime:    now.Add(-24 * time.Hour).Format(time.RFC3339),
					Description: "In transit to destination country",
					Location:    "Liège",
					Country:     "BE",
				},
			},
		},
	}, nil
}

func defaultLocations(country string) []Location {
	if country == "" {
		country = "FR"
	}
	return []Location{
		{
			ID:            "pudo-" + uuid.New().String()[:8],
			Name:          "Relais des Halles",
			Address1:      "12 Rue Rambuteau",
			City:          "Paris",
			Zip:           "75001",
			Country:       country,
			Carrier:       "Mondial Relay",
			Service:       "PPTT",
			Latitude:      "48.8625",
			Longitude:     "2.3491",
			BusinessHours: "Mon-Sat 09:00-19:00",
		},
		{
			ID:            "pudo-" + uuid.New().String()[:8],
			Name:          "Tabac de la Gare",
			Address1:      "3 Place de la Gare",
			City:          "Paris",
			Zip:           "75010",
			Country:       country,
			Carrier:       "Mondial Relay",
			Service:       "PPTT",
			Latitude:      "48.8763",
			Longitude:     "2.3574",
			BusinessHours: "Mon-Sun 07:00-20:00",
		},
		{
			ID:            "pudo-" + uuid.New().String()[:8],
			Name:          "Epicerie du Canal",
			Address1:      "44 Quai de Jemmapes",
			City:          "Paris",
			Zip:           "75010",
			Country:       country,
			Carrier:       "Colis Prive",
			Service:       "TRCK",
			Latitude:      "48.8721",
			Longitude:     "2.3654",
			BusinessHours: "Mon-Sat 08:00-21:00",
		},
	}
}

var _ APIClient = (*MockAPIClient)(nil)
