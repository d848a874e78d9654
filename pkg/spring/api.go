// Package spring provides integration with the Spring-style parcel
// aggregator API: a single HTTPS JSON endpoint where every request
// carries an Apikey and a Command field.
package spring

import (
	"context"
)

// Aggregator commands. Every outbound request names exactly one.
const (
	CommandGetLocations      = "GetLocations"
	CommandGetLocationsDaily = "GetLocationsDaily"
	CommandOrderShipment     = "OrderShipment"
	CommandGetServices       = "GetServices"
	CommandTrackShipment     = "TrackShipment"
)

// APIClient defines the interface for aggregator API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetLocations fetches pickup points near a specific location.
	GetLocations(ctx context.Context, q *LocationQuery) (*LocationsResponse, error)

	// GetLocationsDaily fetches the full daily pickup-point list for a country.
	GetLocationsDaily(ctx context.Context, q *LocationQuery) (*LocationsResponse, error)

	// OrderShipment books a shipment and returns the label.
	OrderShipment(ctx context.Context, shipment *Shipment) (*ShipmentResponse, error)

	// GetServices lists the services available on the account.
	GetServices(ctx context.Context) (*ServicesResponse, error)

	// TrackShipment retrieves tracking events for a shipment.
	TrackShipment(ctx context.Context, trackingNumber string) (*TrackingResponse, error)
}

// ============================================================================
// API Request/Response Types (match the aggregator's wire structure)
// ============================================================================

// LocationQuery narrows a pickup-point request.
// Used by both GetLocations (Zip/City set) and GetLocationsDaily.
type LocationQuery struct {
	Country             string `json:"Country"`
	Zip                 string `json:"Zip,omitempty"`
	City                string `json:"City,omitempty"`
	ExcludeOutOfService int    `json:"ExcludeOutOfService,omitempty"` // 1 = skip temporarily closed points
}

// Location is a pickup point as the aggregator returns it.
// Coordinates arrive as strings and need numeric coercion.
type Location struct {
	ID            string `json:"Id"`
	Name          string `json:"Name"`
	Address1      string `json:"Address1"`
	Address2      string `json:"Address2,omitempty"`
	City          string `json:"City"`
	Zip           string `json:"Zip"`
	Country       string `json:"Country"`
	Carrier       string `json:"Carrier"`
	Service       string `json:"Service,omitempty"`
	Latitude      string `json:"Latitude"`
	Longitude     string `json:"Longitude"`
	BusinessHours string `json:"BusinessHours,omitempty"`
}

// LocationsResponse is the response to GetLocations/GetLocationsDaily.
type LocationsResponse struct {
	ErrorLevel int        `json:"ErrorLevel"`
	Error      string     `json:"Error,omitempty"`
	Locations  []Location `json:"Locations"`
}

// Address is a shipment party address. PudoLocationID on the consignee
// side duplicates the top-level shipment field; the aggregator's PUDO
// service variant requires both.
type Address struct {
	Name           string `json:"Name"`
	Company        string `json:"Company,omitempty"`
	AddressLine1   string `json:"AddressLine1"`
	AddressLine2   string `json:"AddressLine2,omitempty"`
	City           string `json:"City"`
	State          string `json:"State,omitempty"`
	Zip            string `json:"Zip"`
	Country        string `json:"Country"`
	Phone          string `json:"Phone,omitempty"`
	Email          string `json:"Email,omitempty"`
	Vat            string `json:"Vat,omitempty"`
	Eori           string `json:"Eori,omitempty"`
	PudoLocationID string `json:"PudoLocationId,omitempty"`
}

// Product is one customs-declarable package content line.
type Product struct {
	Description string  `json:"Description"`
	Sku         string  `json:"Sku,omitempty"`
	HsCode      string  `json:"HsCode"`
	Quantity    int     `json:"Quantity"`
	Value       float64 `json:"Value"`
}

// Shipment is the OrderShipment request payload.
type Shipment struct {
	ShipperReference string    `json:"ShipperReference"`
	Service          string    `json:"Service"`
	Weight           string    `json:"Weight"` // kilograms, decimal string
	WeightUnit       string    `json:"WeightUnit,omitempty"`
	Value            string    `json:"Value"`
	Currency         string    `json:"Currency"`
	LabelFormat      string    `json:"LabelFormat"`
	PudoLocationID   string    `json:"PudoLocationId,omitempty"`
	ConsignorAddress Address   `json:"ConsignorAddress"`
	ConsigneeAddress Address   `json:"ConsigneeAddress"`
	Products         []Product `json:"Products"`
}

// ShipmentResult is the booked-shipment body of an OrderShipment response.
type ShipmentResult struct {
	TrackingNumber   string `json:"TrackingNumber"`
	ShipperReference string `json:"ShipperReference"`
	Carrier          string `json:"Carrier"`
	LabelImage       string `json:"LabelImage"` // base64-encoded
	LabelFormat      string `json:"LabelFormat"`
}

// ShipmentResponse is the response to OrderShipment.
type ShipmentResponse struct {
	ErrorLevel int             `json:"ErrorLevel"`
	Error      string          `json:"Error,omitempty"`
	Shipment   *ShipmentResult `json:"Shipment,omitempty"`
}

// ServicesResponse is the response to GetServices.
type ServicesResponse struct {
	ErrorLevel int               `json:"ErrorLevel"`
	Error      string            `json:"Error,omitempty"`
	Services   map[string]string `json:"Services"` // code -> display name
}

// TrackingEvent is a single tracking scan.
type TrackingEvent struct {
	DateTime    string `json:"DateTime"`
	Description string `json:"Description"`
	Location    string `json:"Location,omitempty"`
	Country     string `json:"Country,omitempty"`
}

// TrackingInfo is the tracked-shipment body of a TrackShipment response.
type TrackingInfo struct {
	TrackingNumber string          `json:"TrackingNumber"`
	Carrier        string          `json:"Carrier"`
	Events         []TrackingEvent `json:"Events"`
}

// TrackingResponse is the response to TrackShipment.
type TrackingResponse struct {
	ErrorLevel int           `json:"ErrorLevel"`
	Error      string        `json:"Error,omitempty"`
	Shipment   *TrackingInfo `json:"Shipment,omitempty"`
}
