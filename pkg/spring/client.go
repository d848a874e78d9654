package spring

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds aggregator client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	UseMock bool // When true, uses a mock API client
}

// Client is the aggregator client shared by all endpoint handlers.
// It wraps the underlying APIClient (mock or HTTP) and applies the
// ErrorLevel policy: a non-zero level is a failure, except on a booking
// that still carries a tracking number, which is success with a warning.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new aggregator client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new aggregator client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// OrderResult is a booked shipment with the warning surfaced when the
// aggregator reported a non-fatal error level alongside the booking.
type OrderResult struct {
	TrackingNumber   string
	ShipperReference string
	Carrier          string
	LabelImage       string
	LabelFormat      string
	Warning          string
}

// GetLocations fetches pickup points narrowed by postal code and city.
func (c *Client) GetLocations(ctx context.Context, q *LocationQuery) ([]Location, error) {
	ctx, end := c.startSpan(ctx, CommandGetLocations)
	defer end()

	c.logger.Info("Fetching pickup points",
		zap.String("country", q.Country),
		zap.String("zip", q.Zip),
		zap.String("city", q.City),
	)

	resp, err := c.apiClient.GetLocations(ctx, q)
	if err != nil {
		c.logger.Error("Aggregator API error", zap.String("command", CommandGetLocations), zap.Error(err))
		return nil, err
	}
	if resp.ErrorLevel != 0 {
		return nil, NewAPIError(CommandGetLocations, resp.ErrorLevel, resp.Error)
	}

	return resp.Locations, nil
}

// GetLocationsDaily fetches the full daily pickup-point list for a country,
// excluding temporarily out-of-service points.
func (c *Client) GetLocationsDaily(ctx context.Context, country string) ([]Location, error) {
	ctx, end := c.startSpan(ctx, CommandGetLocationsDaily)
	defer end()

	c.logger.Info("Fetching daily pickup-point list", zap.String("country", country))

	resp, err := c.apiClient.GetLocationsDaily(ctx, &LocationQuery{
		Country:             country,
		ExcludeOutOfService: 1,
	})
	if err != nil {
		c.logger.Error("Aggregator API error", zap.String("command", CommandGetLocationsDaily), zap.Error(err))
		return nil, err
	}
	if resp.ErrorLevel != 0 {
		return nil, NewAPIError(CommandGetLocationsDaily, resp.ErrorLevel, resp.Error)
	}

	return resp.Locations, nil
}

// CreateShipment books a shipment. A response with a tracking number is
// a success even when ErrorLevel is non-zero; the aggregator message is
// returned as a warning for the caller to surface.
func (c *Client) CreateShipment(ctx context.Context, shipment *Shipment) (*OrderResult, error) {
	ctx, end := c.startSpan(ctx, CommandOrderShipment)
	defer end()

	c.logger.Info("Booking shipment",
		zap.String("reference", shipment.ShipperReference),
		zap.String("service", shipment.Service),
		zap.String("country", shipment.ConsigneeAddress.Country),
	)

	resp, err := c.apiClient.OrderShipment(ctx, shipment)
	if err != nil {
		c.logger.Error("Aggregator API error", zap.String("command", CommandOrderShipment), zap.Error(err))
		return nil, err
	}

	if resp.Shipment == nil || resp.Shipment.TrackingNumber == "" {
		if resp.ErrorLevel != 0 {
			return nil, NewAPIError(CommandOrderShipment, resp.ErrorLevel, resp.Error)
		}
		return nil, NewAPIError(CommandOrderShipment, -1, "no tracking number returned").WithCause(ErrNoShipment)
	}

	result := &OrderResult{
		TrackingNumber:   resp.Shipment.TrackingNumber,
		ShipperReference: resp.Shipment.ShipperReference,
		Carrier:          resp.Shipment.Carrier,
		LabelImage:       resp.Shipment.LabelImage,
		LabelFormat:      resp.Shipment.LabelFormat,
	}
	if resp.ErrorLevel != 0 {
		result.Warning = resp.Error
		c.logger.Warn("Shipment booked with aggregator warning",
			zap.String("tracking_number", result.TrackingNumber),
			zap.Int("error_level", resp.ErrorLevel),
			zap.String("warning", resp.Error),
		)
	}

	return result, nil
}

// Services lists the services available on the account.
func (c *Client) Services(ctx context.Context) (map[string]string, error) {
	ctx, end := c.startSpan(ctx, CommandGetServices)
	defer end()

	resp, err := c.apiClient.GetServices(ctx)
	if err != nil {
		c.logger.Error("Aggregator API error", zap.String("command", CommandGetServices), zap.Error(err))
		return nil, err
	}
	if resp.ErrorLevel != 0 {
		return nil, NewAPIError(CommandGetServices, resp.ErrorLevel, resp.Error)
	}

	return resp.Services, nil
}

// Track retrieves tracking events for a shipment.
func (c *Client) Track(ctx context.Context, trackingNumber string) (*TrackingInfo, error) {
	ctx, end := c.startSpan(ctx, CommandTrackShipment)
	defer end()

	c.logger.Info("Tracking shipment", zap.String("tracking_number", trackingNumber))

	resp, err := c.apiClient.TrackShipment(ctx, trackingNumber)
	if err != nil {
		c.logger.Error("Aggregator API error", zap.String("command", CommandTrackShipment), zap.Error(err))
		return nil, err
	}
	if resp.ErrorLevel != 0 {
		return nil, NewAPIError(CommandTrackShipment, resp.ErrorLevel, resp.Error)
	}
	if resp.Shipment == nil {
		return &TrackingInfo{TrackingNumber: trackingNumber}, nil
	}

	return resp.Shipment, nil
}

func (c *Client) startSpan(ctx context.Context, command string) (context.Context, func()) {
	if c.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := c.tracer.Start(ctx, "spring."+command)
	return ctx, func() { span.End() }
}
