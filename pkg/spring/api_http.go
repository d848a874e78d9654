package spring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
// The aggregator exposes one endpoint; the command travels in the body.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiRequest is the envelope wrapped around every command payload.
type apiRequest struct {
	Apikey         string         `json:"Apikey"`
	Command        string         `json:"Command"`
	Location       *LocationQuery `json:"Location,omitempty"`
	Shipment       *Shipment      `json:"Shipment,omitempty"`
	TrackingNumber string         `json:"TrackingNumber,omitempty"`
}

// GetLocations fetches pickup points near a specific location.
func (c *HTTPAPIClient) GetLocations(ctx context.Context, q *LocationQuery) (*LocationsResponse, error) {
	var result LocationsResponse
	req := &apiRequest{Command: CommandGetLocations, Location: q}
	if err := c.doCommand(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLocationsDaily fetches the full daily pickup-point list for a country.
func (c *HTTPAPIClient) GetLocationsDaily(ctx context.Context, q *LocationQuery) (*LocationsResponse, error) {
	var result LocationsResponse
	req := &apiRequest{Command: CommandGetLocationsDaily, Location: q}
	if err := c.doCommand(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OrderShipment books a shipment with the aggregator.
func (c *HTTPAPIClient) OrderShipment(ctx context.Context, shipment *Shipment) (*ShipmentResponse, error) {
	var result ShipmentResponse
	req := &apiRequest{Command: CommandOrderShipment, Shipment: shipment}
	if err := c.doCommand(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetServices lists the services available on the account.
func (c *HTTPAPIClient) GetServices(ctx context.Context) (*ServicesResponse, error) {
	var result ServicesResponse
	req := &apiRequest{Command: CommandGetServices}
	if err := c.doCommand(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrackShipment retrieves tracking events for a shipment.
func (c *HTTPAPIClient) TrackShipment(ctx context.Context, trackingNumber string) (*TrackingResponse, error) {
	var result TrackingResponse
	req := &apiRequest{Command: CommandTrackShipment, TrackingNumber: trackingNumber}
	if err := c.doCommand(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doCommand posts a command envelope to the aggregator endpoint and
// decodes the response into out.
func (c *HTTPAPIClient) doCommand(ctx context.Context, payload *apiRequest, out interface{}) error {
	if c.apiKey == "" {
		return ErrAPIKeyMissing
	}
	payload.Apikey = c.apiKey

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", payload.Command, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pudo-bridge/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewAPIError(payload.Command, -1, "request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(payload.Command, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", payload.Command, err)
	}
	return nil
}

// parseError extracts error information from a non-2xx HTTP response.
func (c *HTTPAPIClient) parseError(command string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope struct {
		ErrorLevel int    `json:"ErrorLevel"`
		Error      string `json:"Error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return NewAPIError(command, envelope.ErrorLevel, envelope.Error).
			WithStatusCode(resp.StatusCode)
	}

	return NewAPIError(command, -1, string(body)).WithStatusCode(resp.StatusCode)
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
