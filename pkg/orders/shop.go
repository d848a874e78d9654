package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const apiVersion = "2024-01"

// ShopClient reads orders from the platform's admin REST API using a
// token-authenticated lookup by order name.
type ShopClient struct {
	domain     string
	token      string
	httpClient *http.Client
	logger     *otelzap.Logger
}

// ShopConfig holds order-platform credentials.
type ShopConfig struct {
	Domain      string // e.g. "atelier-nord.myshopify.com"
	AccessToken string
	Timeout     time.Duration
}

// NewShopClient creates a new order-platform client.
func NewShopClient(cfg ShopConfig, logger *otelzap.Logger) *ShopClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &ShopClient{
		domain: cfg.Domain,
		token:  cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Wire types for the platform's order payload.
type orderEnvelope struct {
	Orders []wireOrder `json:"orders"`
}

type wireOrder struct {
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	TotalPrice      string       `json:"total_price"`
	Currency        string       `json:"currency"`
	ShippingAddress *wireAddress `json:"shipping_address"`
	ShippingLines   []wireLine   `json:"shipping_lines"`
	LineItems       []wireItem   `json:"line_items"`
}

type wireAddress struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Province string `json:"province"`
	Country  string `json:"country_code"`
	Phone    string `json:"phone"`
}

type wireLine struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

type wireItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Grams    int    `json:"grams"`
	Price    string `json:"price"`
	SKU      string `json:"sku"`
}

// GetOrder fetches a single order by its order number.
func (c *ShopClient) GetOrder(ctx context.Context, orderNumber string) (*Order, error) {
	if c.domain == "" || c.token == "" {
		return nil, ErrNotConfigured
	}
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: empty order number", ErrNotFound)
	}

	endpoint := fmt.Sprintf("https://%s/admin/api/%s/orders.json?status=any&name=%s",
		c.domain, apiVersion, url.QueryEscape(orderNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order platform request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("order platform returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope orderEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	if len(envelope.Orders) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderNumber)
	}

	order := wireToOrder(envelope.Orders[0])
	c.logger.Info("Fetched order",
		zap.String("order", order.Name),
		zap.Int("line_items", len(order.LineItems)),
	)
	return order, nil
}

func wireToOrder(w wireOrder) *Order {
	order := &Order{
		Name:       w.Name,
		Email:      w.Email,
		TotalPrice: w.TotalPrice,
		Currency:   w.Currency,
	}

	if w.ShippingAddress != nil {
		order.ShippingAddress = Address{
			Name:        w.ShippingAddress.Name,
			Company:     w.ShippingAddress.Company,
			Address1:    w.ShippingAddress.Address1,
			Address2:    w.ShippingAddress.Address2,
			City:        w.ShippingAddress.City,
			Zip:         w.ShippingAddress.Zip,
			Province:    w.ShippingAddress.Province,
			CountryCode: w.ShippingAddress.Country,
			Phone:       w.ShippingAddress.Phone,
		}
	}

	for _, line := range w.ShippingLines {
		order.ShippingLines = append(order.ShippingLines, ShippingLine(line))
	}

	for _, item := range w.LineItems {
		price, _ := strconv.ParseFloat(item.Price, 64)
		order.LineItems = append(order.LineItems, LineItem{
			Title:    item.Title,
			Quantity: item.Quantity,
			Grams:    item.Grams,
			Price:    price,
			SKU:      item.SKU,
		})
	}

	return order
}

var _ Provider = (*ShopClient)(nil)
