// Package shipment assembles and books shipment-creation requests from
// order data and static sender defaults.
package shipment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ateliernord/pudo-bridge/pkg/spring"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// OrderAPI is the slice of the aggregator client the builder needs.
type OrderAPI interface {
	CreateShipment(ctx context.Context, shipment *spring.Shipment) (*spring.OrderResult, error)
}

// Config holds the static sender and service defaults merged into every
// shipment.
type Config struct {
	Sender         spring.Address // business defaults: name, VAT/EORI, origin address
	DefaultService string
	PudoServices   []string // service codes that require a pickup-point id
	Currency       string
	HSCode         string // stamped onto contents lacking one
	LabelFormat    string
}

// RecipientInput is the caller-supplied recipient address.
type RecipientInput struct {
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ContentInput is one caller-supplied package content line.
type ContentInput struct {
	Description string  `json:"description"`
	SKU         string  `json:"sku,omitempty"`
	HSCode      string  `json:"hsCode,omitempty"`
	Quantity    int     `json:"quantity"`
	Value       float64 `json:"value"`
}

// SenderInput overrides individual sender defaults.
type SenderInput struct {
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
	Address1 string `json:"address1,omitempty"`
	City     string `json:"city,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	VAT      string `json:"vat,omitempty"`
	EORI     string `json:"eori,omitempty"`
}

// Input carries everything needed to build one shipment.
type Input struct {
	OrderID          string          `json:"orderId,omitempty"`
	OrderNumber      string          `json:"orderNumber,omitempty"`
	Service          string          `json:"service,omitempty"`
	Weight           float64         `json:"weight"`
	Value            string          `json:"value,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	PudoLocationID   string          `json:"pudoLocationId,omitempty"`
	ShipperReference string          `json:"shipperReference,omitempty"`
	Recipient        *RecipientInput `json:"recipient"`
	Contents         []ContentInput  `json:"contents"`
	Sender           *SenderInput    `json:"sender,omitempty"`
}

// Builder assembles shipment payloads and books them with the aggregator.
type Builder struct {
	cfg    Config
	api    OrderAPI
	logger *otelzap.Logger
}

// NewBuilder creates a shipment builder.
func NewBuilder(cfg Config, api OrderAPI, logger *otelzap.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		api:    api,
		logger: logger,
	}
}

// Build validates the input and assembles the full shipment payload.
// No outbound call is made; validation failures surface before any I/O.
func (b *Builder) Build(input *Input) (*spring.Shipment, error) {
	if input.Recipient == nil || input.Recipient.Name == "" || input.Recipient.Address1 == "" || input.Recipient.Country == "" {
		return nil, NewValidationError("recipient", "recipient name, address1 and country are required")
	}
	if len(input.Contents) == 0 {
		return nil, NewValidationError("contents", "at least one package content is required")
	}
	if input.Weight <= 0 {
		return nil, NewValidationError("weight", "weight must be greater than zero")
	}

	service := input.Service
	if service == "" {
		service = b.cfg.DefaultService
	}
	if b.requiresPudo(service) && input.PudoLocationID == "" {
		return nil, NewValidationError("pudoLocationId", fmt.Sprintf("service %s requires a pickup-point selection", service))
	}

	currency := input.Currency
	if currency == "" {
		currency = b.cfg.Currency
	}

	value := input.Value
	if value == "" {
		var total float64
		for _, content := range input.Contents {
			total += content.Value * float64(content.Quantity)
		}
		value = strconv.FormatFloat(total, 'f', 2, 64)
	}

	shipment := &spring.Shipment{
		ShipperReference: b.shipperReference(input),
		Service:          service,
		Weight:           strconv.FormatFloat(input.Weight, 'f', 3, 64),
		WeightUnit:       "kg",
		Value:            value,
		Currency:         currency,
		LabelFormat:      b.cfg.LabelFormat,
		ConsignorAddress: b.senderAddress(input.Sender),
		ConsigneeAddress: spring.Address{
			Name:         input.Recipient.Name,
			Company:      input.Recipient.Company,
			AddressLine1: input.Recipient.Address1,
			AddressLine2: input.Recipient.Address2,
			City:         input.Recipient.City,
			Zip:          input.Recipient.Zip,
			Country:      input.Recipient.Country,
			Phone:        input.Recipient.Phone,
			Email:        input.Recipient.Email,
		},
	}

	// The PUDO service variant needs the location id both at the top
	// level and inside the consignee address.
	if input.PudoLocationID != "" {
		shipment.PudoLocationID = input.PudoLocationID
		shipment.ConsigneeAddress.PudoLocationID = input.PudoLocationID
	}

	for _, content := range input.Contents {
		hsCode := content.HSCode
		if hsCode == "" {
			hsCode = b.cfg.HSCode
		}
		quantity := content.Quantity
		if quantity == 0 {
			quantity = 1
		}
		shipment.Products = append(shipment.Products, spring.Product{
			Description: content.Description,
			Sku:         content.SKU,
			HsCode:      hsCode,
			Quantity:    quantity,
			Value:       content.Value,
		})
	}

	return shipment, nil
}

// Create builds the shipment payload and books it with the aggregator.
func (b *Builder) Create(ctx context.Context, input *Input) (*spring.OrderResult, error) {
	shipment, err := b.Build(input)
	if err != nil {
		return nil, err
	}

	b.logger.Info("Creating shipment",
		zap.String("reference", shipment.ShipperReference),
		zap.String("service", shipment.Service),
		zap.String("pudo_location", shipment.PudoLocationID),
	)

	return b.api.CreateShipment(ctx, shipment)
}

func (b *Builder) requiresPudo(service string) bool {
	for _, code := range b.cfg.PudoServices {
		if code == service {
			return true
		}
	}
	return false
}

// shipperReference returns the caller-supplied reference, or generates
// one from the order identifier and current time.
func (b *Builder) shipperReference(input *Input) string {
	if input.ShipperReference != "" {
		return input.ShipperReference
	}

	base := input.OrderNumber
	if base == "" {
		base = input.OrderID
	}
	if base == "" {
		base = uuid.New().String()[:8]
	}
	return fmt.Sprintf("%s-%d", base, time.Now().Unix())
}

func (b *Builder) senderAddress(override *SenderInput) spring.Address {
	sender := b.cfg.Sender
	if override == nil {
		return sender
	}

	if override.Name != "" {
		sender.Name = override.Name
	}
	if override.Company != "" {
		sender.Company = override.Company
	}
	if override.Address1 != "" {
		sender.AddressLine1 = override.Address1
	}
	if override.City != "" {
		sender.City = override.City
	}
	if override.Zip != "" {
		sender.Zip = override.Zip
	}
	if override.Country != "" {
		sender.Country = override.Country
	}
	if override.Phone != "" {
		sender.Phone = override.Phone
	}
	if override.Email != "" {
		sender.Email = override.Email
	}
	if override.VAT != "" {
		sender.Vat = override.VAT
	}
	if override.EORI != "" {
		sender.Eori = override.EORI
	}
	return sender
}
