package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ateliernord/pudo-bridge/pkg/pudo"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Spring aggregator
	SpringAPIKey  string `envconfig:"SPRING_API_KEY"`
	SpringBaseURL string `envconfig:"SPRING_BASE_URL" default:"https://mtapi.net/"`
	SpringUseMock bool   `envconfig:"SPRING_USE_MOCK" default:"false"`

	// Order platform
	ShopDomain      string `envconfig:"SHOP_DOMAIN"`
	ShopAccessToken string `envconfig:"SHOP_ACCESS_TOKEN"`

	// TestMode substitutes placeholder order data when the order
	// platform is unreachable or unconfigured. Never enable in production.
	TestMode bool `envconfig:"TEST_MODE" default:"false"`

	// Pickup-point cache
	CacheEnabled bool          `envconfig:"CACHE_ENABLED" default:"true"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"6h"`
	PrewarmCache bool          `envconfig:"PREWARM_CACHE" default:"false"`

	// PudoNetworks maps destination countries to their contracted pickup
	// networks. Entries are semicolon separated:
	//   COUNTRY|carrier fragment|method substring[,substring...][|city]
	// The trailing "city" flag marks networks whose narrowed lookups
	// require a city alongside the postal code.
	PudoNetworks string `envconfig:"PUDO_NETWORKS" default:"FR|mondial relay|Mondial Relay;PL|inpost|InPost,Paczkomaty|city"`

	// Shipment defaults
	DefaultPudoCountry string   `envconfig:"DEFAULT_PUDO_COUNTRY" default:"FR"`
	DefaultService     string   `envconfig:"DEFAULT_SERVICE" default:"PPTT"`
	PudoServices       []string `envconfig:"PUDO_SERVICES" default:"PPTT"`
	AllowedServices    []string `envconfig:"ALLOWED_SERVICES" default:"PPTT,TRCK,SIGN"`
	AllowedSpringClear []string `envconfig:"ALLOWED_SPRING_CLEAR" default:"PPTR"`
	DefaultCurrency    string   `envconfig:"DEFAULT_CURRENCY" default:"EUR"`
	DefaultHSCode      string   `envconfig:"DEFAULT_HS_CODE" default:"61091000"`
	DefaultLabelFormat string   `envconfig:"DEFAULT_LABEL_FORMAT" default:"PDF"`

	// Sender / business defaults
	SenderName     string `envconfig:"SENDER_NAME" default:"Atelier Nord"`
	SenderCompany  string `envconfig:"SENDER_COMPANY" default:"Atelier Nord OU"`
	SenderAddress1 string `envconfig:"SENDER_ADDRESS1" default:"Sepapaja 6"`
	SenderCity     string `envconfig:"SENDER_CITY" default:"Tallinn"`
	SenderZip      string `envconfig:"SENDER_ZIP" default:"15551"`
	SenderCountry  string `envconfig:"SENDER_COUNTRY" default:"EE"`
	SenderPhone    string `envconfig:"SENDER_PHONE" default:"+372 5555 0100"`
	SenderEmail    string `envconfig:"SENDER_EMAIL" default:"shipping@ateliernord.example"`
	SenderVAT      string `envconfig:"SENDER_VAT"`
	SenderEORI     string `envconfig:"SENDER_EORI"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"pudo-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Networks parses the PudoNetworks entries into network definitions.
func (c *Config) Networks() ([]pudo.Network, error) {
	var networks []pudo.Network
	for _, entry := range strings.Split(c.PudoNetworks, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, "|")
		if len(fields) < 3 {
			return nil, fmt.Errorf("invalid network entry %q: want COUNTRY|fragment|substrings[|city]", entry)
		}
		n := pudo.Network{
			Country:         strings.ToUpper(strings.TrimSpace(fields[0])),
			CarrierFragment: strings.TrimSpace(fields[1]),
		}
		for _, sub := range strings.Split(fields[2], ",") {
			if sub = strings.TrimSpace(sub); sub != "" {
				n.MethodSubstrings = append(n.MethodSubstrings, sub)
			}
		}
		if len(fields) > 3 && strings.TrimSpace(fields[3]) == "city" {
			n.RequiresCity = true
		}
		networks = append(networks, n)
	}
	if len(networks) == 0 {
		return nil, fmt.Errorf("no pudo networks configured")
	}
	return networks, nil
}

// Attributes returns extra OpenTelemetry resource attributes describing
// how this instance is configured.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool("cache.enabled", c.CacheEnabled),
		attribute.Bool("test_mode", c.TestMode),
	}
}
