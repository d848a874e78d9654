package main

import (
	"context"

	"github.com/ateliernord/pudo-bridge/internal/config"
	"github.com/ateliernord/pudo-bridge/internal/server"
	"github.com/ateliernord/pudo-bridge/internal/telemetry"
	"github.com/ateliernord/pudo-bridge/pkg/orders"
	"github.com/ateliernord/pudo-bridge/pkg/pudo"
	"github.com/ateliernord/pudo-bridge/pkg/shipment"
	"github.com/ateliernord/pudo-bridge/pkg/spring"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

// tracer is set by initTracer when OTEL is enabled; nil disables spans.
var tracer trace.Tracer

type dependencies struct {
	networks *pudo.NetworkMap
	pudo     *pudo.Service
	handlers *server.Handlers
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	t, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
	if err != nil {
		return nil, err
	}
	tracer = t
	return shutdown, nil
}

func initDependencies(cfg *config.Config, logger *otelzap.Logger) (*dependencies, error) {
	metrics := telemetry.NewMetrics()

	springClient := spring.New(spring.Config{
		APIKey:  cfg.SpringAPIKey,
		BaseURL: cfg.SpringBaseURL,
		UseMock: cfg.SpringUseMock,
	}, logger, tracer)

	networkDefs, err := cfg.Networks()
	if err != nil {
		return nil, err
	}
	networks := pudo.NewNetworkMap()
	for _, n := range networkDefs {
		networks.Register(n)
	}

	var cache *pudo.Cache
	if cfg.CacheEnabled {
		cache = pudo.NewCache(cfg.CacheTTL)
	}
	pudoService := pudo.NewService(springClient, networks, cache, logger)

	builder := shipment.NewBuilder(shipment.Config{
		Sender: spring.Address{
			Name:         cfg.SenderName,
			Company:      cfg.SenderCompany,
			AddressLine1: cfg.SenderAddress1,
			City:         cfg.SenderCity,
			Zip:          cfg.SenderZip,
			Country:      cfg.SenderCountry,
			Phone:        cfg.SenderPhone,
			Email:        cfg.SenderEmail,
			Vat:          cfg.SenderVAT,
			Eori:         cfg.SenderEORI,
		},
		DefaultService: cfg.DefaultService,
		PudoServices:   cfg.PudoServices,
		Currency:       cfg.DefaultCurrency,
		HSCode:         cfg.DefaultHSCode,
		LabelFormat:    cfg.DefaultLabelFormat,
	}, springClient, logger)

	orderProvider := orders.NewShopClient(orders.ShopConfig{
		Domain:      cfg.ShopDomain,
		AccessToken: cfg.ShopAccessToken,
	}, logger)

	handlers := &server.Handlers{
		Pudo:       pudoService,
		Builder:    builder,
		Orders:     orderProvider,
		Aggregator: springClient,
		Options: server.Options{
			TestMode:           cfg.TestMode,
			DefaultPudoCountry: cfg.DefaultPudoCountry,
			AllowedServices:    cfg.AllowedServices,
			AllowedSpringClear: cfg.AllowedSpringClear,
		},
		Logger:  logger,
		Metrics: metrics,
	}

	return &dependencies{
		networks: networks,
		pudo:     pudoService,
		handlers: handlers,
	}, nil
}
