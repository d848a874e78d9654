package pudo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ateliernord/pudo-bridge/pkg/spring"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LocationAPI is the slice of the aggregator client the lookup service needs.
type LocationAPI interface {
	GetLocations(ctx context.Context, q *spring.LocationQuery) ([]spring.Location, error)
	GetLocationsDaily(ctx context.Context, country string) ([]spring.Location, error)
}

// Result is a pickup-point lookup result. TotalFound and Filtered expose
// how aggressive the carrier filter was for diagnosis.
type Result struct {
	Country    string
	TotalFound int
	Filtered   int
	Locations  []PickupPoint
	FromCache  bool
}

// Service performs pickup-point lookups: aggregator call, carrier filter,
// reshaping, and the optional per-country cache.
type Service struct {
	api      LocationAPI
	networks *NetworkMap
	cache    *Cache // nil when caching is disabled
	logger   *otelzap.Logger
}

// NewService creates a lookup service. Pass a nil cache to disable caching.
func NewService(api LocationAPI, networks *NetworkMap, cache *Cache, logger *otelzap.Logger) *Service {
	return &Service{
		api:      api,
		networks: networks,
		cache:    cache,
		logger:   logger,
	}
}

// Networks returns the service's country network mapping.
func (s *Service) Networks() *NetworkMap {
	return s.networks
}

// Lookup returns the contracted carrier's pickup points for a country,
// optionally narrowed by postal code and city. Cached entries are served
// per country regardless of narrowing.
func (s *Service) Lookup(ctx context.Context, country, zip, city string) (*Result, error) {
	if country == "" {
		return nil, ErrCountryRequired
	}
	country = strings.ToUpper(country)

	network, err := s.networks.Get(country)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(country); ok {
			cached.FromCache = true
			return &cached, nil
		}
	}

	var locations []spring.Location
	if zip != "" {
		if network.RequiresCity && city == "" {
			return nil, fmt.Errorf("%w: %s", ErrCityRequired, country)
		}
		locations, err = s.api.GetLocations(ctx, &spring.LocationQuery{
			Country: country,
			Zip:     zip,
			City:    city,
		})
	} else {
		locations, err = s.api.GetLocationsDaily(ctx, country)
	}
	if err != nil {
		return nil, err
	}

	points := make([]PickupPoint, len(locations))
	for i, loc := range locations {
		points[i] = FromLocation(loc)
	}
	filtered := Filter(points, network.CarrierFragment)

	result := Result{
		Country:    country,
		TotalFound: len(points),
		Filtered:   len(filtered),
		Locations:  filtered,
	}

	s.logger.Info("Pickup-point lookup complete",
		zap.String("country", country),
		zap.Int("total_found", result.TotalFound),
		zap.Int("filtered", result.Filtered),
	)

	if s.cache != nil {
		s.cache.Put(country, result)
	}

	return &result, nil
}

// Warm prefetches the daily list for every supported country in parallel,
// populating the cache. Individual country failures are collected rather
// than aborting the rest.
func (s *Service) Warm(ctx context.Context) []error {
	countries := s.networks.Countries()

	var errs []error
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)
	for _, country := range countries {
		g.Go(func() error {
			if _, err := s.Lookup(ctx, country, "", ""); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", country, err))
				mu.Unlock()
			}
			return nil
		})
	}

	g.Wait()
	return errs
}
