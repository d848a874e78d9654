// Package pudo provides pickup-point lookup: country network mapping,
// carrier filtering, and a per-country TTL cache over the aggregator.
package pudo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Sentinel errors for lookup validation.
var (
	// ErrCountryRequired indicates the country parameter was missing.
	ErrCountryRequired = errors.New("country is required")

	// ErrCountryUnsupported indicates no pickup network is contracted
	// for the requested country.
	ErrCountryUnsupported = errors.New("country not supported")

	// ErrCityRequired indicates the network needs a city alongside the
	// postal code for narrowed lookups.
	ErrCityRequired = errors.New("city is required for this country")
)

// Network describes the contracted pickup network for one destination
// country: which carrier's points to retain and which shipping-method
// names identify a pickup-point order.
type Network struct {
	Country          string
	CarrierFragment  string   // case-insensitive substring matched against point carriers
	MethodSubstrings []string // case-sensitive substrings matched against shipping-method names
	RequiresCity     bool     // narrowed lookups need a city alongside the zip
}

// NetworkMap is the enumerated mapping from country code to contracted
// pickup network, sourced from configuration.
type NetworkMap struct {
	networks map[string]Network
	mu       sync.RWMutex
}

// NewNetworkMap creates an empty network map.
func NewNetworkMap() *NetworkMap {
	return &NetworkMap{
		networks: make(map[string]Network),
	}
}

// Register adds a network to the map, replacing any prior entry for the
// same country.
func (m *NetworkMap) Register(n Network) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.networks[strings.ToUpper(n.Country)] = n
}

// Get returns the network for a country.
func (m *NetworkMap) Get(country string) (Network, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n, ok := m.networks[strings.ToUpper(country)]; ok {
		return n, nil
	}
	return Network{}, fmt.Errorf("%w: %s", ErrCountryUnsupported, country)
}

// Countries returns the supported country codes in sorted order.
func (m *NetworkMap) Countries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	countries := make([]string, 0, len(m.networks))
	for country := range m.networks {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// Count returns the number of registered networks.
func (m *NetworkMap) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.networks)
}

// MatchMethod scans a shipping-method name for the known pickup-method
// substrings and returns the matching country. Matching is case-sensitive
// against the configured reference strings; an upstream rename surfaces
// as an explicit no-match rather than a misclassification.
func (m *NetworkMap) MatchMethod(methodName string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	countries := make([]string, 0, len(m.networks))
	for country := range m.networks {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	for _, country := range countries {
		for _, sub := range m.networks[country].MethodSubstrings {
			if strings.Contains(methodName, sub) {
				return country, true
			}
		}
	}
	return "", false
}
