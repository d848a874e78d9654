package pudo

import (
	"strconv"

	"github.com/ateliernord/pudo-bridge/pkg/spring"
)

// PickupPoint is the stable output schema for a pickup point, with
// coordinates coerced to numeric.
type PickupPoint struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address1  string  `json:"address1"`
	Address2  string  `json:"address2,omitempty"`
	City      string  `json:"city"`
	Zip       string  `json:"zip"`
	Country   string  `json:"country"`
	Carrier   string  `json:"carrier"`
	Service   string  `json:"service,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hours     string  `json:"hours,omitempty"`
}

// FromLocation reshapes an aggregator location into the stable schema.
func FromLocation(loc spring.Location) PickupPoint {
	lat, _ := strconv.ParseFloat(loc.Latitude, 64)
	lng, _ := strconv.ParseFloat(loc.Longitude, 64)

	return PickupPoint{
		ID:        loc.ID,
		Name:      loc.Name,
		Address1:  loc.Address1,
		Address2:  loc.Address2,
		City:      loc.City,
		Zip:       loc.Zip,
		Country:   loc.Country,
		Carrier:   loc.Carrier,
		Service:   loc.Service,
		Latitude:  lat,
		Longitude: lng,
		Hours:     loc.BusinessHours,
	}
}
