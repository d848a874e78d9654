package pudo_test

import (
	"testing"

	"github.com/ateliernord/pudo-bridge/pkg/pudo"
	"github.com/stretchr/testify/assert"
)

func TestFilter_RetainsMatchingCarrier(t *testing.T) {
	points := []pudo.PickupPoint{
		{ID: "a", Carrier: "Mondial Relay"},
		{ID: "b", Carrier: "MONDIAL RELAY FRANCE"},
		{ID: "c", Carrier: "Colis Prive"},
	}

	filtered := pudo.Filter(points, "mondial relay")

	assert.Len(t, filtered, 2)
	for _, p := range filtered {
		assert.Contains(t, []string{"a", "b"}, p.ID)
	}
}

func TestFilter_EmptyFragmentPassesThrough(t *testing.T) {
	points := []pudo.PickupPoint{
		{ID: "a", Carrier: "Mondial Relay"},
		{ID: "b", Carrier: "Colis Prive"},
	}

	filtered := pudo.Filter(points, "")

	assert.Equal(t, points, filtered)
}

func TestFilter_NoMatchesYieldsEmptyList(t *testing.T) {
	points := []pudo.PickupPoint{
		{ID: "a", Carrier: "Colis Prive"},
	}

	filtered := pudo.Filter(points, "inpost")

	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestFilter_EmptyInput(t *testing.T) {
	filtered := pudo.Filter(nil, "inpost")
	assert.Empty(t, filtered)
}
