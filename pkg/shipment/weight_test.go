package shipment_test

import (
	"testing"

	"github.com/ateliernord/pudo-bridge/pkg/orders"
	"github.com/ateliernord/pudo-bridge/pkg/shipment"
	"github.com/stretchr/testify/assert"
)

func TestTotalWeight_SumsLineItems(t *testing.T) {
	items := []orders.LineItem{
		{Title: "Linen shirt", Grams: 350, Quantity: 2},
		{Title: "Silk scarf", Grams: 120, Quantity: 1},
	}

	assert.InDelta(t, 0.82, shipment.TotalWeight(items), 0.0001)
}

func TestTotalWeight_MultipliesQuantity(t *testing.T) {
	items := []orders.LineItem{
		{Title: "Wool sweater", Grams: 500, Quantity: 2},
	}

	assert.InDelta(t, 1.0, shipment.TotalWeight(items), 0.0001)
}

func TestTotalWeight_FloorsLightOrders(t *testing.T) {
	items := []orders.LineItem{
		{Title: "Sticker sheet", Grams: 10, Quantity: 1},
	}

	assert.Equal(t, shipment.MinWeightKg, shipment.TotalWeight(items))
}

func TestTotalWeight_EmptyOrderFloors(t *testing.T) {
	assert.Equal(t, shipment.MinWeightKg, shipment.TotalWeight(nil))
}

func TestTotalWeight_MissingGramsCountZero(t *testing.T) {
	items := []orders.LineItem{
		{Title: "Linen shirt", Grams: 0, Quantity: 3},
		{Title: "Wool beanie", Grams: 200, Quantity: 1},
	}

	assert.InDelta(t, 0.2, shipment.TotalWeight(items), 0.0001)
}
