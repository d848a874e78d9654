package shipment

import (
	"github.com/ateliernord/pudo-bridge/pkg/orders"
)

// MinWeightKg is the minimum shippable mass. Computed totals below it
// are floored to keep the shipment bookable.
const MinWeightKg = 0.1

// TotalWeight sums the line items' mass in kilograms. Missing masses or
// quantities count as zero; the floor keeps the result shippable.
func TotalWeight(items []orders.LineItem) float64 {
	var grams int
	for _, item := range items {
		grams += item.Grams * item.Quantity
	}

	kg := float64(grams) / 1000
	if kg < MinWeightKg {
		return MinWeightKg
	}
	return kg
}
