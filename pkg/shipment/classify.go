package shipment

import (
	"github.com/ateliernord/pudo-bridge/pkg/orders"
	"github.com/ateliernord/pudo-bridge/pkg/pudo"
)

// Classify scans an order's shipping-method descriptors for the known
// pickup-method substrings and returns the first match's country. The
// second return is false when no descriptor names a pickup method.
func Classify(order *orders.Order, networks *pudo.NetworkMap) (string, bool) {
	for _, line := range order.ShippingLines {
		if country, ok := networks.MatchMethod(line.Title); ok {
			return country, true
		}
	}
	return "", false
}
