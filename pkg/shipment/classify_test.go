package shipment_test

import (
	"testing"

	"github.com/ateliernord/pudo-bridge/pkg/orders"
	"github.com/ateliernord/pudo-bridge/pkg/pudo"
	"github.com/ateliernord/pudo-bridge/pkg/shipment"
	"github.com/stretchr/testify/assert"
)

func classifyNetworks() *pudo.NetworkMap {
	networks := pudo.NewNetworkMap()
	networks.Register(pudo.Network{
		Country:          "FR",
		CarrierFragment:  "mondial relay",
		MethodSubstrings: []string{"Mondial Relay"},
	})
	networks.Register(pudo.Network{
		Country:          "PL",
		CarrierFragment:  "inpost",
		MethodSubstrings: []string{"InPost", "Paczkomaty"},
		RequiresCity:     true,
	})
	return networks
}

func TestClassify_MatchesPickupMethod(t *testing.T) {
	order := &orders.Order{
		ShippingLines: []orders.ShippingLine{
			{Title: "Mondial Relay - Point Relais", Code: "MR-PR"},
		},
	}

	country, ok := shipment.Classify(order, classifyNetworks())
	assert.True(t, ok)
	assert.Equal(t, "FR", country)
}

func TestClassify_SecondLineMatches(t *testing.T) {
	order := &orders.Order{
		ShippingLines: []orders.ShippingLine{
			{Title: "Standard Home Delivery"},
			{Title: "Paczkomaty InPost 24/7"},
		},
	}

	country, ok := shipment.Classify(order, classifyNetworks())
	assert.True(t, ok)
	assert.Equal(t, "PL", country)
}

func TestClassify_NoPickupMethod(t *testing.T) {
	order := &orders.Order{
		ShippingLines: []orders.ShippingLine{
			{Title: "Standard Home Delivery"},
		},
	}

	_, ok := shipment.Classify(order, classifyNetworks())
	assert.False(t, ok)
}

func TestClassify_NoShippingLines(t *testing.T) {
	_, ok := shipment.Classify(&orders.Order{}, classifyNetworks())
	assert.False(t, ok)
}
