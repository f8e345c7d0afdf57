package settlement

import "github.com/mohibbulwara/orjon/models"

const (
	DefaultShippingFallback  = 150.0
	DefaultUnknownSellerZone = 50.0
)

// ShippingTable prices delivery from a seller zone to a buyer zone.
// Rates[seller][buyer]; the table is not symmetric.
type ShippingTable struct {
	Rates             map[models.DeliveryZone]map[models.DeliveryZone]float64
	Fallback          float64
	UnknownSellerZone float64
}

func DefaultShippingTable() ShippingTable {
	return ShippingTable{
		Rates: map[models.DeliveryZone]map[models.DeliveryZone]float64{
			models.ZoneInsideRangpurCity: {
				models.ZoneInsideRangpurCity: 40,
				models.ZoneRangpurDivision:   80,
				models.ZoneOutsideRangpur:    130,
			},
			models.ZoneRangpurDivision: {
				models.ZoneInsideRangpurCity: 80,
				models.ZoneRangpurDivision:   70,
				models.ZoneOutsideRangpur:    150,
			},
			models.ZoneOutsideRangpur: {
				models.ZoneInsideRangpurCity: 130,
				models.ZoneRangpurDivision:   150,
				models.ZoneOutsideRangpur:    180,
			},
		},
		Fallback:          DefaultShippingFallback,
		UnknownSellerZone: DefaultUnknownSellerZone,
	}
}

// Cost returns the flat fee for the pair, or Fallback when the pair is unknown.
func (t ShippingTable) Cost(sellerZone, buyerZone models.DeliveryZone) float64 {
	if row, ok := t.Rates[sellerZone]; ok {
		if fee, ok := row[buyerZone]; ok {
			return fee
		}
	}
	return t.Fallback
}
