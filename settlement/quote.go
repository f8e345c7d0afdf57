package settlement

import "github.com/mohibbulwara/orjon/models"

type Quote struct {
	Breakdown
	ShippingCost float64 `json:"shipping_cost"`
	Total        float64 `json:"total"`
}

// QuoteCart prices a whole cart. Shipping is charged once, from the zone of
// the seller of the first line; firstSellerZone is empty when that seller is
// unknown or has not set a zone.
func QuoteCart(lines []Line, firstSellerZone, buyerZone models.DeliveryZone, table ShippingTable) Quote {
	q := Quote{Breakdown: Settle(lines)}
	q.ShippingCost = shippingFor(lines, firstSellerZone, buyerZone, table)
	q.Total = q.Subtotal + q.ShippingCost
	return q
}

func shippingFor(lines []Line, sellerZone, buyerZone models.DeliveryZone, table ShippingTable) float64 {
	if buyerZone == "" || len(lines) == 0 {
		return 0
	}
	if sellerZone == "" {
		return table.UnknownSellerZone
	}
	return table.Cost(sellerZone, buyerZone)
}
