// Package settlement computes order money: subtotals, platform commission,
// seller receivables and zone-based shipping. Everything here is pure.
package settlement

// DefaultCommission applies to lines whose commission was never set.
const DefaultCommission = 5.0

// Line is one priced order or cart line.
type Line struct {
	SellerID   string
	Price      float64
	Quantity   int
	Commission float64 // percent
}

func (l Line) amount() float64 {
	return l.Price * float64(l.Quantity)
}

func (l Line) commission() float64 {
	if l.Commission == 0 {
		return DefaultCommission
	}
	return l.Commission
}

// Breakdown is the settlement of a set of lines.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	PlatformFee    float64 `json:"platform_fee"`
	SellerReceives float64 `json:"seller_receives"`
}

func Subtotal(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.amount()
	}
	return total
}

func PlatformFee(lines []Line) float64 {
	var fee float64
	for _, l := range lines {
		fee += l.amount() * (l.commission() / 100)
	}
	return fee
}

func SellerReceives(lines []Line) float64 {
	return Subtotal(lines) - PlatformFee(lines)
}

func Settle(lines []Line) Breakdown {
	sub := Subtotal(lines)
	fee := PlatformFee(lines)
	return Breakdown{Subtotal: sub, PlatformFee: fee, SellerReceives: sub - fee}
}

// ForSeller returns the lines belonging to sellerID.
func ForSeller(lines []Line, sellerID string) []Line {
	var out []Line
	for _, l := range lines {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out
}

// BySeller settles each seller separately, keyed by seller id.
func BySeller(lines []Line) map[string]Breakdown {
	grouped := make(map[string][]Line)
	for _, l := range lines {
		grouped[l.SellerID] = append(grouped[l.SellerID], l)
	}
	out := make(map[string]Breakdown, len(grouped))
	for id, ls := range grouped {
		out[id] = Settle(ls)
	}
	return out
}
