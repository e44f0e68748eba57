package models

// CartLine is one (item, quantity) entry in a cart or an order snapshot.
// UnitPrice is in minor currency units.
type CartLine struct {
	ItemID       string `json:"item_id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
}

// Subtotal is UnitPrice multiplied by Quantity.
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// CartSummary is the read model of a cart with its derived totals.
type CartSummary struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"total_items"`
	TotalPrice int64      `json:"total_price"`
	IsEmpty    bool       `json:"is_empty"`
}

// Summarize computes the derived totals for lines.
func Summarize(lines []CartLine) CartSummary {
	s := CartSummary{Lines: append([]CartLine{}, lines...)}
	for _, l := range lines {
		s.TotalItems += l.Quantity
		s.TotalPrice += l.Subtotal()
	}
	s.IsEmpty = len(lines) == 0
	return s
}
