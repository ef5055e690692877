package domain

// OrderLine is a line item copied from the cart at submission time. Price is
// the unit price in piasters frozen at checkout; later catalog edits never
// change a submitted order.
type OrderLine struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// LineTotal returns the total price for this line.
func (l *OrderLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}
