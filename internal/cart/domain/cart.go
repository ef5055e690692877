package domain

import "time"

// Cart is a session-scoped shopping cart. Lines keep insertion order and
// hold at most one entry per product id. Totals are always derived from the
// lines, never stored.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// CartLine is a product snapshot plus the desired quantity. Price is the
// unit price in piasters captured when the line was added.
type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the total price for this line.
func (l *CartLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// AddLine merges the given snapshot into the cart. If a line with the same
// product id exists its quantity is increased and the snapshot fields are
// refreshed; otherwise the line is appended.
func (c *Cart) AddLine(line CartLine) {
	if i := c.FindLineIndex(line.ProductID); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		c.Lines[i].Name = line.Name
		c.Lines[i].Price = line.Price
		c.Lines[i].ImageURL = line.ImageURL
		return
	}
	c.Lines = append(c.Lines, line)
}

// SetQuantity sets the quantity of the line with the given product id,
// clamping values below 1 up to 1 so a line never silently disappears on an
// update; removal is an explicit RemoveLine call. Returns false when no line
// matches.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i := c.FindLineIndex(productID)
	if i < 0 {
		return false
	}
	if quantity < 1 {
		quantity = 1
	}
	c.Lines[i].Quantity = quantity
	return true
}

// RemoveLine deletes the line with the given product id. Removing an absent
// id is a no-op.
func (c *Cart) RemoveLine(productID string) {
	i := c.FindLineIndex(productID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// TotalAmount calculates the total price of all lines in the cart (piasters).
func (c *Cart) TotalAmount() int64 {
	var total int64
	for i := range c.Lines {
		total += c.Lines[i].LineTotal()
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for i := range c.Lines {
		count += c.Lines[i].Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLineIndex returns the index of the line matching the given product id,
// or -1 if not found.
func (c *Cart) FindLineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
