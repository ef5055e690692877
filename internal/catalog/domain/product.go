package domain

import (
	"fmt"
	"time"
)

// Product represents a dish or drink in the storefront catalog. Price is in
// piasters (1/100 EGP); money never touches floating point.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	ImageURL      string    `json:"image_url"`
	CategoryID    string    `json:"category_id"`
	IsFeatured    bool      `json:"is_featured"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate rejects malformed catalog rows before they are served.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product id is empty")
	}
	if p.Name == "" {
		return fmt.Errorf("product %s: name is empty", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: negative price %d", p.ID, p.Price)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("product %s: negative stock quantity %d", p.ID, p.StockQuantity)
	}
	return nil
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
