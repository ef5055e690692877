package domain

import "time"

// Category groups catalog products (e.g. grills, drinks, desserts).
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
