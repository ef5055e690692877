// Package main implements a standalone seed script that populates the
// storefront catalog with the restaurant's categories and dishes using
// direct SQL. The catalog API is read-only, so seeding writes straight to
// postgres.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type category struct {
	name string
	slug string
}

type product struct {
	name        string
	description string
	price       int64
	imageURL    string
	category    string
	featured    bool
	stock       int
}

var categories = []category{
	{name: "ساندويتشات", slug: "sandwiches"},
	{name: "وجبات", slug: "meals"},
	{name: "مشويات", slug: "grills"},
	{name: "مشروبات", slug: "drinks"},
}

var products = []product{
	{name: "شاورما فراخ", description: "شاورما فراخ مع الصوص الخاص", price: 15000, imageURL: "/images/shawarma.jpg", category: "sandwiches", featured: true, stock: 100},
	{name: "كبدة اسكندراني", description: "كبدة اسكندراني بالفلفل الحار", price: 10000, imageURL: "/images/kebda.jpg", category: "sandwiches", featured: true, stock: 80},
	{name: "وجبة فراخ مشوية", description: "نصف فرخة مشوية مع أرز وسلطة", price: 45000, imageURL: "/images/grilled-chicken.jpg", category: "meals", featured: true, stock: 40},
	{name: "كفتة مشوية", description: "كيلو كفتة مشوية على الفحم", price: 60000, imageURL: "/images/kofta.jpg", category: "grills", featured: false, stock: 30},
	{name: "طرب مشوي", description: "طرب بلدي مشوي", price: 70000, imageURL: "/images/tarb.jpg", category: "grills", featured: false, stock: 20},
	{name: "عصير قصب", description: "عصير قصب طازج", price: 2500, imageURL: "/images/sugarcane.jpg", category: "drinks", featured: false, stock: 200},
	{name: "سوبيا", description: "سوبيا بجوز الهند", price: 3000, imageURL: "/images/sobia.jpg", category: "drinks", featured: false, stock: 150},
}

func main() {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "skandr"),
		getEnv("POSTGRES_PASSWORD", "skandr_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "skandr_shop"),
		getEnv("POSTGRES_SSLMODE", "disable"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		id := uuid.New().String()
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name`,
			id, c.name, c.slug)
		if err != nil {
			log.Fatalf("seed category %q: %v", c.slug, err)
		}

		// INSERT may have hit the conflict path; read the canonical id back.
		var canonical string
		if err := pool.QueryRow(ctx, `SELECT id FROM categories WHERE slug = $1`, c.slug).Scan(&canonical); err != nil {
			log.Fatalf("read category %q: %v", c.slug, err)
		}
		categoryIDs[c.slug] = canonical
		log.Printf("category %s (%s)", c.name, canonical)
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, description, price, image_url, category_id, is_featured, stock_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New().String(), p.name, p.description, p.price, p.imageURL,
			categoryIDs[p.category], p.featured, p.stock)
		if err != nil {
			log.Fatalf("seed product %q: %v", p.name, err)
		}
		log.Printf("product %s (%d piasters)", p.name, p.price)
	}

	log.Printf("seeded %d categories and %d products", len(categories), len(products))
}
