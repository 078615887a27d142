package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultCategories are created once, the first time the store starts on an empty database.
var DefaultCategories = []string{"Fiction", "Non-Fiction", "Science", "History", "Biography", "Children"}

//go:embed seed_catalog.yaml
var defaultCatalog []byte

// SeedProduct is one entry of the sample catalog file.
type SeedProduct struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Category    string `yaml:"category"`
	ImageURL    string `yaml:"image_url"`
}

type seedCatalog struct {
	Products []SeedProduct `yaml:"products"`
}

// ParseCatalog decodes and validates a YAML sample catalog.
func ParseCatalog(data []byte) ([]SeedProduct, error) {
	var c seedCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, p := range c.Products {
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Author) == "" {
			return nil, fmt.Errorf("catalog entry %d: title and author are required", i)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("catalog entry %d (%s): invalid price %q", i, p.Title, p.Price)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("catalog entry %d (%s): negative stock", i, p.Title)
		}
	}
	return c.Products, nil
}

// DefaultCatalog returns the embedded sample catalog.
func DefaultCatalog() ([]SeedProduct, error) {
	return ParseCatalog(defaultCatalog)
}

// SeedCategories inserts DefaultCategories when the categories table is empty.
func SeedCategories(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range DefaultCategories {
		if _, err := tx.ExecContext(ctx, "INSERT INTO categories (name, slug) VALUES (?, ?)", name, slug.Make(name)); err != nil {
			return fmt.Errorf("insert category %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Seeded %d categories", len(DefaultCategories))
	return nil
}

// SeedProducts inserts the given catalog when the products table is empty.
// Entries whose category is unknown are skipped with a warning.
func SeedProducts(ctx context.Context, db *sql.DB, catalog []SeedProduct) error {
	if len(catalog) == 0 {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	categoryIDs, err := categoryIDsByName(ctx, db)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	inserted := 0
	for _, p := range catalog {
		catID, ok := categoryIDs[strings.ToLower(p.Category)]
		if !ok {
			log.Printf("WARNING: skipping sample product %q: unknown category %q", p.Title, p.Category)
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("sample product %q: %w", p.Title, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO products (title, author, description, price, stock, category_id, image_url)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Author, p.Description, price, p.Stock, catID, p.ImageURL)
		if err != nil {
			return fmt.Errorf("insert sample product %q: %w", p.Title, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Seeded %d sample products", inserted)
	return nil
}

func categoryIDsByName(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, name FROM categories")
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[strings.ToLower(name)] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.New("no categories to attach sample products to")
	}
	return ids, nil
}
