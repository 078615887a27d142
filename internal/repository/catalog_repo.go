package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/samber/mo"
)

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// SortKeys lists the accepted keys in display order.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

var orderClauses = map[SortKey]string{
	SortNameAsc:   "p.title ASC, p.id ASC",
	SortNameDesc:  "p.title DESC, p.id ASC",
	SortPriceAsc:  "p.price ASC, p.title ASC, p.id ASC",
	SortPriceDesc: "p.price DESC, p.title ASC, p.id ASC",
}

// ParseSortKey returns the key for s, falling back to SortNameAsc.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := orderClauses[k]; ok {
		return k
	}
	return SortNameAsc
}

// ProductFilter narrows a catalog listing. The zero value lists everything by title.
type ProductFilter struct {
	CategoryID mo.Option[int64]
	Search     string
	Sort       SortKey
}

const productSelect = `
	SELECT p.id, p.title, p.author, p.description, p.price, p.stock,
		p.category_id, p.image_url, p.created_at, p.updated_at, COALESCE(c.name, '')
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

type CatalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, slug, created_at FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.DB.QueryRowContext(ctx, "SELECT id, name, slug, created_at FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// buildProductSearch renders the filtered listing query and its arguments.
func buildProductSearch(f ProductFilter) (string, []any) {
	var qb strings.Builder
	var args []any
	var conds []string

	qb.WriteString(productSelect)

	if id, ok := f.CategoryID.Get(); ok {
		conds = append(conds, "p.category_id = ?")
		args = append(args, id)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		conds = append(conds, "(LOWER(p.title) LIKE ? OR LOWER(p.author) LIKE ?)")
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		args = append(args, like, like)
	}
	if len(conds) > 0 {
		qb.WriteString("\n\tWHERE ")
		qb.WriteString(strings.Join(conds, " AND "))
	}

	order, ok := orderClauses[f.Sort]
	if !ok {
		order = orderClauses[SortNameAsc]
	}
	qb.WriteString("\n\tORDER BY ")
	qb.WriteString(order)

	return qb.String(), args
}

// escapeLike escapes MySQL LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *CatalogRepository) SearchProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query, args := buildProductSearch(f)
	return r.queryProducts(ctx, query, args...)
}

// LatestProducts returns the newest products, newest first.
func (r *CatalogRepository) LatestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return r.queryProducts(ctx, productSelect+"\n\tORDER BY p.created_at DESC, p.id DESC\n\tLIMIT ?", limit)
}

func (r *CatalogRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx, productSelect+"\n\tWHERE p.id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func scanProduct(s scanner) (*models.Product, error) {
	var p models.Product
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Author,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CategoryID,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO products (title, author, description, price, stock, category_id, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Author, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURL, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return id, nil
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE products
		SET title = ?, author = ?, description = ?, price = ?, stock = ?, category_id = ?, image_url = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Author, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURL, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return affectedOne(res)
}

// DeleteProduct removes a product unconditionally. Cart and wishlist rows
// cascade; order items keep their snapshot.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return affectedOne(res)
}

// DecrementStock subtracts qty from a product's stock.
// There is no floor: stock may go negative.
func (r *CatalogRepository) DecrementStock(ctx context.Context, q Querier, productID int64, qty int) error {
	res, err := q.ExecContext(ctx, "UPDATE products SET stock = stock - ? WHERE id = ?", qty, productID)
	if err != nil {
		return fmt.Errorf("decrement stock for product %d: %w", productID, err)
	}
	return affectedOne(res)
}
