package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/samber/mo"
)

// CatalogQuery is a parsed /products request.
type CatalogQuery struct {
	Category mo.Option[int64]
	// InvalidCategory is set when a category was given but is not an id.
	InvalidCategory bool
	Search          string
	Sort            repository.SortKey
}

// NewCatalogQuery parses raw query-string values. It never fails: bad
// categories match nothing and bad sort keys fall back to name_asc.
func NewCatalogQuery(rawCategory, search, rawSort string) CatalogQuery {
	q := CatalogQuery{
		Category: mo.None[int64](),
		Search:   strings.TrimSpace(search),
		Sort:     repository.ParseSortKey(rawSort),
	}
	if rawCategory = strings.TrimSpace(rawCategory); rawCategory != "" {
		id, err := strconv.ParseInt(rawCategory, 10, 64)
		if err != nil || id <= 0 {
			q.InvalidCategory = true
		} else {
			q.Category = mo.Some(id)
		}
	}
	return q
}

type CatalogService struct {
	Repo *repository.CatalogRepository
}

func NewCatalogService(r *repository.CatalogRepository) *CatalogService {
	return &CatalogService{Repo: r}
}

// Search lists matching products. An unknown category yields an empty list.
func (s *CatalogService) Search(ctx context.Context, q CatalogQuery) ([]models.Product, error) {
	if q.InvalidCategory {
		return []models.Product{}, nil
	}
	return s.Repo.SearchProducts(ctx, repository.ProductFilter{
		CategoryID: q.Category,
		Search:     q.Search,
		Sort:       q.Sort,
	})
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) Category(ctx context.Context, id int64) (*models.Category, error) {
	return s.Repo.GetCategory(ctx, id)
}

func (s *CatalogService) Product(ctx context.Context, id int64) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

// Featured returns the n newest products for the home page.
func (s *CatalogService) Featured(ctx context.Context, n int) ([]models.Product, error) {
	return s.Repo.LatestProducts(ctx, n)
}
