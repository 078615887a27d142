package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/shopspring/decimal"
)

const recentOrdersOnDashboard = 5

// ProductInput is the raw admin product form.
type ProductInput struct {
	Title       string `form:"title"`
	Author      string `form:"author"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Stock       string `form:"stock"`
	CategoryID  string `form:"category_id"`
	ImageURL    string `form:"image_url"`
}

// FormFromProduct fills the admin form for editing p.
func FormFromProduct(p *models.Product) ProductInput {
	return ProductInput{
		Title:       p.Title,
		Author:      p.Author,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       strconv.Itoa(p.Stock),
		CategoryID:  strconv.FormatInt(p.CategoryID, 10),
		ImageURL:    p.ImageURL,
	}
}

type AdminService struct {
	Catalog *repository.CatalogRepository
	Orders  *repository.OrderRepository
}

func NewAdminService(catalog *repository.CatalogRepository, orders *repository.OrderRepository) *AdminService {
	return &AdminService{Catalog: catalog, Orders: orders}
}

func (s *AdminService) Dashboard(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	var err error
	stats.Products, stats.Orders, stats.Users, stats.Revenue, err = s.Orders.Summary(ctx)
	if err != nil {
		return nil, err
	}
	stats.RecentOrders, err = s.Orders.Recent(ctx, recentOrdersOnDashboard)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AdminService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Catalog.SearchProducts(ctx, repository.ProductFilter{Sort: repository.SortNameAsc})
}

func (s *AdminService) Product(ctx context.Context, id int64) (*models.Product, error) {
	return s.Catalog.GetProduct(ctx, id)
}

func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if _, err := s.Catalog.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct overwrites every editable field. A blank image keeps the old one.
func (s *AdminService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	p, err := s.Catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		in.ImageURL = p.ImageURL
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.Catalog.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int64) error {
	return s.Catalog.DeleteProduct(ctx, id)
}

// apply validates in and copies it onto p.
func (s *AdminService) apply(ctx context.Context, p *models.Product, in ProductInput) error {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.add("title", "Title is required")
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		verr.add("author", "Author is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		verr.add("price", "Price must be a number")
	} else if price.IsNegative() {
		verr.add("price", "Price cannot be negative")
	}

	stock, err := strconv.Atoi(strings.TrimSpace(in.Stock))
	if err != nil {
		verr.add("stock", "Stock must be a whole number")
	} else if stock < 0 {
		verr.add("stock", "Stock cannot be negative")
	}

	categoryID, err := strconv.ParseInt(strings.TrimSpace(in.CategoryID), 10, 64)
	if err != nil || categoryID <= 0 {
		verr.add("category", "Choose a category")
	} else if _, err := s.Catalog.GetCategory(ctx, categoryID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		verr.add("category", "Choose a category")
	}

	if !verr.empty() {
		return verr
	}

	p.Title = title
	p.Author = author
	p.Description = strings.TrimSpace(in.Description)
	p.Price = price.Round(2)
	p.Stock = stock
	p.CategoryID = categoryID
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	return nil
}
