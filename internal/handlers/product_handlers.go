package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/k-krishaa/Books/internal/services"
)

const featuredOnHome = 8

// Home handles GET /
func (h *Handlers) Home(c *gin.Context) {
	ctx := c.Request.Context()
	categories, err := h.Catalog.Categories(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	featured, err := h.Catalog.Featured(ctx, featuredOnHome)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "home.html", gin.H{
		"Title":      "Home",
		"Categories": categories,
		"Featured":   featured,
	})
}

// ListProducts handles GET /products?category=&search=&sort=
func (h *Handlers) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	q := services.NewCatalogQuery(c.Query("category"), c.Query("search"), c.Query("sort"))

	products, err := h.Catalog.Search(ctx, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	categories, err := h.Catalog.Categories(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	var current *models.Category
	selected := q.Category.OrElse(0)
	for i := range categories {
		if categories[i].ID == selected {
			current = &categories[i]
		}
	}

	h.render(c, http.StatusOK, "products.html", gin.H{
		"Title":            "Books",
		"Products":         products,
		"Categories":       categories,
		"Category":         current,
		"SelectedCategory": selected,
		"Search":           q.Search,
		"Sort":             string(q.Sort),
		"SortKeys":         repository.SortKeys,
	})
}

// ShowProduct handles GET /product/:id
func (h *Handlers) ShowProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	p, err := h.Catalog.Product(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "product.html", gin.H{
		"Title":   p.Title,
		"Product": p,
	})
}
