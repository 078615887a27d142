package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/services"
)

// AdminProducts handles GET /admin/products
func (h *Handlers) AdminProducts(c *gin.Context) {
	products, err := h.Admin.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_products.html", gin.H{"Title": "Products", "Products": products})
}

func (h *Handlers) renderProductForm(c *gin.Context, status int, productID int64, form services.ProductInput, errs map[string]string) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	action := "/admin/product/add"
	title := "Add product"
	if productID > 0 {
		action = fmt.Sprintf("/admin/product/edit/%d", productID)
		title = "Edit product"
	}
	if errs == nil {
		errs = map[string]string{}
	}
	h.render(c, status, "admin_product_form.html", gin.H{
		"Title":      title,
		"Action":     action,
		"ProductID":  productID,
		"Form":       form,
		"Errors":     errs,
		"Categories": categories,
		"AIEnabled":  h.Blurbs != nil,
	})
}

// NewProductForm handles GET /admin/product/add
func (h *Handlers) NewProductForm(c *gin.Context) {
	h.renderProductForm(c, http.StatusOK, 0, services.ProductInput{Stock: "0"}, nil)
}

// CreateProduct handles POST /admin/product/add
func (h *Handlers) CreateProduct(c *gin.Context) {
	h.saveProduct(c, 0)
}

// EditProductForm handles GET /admin/product/edit/:id
func (h *Handlers) EditProductForm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	p, err := h.Admin.Product(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderProductForm(c, http.StatusOK, p.ID, services.FormFromProduct(p), nil)
}

// UpdateProduct handles POST /admin/product/edit/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	h.saveProduct(c, id)
}

// saveProduct is the shared POST path for add (id 0) and edit.
func (h *Handlers) saveProduct(c *gin.Context, id int64) {
	var form services.ProductInput
	if err := c.ShouldBind(&form); err != nil {
		h.renderProductForm(c, http.StatusBadRequest, id, form, map[string]string{"title": "Could not read the form"})
		return
	}

	// 1. "Draft description" re-renders the form without saving.
	if c.PostForm("action") == "draft" {
		h.draftDescription(c, &form)
		h.renderProductForm(c, http.StatusOK, id, form, nil)
		return
	}

	// 2. An uploaded image wins over the URL field.
	imageURL, err := h.saveUpload(c, "image")
	if err != nil {
		if errors.Is(err, errBadUpload) {
			h.renderProductForm(c, http.StatusUnprocessableEntity, id, form, map[string]string{"image": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}
	if imageURL != "" {
		form.ImageURL = imageURL
	}

	// 3. Validate and persist
	ctx := c.Request.Context()
	var verb string
	if id == 0 {
		_, err = h.Admin.CreateProduct(ctx, form)
		verb = "added"
	} else {
		_, err = h.Admin.UpdateProduct(ctx, id, form)
		verb = "updated"
	}

	var verr *services.ValidationError
	switch {
	case err == nil:
		h.redirectWith(c, "/admin/products", middleware.FlashSuccess, fmt.Sprintf("Product %q %s.", form.Title, verb))
	case errors.As(err, &verr):
		h.renderProductForm(c, http.StatusUnprocessableEntity, id, form, verr.Fields)
	default:
		h.fail(c, err)
	}
}

// DeleteProduct handles GET /admin/product/delete/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.Admin.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.redirectWith(c, "/admin/products", middleware.FlashSuccess, "Product deleted.")
}
