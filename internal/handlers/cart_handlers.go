package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/services"
)

var errNoQuantity = errors.New("quantity is required")

// formQuantity reads the "quantity" field. A missing or blank field is errNoQuantity.
func formQuantity(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.PostForm("quantity"))
	if raw == "" {
		return 0, errNoQuantity
	}
	return strconv.Atoi(raw)
}

// ViewCart handles GET /cart
func (h *Handlers) ViewCart(c *gin.Context) {
	cart, err := h.Cart.View(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "cart.html", gin.H{"Title": "Cart", "Cart": cart})
}

// AddToCart handles POST /add_to_cart/:product_id
func (h *Handlers) AddToCart(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		h.notFound(c)
		return
	}
	qty, err := formQuantity(c)
	switch {
	case errors.Is(err, errNoQuantity):
		qty = 1
	case err != nil:
		qty = 0
	}

	err = h.Cart.Add(c.Request.Context(), userID(c), productID, qty)
	switch {
	case err == nil:
		h.redirectWith(c, "/cart", middleware.FlashSuccess, "Added to your cart.")
	case errors.Is(err, services.ErrInvalidQuantity):
		h.redirectWith(c, "/product/"+strconv.FormatInt(productID, 10), middleware.FlashWarning, "Please enter a quantity of at least 1.")
	default:
		h.fail(c, err)
	}
}

// UpdateCart handles POST /update_cart/:item_id. Zero removes the line.
func (h *Handlers) UpdateCart(c *gin.Context) {
	itemID, ok := idParam(c, "item_id")
	if !ok {
		h.notFound(c)
		return
	}
	qty, err := formQuantity(c)
	if err != nil {
		h.redirectWith(c, "/cart", middleware.FlashWarning, "Quantity must be a whole number.")
		return
	}

	if err := h.Cart.Update(c.Request.Context(), userID(c), itemID, qty); err != nil {
		h.fail(c, err)
		return
	}
	msg := "Cart updated."
	if qty <= 0 {
		msg = "Item removed from your cart."
	}
	h.redirectWith(c, "/cart", middleware.FlashSuccess, msg)
}

// RemoveFromCart handles GET /remove_from_cart/:item_id
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	itemID, ok := idParam(c, "item_id")
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.Cart.Remove(c.Request.Context(), userID(c), itemID); err != nil {
		h.fail(c, err)
		return
	}
	h.redirectWith(c, "/cart", middleware.FlashSuccess, "Item removed from your cart.")
}
