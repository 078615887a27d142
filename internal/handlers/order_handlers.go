package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/email"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/services"
)

// ReviewCheckout handles GET /checkout
func (h *Handlers) ReviewCheckout(c *gin.Context) {
	cart, err := h.Cart.View(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if cart.IsEmpty() {
		h.redirectWith(c, "/products", middleware.FlashWarning, "Your cart is empty.")
		return
	}
	h.render(c, http.StatusOK, "checkout.html", gin.H{"Title": "Checkout", "Cart": cart})
}

// PlaceOrder handles POST /checkout
func (h *Handlers) PlaceOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	order, err := h.Checkout.Checkout(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			h.redirectWith(c, "/products", middleware.FlashWarning, "Your cart is empty.")
			return
		}
		h.fail(c, err)
		return
	}

	// The order is committed; a mail failure must not turn it into an error page.
	if h.Mailer != nil {
		if err := email.SendOrderConfirmation(c.Request.Context(), h.Mailer, user, order); err != nil {
			log.Printf("WARNING: confirmation email for order %d failed: %v", order.ID, err)
		}
	}

	h.redirectWith(c, fmt.Sprintf("/order_confirmation/%d", order.ID), middleware.FlashSuccess, "Thank you! Your order has been placed.")
}

// OrderConfirmation handles GET /order_confirmation/:order_id
func (h *Handlers) OrderConfirmation(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		h.notFound(c)
		return
	}
	order, err := h.Orders.Detail(c.Request.Context(), userID(c), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "order_confirmation.html", gin.H{
		"Title": fmt.Sprintf("Order #%d", order.ID),
		"Order": order,
	})
}

// MyOrders handles GET /my-orders
func (h *Handlers) MyOrders(c *gin.Context) {
	orders, err := h.Orders.ForUser(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "my_orders.html", gin.H{"Title": "My orders", "Orders": orders})
}
