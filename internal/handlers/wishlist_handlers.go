package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/middleware"
)

// ViewWishlist handles GET /wishlist
func (h *Handlers) ViewWishlist(c *gin.Context) {
	items, err := h.Wishlist.List(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "wishlist.html", gin.H{"Title": "Wishlist", "Items": items})
}

// AddToWishlist handles GET /add_to_wishlist/:product_id
func (h *Handlers) AddToWishlist(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		h.notFound(c)
		return
	}
	added, err := h.Wishlist.Add(c.Request.Context(), userID(c), productID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if added {
		h.redirectWith(c, "/wishlist", middleware.FlashSuccess, "Saved to your wishlist.")
		return
	}
	h.redirectWith(c, "/wishlist", middleware.FlashInfo, "That book is already on your wishlist.")
}

// RemoveFromWishlist handles GET /remove_from_wishlist/:item_id
func (h *Handlers) RemoveFromWishlist(c *gin.Context) {
	itemID, ok := idParam(c, "item_id")
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.Wishlist.Remove(c.Request.Context(), userID(c), itemID); err != nil {
		h.fail(c, err)
		return
	}
	h.redirectWith(c, "/wishlist", middleware.FlashSuccess, "Removed from your wishlist.")
}
