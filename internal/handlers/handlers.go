package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/email"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/services"
)

// BookDescriber drafts a catalog blurb for a book.
type BookDescriber interface {
	DescribeBook(ctx context.Context, title, author string) (string, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog  *services.CatalogService
	Auth     *services.AuthService
	Cart     *services.CartService
	Wishlist *services.WishlistService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Admin    *services.AdminService

	Mailer email.Mailer
	Blurbs BookDescriber // nil when no AI key is configured

	UploadDir     string
	SecureCookies bool
	FlashKey      []byte // signs the flash cookie
}

// render adds the per-request layout data and writes an HTML page.
func (h *Handlers) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["Flashes"] = middleware.Flashes(c)
	c.HTML(status, page, data)
}

func (h *Handlers) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Status":  http.StatusNotFound,
		"Message": "We couldn't find what you were looking for.",
	})
}

// fail turns a service error into an error page.
func (h *Handlers) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		h.notFound(c)
		return
	}
	log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong on our side. Please try again.",
	})
}

// redirectWith queues a flash message and redirects.
func (h *Handlers) redirectWith(c *gin.Context, location, kind, message string) {
	middleware.AddFlash(c, kind, message)
	c.Redirect(http.StatusFound, location)
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// userID is only called behind RequireLogin.
func userID(c *gin.Context) int64 {
	return middleware.CurrentUser(c).ID
}

// Health handles GET /healthz
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// NoRoute renders the 404 page for unknown paths.
func (h *Handlers) NoRoute(c *gin.Context) {
	h.notFound(c)
}
