package routes

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/handlers"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/views"
)

// SecurityHeaders sets the headers every HTML page should carry.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		c.Next()
	}
}

// SetupRouter builds the engine with logging, recovery, templates and every route.
func SetupRouter(h *handlers.Handlers) (*gin.Engine, error) {
	router := gin.Default()
	if err := Register(router, h); err != nil {
		return nil, err
	}
	return router, nil
}

// Register wires templates, middleware and routes onto an existing engine.
func Register(router *gin.Engine, h *handlers.Handlers) error {
	tmpl, err := views.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = 8 << 20

	if len(h.FlashKey) == 0 {
		return errors.New("flash signing key is empty")
	}

	router.Use(SecurityHeaders())
	router.Use(middleware.FlashSessions(h.FlashKey, h.SecureCookies))
	router.Use(middleware.LoadUser(h.Auth))

	router.GET("/healthz", h.Health)
	router.Static("/uploads", h.UploadDir)
	router.NoRoute(h.NoRoute)

	// --- Catalog (Public) ---
	router.GET("/", h.Home)
	router.GET("/products", h.ListProducts)
	router.GET("/product/:id", h.ShowProduct)

	// --- Auth (Public) ---
	router.GET("/register", h.RegisterForm)
	router.POST("/register", h.Register)
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)

	// --- Shopper routes (login required) ---
	shopper := router.Group("/")
	shopper.Use(middleware.RequireLogin())
	{
		shopper.GET("/cart", h.ViewCart)
		shopper.POST("/add_to_cart/:product_id", h.AddToCart)
		shopper.POST("/update_cart/:item_id", h.UpdateCart)
		shopper.GET("/remove_from_cart/:item_id", h.RemoveFromCart)

		shopper.GET("/wishlist", h.ViewWishlist)
		shopper.GET("/add_to_wishlist/:product_id", h.AddToWishlist)
		shopper.GET("/remove_from_wishlist/:item_id", h.RemoveFromWishlist)

		shopper.GET("/checkout", h.ReviewCheckout)
		shopper.POST("/checkout", h.PlaceOrder)
		shopper.GET("/order_confirmation/:order_id", h.OrderConfirmation)
		shopper.GET("/my-orders", h.MyOrders)
	}

	// --- Admin routes ---
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", h.AdminDashboard)
		admin.GET("/products", h.AdminProducts)
		admin.GET("/product/add", h.NewProductForm)
		admin.POST("/product/add", h.CreateProduct)
		admin.GET("/product/edit/:id", h.EditProductForm)
		admin.POST("/product/edit/:id", h.UpdateProduct)
		admin.GET("/product/delete/:id", h.DeleteProduct)
	}
	return nil
}
