package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/ai"
	"github.com/k-krishaa/Books/internal/auth"
	"github.com/k-krishaa/Books/internal/config"
	"github.com/k-krishaa/Books/internal/database"
	"github.com/k-krishaa/Books/internal/email"
	"github.com/k-krishaa/Books/internal/handlers"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/k-krishaa/Books/internal/routes"
	"github.com/k-krishaa/Books/internal/services"
)

const sessionPurgeInterval = time.Hour

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx := context.Background()

	// 1. --- Database Connection, Schema and Seed Data ---
	db, err := database.OpenDB(ctx, cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	if err := database.SeedCategories(ctx, db); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	if cfg.SeedSampleProducts {
		catalog, err := database.DefaultCatalog()
		if err != nil {
			log.Fatalf("Failed to read sample catalog: %v", err)
		}
		if err := database.SeedProducts(ctx, db, catalog); err != nil {
			log.Fatalf("Failed to seed products: %v", err)
		}
	}

	// 2. --- Repositories and Services ---
	tokens, err := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	mailer := email.LogMailer{}

	catalogRepo := repository.NewCatalogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	authService := services.NewAuthService(repository.NewUserRepository(db), repository.NewSessionRepository(db), tokens, mailer)
	if cfg.AdminConfigured() {
		if err := authService.BootstrapAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("Failed to provision admin account: %v", err)
		}
	} else {
		log.Println("No ADMIN_USERNAME/ADMIN_PASSWORD set; skipping admin bootstrap.")
	}

	app := &handlers.Handlers{
		Catalog:       services.NewCatalogService(catalogRepo),
		Auth:          authService,
		Cart:          services.NewCartService(cartRepo, catalogRepo),
		Wishlist:      services.NewWishlistService(repository.NewWishlistRepository(db), catalogRepo),
		Checkout:      services.NewCheckoutService(db, cartRepo, catalogRepo, orderRepo),
		Orders:        services.NewOrderService(orderRepo),
		Admin:         services.NewAdminService(catalogRepo, orderRepo),
		Mailer:        mailer,
		UploadDir:     cfg.UploadDir,
		SecureCookies: cfg.IsProd(),
		FlashKey:      []byte(cfg.SessionSecret),
	}

	// 3. --- AI Service Initialization (optional) ---
	if cfg.GeminiAPIKey != "" {
		blurbs, err := ai.NewBlurbService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("WARNING: AI drafting disabled: %v", err)
		} else {
			defer blurbs.Close()
			app.Blurbs = blurbs
		}
	}

	// 4. --- Background Worker: expired session cleanup ---
	go func() {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()

		log.Println("Background worker started: purging expired sessions hourly")
		for range ticker.C {
			n, err := authService.PurgeExpiredSessions(ctx)
			if err != nil {
				log.Printf("ERROR: session purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Purged %d expired sessions", n)
			}
		}
	}()

	// --- Router Setup ---
	router, err := routes.SetupRouter(app)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	// --- Start Server ---
	log.Printf("Starting bookstore server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
