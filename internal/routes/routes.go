package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/lemonpay/internal/config"
	"github.com/example/lemonpay/internal/handlers"
	"github.com/example/lemonpay/internal/middleware"
	"github.com/example/lemonpay/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	catalog := services.NewLemonClient(cfg)
	payments := services.NewPaymentService(db, catalog)
	verifier := services.NewWebhookVerifier(cfg.LemonWebhookSecret)
	google := services.NewGoogleVerifier(cfg.GoogleClientID)

	authHandler := handlers.NewAuthHandler(db, cfg, google)
	paymentHandler := handlers.NewPaymentHandler(payments, verifier, catalog)
	sampleHandler := handlers.NewSampleHandler(db)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "LemonPay API is running"})
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google/", authHandler.GoogleLogin)

	// Webhook is signature-gated, not bearer-authenticated
	api.Post("/webhooks/lemonsqueezy/", paymentHandler.Webhook)

	// Product catalog proxy
	api.Get("/payments/products/", paymentHandler.ListProducts)

	// Sample CRUD
	samples := api.Group("/samples")
	samples.Get("/", sampleHandler.ListSamples)
	samples.Post("/", sampleHandler.CreateSample)
	samples.Get("/:id", sampleHandler.GetSample)
	samples.Put("/:id", sampleHandler.UpdateSample)
	samples.Delete("/:id", sampleHandler.DeleteSample)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/payments/create/", paymentHandler.CreatePayment)
	protected.Get("/payments/history/", paymentHandler.PaymentHistory)
	protected.Get("/account/", paymentHandler.GetAccount)
}
