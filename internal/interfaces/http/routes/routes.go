// internal/interfaces/http/routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/eshop-backend/internal/config"
	"github.com/your-org/eshop-backend/internal/domain/cart"
	"github.com/your-org/eshop-backend/internal/domain/catalog"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
	"github.com/your-org/eshop-backend/internal/domain/customer"
	"github.com/your-org/eshop-backend/internal/domain/order"
	"github.com/your-org/eshop-backend/internal/domain/payment"
	"github.com/your-org/eshop-backend/internal/interfaces/http/handlers"
	"github.com/your-org/eshop-backend/internal/interfaces/http/middleware"
	"github.com/your-org/eshop-backend/internal/pkg/invoicing"
	"github.com/your-org/eshop-backend/internal/pkg/notification"
	"github.com/your-org/eshop-backend/internal/pkg/shipping"
	"gorm.io/gorm"
)

// SetupRoutes wires the domain services together and registers all API routes.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	log := newLogger(cfg)

	// Repositories and collaborators
	orderRepo := order.NewGormRepository(db)
	shippingCalc := shipping.NewFlatRateCalculator(
		cfg.Shipping.CostCZK, cfg.Shipping.CostEUR, cfg.Shipping.TaxRate, cfg.Shipping.Countries)
	invoicingClient := invoicing.NewClient(
		cfg.Invoicing.BaseURL, cfg.Invoicing.Email, cfg.Invoicing.APIKey, cfg.Invoicing.CompanyID, log)
	notifier := notification.NewLogNotifier(log)

	// Domain services
	catalogService := catalog.NewService(db)
	couponService := coupon.NewService(db, orderRepo)
	customerService := customer.NewService(db)
	cartService := cart.NewService(redisClient, catalogService, couponService, cfg)
	paymentService := payment.NewService(orderRepo, invoicingClient, notifier, log)
	orderService := order.NewService(orderRepo, customerService, catalogService, couponService,
		paymentService, shippingCalc, invoicingClient, notifier, log)

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	couponHandler := handlers.NewCouponHandler(couponService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, customerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	setupCatalogRoutes(rg, catalogHandler)
	setupCartRoutes(rg, cartHandler)
	setupOrderRoutes(rg, cfg, orderHandler)
	setupWebhookRoutes(rg, paymentHandler)
	setupAdminRoutes(rg, cfg, catalogHandler, couponHandler, orderHandler, paymentHandler)
}

// setupCatalogRoutes sets up public catalog routes
func setupCatalogRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	products := rg.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("/:id/price", h.QuotePrice)
	}
}

// setupCartRoutes sets up session cart routes
func setupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.DELETE("", h.ClearCart)
		cartGroup.POST("/items", h.AddItem)
		cartGroup.PUT("/items/:fingerprint", h.UpdateItem)
		cartGroup.DELETE("/items/:fingerprint", h.RemoveItem)
		cartGroup.POST("/coupon", h.ApplyCoupon)
		cartGroup.DELETE("/coupon", h.RemoveCoupon)
	}
}

// setupOrderRoutes sets up checkout and order lookup routes
func setupOrderRoutes(rg *gin.RouterGroup, cfg *config.Config, h *handlers.OrderHandler) {
	orders := rg.Group("/orders")
	orders.Use(middleware.OptionalAuthMiddleware(cfg)) // Optional auth for staff lookups
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/code/:code", h.GetOrderByCode)
	}
}

// setupWebhookRoutes sets up invoicing provider webhook routes
func setupWebhookRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/invoicing", h.Webhook)
	}
}

// setupAdminRoutes sets up staff routes behind JWT authentication
func setupAdminRoutes(rg *gin.RouterGroup, cfg *config.Config,
	catalogHandler *handlers.CatalogHandler, couponHandler *handlers.CouponHandler,
	orderHandler *handlers.OrderHandler, paymentHandler *handlers.PaymentHandler) {

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg)) // Require authentication
	admin.Use(middleware.AdminMiddleware())   // Require admin privileges
	{
		// Catalog management
		products := admin.Group("/products")
		{
			products.POST("", catalogHandler.AdminCreateProduct)
			products.PUT("/:id", catalogHandler.AdminUpdateProduct)
		}
		admin.DELETE("/tax-rates/:id", catalogHandler.AdminDeactivateTaxRate)

		// Coupon management
		coupons := admin.Group("/coupons")
		{
			coupons.GET("/:code", couponHandler.AdminGetCoupon)
			coupons.POST("", couponHandler.AdminCreateCoupon)
			coupons.PUT("/:id", couponHandler.AdminUpdateCoupon)
			coupons.DELETE("/:id", couponHandler.AdminDeactivateCoupon)
		}

		// Order and payment management
		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.AdminListOrders)
			orders.POST("/:code/deposit-paid", paymentHandler.AdminMarkDepositPaid)
			orders.POST("/:code/paid", paymentHandler.AdminMarkFullyPaid)
		}
	}
}

// newLogger builds the shared application logger from config.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
