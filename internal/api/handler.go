package api

import (
	"net/http"
	"time"

	"furnistore/config"
	"furnistore/internal/service"
	"furnistore/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler wires HTTP routes to the service layer.
type Handler struct {
	catalog   *service.CatalogService
	carts     *service.CartService
	coupons   *service.CouponService
	checkout  *service.CheckoutService
	orders    *service.OrderService
	batches   *service.BatchService
	stock     *service.StockService
	finalizer *service.Finalizer

	webhookSecret    string
	webhookTolerance time.Duration
	jwtSecret        string

	logger *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	catalog *service.CatalogService,
	carts *service.CartService,
	coupons *service.CouponService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	batches *service.BatchService,
	stock *service.StockService,
	finalizer *service.Finalizer,
	cfg *config.Config,
) *Handler {
	return &Handler{
		catalog:          catalog,
		carts:            carts,
		coupons:          coupons,
		checkout:         checkout,
		orders:           orders,
		batches:          batches,
		stock:            stock,
		finalizer:        finalizer,
		webhookSecret:    cfg.Payment.WebhookSecret,
		webhookTolerance: time.Duration(cfg.Payment.ToleranceSeconds) * time.Second,
		jwtSecret:        cfg.Auth.JWTSecret,
		logger:           util.GetLogger(),
	}
}

// SetupRoutes registers all routes.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(prometheusMiddleware())

	router.GET("/health", h.health)
	router.GET("/ready", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Public catalog.
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/products/:id/reviews", h.listReviews)

	// Payment provider callback. Authenticated by signature, not token.
	api.POST("/webhook/stripe", h.handleWebhook)

	// Customer routes.
	user := api.Group("")
	user.Use(authMiddleware(h.jwtSecret))
	{
		user.GET("/carts", h.getCart)
		user.POST("/carts/items", h.addCartItem)
		user.PUT("/carts/items/:id", h.updateCartItem)
		user.DELETE("/carts/items/:id", h.removeCartItem)

		user.GET("/coupon/user", h.listValidCoupons)
		user.GET("/coupon/validate", h.validateCoupon)

		user.POST("/orders/checkout", h.createCheckoutSession)
		user.GET("/orders", h.listMyOrders)
		user.GET("/orders/:id", h.getOrder)

		user.POST("/reviews", h.addReview)

		user.GET("/wishlist", h.listWishlist)
		user.POST("/wishlist/:productId", h.addToWishlist)
		user.DELETE("/wishlist/:productId", h.removeFromWishlist)
	}

	// Back office.
	admin := api.Group("")
	admin.Use(authMiddleware(h.jwtSecret), adminMiddleware())
	{
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.PATCH("/products/:id/delete", h.deleteProduct)
		admin.POST("/products/:id/colors", h.createColor)
		admin.PUT("/product-colors/:id", h.updateColor)

		admin.POST("/product-batches", h.createBatch)
		admin.GET("/product-batches", h.listBatches)
		admin.GET("/product-batches/:id", h.getBatch)
		admin.GET("/product-batches/:id/units", h.listBatchUnits)
		admin.PUT("/product-batches/:id", h.updateBatch)
		admin.PATCH("/product-batches/:id/delete", h.deleteBatch)

		admin.GET("/stock", h.listStock)
		admin.GET("/stock/colors/:id", h.checkColorStock)

		admin.POST("/coupon", h.createCoupon)
		admin.GET("/coupon", h.listCoupons)
		admin.PUT("/coupon/:id", h.updateCoupon)
		admin.PATCH("/coupon/:id/delete", h.deleteCoupon)

		admin.GET("/admin/orders", h.adminListOrders)
		admin.PUT("/admin/orders/:id/status", h.updateOrderStatus)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
