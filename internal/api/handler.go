package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const latestLimit = 12

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	cart     *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	payments *service.PaymentService
	accounts *service.AccountService
	sessions *session.Store
	store    *store.Store
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	cart *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	payments *service.PaymentService,
	accounts *service.AccountService,
	sessions *session.Store,
	st *store.Store,
) *Handler {
	return &Handler{
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		payments: payments,
		accounts: accounts,
		sessions: sessions,
		store:    st,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", h.home)

	auth := router.Group("/auth")
	{
		auth.GET("/login", h.loginPage)
		auth.POST("/login", h.login)
		auth.GET("/signup", h.signupPage)
		auth.POST("/signup", h.signup)
		auth.GET("/logout", RequireAuth(h.sessions, h.store), h.logout)
	}

	product := router.Group("/product")
	{
		product.GET("/all", h.allProducts)
		product.GET("/category/:name", h.productsByCategory)
		product.GET("/:id", h.productDetails)
	}

	cart := router.Group("/cart", RequireAuth(h.sessions, h.store))
	{
		cart.GET("/", h.viewCart)
		cart.GET("/add-to-cart/:product_id", h.addToCart)
		cart.GET("/increment/:product_id", h.incrementCartItem)
		cart.GET("/decrement/:product_id", h.decrementCartItem)
		cart.GET("/remove/:product_id", h.removeCartItem)
	}

	payment := router.Group("/payment", RequireAuth(h.sessions, h.store))
	{
		payment.GET("/", h.paymentPage)
		payment.POST("/", h.submitPayment)
	}

	// The list route takes a status name and the mutation routes take an
	// order id; gin requires one param name for the shared segment.
	order := router.Group("/order", RequireAuth(h.sessions, h.store))
	{
		order.GET("/place", h.placeOrder)
		order.GET("/:ref", h.viewOrders)
		order.GET("/:ref/change_address", h.changeOrderAddress)
		order.GET("/:ref/feedback", h.orderFeedback)
		order.GET("/:ref/cancel", h.cancelOrder)
		order.GET("/:ref/return", h.returnOrder)
	}

	profile := router.Group("/", RequireAuth(h.sessions, h.store))
	{
		profile.GET("/profile", h.viewProfile)
		profile.POST("/update-address", h.updateAddress)
		profile.POST("/update-password", h.updatePassword)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// flash queues a notice for the next page view; failures are ignored, a
// lost notice is not worth failing the request over.
func (h *Handler) flash(c *gin.Context, category, message string) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return
	}
	_ = h.sessions.AddFlash(c.Request.Context(), token, session.Flash{
		Category: category,
		Message:  message,
	})
}

// drainFlashes returns and clears any queued notices.
func (h *Handler) drainFlashes(c *gin.Context) []session.Flash {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return nil
	}
	flashes, err := h.sessions.Flashes(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return flashes
}

// home renders the storefront landing data
func (h *Handler) home(c *gin.Context) {
	latest, err := h.catalog.LatestProducts(c.Request.Context(), latestLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	trending, err := h.catalog.TrendingProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"latest_products":   latest,
		"trending_products": trending,
		"flashes":           h.drainFlashes(c),
	})
}

// --- catalog ---

func (h *Handler) allProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) productsByCategory(c *gin.Context) {
	name := c.Param("name")
	category, products, err := h.catalog.ProductsByCategory(c.Request.Context(), name)
	if errors.Is(err, service.ErrCategoryNotFound) {
		c.Redirect(http.StatusSeeOther, "/product/all")
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category.Name,
		"products": products,
	})
}

func (h *Handler) productDetails(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, features, err := h.catalog.ProductDetails(c.Request.Context(), productID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product":  product,
		"features": features,
	})
}

// --- cart ---

func (h *Handler) viewCart(c *gin.Context) {
	customer := currentCustomer(c)
	view, err := h.cart.View(c.Request.Context(), customer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart":    view,
		"flashes": h.drainFlashes(c),
	})
}

func (h *Handler) addToCart(c *gin.Context) {
	customer := currentCustomer(c)
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/cart/")
		return
	}

	added, err := h.cart.Add(c.Request.Context(), customer.ID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
		return
	}
	if added {
		h.flash(c, "success", "Product added to the cart!")
	}
	c.Redirect(http.StatusSeeOther, "/cart/")
}

func (h *Handler) incrementCartItem(c *gin.Context) {
	h.mutateCart(c, h.cart.Increment)
}

func (h *Handler) decrementCartItem(c *gin.Context) {
	h.mutateCart(c, h.cart.Decrement)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	h.mutateCart(c, h.cart.Remove)
}

func (h *Handler) mutateCart(c *gin.Context, op func(ctx context.Context, customerID, productID int64) error) {
	customer := currentCustomer(c)
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/cart/")
		return
	}

	if err := op(c.Request.Context(), customer.ID, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart/")
}
