package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/models"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "session_token"

const (
	ctxCustomerKey = "customer"
	ctxTokenKey    = "session_token"
)

// RequireAuth resolves the authenticated customer from the session cookie
// and injects it into the request context. It fails closed: without a valid
// session the request is redirected to the login page.
func RequireAuth(sessions *session.Store, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}

		customerID, err := sessions.CustomerID(c.Request.Context(), token)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}

		customer, err := st.GetCustomerByID(c.Request.Context(), customerID)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}

		c.Set(ctxCustomerKey, customer)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

// currentCustomer returns the customer injected by RequireAuth.
func currentCustomer(c *gin.Context) *models.Customer {
	return c.MustGet(ctxCustomerKey).(*models.Customer)
}

// sessionToken returns the session token injected by RequireAuth.
func sessionToken(c *gin.Context) string {
	return c.MustGet(ctxTokenKey).(string)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
