package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// --- payment ---

// paymentPage guards the mock payment step: a non-empty cart and a profile
// address are required before a card can be entered.
func (h *Handler) paymentPage(c *gin.Context) {
	customer := currentCustomer(c)

	view, err := h.cart.View(c.Request.Context(), customer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if len(view.Lines) == 0 {
		c.Redirect(http.StatusSeeOther, "/cart/")
		return
	}
	if customer.Address == "" {
		h.flash(c, "info", "Address required")
		c.Redirect(http.StatusSeeOther, "/cart/")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_total": view.Total,
		"flashes":    h.drainFlashes(c),
	})
}

func (h *Handler) submitPayment(c *gin.Context) {
	customer := currentCustomer(c)

	view, err := h.cart.View(c.Request.Context(), customer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if len(view.Lines) == 0 {
		c.Redirect(http.StatusSeeOther, "/cart/")
		return
	}
	if customer.Address == "" {
		h.flash(c, "info", "Address required")
		c.Redirect(http.StatusSeeOther, "/cart/")
		return
	}

	var form service.CardForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment form"})
		return
	}

	fieldErrors, err := h.payments.Submit(c.Request.Context(), sessionToken(c), &form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
		return
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	c.Redirect(http.StatusSeeOther, "/order/place")
}

// --- checkout and lifecycle ---

func (h *Handler) placeOrder(c *gin.Context) {
	customer := currentCustomer(c)

	order, err := h.checkout.PlaceOrder(c.Request.Context(), sessionToken(c), customer)
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		h.flash(c, "info", "Cart is empty")
		c.Redirect(http.StatusSeeOther, "/")
		return
	case errors.Is(err, service.ErrPaymentRequired):
		h.flash(c, "error", "Payment unsuccessful")
		c.Redirect(http.StatusSeeOther, "/payment/")
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	h.flash(c, "order_placed_success", strconv.FormatInt(order.ID, 10))
	c.Redirect(http.StatusSeeOther, "/order/confirmed")
}

// viewOrders lists the customer's orders in one status. An unknown status
// string is a not-found condition.
func (h *Handler) viewOrders(c *gin.Context) {
	customer := currentCustomer(c)

	summaries, err := h.orders.ListByStatus(c.Request.Context(), customer.ID, c.Param("ref"))
	if errors.Is(err, service.ErrUnknownStatus) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown order status"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  c.Param("ref"),
		"orders":  summaries,
		"flashes": h.drainFlashes(c),
	})
}

// orderID parses the id segment of a lifecycle route.
func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) changeOrderAddress(c *gin.Context) {
	customer := currentCustomer(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	address := strings.TrimSpace(c.Query("address"))
	err := h.orders.ChangeAddress(c.Request.Context(), customer.ID, id, address)
	switch {
	case errors.Is(err, service.ErrEmptyAddress):
		h.flash(c, "info", "Address cannot be empty")
	case errors.Is(err, service.ErrInvalidTransition):
		h.flash(c, "info", "Address can no longer be changed")
	case err == nil:
		h.flash(c, "success", "Address updated successfully")
	}
	// Ownership misses fall through silently.
	c.Redirect(http.StatusSeeOther, "/order/confirmed")
}

func (h *Handler) orderFeedback(c *gin.Context) {
	customer := currentCustomer(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	_ = h.orders.AttachFeedback(c.Request.Context(), customer.ID, id, c.Query("feedback"))
	c.Redirect(http.StatusSeeOther, "/order/delivered")
}

func (h *Handler) cancelOrder(c *gin.Context) {
	customer := currentCustomer(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	err := h.orders.Cancel(c.Request.Context(), customer.ID, id)
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		h.flash(c, "info", "Order can no longer be cancelled")
	case err == nil:
		h.flash(c, "success", "Order cancelled")
	}
	c.Redirect(http.StatusSeeOther, "/order/cancelled")
}

func (h *Handler) returnOrder(c *gin.Context) {
	customer := currentCustomer(c)
	id, ok := orderID(c)
	if !ok {
		return
	}

	err := h.orders.Return(c.Request.Context(), customer.ID, id)
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		h.flash(c, "info", "Order cannot be returned")
	case err == nil:
		h.flash(c, "success", "Return requested")
	}
	c.Redirect(http.StatusSeeOther, "/order/returned")
}
