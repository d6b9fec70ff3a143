package api

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/service"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionCookieMaxAge = 86400

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type signupForm struct {
	FirstName       string `form:"fname" binding:"required"`
	LastName        string `form:"lname"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=4,max=20"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

func (h *Handler) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"flashes": h.drainFlashes(c),
	})
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	token, _, err := h.accounts.Login(c.Request.Context(), form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.SetCookie(sessionCookie, token, sessionCookieMaxAge, "/", "", false, true)
	// The cookie is only on the response at this point, so flash against the
	// fresh token directly.
	_ = h.sessions.AddFlash(c.Request.Context(), token, session.Flash{
		Category: "success",
		Message:  "Login successful",
	})

	next := c.Query("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *Handler) signupPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"flashes": h.drainFlashes(c),
	})
}

func (h *Handler) signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup form", "details": err.Error()})
		return
	}
	if form.Password != form.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords must match"})
		return
	}

	customer, err := h.accounts.Signup(c.Request.Context(),
		form.FirstName, form.LastName, form.Email, form.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer_id": customer.ID,
		"first_name":  customer.FirstName,
	})
}

func (h *Handler) logout(c *gin.Context) {
	_ = h.accounts.Logout(c.Request.Context(), sessionToken(c))
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// --- profile ---

func (h *Handler) viewProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"customer": currentCustomer(c),
		"flashes":  h.drainFlashes(c),
	})
}

func (h *Handler) updateAddress(c *gin.Context) {
	customer := currentCustomer(c)

	address := c.PostForm("newAddress")
	if err := h.accounts.UpdateAddress(c.Request.Context(), customer.ID, address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
		return
	}

	h.flash(c, "success", "Address updated successfully")
	c.Redirect(http.StatusSeeOther, "/cart/")
}

func (h *Handler) updatePassword(c *gin.Context) {
	customer := currentCustomer(c)

	err := h.accounts.UpdatePassword(c.Request.Context(), customer,
		c.PostForm("oldPassword"), c.PostForm("newPassword"), c.PostForm("confirmPassword"))
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.flash(c, "error", "Invalid old password. Please try again.")
	case errors.Is(err, service.ErrPasswordMismatch):
		h.flash(c, "error", "New password and confirm password do not match. Please try again.")
	case errors.Is(err, service.ErrPasswordUnchanged):
		h.flash(c, "info", "New password cannot match the old password")
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	default:
		h.flash(c, "success", "Password updated successfully.")
	}
	c.Redirect(http.StatusSeeOther, "/profile")
}
