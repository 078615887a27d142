package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/k-krishaa/Books/internal/middleware"
	"github.com/k-krishaa/Books/internal/services"
)

type RegisterInput struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type LoginInput struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// RegisterForm handles GET /register
func (h *Handlers) RegisterForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Errors": map[string]string{}})
}

// Register handles POST /register. It never logs the new user in.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		h.redirectWith(c, "/register", middleware.FlashDanger, "Please fill in the registration form.")
		return
	}

	_, err := h.Auth.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	var verr *services.ValidationError
	switch {
	case err == nil:
		h.redirectWith(c, "/login", middleware.FlashSuccess, "Registration successful. Please log in.")
	case errors.Is(err, services.ErrDuplicateUsername):
		h.redirectWith(c, "/register", middleware.FlashDanger, "That username is already taken.")
	case errors.As(err, &verr):
		h.render(c, http.StatusUnprocessableEntity, "register.html", gin.H{
			"Title":    "Register",
			"Username": input.Username,
			"Email":    input.Email,
			"Errors":   verr.Fields,
		})
	default:
		h.fail(c, err)
	}
}

// LoginForm handles GET /login
func (h *Handlers) LoginForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Login handles POST /login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		h.redirectWith(c, "/login", middleware.FlashDanger, "Invalid username or password.")
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.redirectWith(c, "/login", middleware.FlashDanger, "Invalid username or password.")
			return
		}
		h.fail(c, err)
		return
	}

	middleware.SetSessionCookie(c, res.Token, res.ExpiresAt, h.SecureCookies)
	h.redirectWith(c, "/", middleware.FlashSuccess, "Welcome back, "+res.User.Username+"!")
}

// Logout handles GET /logout. The cookie is only dropped once the session
// row is gone, so a failed logout can be retried.
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.fail(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.SecureCookies)
	h.redirectWith(c, "/", middleware.FlashInfo, "You have been logged out.")
}
