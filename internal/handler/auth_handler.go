package handler

import (
	"net/http"
	"strings"
	"time"

	"taskapp/internal/auth"
	"taskapp/internal/middleware"
	"taskapp/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userRepo   *repository.UserRepository
	secret     string
	sessionTTL time.Duration
}

func NewAuthHandler(userRepo *repository.UserRepository, secret string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// LoginPage serves the login page data.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Log in with username and passcode"})
}

// Login matches the submitted credentials against a stored user and, on
// success, issues the session cookie. The username is trimmed and
// lowercased; the passcode is compared exactly.
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.ToLower(strings.TrimSpace(c.PostForm("username")))
	passcode := c.PostForm("passcode")

	user, err := h.userRepo.FindByCredentials(c.Request.Context(), username, passcode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if user == nil {
		c.String(http.StatusUnauthorized, "Invalid username or passcode")
		return
	}

	principal := auth.Principal{Username: user.Username, IsAdmin: user.IsAdmin}
	token, err := auth.GenerateToken(principal, h.secret, h.sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session cookie. Safe to call without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// EditAccountPage serves the current user's account data.
func (h *AuthHandler) EditAccountPage(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	c.JSON(http.StatusOK, gin.H{
		"username": principal.Username,
		"is_admin": principal.IsAdmin,
	})
}

// EditAccount changes the current user's passcode. Both submitted values
// must be non-empty and equal; the old passcode is not required.
func (h *AuthHandler) EditAccount(c *gin.Context) {
	passcode := c.PostForm("passcode")
	confirm := c.PostForm("confirm_passcode")

	if passcode == "" || passcode != confirm {
		c.String(http.StatusBadRequest, "Passcodes must match and not be empty")
		return
	}

	principal := middleware.CurrentPrincipal(c)
	if err := h.userRepo.UpdatePasscode(c.Request.Context(), principal.Username, passcode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
