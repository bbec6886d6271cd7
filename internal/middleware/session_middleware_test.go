package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskapp/internal/auth"
	"taskapp/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const jwtSecret = "test-secret-key"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	protected := r.Group("/protected")
	protected.Use(middleware.SessionAuth(jwtSecret))

	protected.GET("/resource", func(c *gin.Context) {
		username, exists := c.Get(middleware.UsernameKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Username not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Access granted",
			"username": username,
		})
	})

	admin := protected.Group("/")
	admin.Use(middleware.AdminRequired())
	admin.GET("/admin-resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Admin access granted"})
	})

	return r
}

func sessionRequest(method, path string, principal *auth.Principal) *http.Request {
	req, _ := http.NewRequest(method, path, nil)
	if principal != nil {
		token, _ := auth.GenerateToken(*principal, jwtSecret, time.Hour)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	return req
}

func TestSessionAuth_ValidSession(t *testing.T) {
	// Arrange
	router := setupRouter()
	req := sessionRequest("GET", "/protected/resource", &auth.Principal{Username: "alice"})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), "alice")
}

func TestSessionAuth_NoCookie(t *testing.T) {
	// Arrange
	router := setupRouter()
	req := sessionRequest("GET", "/protected/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: redirected to the login page
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "invalid-token"})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	// Arrange
	router := setupRouter()
	token, _ := auth.GenerateToken(auth.Principal{Username: "alice"}, jwtSecret, -time.Hour)
	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))
}

func TestAdminRequired_NonAdmin(t *testing.T) {
	// Arrange
	router := setupRouter()
	req := sessionRequest("GET", "/protected/admin-resource", &auth.Principal{Username: "alice", IsAdmin: false})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Access denied! Admins only.", resp.Body.String())
}

func TestAdminRequired_Admin(t *testing.T) {
	// Arrange
	router := setupRouter()
	req := sessionRequest("GET", "/protected/admin-resource", &auth.Principal{Username: "root", IsAdmin: true})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Admin access granted")
}
