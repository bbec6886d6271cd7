package middleware

import (
	"net/http"

	"taskapp/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session"

// Context keys populated by SessionAuth.
const (
	UsernameKey = "username"
	IsAdminKey  = "is_admin"
)

// SessionAuth verifies the session cookie and stores the request principal
// in the context. Requests without a valid session are redirected to the
// login page.
func SessionAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		principal, err := auth.ParseToken(tokenStr, secret)
		if err != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(UsernameKey, principal.Username)
		c.Set(IsAdminKey, principal.IsAdmin)
		c.Next()
	}
}

// AdminRequired gates admin-only routes. It must run after SessionAuth.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			c.String(http.StatusForbidden, "Access denied! Admins only.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal rebuilds the principal stored by SessionAuth.
func CurrentPrincipal(c *gin.Context) auth.Principal {
	return auth.Principal{
		Username: c.GetString(UsernameKey),
		IsAdmin:  c.GetBool(IsAdminKey),
	}
}
