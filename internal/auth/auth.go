// Package auth resolves the session attached to a request into an explicit
// Identity value. Sessions are issued by the external auth provider; this
// service only reads its tables and never mints tokens itself.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foliosite/folio/internal/models"
)

const identityKey = "auth.identity"

// SessionCookie is the cookie name the auth provider stores its token under.
const SessionCookie = "session_token"

// Identity is the caller of the current request.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Middleware looks up the request's session token and, when it maps to a live
// session, stores the resulting Identity in the request context. Requests
// without a valid token pass through anonymous; the Require* gates decide
// whether that matters.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			c.Next()
			return
		}

		var session models.Session
		err := db.Preload("User").Where("token = ?", token).First(&session).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
				return
			}
			c.Next()
			return
		}
		if time.Now().After(session.ExpiresAt) {
			c.Next()
			return
		}

		c.Set(identityKey, Identity{
			UserID: session.UserID,
			Role:   session.User.Role,
		})
		c.Next()
	}
}

// FromContext returns the identity the middleware resolved, if any.
func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := FromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous requests and authenticated non-admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !id.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
