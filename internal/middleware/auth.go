package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/auth"
)

// KeyUserID is the context key the auth middlewares store the user id under.
const KeyUserID = "userID"

// AdminChecker decides whether a signed-in user may use admin routes.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// AuthMiddleware requires a valid JWT token
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtSecret)
		if !ok {
			c.Abort()
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

// AdminMiddleware requires a valid JWT token AND the user to be an admin.
// The role claim is not trusted on its own; checker is asked on every
// request so a demoted admin loses access before the token expires.
func AdminMiddleware(jwtSecret string, checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtSecret)
		if !ok {
			c.Abort()
			return
		}

		isAdmin, err := checker.IsAdmin(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not verify admin role", "code": "persistence_unavailable"})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required", "code": "unauthorized_action"})
			c.Abort()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware extracts user info if token is present, but doesn't require it
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		if claims, err := auth.ValidateAccessToken(token, jwtSecret); err == nil {
			setUser(c, claims)
		}
		c.Next()
	}
}

// UserID returns the signed-in user's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(KeyUserID)
}

func bearerClaims(c *gin.Context, jwtSecret string) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
		return nil, false
	}

	token, ok := bearerToken(authHeader)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		return nil, false
	}

	claims, err := auth.ValidateAccessToken(token, jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return nil, false
	}
	return claims, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

func setUser(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyUserID, claims.UserID)
}
