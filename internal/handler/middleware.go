package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"newsdesk/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	userContextKey  = "user"
)

type TokenStore interface {
	GetUserByToken(ctx context.Context, token string) (*model.User, error)
}

// RequestID tags the request and response with an id, reusing the caller's when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequireUser resolves the bearer token to a user or aborts with 401.
func RequireUser(store TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}

		user, err := store.GetUserByToken(c.Request.Context(), token)
		if err != nil {
			slog.Error("error resolving token", "error", err, "request_id", c.GetString(requestIDHeader))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentUser(c *gin.Context) *model.User {
	user, _ := c.MustGet(userContextKey).(*model.User)
	return user
}
