package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userId"
	// browsers cannot set headers on a WebSocket handshake
	accessTokenQuery = "access_token"
)

// bearerToken extracts the token from "Authorization: Bearer <t>" or, when
// the header is absent, from ?access_token=. An empty reason means success.
func bearerToken(c *gin.Context) (token, reason string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query(accessTokenQuery); q != "" {
			return q, ""
		}
		return "", "missing Authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "invalid Authorization header format"
	}
	return token, ""
}

// userIdMiddleware rejects requests without a valid token and stores the
// caller's ID under "userId".
func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, reason := bearerToken(c)
	if reason != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}
