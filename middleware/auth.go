package middleware

import (
	"net/http"
	"strings"

	userRepo "roame/database/repository/user"
	"roame/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenCookie carries the session JWT for browser clients.
const TokenCookie = "token"

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// JWTAuthMiddleware requires a valid token for an existing user and puts
// "userID" and "user" in the context.
func JWTAuthMiddleware(repo userRepo.UserRepository) gin.HandlerFunc {
	return authenticate(repo, false)
}

// OptionalAuthMiddleware resolves the user when a valid token is present
// and lets anonymous requests through.
func OptionalAuthMiddleware(repo userRepo.UserRepository) gin.HandlerFunc {
	return authenticate(repo, true)
}

func authenticate(repo userRepo.UserRepository, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		deny := func() {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to do that"})
		}

		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			deny()
			return
		}
		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			deny()
			return
		}

		usr, err := repo.GetByID(c.Request.Context(), userID)
		if err != nil {
			utils.GetLogger().Error("Auth: failed to load user", zap.String("userId", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication error"})
			return
		}
		if usr == nil {
			deny()
			return
		}

		c.Set("userID", usr.ID)
		c.Set("user", usr)
		c.Next()
	}
}
