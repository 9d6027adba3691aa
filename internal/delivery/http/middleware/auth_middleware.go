package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
)

// AuthMiddleware verifies the access token and loads the caller into the
// request context. The role always comes from the database, never from
// the token, so role changes and suspensions take effect immediately.
func AuthMiddleware(tokens *auth.TokenManager, revoked *auth.RevocationList, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// 1. Try the Authorization header
		if h := c.GetHeader("Authorization"); h != "" {
			tokenString = strings.TrimPrefix(h, "Bearer ")
		} else {
			// 2. Fall back to the cookie
			if cookie, err := c.Cookie("auth_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized,
				"Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		if revoked.IsRevoked(c.Request.Context(), claims.ID) {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token has been revoked", nil)
			c.Abort()
			return
		}

		// The account row decides login eligibility and the live role.
		user, err := authUC.GetCurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "User not found", nil)
			c.Abort()
			return
		}
		if !user.CanLogin() {
			response.Error(c, http.StatusForbidden, apperror.CodeAccessDenied, "This account is not active", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), user.Role)
		c.Set(string(domain.KeyTokenID), claims.ID)

		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, apperror.CodeAccessDenied,
			"You do not have permission to access this resource", nil)
		c.Abort()
	}
}

// WorkerAuth guards the worker callback endpoints with a shared token.
// An empty configured token disables the endpoints entirely.
func WorkerAuth(workerToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if workerToken == "" {
			response.Error(c, http.StatusForbidden, apperror.CodeAccessDenied,
				"Worker endpoints are not enabled", nil)
			c.Abort()
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if got != workerToken {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid worker token", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
