package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatedesk/internal/pkg/jwt"
	"estatedesk/internal/pkg/response"
)

// RequireRole lets the request through when the token role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if _, ok := allowed[role]; !ok {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Reviewers may approve and send demand drafts and manage templates.
func Reviewers() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin, jwt.RoleAccounts)
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin)
}
