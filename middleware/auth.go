package middleware

import (
	"context"
	"net/http"
	"strings"

	"courtside/services/identity"
	"courtside/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by Auth.
const (
	CtxUserID    = "uid"
	CtxRole      = "role"
	CtxPrincipal = "principal"
)

// TokenVerifier checks an identity-provider ID token.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*identity.Principal, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// Auth verifies the bearer ID token and requires its role claim to be one of roles.
func Auth(verifier TokenVerifier, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}

		principal, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger(c).Debug("Token rejected", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, identity.Message(err), "")
			return
		}

		if len(roles) > 0 && !contains(roles, principal.Role) {
			utils.JSONError(c, http.StatusForbidden, "This account cannot access this resource", "")
			return
		}

		c.Set(CtxUserID, principal.UID)
		c.Set(CtxRole, principal.Role)
		c.Set(CtxPrincipal, principal)
		c.Next()
	}
}

// PrincipalFrom returns the caller set by Auth.
func PrincipalFrom(c *gin.Context) (*identity.Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*identity.Principal)
	return p, ok
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
