package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"orgcomply/internal/config"
	"orgcomply/internal/domain"
)

const (
	ContextKeyOrganization = "organization"
	ContextKeyActor        = "actor"
	ContextKeyClaims       = "claims"
)

// Claims is the token payload issued by the campus identity provider. The
// organization claim is the only authority this service trusts; tokens are
// never issued here.
type Claims struct {
	Organization string `json:"organization"`
	jwt.RegisteredClaims
}

// AuthMiddleware returns Gin middleware that validates bearer tokens and
// injects the caller's organization context. Tokens from organizations
// outside the configured hierarchy are rejected even when the signature is
// valid.
func AuthMiddleware(cfg *config.JWTConfig, hier *domain.Hierarchy) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := validateToken(token, cfg)
		if err != nil || claims.Organization == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}
		if !hier.Knows(claims.Organization) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNKNOWN_ORGANIZATION", "message": "organization is not part of the escalation hierarchy"},
			})
			return
		}

		c.Set(ContextKeyOrganization, claims.Organization)
		c.Set(ContextKeyActor, claims.Subject)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

func validateToken(token string, cfg *config.JWTConfig) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GetOrgContext extracts the caller's organization context from the Gin context.
func GetOrgContext(c *gin.Context) (domain.OrgContext, error) {
	org, exists := c.Get(ContextKeyOrganization)
	if !exists {
		return domain.OrgContext{}, domain.ErrUnauthorized
	}
	actor, _ := c.Get(ContextKeyActor)
	view := domain.OrgContext{Organization: org.(string)}
	if actor != nil {
		view.Actor = actor.(string)
	}
	return view, nil
}
