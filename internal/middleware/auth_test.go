package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgcomply/internal/config"
	"orgcomply/internal/domain"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", Issuer: "orgcomply-identity"}
}

func testHier() *domain.Hierarchy {
	return domain.NewHierarchy(map[string]string{
		"LSG-Engineering": "USG",
		"USG":             "OSAS",
	})
}

func signToken(t *testing.T, secret, issuer, org string) string {
	t.Helper()
	claims := Claims{
		Organization: org,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "student-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authTestRouter(cfg *config.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", AuthMiddleware(cfg, testHier()), func(c *gin.Context) {
		view, err := GetOrgContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"org": view.Organization, "actor": view.Actor})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testJWTConfig()
	r := authTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.Secret, cfg.Issuer, "LSG-Engineering"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LSG-Engineering")
	assert.Contains(t, w.Body.String(), "student-123")
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cfg := testJWTConfig()
	r := authTestRouter(cfg)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", cfg.Issuer, "LSG-Engineering")},
		{"wrong issuer", "Bearer " + signToken(t, cfg.Secret, "someone-else", "LSG-Engineering")},
		{"missing organization claim", "Bearer " + signToken(t, cfg.Secret, cfg.Issuer, "")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_UnknownOrganization(t *testing.T) {
	cfg := testJWTConfig()
	r := authTestRouter(cfg)

	// A validly signed token for an org outside the hierarchy is rejected.
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.Secret, cfg.Issuer, "Glee Club"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_ORGANIZATION")
}
