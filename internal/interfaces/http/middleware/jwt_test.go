package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduplatform/backend/internal/domain/identity"
	"github.com/eduplatform/backend/internal/infrastructure/auth"
	"github.com/eduplatform/backend/internal/infrastructure/config"
	"github.com/eduplatform/backend/internal/interfaces/http/middleware"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "eduplatform-test",
		MaxRefreshCount:        10,
	})
}

func issueAccessToken(t *testing.T, svc *auth.JWTService, role string) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "student@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

type fakeBlacklist struct {
	revoked     map[string]bool
	invalidated bool
	err         error
}

func (f *fakeBlacklist) AddToBlacklist(_ context.Context, jti string, _ time.Duration) error {
	if f.revoked == nil {
		f.revoked = make(map[string]bool)
	}
	f.revoked[jti] = true
	return nil
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

func (f *fakeBlacklist) AddUserTokensToBlacklist(_ context.Context, _ string, _ time.Duration) error {
	f.invalidated = true
	return nil
}

func (f *fakeBlacklist) IsUserTokenInvalidated(_ context.Context, _ string, _ time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.invalidated, nil
}

func newJWTTestRouter(svc *auth.JWTService, blacklist auth.TokenBlacklist) (*gin.Engine, *string) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.JWTAuth(svc, blacklist, zap.NewNop()))

	var seenUserID string
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		seenUserID = middleware.GetJWTUserID(c)
		c.Status(http.StatusOK)
	})
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, &seenUserID
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(t)
	router, seenUserID := newJWTTestRouter(svc, nil)

	token := issueAccessToken(t, svc, string(identity.RoleStudent))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, *seenUserID)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	svc := newTestJWTService(t)
	router, _ := newJWTTestRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	svc := newTestJWTService(t)
	router, _ := newJWTTestRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	svc := newTestJWTService(t)
	router, _ := newJWTTestRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	expiredSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware",
		AccessTokenExpiration:  -time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "eduplatform-test",
	})
	token := issueAccessToken(t, expiredSvc, string(identity.RoleStudent))

	router, _ := newJWTTestRouter(expiredSvc, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	svc := newTestJWTService(t)
	router, _ := newJWTTestRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_BlacklistedToken(t *testing.T) {
	svc := newTestJWTService(t)
	token := issueAccessToken(t, svc, string(identity.RoleStudent))

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	blacklist := &fakeBlacklist{}
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

	router, _ := newJWTTestRouter(svc, blacklist)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuth_UserTokensInvalidated(t *testing.T) {
	svc := newTestJWTService(t)
	token := issueAccessToken(t, svc, string(identity.RoleStudent))

	blacklist := &fakeBlacklist{invalidated: true}
	router, _ := newJWTTestRouter(svc, blacklist)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuth_BlacklistFailureAllowsRequest(t *testing.T) {
	svc := newTestJWTService(t)
	token := issueAccessToken(t, svc, string(identity.RoleStudent))

	blacklist := &fakeBlacklist{err: errors.New("redis connection refused")}
	router, _ := newJWTTestRouter(svc, blacklist)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(t)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.JWTAuth(svc, nil, zap.NewNop()))
	router.DELETE("/api/v1/users/:id", middleware.RequireRole(string(identity.RoleAdmin)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	t.Run("admin allowed", func(t *testing.T) {
		token := issueAccessToken(t, svc, string(identity.RoleAdmin))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("student forbidden", func(t *testing.T) {
		token := issueAccessToken(t, svc, string(identity.RoleStudent))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})
}
