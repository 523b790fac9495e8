package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eduplatform/backend/internal/infrastructure/auth"
	"github.com/eduplatform/backend/internal/interfaces/http/dto"
)

// Context keys populated by the JWT middleware.
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "jwt_user_id"
	JWTEmailKey  = "jwt_email"
	JWTRoleKey   = "jwt_role"
)

// JWTMiddlewareConfig configures the JWT authentication middleware.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger
	// SkipPaths are matched as prefixes against the request path.
	SkipPaths []string
}

// JWTAuth returns a JWT middleware with the default skip list: health
// probes and the unauthenticated auth endpoints.
func JWTAuth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return JWTAuthWithConfig(JWTMiddlewareConfig{
		JWTService: jwtService,
		Blacklist:  blacklist,
		Logger:     logger,
		SkipPaths: []string{
			"/health",
			"/ping",
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
		},
	})
}

// JWTAuthWithConfig returns a JWT middleware with custom configuration.
// Tokens must be presented as "Authorization: Bearer <token>". Blacklist
// lookups fail open: a broken Redis must not take auth down with it.
func JWTAuthWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, skip) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(parts[1])
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if cfg.Blacklist != nil {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn("token blacklist check failed, allowing request",
						zap.String("jti", claims.ID),
						zap.Error(err))
				}
			} else if revoked {
				abortUnauthorized(c, "TOKEN_REVOKED", "token has been revoked")
				return
			}

			if claims.IssuedAt != nil {
				invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
				if err != nil {
					if cfg.Logger != nil {
						cfg.Logger.Warn("user token invalidation check failed, allowing request",
							zap.String("user_id", claims.UserID),
							zap.Error(err))
					}
				} else if invalidated {
					abortUnauthorized(c, "TOKEN_REVOKED", "token has been revoked")
					return
				}
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTEmailKey, claims.Email)
		c.Set(JWTRoleKey, claims.Role)

		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user holds one of
// the given roles. Must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(JWTRoleKey)
		if role == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "authentication required")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "insufficient permissions", GetRequestID(c)))
	}
}

// GetJWTClaims returns the validated claims set by the JWT middleware.
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user's ID, or empty.
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTRole returns the authenticated user's role, or empty.
func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortUnauthorized(c, "TOKEN_EXPIRED", "token has expired")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		abortUnauthorized(c, "TOKEN_REVOKED", "token has been revoked")
	case errors.Is(err, auth.ErrInvalidTokenType):
		abortUnauthorized(c, "TOKEN_INVALID", "wrong token type")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abortUnauthorized(c, "TOKEN_INVALID", "token not yet valid")
	default:
		abortUnauthorized(c, "TOKEN_INVALID", "invalid token")
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
