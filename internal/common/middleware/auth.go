package middleware

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/logger"
)

const (
	authContextKey = "auth"
	bearerSchema   = "Bearer "

	RoleHunter     = "HUNTER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

// Claims is the token payload issued by the identity service.
type Claims struct {
	HunterID  int64  `json:"hunter_id"`
	Role      string `json:"role"`
	ReserveID string `json:"reserve_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthContext is what handlers see of the authenticated caller.
type AuthContext struct {
	HunterID  int64
	Role      string
	ReserveID string
}

func (a AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// CanAccessReserve reports whether the caller may read data of reserveID.
// Superadmins see every reserve.
func (a AuthContext) CanAccessReserve(reserveID string) bool {
	return a.Role == RoleSuperAdmin || a.ReserveID == reserveID
}

// JWTAuth verifies the HS256 bearer token and stores the AuthContext.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			Abort(c, errors.NewUnauthorizedError("authorization header is required"))
			return
		}
		if !strings.HasPrefix(header, bearerSchema) {
			Abort(c, errors.NewUnauthorizedError("authorization header must start with Bearer"))
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, bearerSchema), claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			reason := "invalid token"
			if stderrors.Is(err, jwt.ErrTokenExpired) {
				reason = "token has expired"
			}
			logger.Warn().Err(err).Str("request_id", getRequestID(c)).Msg("Token validation failed")
			Abort(c, errors.NewUnauthorizedError(reason))
			return
		}

		if claims.HunterID == 0 || !validRole(claims.Role) {
			Abort(c, errors.NewUnauthorizedError("invalid token claims"))
			return
		}
		if claims.Role != RoleSuperAdmin && claims.ReserveID == "" {
			Abort(c, errors.NewUnauthorizedError("reserve is required for this role"))
			return
		}

		c.Set(authContextKey, AuthContext{
			HunterID:  claims.HunterID,
			Role:      claims.Role,
			ReserveID: claims.ReserveID,
		})
		c.Next()
	}
}

// RequireRole lets through only callers holding one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuth(c)
		if !ok {
			Abort(c, errors.NewUnauthorizedError("authentication required"))
			return
		}
		for _, role := range roles {
			if auth.Role == role {
				c.Next()
				return
			}
		}
		Abort(c, errors.NewForbiddenError("role "+auth.Role+" is not allowed"))
	}
}

// RequireAdmin is RequireRole(ADMIN, SUPERADMIN).
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin, RoleSuperAdmin)
}

// RequireReserveAccess checks the :reserveId path parameter against the token.
func RequireReserveAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuth(c)
		if !ok {
			Abort(c, errors.NewUnauthorizedError("authentication required"))
			return
		}
		if !auth.CanAccessReserve(c.Param("reserveId")) {
			Abort(c, errors.NewForbiddenError("reserve belongs to another tenant"))
			return
		}
		c.Next()
	}
}

func GetAuth(c *gin.Context) (AuthContext, bool) {
	v, exists := c.Get(authContextKey)
	if !exists {
		return AuthContext{}, false
	}
	auth, ok := v.(AuthContext)
	return auth, ok
}

// SetAuth is used by tests and internal callers to inject an identity.
func SetAuth(c *gin.Context, auth AuthContext) {
	c.Set(authContextKey, auth)
}

func validRole(role string) bool {
	return role == RoleHunter || role == RoleAdmin || role == RoleSuperAdmin
}
