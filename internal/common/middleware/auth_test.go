package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(JWTAuth(testSecret))
	r.GET("/me", func(c *gin.Context) {
		auth, _ := GetAuth(c)
		c.JSON(http.StatusOK, gin.H{"hunter_id": auth.HunterID, "role": auth.Role})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/reserves/:reserveId", RequireReserveAccess(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newAuthRouter()
	valid := signToken(t, Claims{HunterID: 42, Role: RoleHunter, ReserveID: "res-1"}, testSecret)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(r, "/me", valid)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(42), body["hunter_id"])
		assert.Equal(t, RoleHunter, body["role"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		bad := signToken(t, Claims{HunterID: 42, Role: RoleHunter, ReserveID: "res-1"}, "other")
		assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", bad).Code)
	})

	t.Run("expired", func(t *testing.T) {
		expired := signToken(t, Claims{
			HunterID: 42, Role: RoleHunter, ReserveID: "res-1",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		}, testSecret)
		w := doRequest(r, "/me", expired)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token has expired")
	})

	t.Run("unknown role", func(t *testing.T) {
		tok := signToken(t, Claims{HunterID: 42, Role: "GUEST", ReserveID: "res-1"}, testSecret)
		assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", tok).Code)
	})

	t.Run("hunter without reserve", func(t *testing.T) {
		tok := signToken(t, Claims{HunterID: 42, Role: RoleHunter}, testSecret)
		assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/me", tok).Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r := newAuthRouter()
	hunter := signToken(t, Claims{HunterID: 1, Role: RoleHunter, ReserveID: "res-1"}, testSecret)
	admin := signToken(t, Claims{HunterID: 2, Role: RoleAdmin, ReserveID: "res-1"}, testSecret)
	super := signToken(t, Claims{HunterID: 3, Role: RoleSuperAdmin}, testSecret)

	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", hunter).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/admin", admin).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/admin", super).Code)
}

func TestRequireReserveAccess(t *testing.T) {
	r := newAuthRouter()
	admin := signToken(t, Claims{HunterID: 2, Role: RoleAdmin, ReserveID: "res-1"}, testSecret)
	super := signToken(t, Claims{HunterID: 3, Role: RoleSuperAdmin}, testSecret)

	assert.Equal(t, http.StatusNoContent, doRequest(r, "/reserves/res-1", admin).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "/reserves/res-2", admin).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/reserves/res-2", super).Code)
}
