package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/hunter/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Get(ctx context.Context, id int64) (*models.Hunter, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*models.Hunter)
	return h, args.Error(1)
}

func (m *mockService) GetActive(ctx context.Context, id int64) (*models.Hunter, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*models.Hunter)
	return h, args.Error(1)
}

func (m *mockService) GetByIDs(ctx context.Context, ids []int64) ([]*models.Hunter, error) {
	args := m.Called(ctx, ids)
	h, _ := args.Get(0).([]*models.Hunter)
	return h, args.Error(1)
}

func (m *mockService) ListByReserve(ctx context.Context, reserveID string) ([]*models.Hunter, error) {
	args := m.Called(ctx, reserveID)
	h, _ := args.Get(0).([]*models.Hunter)
	return h, args.Error(1)
}

func (m *mockService) UpdateLotteryProfile(ctx context.Context, id int64, update *models.LotteryProfileUpdate) (*models.Hunter, error) {
	args := m.Called(ctx, id, update)
	h, _ := args.Get(0).(*models.Hunter)
	return h, args.Error(1)
}

func (m *mockService) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func newRouter(svc *mockService, auth middleware.AuthContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		middleware.SetAuth(c, auth)
		c.Next()
	})
	NewHunterHandler(svc).RegisterRoutes(api)
	return r
}

func TestGetMe(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, int64(3)).Return(&models.Hunter{
		ID: 3, FirstName: "Luca", LastName: "Bianchi", Role: models.RoleHunter, ReserveID: "r1", IsEsperto: true,
	}, nil)
	r := newRouter(svc, middleware.AuthContext{HunterID: 3, Role: middleware.RoleHunter, ReserveID: "r1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/hunters/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.HunterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Luca Bianchi", got.FullName)
	assert.True(t, got.Lottery.IsEsperto)
}

func TestGetHunterNotFound(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, int64(8)).Return(nil, errors.NewHunterNotFoundError(8))
	r := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleAdmin, ReserveID: "r1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/hunters/8", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateLotteryProfileOtherReserve(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, int64(4)).Return(&models.Hunter{ID: 4, ReserveID: "r2"}, nil)
	r := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleAdmin, ReserveID: "r1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/hunters/4/lottery-profile", strings.NewReader(`{"is_esperto":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "UpdateLotteryProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLotteryProfileRejectsUnknownGroup(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, int64(4)).Return(&models.Hunter{ID: 4, ReserveID: "r1"}, nil)
	svc.On("UpdateLotteryProfile", mock.Anything, int64(4), mock.Anything).
		Return(nil, errors.NewValidationError("hunter_group", "must be one of A, B, C, D"))
	r := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleAdmin, ReserveID: "r1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/hunters/4/lottery-profile", strings.NewReader(`{"hunter_group":"Z"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
