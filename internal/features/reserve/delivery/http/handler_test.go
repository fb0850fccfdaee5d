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

	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/features/reserve/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, req *models.CreateReserveRequest) (*models.Reserve, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.Reserve)
	return r, args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id string) (*models.Reserve, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Reserve)
	return r, args.Error(1)
}

func (m *mockService) List(ctx context.Context) ([]*models.Reserve, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]*models.Reserve)
	return r, args.Error(1)
}

func (m *mockService) GetSettings(ctx context.Context, reserveID string) (*models.Settings, error) {
	args := m.Called(ctx, reserveID)
	s, _ := args.Get(0).(*models.Settings)
	return s, args.Error(1)
}

func (m *mockService) UpdateSettings(ctx context.Context, reserveID string, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	args := m.Called(ctx, reserveID, req)
	s, _ := args.Get(0).(*models.Settings)
	return s, args.Error(1)
}

func (m *mockService) CreateZone(ctx context.Context, reserveID string, req *models.CreateZoneRequest) (*models.Zone, error) {
	args := m.Called(ctx, reserveID, req)
	z, _ := args.Get(0).(*models.Zone)
	return z, args.Error(1)
}

func (m *mockService) GetZone(ctx context.Context, id int64) (*models.Zone, error) {
	args := m.Called(ctx, id)
	z, _ := args.Get(0).(*models.Zone)
	return z, args.Error(1)
}

func (m *mockService) ListZones(ctx context.Context, reserveID string) ([]*models.Zone, error) {
	args := m.Called(ctx, reserveID)
	z, _ := args.Get(0).([]*models.Zone)
	return z, args.Error(1)
}

func (m *mockService) SetZoneActive(ctx context.Context, id int64, active bool) error {
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
	NewReserveHandler(svc).RegisterRoutes(api)
	return r
}

func TestGetSettingsOtherTenantForbidden(t *testing.T) {
	svc := new(mockService)
	r := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleHunter, ReserveID: "r1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reserves/r2/settings", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "GetSettings", mock.Anything, mock.Anything)
}

func TestGetSettings(t *testing.T) {
	svc := new(mockService)
	svc.On("GetSettings", mock.Anything, "r1").Return(models.DefaultSettings("r1"), nil)
	r := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleHunter, ReserveID: "r1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reserves/r1/settings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []int{2, 5}, got.SilenceDays)
}

func TestUpdateSettingsRequiresAdmin(t *testing.T) {
	svc := new(mockService)
	r := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleHunter, ReserveID: "r1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reserves/r1/settings", strings.NewReader(`{"booking_window_enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateReserveSuperadminOnly(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, mock.Anything).Return(&models.Reserve{ID: "new", Name: "Alpago"}, nil)

	body := `{"name":"Alpago","comune":"Tambre","contact_email":"info@alpago.it"}`

	admin := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleAdmin, ReserveID: "r1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reserves", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	admin.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	super := newRouter(svc, middleware.AuthContext{HunterID: 2, Role: middleware.RoleSuperAdmin})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/reserves", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	super.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSetZoneActiveChecksTenant(t *testing.T) {
	svc := new(mockService)
	svc.On("GetZone", mock.Anything, int64(7)).Return(&models.Zone{ID: 7, ReserveID: "r2"}, nil)
	r := newRouter(svc, middleware.AuthContext{HunterID: 1, Role: middleware.RoleAdmin, ReserveID: "r1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/zones/7/active", strings.NewReader(`{"is_active":false}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "SetZoneActive", mock.Anything, mock.Anything, mock.Anything)
}
