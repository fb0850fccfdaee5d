package http

import (
	"context"
	"encoding/json"
	"io"
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
	"hunting-reserve-backend/internal/common/validation"
	"hunting-reserve-backend/internal/features/quota/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetAvailable(ctx context.Context, key models.Key) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *mockService) RecordHarvest(ctx context.Context, key models.Key, delta int) (*models.Quota, error) {
	args := m.Called(ctx, key, delta)
	q, _ := args.Get(0).(*models.Quota)
	return q, args.Error(1)
}

func (m *mockService) RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) (*models.Quota, error) {
	args := m.Called(ctx, tx, key, delta)
	q, _ := args.Get(0).(*models.Quota)
	return q, args.Error(1)
}

func (m *mockService) RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) error {
	return m.Called(ctx, tx, key, delta).Error(0)
}

func (m *mockService) BulkReplace(ctx context.Context, reserveID string, req *models.ReplaceRequest) ([]*models.QuotaResponse, error) {
	args := m.Called(ctx, reserveID, req)
	q, _ := args.Get(0).([]*models.QuotaResponse)
	return q, args.Error(1)
}

func (m *mockService) SetActive(ctx context.Context, id int64, group bool, active bool) error {
	return m.Called(ctx, id, group, active).Error(0)
}

func (m *mockService) Get(ctx context.Context, id int64, group bool) (*models.Quota, error) {
	args := m.Called(ctx, id, group)
	q, _ := args.Get(0).(*models.Quota)
	return q, args.Error(1)
}

func (m *mockService) List(ctx context.Context, reserveID, season string, group bool) ([]*models.QuotaResponse, error) {
	args := m.Called(ctx, reserveID, season, group)
	q, _ := args.Get(0).([]*models.QuotaResponse)
	return q, args.Error(1)
}

func (m *mockService) ImportCSV(ctx context.Context, reserveID, season string, r io.Reader) (*models.ImportResult, error) {
	args := m.Called(ctx, reserveID, season, r)
	res, _ := args.Get(0).(*models.ImportResult)
	return res, args.Error(1)
}

func (m *mockService) InvalidateCache(ctx context.Context, reserveID string) {
	m.Called(ctx, reserveID)
}

func newRouter(t *testing.T, svc *mockService, auth middleware.AuthContext) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		middleware.SetAuth(c, auth)
		c.Next()
	})
	NewQuotaHandler(svc).RegisterRoutes(api)
	return r
}

var hunter = middleware.AuthContext{HunterID: 1, Role: middleware.RoleHunter, ReserveID: "r1"}
var admin = middleware.AuthContext{HunterID: 2, Role: middleware.RoleAdmin, ReserveID: "r1"}

func TestAvailable(t *testing.T) {
	svc := new(mockService)
	key := models.Key{ReserveID: "r1", Species: "roe_deer", Category: "M1"}
	svc.On("GetAvailable", mock.Anything, key).Return(3, nil)
	r := newRouter(t, svc, hunter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reserves/r1/quotas/available?species=roe_deer&category=M1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.Availability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Available)
}

func TestAvailableRejectsUnknownSpecies(t *testing.T) {
	svc := new(mockService)
	r := newRouter(t, svc, hunter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reserves/r1/quotas/available?species=boar&category=M1", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailableMissingRow(t *testing.T) {
	svc := new(mockService)
	svc.On("GetAvailable", mock.Anything, mock.Anything).Return(0, errors.NewQuotaRowNotFoundError("r1", "roe_deer", "M1"))
	r := newRouter(t, svc, hunter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reserves/r1/quotas/available?species=roe_deer&category=M1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReplaceRequiresAdmin(t *testing.T) {
	svc := new(mockService)
	r := newRouter(t, svc, hunter)

	body := `{"species":"roe_deer","season":"2024/2025","quotas":[{"category":"M1","total_quota":3}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reserves/r1/quotas/replace", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReplaceGroupNeedsGroup(t *testing.T) {
	svc := new(mockService)
	r := newRouter(t, svc, admin)

	body := `{"species":"roe_deer","season":"2024/2025","quotas":[{"category":"M1","total_quota":3}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reserves/r1/group-quotas/replace", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "BulkReplace", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplace(t *testing.T) {
	svc := new(mockService)
	svc.On("BulkReplace", mock.Anything, "r1", mock.MatchedBy(func(req *models.ReplaceRequest) bool {
		return req.Species == "roe_deer" && req.HunterGroup == "" && len(req.Quotas) == 1
	})).Return([]*models.QuotaResponse{{Quota: models.Quota{ID: 1, TotalQuota: 3}, Available: 3}}, nil)
	r := newRouter(t, svc, admin)

	body := `{"species":"roe_deer","season":"2024/2025","hunter_group":"B","quotas":[{"category":"M1","total_quota":3}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reserves/r1/quotas/replace", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestImport(t *testing.T) {
	svc := new(mockService)
	svc.On("ImportCSV", mock.Anything, "r1", "2024/2025", mock.Anything).
		Return(&models.ImportResult{Season: "2024/2025", Rows: 1, Species: map[string]int{"roe_deer": 1}}, nil)
	r := newRouter(t, svc, admin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reserves/r1/quotas/import?season=2024/2025", strings.NewReader("capriolo,M1,3\n"))
	req.Header.Set("Content-Type", "text/csv")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetActiveOtherReserve(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, int64(4), false).Return(&models.Quota{ID: 4, ReserveID: "r2"}, nil)
	r := newRouter(t, svc, admin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/quotas/4/active", strings.NewReader(`{"is_active":false}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
