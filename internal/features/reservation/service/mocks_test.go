package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	huntermodels "hunting-reserve-backend/internal/features/hunter/models"
	quotamodels "hunting-reserve-backend/internal/features/quota/models"
	reservemodels "hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/features/reservation/models"
	rulemodels "hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, r *models.Reservation) error {
	args := m.Called(ctx, r)
	if args.Error(0) == nil {
		r.ID = 100
		r.Status = models.StatusActive
	}
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *mockRepo) ListActiveOnZone(ctx context.Context, zoneID int64, huntDate time.Time) ([]*models.Reservation, error) {
	args := m.Called(ctx, zoneID, huntDate)
	r, _ := args.Get(0).([]*models.Reservation)
	return r, args.Error(1)
}

func (m *mockRepo) LastOnZone(ctx context.Context, hunterID, zoneID int64) (*models.Reservation, error) {
	args := m.Called(ctx, hunterID, zoneID)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *mockRepo) ListHarvests(ctx context.Context, hunterID int64, species string, since time.Time) ([]models.Harvest, error) {
	args := m.Called(ctx, hunterID, species, since)
	h, _ := args.Get(0).([]models.Harvest)
	return h, args.Error(1)
}

func (m *mockRepo) ListByHunter(ctx context.Context, hunterID int64, q *models.ListQuery) ([]*models.Reservation, error) {
	args := m.Called(ctx, hunterID, q)
	r, _ := args.Get(0).([]*models.Reservation)
	return r, args.Error(1)
}

func (m *mockRepo) ListByReserve(ctx context.Context, reserveID string, q *models.ListQuery) ([]*models.Reservation, error) {
	args := m.Called(ctx, reserveID, q)
	r, _ := args.Get(0).([]*models.Reservation)
	return r, args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, from, to models.Status) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockRepo) UpdateStatusTx(ctx context.Context, tx postgres.Transaction, id int64, from, to models.Status) error {
	return m.Called(ctx, tx, id, from, to).Error(0)
}

func (m *mockRepo) CreateReportTx(ctx context.Context, tx postgres.Transaction, report *models.HuntReport) error {
	args := m.Called(ctx, tx, report)
	if args.Error(0) == nil {
		report.ID = 200
	}
	return args.Error(0)
}

func (m *mockRepo) GetReport(ctx context.Context, id int64) (*models.HuntReport, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.HuntReport)
	return r, args.Error(1)
}

func (m *mockRepo) DeleteReportTx(ctx context.Context, tx postgres.Transaction, id int64) error {
	return m.Called(ctx, tx, id).Error(0)
}

type mockQuota struct {
	mock.Mock
}

func (m *mockQuota) GetAvailable(ctx context.Context, key quotamodels.Key) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *mockQuota) RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key quotamodels.Key, delta int) (*quotamodels.Quota, error) {
	args := m.Called(ctx, tx, key, delta)
	q, _ := args.Get(0).(*quotamodels.Quota)
	return q, args.Error(1)
}

func (m *mockQuota) RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key quotamodels.Key, delta int) error {
	return m.Called(ctx, tx, key, delta).Error(0)
}

func (m *mockQuota) InvalidateCache(ctx context.Context, reserveID string) {
	m.Called(ctx, reserveID)
}

type mockRules struct {
	mock.Mock
}

func (m *mockRules) ListActiveRules(ctx context.Context, reserveID string, ruleType rulemodels.RuleType) ([]*rulemodels.Rule, error) {
	args := m.Called(ctx, reserveID, ruleType)
	r, _ := args.Get(0).([]*rulemodels.Rule)
	return r, args.Error(1)
}

type mockReserves struct {
	mock.Mock
}

func (m *mockReserves) GetSettings(ctx context.Context, reserveID string) (*reservemodels.Settings, error) {
	args := m.Called(ctx, reserveID)
	s, _ := args.Get(0).(*reservemodels.Settings)
	return s, args.Error(1)
}

func (m *mockReserves) GetZone(ctx context.Context, id int64) (*reservemodels.Zone, error) {
	args := m.Called(ctx, id)
	z, _ := args.Get(0).(*reservemodels.Zone)
	return z, args.Error(1)
}

type mockHunters struct {
	mock.Mock
}

func (m *mockHunters) Get(ctx context.Context, id int64) (*huntermodels.Hunter, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*huntermodels.Hunter)
	return h, args.Error(1)
}

func (m *mockHunters) GetActive(ctx context.Context, id int64) (*huntermodels.Hunter, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*huntermodels.Hunter)
	return h, args.Error(1)
}

type fakeTx struct {
	committed, rolledBack bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTransactor struct {
	last *fakeTx
}

func (f *fakeTransactor) BeginTx(context.Context) (postgres.Transaction, error) {
	f.last = &fakeTx{}
	return f.last, nil
}
