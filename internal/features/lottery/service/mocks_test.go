package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	huntermodels "hunting-reserve-backend/internal/features/hunter/models"
	"hunting-reserve-backend/internal/features/lottery/models"
	reservemodels "hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, l *models.Lottery) error {
	args := m.Called(ctx, l)
	if args.Error(0) == nil {
		l.ID = 10
	}
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*models.Lottery, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*models.Lottery)
	return l, args.Error(1)
}

func (m *mockRepo) ListByReserve(ctx context.Context, reserveID string, status models.Status) ([]*models.Lottery, error) {
	args := m.Called(ctx, reserveID, status)
	l, _ := args.Get(0).([]*models.Lottery)
	return l, args.Error(1)
}

func (m *mockRepo) Activate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) ListDue(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *mockRepo) AddParticipant(ctx context.Context, lotteryID, hunterID int64) (*models.Participant, error) {
	args := m.Called(ctx, lotteryID, hunterID)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Error(1)
}

func (m *mockRepo) RemoveParticipant(ctx context.Context, lotteryID, hunterID int64) error {
	return m.Called(ctx, lotteryID, hunterID).Error(0)
}

func (m *mockRepo) ListParticipants(ctx context.Context, lotteryID int64) ([]*models.Participant, error) {
	args := m.Called(ctx, lotteryID)
	p, _ := args.Get(0).([]*models.Participant)
	return p, args.Error(1)
}

func (m *mockRepo) ListWinners(ctx context.Context, lotteryID int64) ([]*models.Participant, error) {
	args := m.Called(ctx, lotteryID)
	p, _ := args.Get(0).([]*models.Participant)
	return p, args.Error(1)
}

func (m *mockRepo) GetForUpdateTx(ctx context.Context, tx postgres.Transaction, id int64) (*models.Lottery, error) {
	args := m.Called(ctx, tx, id)
	l, _ := args.Get(0).(*models.Lottery)
	return l, args.Error(1)
}

func (m *mockRepo) ListParticipantsTx(ctx context.Context, tx postgres.Transaction, lotteryID int64) ([]*models.Participant, error) {
	args := m.Called(ctx, tx, lotteryID)
	p, _ := args.Get(0).([]*models.Participant)
	return p, args.Error(1)
}

func (m *mockRepo) SaveDrawTx(ctx context.Context, tx postgres.Transaction, lotteryID int64, placements []models.Placement) error {
	return m.Called(ctx, tx, lotteryID, placements).Error(0)
}

type mockHunters struct {
	mock.Mock
}

func (m *mockHunters) GetActive(ctx context.Context, id int64) (*huntermodels.Hunter, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*huntermodels.Hunter)
	return h, args.Error(1)
}

type mockReserves struct {
	mock.Mock
}

func (m *mockReserves) Get(ctx context.Context, id string) (*reservemodels.Reserve, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*reservemodels.Reserve)
	return r, args.Error(1)
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

func (f *fakeTransactor) BeginTx(ctx context.Context) (postgres.Transaction, error) {
	f.last = &fakeTx{}
	return f.last, nil
}
