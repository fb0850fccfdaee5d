package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hunting-reserve-backend/internal/features/quota/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetRemaining(ctx context.Context, key models.Key) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) (*models.Quota, error) {
	args := m.Called(ctx, tx, key, delta)
	q, _ := args.Get(0).(*models.Quota)
	return q, args.Error(1)
}

func (m *mockRepo) RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) error {
	return m.Called(ctx, tx, key, delta).Error(0)
}

func (m *mockRepo) BulkReplace(ctx context.Context, reserveID, hunterGroup, species string, rows []*models.Quota) ([]*models.Quota, error) {
	args := m.Called(ctx, reserveID, hunterGroup, species, rows)
	q, _ := args.Get(0).([]*models.Quota)
	return q, args.Error(1)
}

func (m *mockRepo) BulkReplaceTx(ctx context.Context, tx postgres.Transaction, reserveID, hunterGroup, species string, rows []*models.Quota) ([]*models.Quota, error) {
	args := m.Called(ctx, tx, reserveID, hunterGroup, species, rows)
	q, _ := args.Get(0).([]*models.Quota)
	return q, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64, group bool) (*models.Quota, error) {
	args := m.Called(ctx, id, group)
	q, _ := args.Get(0).(*models.Quota)
	return q, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, reserveID, season string, group bool) ([]*models.Quota, error) {
	args := m.Called(ctx, reserveID, season, group)
	q, _ := args.Get(0).([]*models.Quota)
	return q, args.Error(1)
}

func (m *mockRepo) SetActive(ctx context.Context, id int64, group bool, active bool) error {
	return m.Called(ctx, id, group, active).Error(0)
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
