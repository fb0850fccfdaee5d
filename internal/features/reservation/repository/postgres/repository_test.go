package postgres

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hunting-reserve-backend/internal/features/reservation/models"
	"hunting-reserve-backend/internal/features/reservation/repository"
	"hunting-reserve-backend/internal/platform/postgres"
	"hunting-reserve-backend/internal/platform/postgres/postgrestest"
)

var huntDay = time.Date(2025, time.October, 9, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db      *sql.DB
	repo    repository.ReservationRepository
	reserve string
	zone    int64
	hunters []int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := postgrestest.Open(t)
	reserve := postgrestest.SeedReserve(t, db, "r1")
	f := &fixture{
		db:      db,
		repo:    NewPostgresRepository(db),
		reserve: reserve,
		zone:    postgrestest.SeedZone(t, db, reserve, "Bosco del Cansiglio"),
	}
	for _, email := range []string{"a@example.org", "b@example.org", "c@example.org"} {
		f.hunters = append(f.hunters, postgrestest.SeedHunter(t, db, reserve, email, "HUNTER"))
	}
	return f
}

func (f *fixture) reservation(hunter int64, day time.Time, slot models.TimeSlot) *models.Reservation {
	return &models.Reservation{HunterID: hunter, ZoneID: f.zone, ReserveID: f.reserve, HuntDate: day, TimeSlot: slot}
}

func TestCreateRejectsOverlappingSlots(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	morning := f.reservation(f.hunters[0], huntDay, models.SlotMorning)
	require.NoError(t, f.repo.Create(ctx, morning))
	assert.NotZero(t, morning.ID)
	assert.Equal(t, models.StatusActive, morning.Status)

	require.NoError(t, f.repo.Create(ctx, f.reservation(f.hunters[1], huntDay, models.SlotAfternoon)))

	assert.ErrorIs(t, f.repo.Create(ctx, f.reservation(f.hunters[2], huntDay, models.SlotFullDay)), repository.ErrSlotTaken)
	assert.ErrorIs(t, f.repo.Create(ctx, f.reservation(f.hunters[2], huntDay, models.SlotMorning)), repository.ErrSlotTaken)

	// a cancelled booking frees the slot
	require.NoError(t, f.repo.UpdateStatus(ctx, morning.ID, models.StatusActive, models.StatusCancelled))
	require.NoError(t, f.repo.Create(ctx, f.reservation(f.hunters[2], huntDay, models.SlotMorning)))

	active, err := f.repo.ListActiveOnZone(ctx, f.zone, huntDay)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var created, taken atomic.Int32
	slots := []models.TimeSlot{models.SlotFullDay, models.SlotMorning, models.SlotAfternoon}
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := f.repo.Create(ctx, f.reservation(f.hunters[i%3], huntDay, slots[i%3]))
			switch {
			case err == nil:
				created.Add(1)
			case err == repository.ErrSlotTaken:
				taken.Add(1)
			}
		}(i)
	}
	wg.Wait()

	active, err := f.repo.ListActiveOnZone(ctx, f.zone, huntDay)
	require.NoError(t, err)
	assert.Equal(t, int32(len(active)), created.Load())
	assert.Equal(t, int32(9), created.Load()+taken.Load())

	for i, a := range active {
		for _, b := range active[i+1:] {
			assert.False(t, a.TimeSlot.Overlaps(b.TimeSlot), "%s overlaps %s", a.TimeSlot, b.TimeSlot)
		}
	}
}

func TestUpdateStatusConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res := f.reservation(f.hunters[0], huntDay, models.SlotMorning)
	require.NoError(t, f.repo.Create(ctx, res))
	require.NoError(t, f.repo.UpdateStatus(ctx, res.ID, models.StatusActive, models.StatusCancelled))

	assert.ErrorIs(t, f.repo.UpdateStatus(ctx, res.ID, models.StatusActive, models.StatusCancelled), repository.ErrStatusConflict)
	assert.ErrorIs(t, f.repo.UpdateStatus(ctx, 999, models.StatusActive, models.StatusCancelled), repository.ErrReservationNotFound)
}

func TestLastOnZoneAndHarvests(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr := postgres.NewTransactor(f.db)
	hunter := f.hunters[0]

	none, err := f.repo.LastOnZone(ctx, hunter, f.zone)
	require.NoError(t, err)
	assert.Nil(t, none)

	earlier := f.reservation(hunter, huntDay.AddDate(0, 0, -3), models.SlotFullDay)
	require.NoError(t, f.repo.Create(ctx, earlier))
	later := f.reservation(hunter, huntDay, models.SlotMorning)
	require.NoError(t, f.repo.Create(ctx, later))

	last, err := f.repo.LastOnZone(ctx, hunter, f.zone)
	require.NoError(t, err)
	assert.Equal(t, later.ID, last.ID)

	species, group := "roe_deer", "C"
	tx, err := tr.BeginTx(ctx)
	require.NoError(t, err)
	report := &models.HuntReport{
		ReservationID: earlier.ID, ReserveID: f.reserve, HunterID: hunter,
		Outcome: models.OutcomeHarvest, Species: &species, HunterGroup: &group, HuntDate: earlier.HuntDate,
		Biometrics: []byte(`{"weight_kg":21}`),
	}
	require.NoError(t, f.repo.CreateReportTx(ctx, tx, report))
	require.NoError(t, f.repo.UpdateStatusTx(ctx, tx, earlier.ID, models.StatusActive, models.StatusCompleted))
	require.NoError(t, tx.Commit())

	harvests, err := f.repo.ListHarvests(ctx, hunter, "roe_deer", huntDay.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, harvests, 1)
	assert.False(t, harvests[0].UsesBonus)

	harvests, err = f.repo.ListHarvests(ctx, hunter, "roe_deer", huntDay)
	require.NoError(t, err)
	assert.Empty(t, harvests)

	got, err := f.repo.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"weight_kg":21}`, string(got.Biometrics))
	require.NotNil(t, got.HunterGroup)
	assert.Equal(t, "C", *got.HunterGroup)

	tx, err = tr.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	assert.ErrorIs(t, f.repo.CreateReportTx(ctx, tx, &models.HuntReport{
		ReservationID: earlier.ID, ReserveID: f.reserve, HunterID: hunter,
		Outcome: models.OutcomeNoHarvest, HuntDate: earlier.HuntDate,
	}), repository.ErrDuplicateReport)
}

func TestDeleteReportRollsBackWithTransaction(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr := postgres.NewTransactor(f.db)

	res := f.reservation(f.hunters[0], huntDay, models.SlotMorning)
	require.NoError(t, f.repo.Create(ctx, res))

	tx, err := tr.BeginTx(ctx)
	require.NoError(t, err)
	report := &models.HuntReport{ReservationID: res.ID, ReserveID: f.reserve, HunterID: res.HunterID,
		Outcome: models.OutcomeNoHarvest, HuntDate: res.HuntDate}
	require.NoError(t, f.repo.CreateReportTx(ctx, tx, report))
	require.NoError(t, tx.Commit())

	tx, err = tr.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, f.repo.DeleteReportTx(ctx, tx, report.ID))
	require.NoError(t, tx.Rollback())

	_, err = f.repo.GetReport(ctx, report.ID)
	require.NoError(t, err)

	tx, err = tr.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, f.repo.DeleteReportTx(ctx, tx, report.ID))
	require.NoError(t, tx.Commit())

	_, err = f.repo.GetReport(ctx, report.ID)
	assert.ErrorIs(t, err, repository.ErrReportNotFound)
}

func TestListFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.reservation(f.hunters[0], huntDay, models.SlotMorning)
	b := f.reservation(f.hunters[0], huntDay.AddDate(0, 0, 1), models.SlotMorning)
	require.NoError(t, f.repo.Create(ctx, a))
	require.NoError(t, f.repo.Create(ctx, b))
	require.NoError(t, f.repo.UpdateStatus(ctx, b.ID, models.StatusActive, models.StatusCancelled))

	mine, err := f.repo.ListByHunter(ctx, f.hunters[0], &models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, b.ID, mine[0].ID)

	active, err := f.repo.ListByReserve(ctx, f.reserve, &models.ListQuery{Status: "active"})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	onDay, err := f.repo.ListByReserve(ctx, f.reserve, &models.ListQuery{Date: "2025-10-10"})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, b.ID, onDay[0].ID)
}
