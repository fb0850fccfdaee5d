package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/logger"
	"hunting-reserve-backend/internal/domain/wildlife"
	huntermodels "hunting-reserve-backend/internal/features/hunter/models"
	"hunting-reserve-backend/internal/features/lottery/models"
	"hunting-reserve-backend/internal/features/lottery/ranking"
	"hunting-reserve-backend/internal/features/lottery/repository"
	reservemodels "hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/platform/postgres"
	"hunting-reserve-backend/internal/utils/clock"
)

type LotteryService interface {
	Create(ctx context.Context, reserveID string, req *models.CreateLotteryRequest) (*models.Lottery, error)
	Get(ctx context.Context, id int64) (*models.Lottery, error)
	ListByReserve(ctx context.Context, reserveID string, status models.Status) ([]*models.Lottery, error)
	Activate(ctx context.Context, id int64) (*models.Lottery, error)

	Join(ctx context.Context, lotteryID, hunterID int64) (*models.Participant, error)
	Leave(ctx context.Context, lotteryID, hunterID int64) error
	Participants(ctx context.Context, lotteryID int64) ([]*models.Participant, error)
	Winners(ctx context.Context, lotteryID int64) ([]*models.Participant, error)

	// Draw ranks the participants and stores the winners. It succeeds at
	// most once per lottery.
	Draw(ctx context.Context, lotteryID int64) (*models.DrawResult, error)
	// DrawDue draws every active lottery whose draw date has passed and
	// returns how many were drawn.
	DrawDue(ctx context.Context) (int, error)
}

type HunterSource interface {
	GetActive(ctx context.Context, id int64) (*huntermodels.Hunter, error)
}

type ReserveSource interface {
	Get(ctx context.Context, id string) (*reservemodels.Reserve, error)
}

type Options struct {
	Clock clock.Clock
	// Intn overrides the ranking randomness; nil means crypto/rand.
	Intn ranking.Intn
	// LockTTL bounds how long DrawDue holds a lottery's lock.
	LockTTL time.Duration
}

type lotteryService struct {
	repo       repository.LotteryRepository
	lock       repository.DrawLock
	transactor postgres.Transactor
	hunters    HunterSource
	reserves   ReserveSource
	opts       Options
	log        zerolog.Logger
}

// NewLotteryService wires the allocator. lock may be nil for single
// instance deployments.
func NewLotteryService(
	repo repository.LotteryRepository,
	lock repository.DrawLock,
	transactor postgres.Transactor,
	hunters HunterSource,
	reserves ReserveSource,
	opts Options,
) LotteryService {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	return &lotteryService{
		repo:       repo,
		lock:       lock,
		transactor: transactor,
		hunters:    hunters,
		reserves:   reserves,
		opts:       opts,
		log:        logger.Component("lottery"),
	}
}

func (s *lotteryService) Create(ctx context.Context, reserveID string, req *models.CreateLotteryRequest) (*models.Lottery, error) {
	if _, err := s.reserves.Get(ctx, reserveID); err != nil {
		return nil, err
	}
	if !req.RegistrationStart.Before(req.RegistrationEnd) {
		return nil, errors.NewValidationError("registration_end", "must be after registration_start")
	}
	if req.DrawDate.Before(req.RegistrationEnd) {
		return nil, errors.NewValidationError("draw_date", "must not precede registration_end")
	}

	l := &models.Lottery{
		ReserveID:         reserveID,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Species:           req.Species,
		TotalSpots:        req.TotalSpots,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		DrawDate:          req.DrawDate,
		Status:            models.StatusDraft,
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		category := wildlife.NormalizeCategory(req.Species, *req.Category)
		if category == "" {
			return nil, errors.NewValidationError("category", "unknown category for "+req.Species)
		}
		l.Category = &category
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, errors.NewDatabaseError("create lottery", err)
	}

	s.log.Info().Int64("lottery_id", l.ID).Str("reserve_id", reserveID).Str("species", l.Species).
		Int("total_spots", l.TotalSpots).Msg("Lottery created")
	return l, nil
}

func (s *lotteryService) Get(ctx context.Context, id int64) (*models.Lottery, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get lottery", id)
	}
	return l, nil
}

func (s *lotteryService) ListByReserve(ctx context.Context, reserveID string, status models.Status) ([]*models.Lottery, error) {
	list, err := s.repo.ListByReserve(ctx, reserveID, status)
	if err != nil {
		return nil, errors.NewDatabaseError("list lotteries", err)
	}
	if list == nil {
		list = []*models.Lottery{}
	}
	return list, nil
}

func (s *lotteryService) Activate(ctx context.Context, id int64) (*models.Lottery, error) {
	if err := s.repo.Activate(ctx, id); err != nil {
		return nil, s.translate(err, "activate lottery", id)
	}
	s.log.Info().Int64("lottery_id", id).Msg("Lottery activated")
	return s.Get(ctx, id)
}

func (s *lotteryService) Join(ctx context.Context, lotteryID, hunterID int64) (*models.Participant, error) {
	l, err := s.openLottery(ctx, lotteryID)
	if err != nil {
		return nil, err
	}
	hunter, err := s.hunters.GetActive(ctx, hunterID)
	if err != nil {
		return nil, err
	}
	if hunter.ReserveID != l.ReserveID {
		return nil, errors.NewForbiddenError("lottery belongs to another reserve")
	}

	p, err := s.repo.AddParticipant(ctx, lotteryID, hunterID)
	if err != nil {
		switch {
		case stderrors.Is(err, repository.ErrDuplicateParticipation):
			return nil, errors.NewDuplicateParticipationError(lotteryID, hunterID)
		case stderrors.Is(err, repository.ErrStatusConflict):
			return nil, errors.NewRegistrationClosedError(lotteryID, l.RegistrationStart, l.RegistrationEnd)
		}
		return nil, s.translate(err, "join lottery", lotteryID)
	}

	s.log.Info().Int64("lottery_id", lotteryID).Int64("hunter_id", hunterID).Msg("Hunter joined lottery")
	return p, nil
}

func (s *lotteryService) Leave(ctx context.Context, lotteryID, hunterID int64) error {
	if _, err := s.openLottery(ctx, lotteryID); err != nil {
		return err
	}
	if err := s.repo.RemoveParticipant(ctx, lotteryID, hunterID); err != nil {
		if stderrors.Is(err, repository.ErrParticipationNotFound) {
			return errors.NewNotFoundError("participation", hunterID)
		}
		return errors.NewDatabaseError("leave lottery", err)
	}
	s.log.Info().Int64("lottery_id", lotteryID).Int64("hunter_id", hunterID).Msg("Hunter left lottery")
	return nil
}

// openLottery loads a lottery and rejects it unless registration is open.
func (s *lotteryService) openLottery(ctx context.Context, id int64) (*models.Lottery, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.RegistrationOpen(s.opts.Clock.Now()) {
		return nil, errors.NewRegistrationClosedError(id, l.RegistrationStart, l.RegistrationEnd)
	}
	return l, nil
}

func (s *lotteryService) Participants(ctx context.Context, lotteryID int64) ([]*models.Participant, error) {
	list, err := s.repo.ListParticipants(ctx, lotteryID)
	if err != nil {
		return nil, errors.NewDatabaseError("list participants", err)
	}
	if list == nil {
		list = []*models.Participant{}
	}
	return list, nil
}

func (s *lotteryService) Winners(ctx context.Context, lotteryID int64) ([]*models.Participant, error) {
	list, err := s.repo.ListWinners(ctx, lotteryID)
	if err != nil {
		return nil, errors.NewDatabaseError("list winners", err)
	}
	if list == nil {
		list = []*models.Participant{}
	}
	return list, nil
}

func (s *lotteryService) Draw(ctx context.Context, lotteryID int64) (*models.DrawResult, error) {
	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("begin draw transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	l, err := s.repo.GetForUpdateTx(ctx, tx, lotteryID)
	if err != nil {
		return nil, s.translate(err, "lock lottery", lotteryID)
	}
	if l.WinnersDrawn {
		return nil, errors.NewAlreadyDrawnError(lotteryID)
	}
	if l.Status != models.StatusActive {
		return nil, errors.NewValidationError("status", "lottery is not active")
	}

	participants, err := s.repo.ListParticipantsTx(ctx, tx, lotteryID)
	if err != nil {
		return nil, errors.NewDatabaseError("list participants", err)
	}
	if len(participants) == 0 {
		return nil, errors.NewValidationError("participants", "lottery has no participants")
	}

	ranked, unranked := ranking.Rank(participants, s.opts.Intn)
	placements := ranking.Place(ranked, unranked, l.TotalSpots)

	if err := s.repo.SaveDrawTx(ctx, tx, lotteryID, placements); err != nil {
		if stderrors.Is(err, repository.ErrStatusConflict) {
			return nil, errors.NewAlreadyDrawnError(lotteryID)
		}
		return nil, errors.NewDatabaseError("save draw", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTransactionFailed, "Failed to commit lottery draw")
	}

	result := buildResult(lotteryID, ranked, unranked, placements)
	s.log.Info().
		Int64("lottery_id", lotteryID).
		Int("participants", len(participants)).
		Int("winners", len(result.Winners)).
		Int("unranked", len(unranked)).
		Msg("Lottery drawn")
	return result, nil
}

func buildResult(lotteryID int64, ranked, unranked []*models.Participant, placements []models.Placement) *models.DrawResult {
	byID := make(map[int64]*models.Participant, len(ranked)+len(unranked))
	for _, p := range ranked {
		byID[p.ID] = p
	}
	for _, p := range unranked {
		byID[p.ID] = p
	}

	result := &models.DrawResult{
		LotteryID: lotteryID,
		Winners:   []*models.Participant{},
		Excluded:  []*models.Participant{},
		Unranked:  len(unranked),
	}
	for _, pl := range placements {
		p := byID[pl.ParticipationID]
		p.Status = pl.Status
		p.Position = pl.Position
		p.IsWinner = pl.Status == models.ParticipationWinner
		if p.IsWinner {
			result.Winners = append(result.Winners, p)
		} else {
			result.Excluded = append(result.Excluded, p)
		}
	}
	return result
}

func (s *lotteryService) DrawDue(ctx context.Context) (int, error) {
	ids, err := s.repo.ListDue(ctx, s.opts.Clock.Now())
	if err != nil {
		return 0, errors.NewDatabaseError("list due lotteries", err)
	}

	drawn := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return drawn, ctx.Err()
		}
		if s.drawLocked(ctx, id) {
			drawn++
		}
	}
	return drawn, nil
}

func (s *lotteryService) drawLocked(ctx context.Context, id int64) bool {
	if s.lock != nil {
		if err := s.lock.Acquire(ctx, id, s.opts.LockTTL); err != nil {
			if !stderrors.Is(err, repository.ErrAlreadyLocked) {
				s.log.Warn().Err(err).Int64("lottery_id", id).Msg("Failed to lock lottery")
			}
			return false
		}
		defer func() {
			if err := s.lock.Release(ctx, id); err != nil {
				s.log.Warn().Err(err).Int64("lottery_id", id).Msg("Failed to unlock lottery")
			}
		}()
	}

	_, err := s.Draw(ctx, id)
	switch {
	case err == nil:
		return true
	case errors.HasCode(err, errors.ErrCodeAlreadyDrawn):
		return false
	case errors.HasCode(err, errors.ErrCodeValidation):
		s.log.Debug().Err(err).Int64("lottery_id", id).Msg("Lottery not drawable yet")
		return false
	default:
		s.log.Error().Err(err).Int64("lottery_id", id).Msg("Auto draw failed")
		return false
	}
}

func (s *lotteryService) translate(err error, op string, id int64) error {
	switch {
	case stderrors.Is(err, repository.ErrLotteryNotFound):
		return errors.NewNotFoundError("lottery", id)
	case stderrors.Is(err, repository.ErrStatusConflict):
		return errors.NewConflictError("lottery", "lottery is not in draft")
	default:
		return errors.NewDatabaseError(op, err)
	}
}
