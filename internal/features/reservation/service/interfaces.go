package service

import (
	"context"

	huntermodels "hunting-reserve-backend/internal/features/hunter/models"
	quotamodels "hunting-reserve-backend/internal/features/quota/models"
	reservemodels "hunting-reserve-backend/internal/features/reserve/models"
	rulemodels "hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

// QuotaLedger is the part of the quota service reservations depend on.
type QuotaLedger interface {
	GetAvailable(ctx context.Context, key quotamodels.Key) (int, error)
	RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key quotamodels.Key, delta int) (*quotamodels.Quota, error)
	RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key quotamodels.Key, delta int) error
	InvalidateCache(ctx context.Context, reserveID string)
}

type RuleSource interface {
	ListActiveRules(ctx context.Context, reserveID string, ruleType rulemodels.RuleType) ([]*rulemodels.Rule, error)
}

type ReserveSource interface {
	GetSettings(ctx context.Context, reserveID string) (*reservemodels.Settings, error)
	GetZone(ctx context.Context, id int64) (*reservemodels.Zone, error)
}

type HunterSource interface {
	Get(ctx context.Context, id int64) (*huntermodels.Hunter, error)
	GetActive(ctx context.Context, id int64) (*huntermodels.Hunter, error)
}
