package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/features/rule/repository"
)

const ruleColumns = `
	id, reserve_id, rule_name, rule_type, is_active,
	zone_cooldown_hours, zone_cooldown_time,
	target_species, max_harvest_per_season, max_harvest_per_month, max_harvest_per_week,
	seasonal_start_date, seasonal_end_date, bonus_harvest_allowed,
	custom_parameters, created_at, updated_at`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.RuleRepository {
	return &postgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row scanner) (*models.Rule, error) {
	var (
		r        models.Rule
		ruleType string
		custom   []byte
	)
	err := row.Scan(&r.ID, &r.ReserveID, &r.RuleName, &ruleType, &r.IsActive,
		&r.ZoneCooldownHours, &r.ZoneCooldownTime,
		&r.TargetSpecies, &r.MaxHarvestPerSeason, &r.MaxHarvestPerMonth, &r.MaxHarvestPerWeek,
		&r.SeasonalStartDate, &r.SeasonalEndDate, &r.BonusHarvestAllowed,
		&custom, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.RuleType = models.RuleType(ruleType)
	if len(custom) > 0 {
		r.CustomParameters = json.RawMessage(custom)
	}
	return &r, nil
}

// jsonParam passes raw JSON as text so Postgres casts it to jsonb.
func jsonParam(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *postgresRepository) ListActive(ctx context.Context, reserveID string, ruleType models.RuleType) ([]*models.Rule, error) {
	return r.query(ctx, `
		SELECT `+ruleColumns+`
		FROM reserve_rules
		WHERE reserve_id = $1 AND is_active AND ($2 = '' OR rule_type = $2)
		ORDER BY id ASC
	`, reserveID, string(ruleType))
}

func (r *postgresRepository) List(ctx context.Context, reserveID string) ([]*models.Rule, error) {
	return r.query(ctx, `
		SELECT `+ruleColumns+`
		FROM reserve_rules
		WHERE reserve_id = $1
		ORDER BY id ASC
	`, reserveID)
}

func (r *postgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Rule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	rules := []*models.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.Rule, error) {
	rule, err := scanRule(r.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM reserve_rules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

func (r *postgresRepository) Create(ctx context.Context, rule *models.Rule) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reserve_rules (
			reserve_id, rule_name, rule_type, is_active,
			zone_cooldown_hours, zone_cooldown_time,
			target_species, max_harvest_per_season, max_harvest_per_month, max_harvest_per_week,
			seasonal_start_date, seasonal_end_date, bonus_harvest_allowed, custom_parameters
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb)
		RETURNING id, created_at, updated_at
	`, rule.ReserveID, rule.RuleName, string(rule.RuleType), rule.IsActive,
		rule.ZoneCooldownHours, rule.ZoneCooldownTime,
		rule.TargetSpecies, rule.MaxHarvestPerSeason, rule.MaxHarvestPerMonth, rule.MaxHarvestPerWeek,
		rule.SeasonalStartDate, rule.SeasonalEndDate, rule.BonusHarvestAllowed, jsonParam(rule.CustomParameters),
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, rule *models.Rule) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE reserve_rules
		SET rule_name = $2, rule_type = $3, is_active = $4,
			zone_cooldown_hours = $5, zone_cooldown_time = $6,
			target_species = $7, max_harvest_per_season = $8, max_harvest_per_month = $9,
			max_harvest_per_week = $10, seasonal_start_date = $11, seasonal_end_date = $12,
			bonus_harvest_allowed = $13, custom_parameters = $14::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, rule.ID, rule.RuleName, string(rule.RuleType), rule.IsActive,
		rule.ZoneCooldownHours, rule.ZoneCooldownTime,
		rule.TargetSpecies, rule.MaxHarvestPerSeason, rule.MaxHarvestPerMonth, rule.MaxHarvestPerWeek,
		rule.SeasonalStartDate, rule.SeasonalEndDate, rule.BonusHarvestAllowed, jsonParam(rule.CustomParameters),
	).Scan(&rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrRuleNotFound
		}
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reserve_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return expectOne(result)
}

func (r *postgresRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reserve_rules SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return expectOne(result)
}

func expectOne(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrRuleNotFound
	}
	return nil
}
