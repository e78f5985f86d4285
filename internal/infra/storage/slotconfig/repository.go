package slotconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "business_slot_configurations"

// Repository репозиторий конфигурации сетки слотов бизнеса
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessID возвращает сохраненную конфигурацию или ErrConfigNotFound
func (r *Repository) GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessSlotConfiguration, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"slot_duration_minutes",
		"slots_per_day",
		"start_hour",
		"end_hour",
		"working_start_slot",
		"working_end_slot",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.BusinessSlotConfiguration
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.BusinessID,
		&cfg.SlotDurationMinutes,
		&cfg.SlotsPerDay,
		&cfg.StartHour,
		&cfg.EndHour,
		&cfg.WorkingHours.Start,
		&cfg.WorkingHours.End,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - scan config: %v", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert создает или заменяет конфигурацию бизнеса
func (r *Repository) Upsert(ctx context.Context, cfg *domain.BusinessSlotConfiguration) (*domain.BusinessSlotConfiguration, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildUpsert(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	saved := *cfg
	saved.IsDefault = false
	saved.CreatedAt = createdAt.Time
	saved.UpdatedAt = updatedAt.Time

	return &saved, nil
}

func buildUpsert(cfg *domain.BusinessSlotConfiguration) (string, []interface{}, error) {
	return psqlbuilder.Insert(table).
		Columns(
			"business_id",
			"slot_duration_minutes",
			"slots_per_day",
			"start_hour",
			"end_hour",
			"working_start_slot",
			"working_end_slot",
		).
		Values(
			cfg.BusinessID,
			cfg.SlotDurationMinutes,
			cfg.SlotsPerDay,
			cfg.StartHour,
			cfg.EndHour,
			cfg.WorkingHours.Start,
			cfg.WorkingHours.End,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			slots_per_day = EXCLUDED.slots_per_day,
			start_hour = EXCLUDED.start_hour,
			end_hour = EXCLUDED.end_hour,
			working_start_slot = EXCLUDED.working_start_slot,
			working_end_slot = EXCLUDED.working_end_slot,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
}
