package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository хранилище данных арендаторов, только чтение.
// Бизнесы, сотрудники и услуги заводятся другими сервисами платформы.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория арендаторов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessProfile бизнес вместе с часами работы по дням недели
func (r *Repository) GetBusinessProfile(ctx context.Context, businessID int64) (*domain.BusinessProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "timezone").
		From("businesses").
		Where(squirrel.Eq{"id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessProfile - build select query: %v", ErrBuildQuery, err)
	}

	var profile domain.BusinessProfile
	var timezone sql.NullString
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&profile.Business.ID,
		&profile.Business.Name,
		&timezone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessProfile - scan business: %v", ErrScanRow, err)
	}
	if err := profile.Business.SetTimezone(timezone.String); err != nil {
		return nil, fmt.Errorf("GetBusinessProfile - business id=%d: %w", businessID, err)
	}

	query, args, err = psqlbuilder.Select(
		"business_id",
		"weekday",
		"is_open",
		"start_time",
		"end_time",
		"lunch_break_start",
		"lunch_break_end",
	).
		From("business_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessProfile - build hours query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessProfile - execute hours query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	profile.Hours = make([]domain.BusinessHours, 0, 7)
	for rows.Next() {
		var h domain.BusinessHours
		if err := rows.Scan(
			&h.BusinessID,
			&h.Weekday,
			&h.IsOpen,
			&h.Start,
			&h.End,
			&h.LunchBreakStart,
			&h.LunchBreakEnd,
		); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessProfile - scan hours: %v", ErrScanRow, err)
		}
		profile.Hours = append(profile.Hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessProfile - rows error: %v", ErrScanRow, err)
	}

	return &profile, nil
}

// GetStaffProfile сотрудник и его недельный график
func (r *Repository) GetStaffProfile(ctx context.Context, staffID int64) (*domain.StaffProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "name", "is_active").
		From("staff").
		Where(squirrel.Eq{"id": staffID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffProfile - build select query: %v", ErrBuildQuery, err)
	}

	var profile domain.StaffProfile
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&profile.Staff.ID,
		&profile.Staff.BusinessID,
		&profile.Staff.Name,
		&profile.Staff.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffProfile - scan staff: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select(
		"weekday",
		"start_time",
		"end_time",
		"lunch_break_start",
		"lunch_break_end",
	).
		From("staff_weekly_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffProfile - build schedule query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffProfile - execute schedule query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	profile.Schedule = make([]domain.StaffDaySchedule, 0, 7)
	for rows.Next() {
		var s domain.StaffDaySchedule
		if err := rows.Scan(&s.Weekday, &s.Start, &s.End, &s.LunchBreakStart, &s.LunchBreakEnd); err != nil {
			return nil, fmt.Errorf("%w: GetStaffProfile - scan schedule: %v", ErrScanRow, err)
		}
		profile.Schedule = append(profile.Schedule, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStaffProfile - rows error: %v", ErrScanRow, err)
	}

	return &profile, nil
}

// GetService услуга с ограничениями доступности. Вариант окон (список или по дням)
// определяется при загрузке; если окна не разобрались, ошибка сохраняется
// в Availability.WindowsError и расчет откатится на непрерывную модель.
func (r *Repository) GetService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"duration_minutes",
		"price",
		"capacity",
		"slot_model",
		"available_days",
		"any_time_available",
		"slot_windows",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var (
		service       domain.Service
		availableDays pq.Int64Array
		rawWindows    []byte
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.Capacity,
		&service.SlotModel,
		&availableDays,
		&service.Availability.AnyTimeAvailable,
		&rawWindows,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	service.Availability.AvailableDays = toWeekdays(availableDays)
	applyWindows(&service, rawWindows)

	return &service, nil
}

func applyWindows(service *domain.Service, raw []byte) {
	windows, err := domain.ParseSlotWindows(raw)
	if err != nil {
		service.Availability.WindowsError = err.Error()
		return
	}
	service.Availability.Windows = windows
}

func toWeekdays(days pq.Int64Array) domain.Weekdays {
	if len(days) == 0 {
		return nil
	}
	out := make(domain.Weekdays, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		out = append(out, time.Weekday(d))
	}
	return out
}
