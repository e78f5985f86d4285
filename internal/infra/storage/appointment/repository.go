package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "appointments"

// Имена ограничений из migrations/001_init.up.sql
const (
	constraintSlotSeat   = "appointments_slot_seat_uniq"
	constraintSlotClient = "appointments_slot_client_uniq"
)

// Коды ошибок PostgreSQL
const (
	pqExclusionViolation = "23P01"
	pqUniqueViolation    = "23505"
)

var columns = []string{
	"id",
	"business_id",
	"staff_id",
	"client_id",
	"service_id",
	"scheduled_for",
	"duration_minutes",
	"status",
	"slot_key",
	"seat_no",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет запись. Если в контексте есть транзакция, выполняется в ней.
// Нарушения ограничений БД переводятся в ErrOverlap, ErrSeatTaken и ErrAlreadyEnrolled.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildInsert(a)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		// цепочка ошибки драйвера нужна txmanager для повтора при 40001
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByStaffDay записи сотрудника, начинающиеся в [From, To), по времени начала.
// Внутри транзакции строки блокируются FOR UPDATE.
func (r *Repository) GetByStaffDay(ctx context.Context, filter domain.StaffDayFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildStaffDaySelect(filter, dbmetrics.IsInTransaction(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByStaffDay - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByStaffDay - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// GetByClient история записей клиента, новые первыми
func (r *Repository) GetByClient(ctx context.Context, filter domain.ClientFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildClientSelect(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByClient - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByClient - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// Cancel мягкая отмена: статус CANCELLED, причина и время отмены. Строка не удаляется.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildCancel(id, reason, cancelledAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Либо записи нет, либо она уже не в отменяемом статусе
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrCannotCancel
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return a, nil
}

func buildInsert(a *domain.Appointment) (string, []interface{}, error) {
	return psqlbuilder.Insert(table).
		Columns(
			"business_id",
			"staff_id",
			"client_id",
			"service_id",
			"scheduled_for",
			"ends_at",
			"duration_minutes",
			"status",
			"slot_key",
			"seat_no",
			"notes",
		).
		Values(
			a.BusinessID,
			a.StaffID,
			a.ClientID,
			a.ServiceID,
			a.ScheduledFor,
			a.EndsAt(),
			a.DurationMinutes,
			a.Status,
			a.SlotKey,
			a.SeatNo,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
}

func buildStaffDaySelect(filter domain.StaffDayFilter, forUpdate bool) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"staff_id": filter.StaffID}).
		Where(squirrel.GtOrEq{"scheduled_for": filter.From}).
		Where(squirrel.Lt{"scheduled_for": filter.To})

	if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_for ASC", "seat_no ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder.ToSql()
}

func buildClientSelect(filter domain.ClientFilter) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"client_id": filter.ClientID})

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	return selectBuilder.OrderBy("scheduled_for DESC").ToSql()
}

func buildCancel(id int64, reason *string, cancelledAt time.Time) (string, []interface{}, error) {
	cancellable := []string{string(domain.StatusPending), string(domain.StatusConfirmed)}

	return psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": cancellable}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
}

// mapConstraintError переводит нарушения ограничений в ошибки репозитория, иначе nil
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case pqExclusionViolation:
		return fmt.Errorf("%w: %s", ErrOverlap, pqErr.Constraint)
	case pqUniqueViolation:
		switch pqErr.Constraint {
		case constraintSlotClient:
			return ErrAlreadyEnrolled
		case constraintSlotSeat:
			return ErrSeatTaken
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&a.StaffID,
		&a.ClientID,
		&a.ServiceID,
		&a.ScheduledFor,
		&a.DurationMinutes,
		&a.Status,
		&a.SlotKey,
		&a.SeatNo,
		&a.Notes,
		&a.CancellationReason,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}
