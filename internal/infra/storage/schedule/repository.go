package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository read-only репозиторий недельных рабочих окон
// Таблицы branch_hours и professional_hours редактируются внешним
// CRUD-сервисом расписаний, движок их только читает
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBranchWindow получает рабочее окно филиала на день недели
// Отсутствие записи - ErrWindowNotFound (день считается закрытым)
func (r *Repository) GetBranchWindow(ctx context.Context, branchID int64, day time.Weekday) (*domain.OperatingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"day_of_week",
		"is_closed",
		"start_time",
		"end_time",
	).
		From("branch_hours").
		Where(squirrel.Eq{"branch_id": branchID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBranchWindow - build select query: %v", ErrBuildQuery, err)
	}

	var (
		window             domain.OperatingWindow
		dayOfWeek          int
		startTime, endTime sql.Null[types.TimeString]
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&dayOfWeek,
		&window.IsClosed,
		&startTime,
		&endTime,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBranchWindow - scan window: %v", ErrScanRow, err)
	}

	window.DayOfWeek = time.Weekday(dayOfWeek)
	if startTime.Valid {
		window.StartTime = startTime.V
	}
	if endTime.Valid {
		window.EndTime = endTime.V
	}

	return &window, nil
}

// GetProfessionalWindow получает рабочее окно профессионала на день недели
// вместе с опциональным перерывом
func (r *Repository) GetProfessionalWindow(ctx context.Context, professionalID int64, day time.Weekday) (*domain.OperatingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"day_of_week",
		"is_closed",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
	).
		From("professional_hours").
		Where(squirrel.Eq{"professional_id": professionalID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessionalWindow - build select query: %v", ErrBuildQuery, err)
	}

	var (
		window               domain.OperatingWindow
		dayOfWeek            int
		startTime, endTime   sql.Null[types.TimeString]
		breakStart, breakEnd sql.Null[types.TimeString]
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&dayOfWeek,
		&window.IsClosed,
		&startTime,
		&endTime,
		&breakStart,
		&breakEnd,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessionalWindow - scan window: %v", ErrScanRow, err)
	}

	window.DayOfWeek = time.Weekday(dayOfWeek)
	if startTime.Valid {
		window.StartTime = startTime.V
	}
	if endTime.Valid {
		window.EndTime = endTime.V
	}
	if breakStart.Valid && breakEnd.Valid {
		bs, be := breakStart.V, breakEnd.V
		window.BreakStart = &bs
		window.BreakEnd = &be
	}

	return &window, nil
}
