package booking

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

const (
	// Код Postgres exclusion_violation - срабатывание EXCLUDE constraint
	pqExclusionViolation = "23P01"
	// Код Postgres unique_violation
	pqUniqueViolation = "23505"

	// Имена constraint'ов из миграции, по ним различаем причину конфликта
	constraintProfessionalOverlap = "bookings_professional_no_overlap"
	constraintUserOverlap         = "bookings_user_no_overlap"
	constraintTokenUnique         = "bookings_confirmation_token_key"
)

// bookingColumns полный набор колонок таблицы bookings для SELECT
var bookingColumns = []string{
	"id",
	"customer_id",
	"branch_id",
	"service_id",
	"professional_id",
	"user_id",
	"scheduled_at",
	"duration_minutes",
	"total_price",
	"currency",
	"status",
	"confirmation_token",
	"service_name",
	"branch_name",
	"professional_name",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
//
// Защита от двойного бронирования двухуровневая:
// приложение проверяет пересечения внутри сериализуемой транзакции,
// а exclusion constraint'ы в схеме гарантируют инвариант даже при
// горизонтальном масштабировании. Срабатывание constraint'а
// транслируется в ErrProfessionalConflict / ErrUserConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"branch_id",
			"service_id",
			"professional_id",
			"user_id",
			"scheduled_at",
			"duration_minutes",
			"total_price",
			"currency",
			"status",
			"confirmation_token",
			"service_name",
			"branch_name",
			"professional_name",
		).
		Values(
			booking.CustomerID,
			booking.BranchID,
			booking.ServiceID,
			booking.ProfessionalID,
			booking.UserID,
			booking.ScheduledAt,
			booking.DurationMinutes,
			booking.TotalPrice,
			booking.Currency,
			booking.Status,
			booking.ConfirmationToken,
			booking.ServiceName,
			booking.BranchName,
			booking.ProfessionalName,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
	)

	if err != nil {
		if conflictErr := mapConflictError(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID в рамках тенанта
func (r *Repository) GetByID(ctx context.Context, id, customerID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id, "customer_id": customerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByToken получает бронирование по confirmation token в рамках тенанта
// Токены глобально уникальны, но выборка всегда ограничена customer_id,
// чтобы токен нельзя было разыменовать через чужой slug
func (r *Repository) GetByToken(ctx context.Context, token string, customerID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"confirmation_token": token, "customer_id": customerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByToken")
}

// GetActiveForBranchInterval получает активные бронирования филиала,
// пересекающиеся с интервалом [from, to)
// Внутри транзакции строки блокируются FOR UPDATE - это читающая часть
// проверки конфликтов при создании бронирования
func (r *Repository) GetActiveForBranchInterval(ctx context.Context, customerID, branchID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID, "branch_id": branchID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"scheduled_at": to}).
		Where(squirrel.Expr("scheduled_at + make_interval(mins => duration_minutes) > ?", from)).
		OrderBy("scheduled_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForBranchInterval - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForBranchInterval - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetActiveForProfessionalInterval получает активные бронирования
// профессионала, пересекающиеся с интервалом [from, to)
// Занятость профессионала глобальна - учитываются все филиалы
func (r *Repository) GetActiveForProfessionalInterval(ctx context.Context, customerID, professionalID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID, "professional_id": professionalID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"scheduled_at": to}).
		Where(squirrel.Expr("scheduled_at + make_interval(mins => duration_minutes) > ?", from)).
		OrderBy("scheduled_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForProfessionalInterval - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForProfessionalInterval - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetActiveForUserInterval получает активные бронирования пользователя
// в рамках тенанта, пересекающиеся с интервалом [from, to)
// Используется для проверки "у пользователя уже есть бронирование в это время"
// независимо от филиала и профессионала
func (r *Repository) GetActiveForUserInterval(ctx context.Context, customerID, userID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID, "user_id": userID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"scheduled_at": to}).
		Where(squirrel.Expr("scheduled_at + make_interval(mins => duration_minutes) > ?", from)).
		OrderBy("scheduled_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForUserInterval - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForUserInterval - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserID получает список бронирований пользователя в рамках тенанта
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, customerID, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID, "user_id": userID}).
		OrderBy("scheduled_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByBranchWithFilter получает бронирования филиала с гибкой фильтрацией
// по периоду, статусу и включению отменённых
func (r *Repository) GetByBranchWithFilter(ctx context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": filter.CustomerID, "branch_id": filter.BranchID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_at": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_at ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBranchWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatusCAS обновляет статус бронирования compare-and-swap'ом:
// строка меняется только если текущий статус равен expected.
// Ноль затронутых строк - конкурентное изменение, ErrStatusConflict
func (r *Repository) UpdateStatusCAS(ctx context.Context, id, customerID int64, expected, next domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "customer_id": customerID, "status": expected}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatusCAS - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusCAS - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusCAS - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// Cancel переводит бронирование в cancelled с указанием причины
// CAS-условие status != cancelled делает повторную отмену конфликтом
func (r *Repository) Cancel(ctx context.Context, id, customerID int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "customer_id": customerID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// Reschedule меняет время начала и/или профессионала бронирования
// Вызывается только внутри сериализуемой транзакции после повторной
// проверки конфликтов; exclusion constraint'ы подстраховывают и здесь
func (r *Repository) Reschedule(ctx context.Context, id, customerID int64, scheduledAt time.Time, professionalID int64, professionalName string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("scheduled_at", scheduledAt).
		Set("professional_id", professionalID).
		Set("professional_name", professionalName).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "customer_id": customerID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if conflictErr := mapConflictError(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// mapConflictError транслирует нарушения constraint'ов Postgres в доменные
// ошибки конфликтов; возвращает nil для всех прочих ошибок
func mapConflictError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch string(pqErr.Code) {
	case pqExclusionViolation:
		switch pqErr.Constraint {
		case constraintProfessionalOverlap:
			return ErrProfessionalConflict
		case constraintUserOverlap:
			return ErrUserConflict
		}
	case pqUniqueViolation:
		if pqErr.Constraint == constraintTokenUnique {
			return ErrTokenCollision
		}
	}

	return nil
}

// scanBooking сканирует одну строку результата в бронирование
func (r *Repository) scanBooking(row *sql.Row, op string) (*domain.Booking, error) {
	var (
		booking   domain.Booking
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.BranchID,
		&booking.ServiceID,
		&booking.ProfessionalID,
		&booking.UserID,
		&booking.ScheduledAt,
		&booking.DurationMinutes,
		&booking.TotalPrice,
		&booking.Currency,
		&booking.Status,
		&booking.ConfirmationToken,
		&booking.ServiceName,
		&booking.BranchName,
		&booking.ProfessionalName,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	if updatedAt.Valid {
		booking.UpdatedAt = &updatedAt.Time
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var (
			booking   domain.Booking
			updatedAt sql.NullTime
		)

		err := rows.Scan(
			&booking.ID,
			&booking.CustomerID,
			&booking.BranchID,
			&booking.ServiceID,
			&booking.ProfessionalID,
			&booking.UserID,
			&booking.ScheduledAt,
			&booking.DurationMinutes,
			&booking.TotalPrice,
			&booking.Currency,
			&booking.Status,
			&booking.ConfirmationToken,
			&booking.ServiceName,
			&booking.BranchName,
			&booking.ProfessionalName,
			&booking.CancellationReason,
			&booking.CancelledAt,
			&booking.CreatedAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		if updatedAt.Valid {
			booking.UpdatedAt = &updatedAt.Time
		}

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
