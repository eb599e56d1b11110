package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	tenantClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для частичного обновления бронирования
//
// Patch явно размечен: статус, время, профессионал. Перенос времени
// повторяет полный конвейер проверок создания бронирования - обойти
// гарантии конфликт-контроля через PATCH нельзя
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	tenantClient TenantServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	tenantClient TenantServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		tenantClient: tenantClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case обновления бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: customer=%d, booking=%d, caller=%d(%s)",
		req.CustomerID, req.BookingID, req.Caller.UserID, req.Caller.Role)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем бронирование для проверки прав и текущего состояния
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID, req.CustomerID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Клиент меняет только свои бронирования; статус клиент напрямую
	// не меняет вовсе - только через confirm/cancel
	if !req.Caller.CanAccessBooking(booking) {
		uc.logger.Warn("UpdateBooking: user=%d denied access to booking id=%d", req.Caller.UserID, req.BookingID)
		return nil, ErrForbidden
	}
	if req.Patch.Status != nil && !req.Caller.IsAdmin() {
		uc.logger.Warn("UpdateBooking: user=%d attempted direct status change on booking id=%d",
			req.Caller.UserID, req.BookingID)
		return nil, fmt.Errorf("%w: status changes require confirm/cancel", ErrForbidden)
	}

	// 4. Отменённое бронирование терминально
	if booking.IsCancelled() {
		uc.logger.Warn("UpdateBooking: booking id=%d is cancelled", req.BookingID)
		return nil, ErrBookingCancelled
	}

	// 5. Перевод в pending невозможен ни из какого состояния
	if req.Patch.Status != nil && *req.Patch.Status == domain.StatusPending {
		uc.logger.Warn("UpdateBooking: booking id=%d cannot return to pending", req.BookingID)
		return nil, ErrInvalidStatusTransition
	}

	// 6. Собираем целевое состояние переноса
	newScheduledAt := booking.ScheduledAt
	if req.Patch.ScheduledAt != nil {
		newScheduledAt = *req.Patch.ScheduledAt
	}
	newProfessionalID := booking.ProfessionalID
	newProfessionalName := booking.ProfessionalName

	if req.Patch.IsReschedule() {
		if !newScheduledAt.After(uc.timeProvider.Now()) {
			uc.logger.Warn("UpdateBooking: new time %s is in the past", newScheduledAt.Format(time.RFC3339))
			return nil, ErrScheduledInPast
		}

		// Смена профессионала требует его принадлежности тенанту
		// и назначения на филиал бронирования
		if req.Patch.ProfessionalID != nil && *req.Patch.ProfessionalID != booking.ProfessionalID {
			professional, err := uc.tenantClient.GetProfessional(ctx, req.CustomerID, *req.Patch.ProfessionalID)
			if err != nil {
				if errors.Is(err, tenantClient.ErrProfessionalNotFound) {
					uc.logger.Warn("UpdateBooking: professional id=%d not found for customer=%d",
						*req.Patch.ProfessionalID, req.CustomerID)
					return nil, ErrInvalidProfessionalReference
				}
				uc.logger.Error("UpdateBooking: failed to get professional id=%d: %v", *req.Patch.ProfessionalID, err)
				return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
			}
			if !professional.Active || !professional.AssignedToBranch(booking.BranchID) {
				uc.logger.Warn("UpdateBooking: professional id=%d not assigned to branch id=%d",
					*req.Patch.ProfessionalID, booking.BranchID)
				return nil, ErrProfessionalNotAssigned
			}
			newProfessionalID = professional.ID
			newProfessionalName = professional.Name
		}
	}

	// 7. Таймзона филиала нужна только при переносе времени
	var loc *time.Location
	if req.Patch.IsReschedule() {
		branch, err := uc.tenantClient.GetBranch(ctx, req.CustomerID, booking.BranchID)
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to get branch id=%d: %v", booking.BranchID, err)
			return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
		}
		loc, err = resolveLocation(branch.Timezone)
		if err != nil {
			uc.logger.Error("UpdateBooking: invalid timezone %q for branch id=%d: %v",
				branch.Timezone, booking.BranchID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
		}
	}

	// 8. Перенос и смена статуса - атомарно, serializable
	var updated *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Состояние могло измениться конкурентно - перечитываем в транзакции
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID, req.CustomerID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		if current.IsCancelled() {
			return ErrBookingCancelled
		}

		if req.Patch.IsReschedule() {
			if err := uc.reschedule(txCtx, req, current, loc, newScheduledAt, newProfessionalID, newProfessionalName); err != nil {
				return err
			}
		}

		if req.Patch.Status != nil {
			if err := uc.applyStatus(txCtx, current, *req.Patch.Status); err != nil {
				return err
			}
		}

		updated, err = uc.bookingRepo.GetByID(txCtx, req.BookingID, req.CustomerID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("UpdateBooking: rejected for booking id=%d: %v", req.BookingID, err)
		return nil, err
	}

	uc.logger.Info("UpdateBooking: booking id=%d updated, status=%s, at=%s",
		updated.ID, updated.Status, updated.ScheduledAt.Format(time.RFC3339))

	return toResponse(updated), nil
}

// reschedule повторяет проверки создания бронирования для нового интервала
// и применяет перенос
func (uc *UseCase) reschedule(
	ctx context.Context,
	req *Request,
	current *domain.Booking,
	loc *time.Location,
	scheduledAt time.Time,
	professionalID int64,
	professionalName string,
) error {
	localStart := scheduledAt.In(loc)
	weekday := localStart.Weekday()
	localTS := types.NewTimeString(localStart)
	end := scheduledAt.Add(time.Duration(current.DurationMinutes) * time.Minute)

	// Рабочее окно филиала; отсутствие записи = закрыто (fail closed)
	branchWindow, err := uc.scheduleRepo.GetBranchWindow(ctx, current.BranchID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
			return ErrBranchClosed
		}
		return fmt.Errorf("%w: failed to get branch window: %v", ErrInternal, err)
	}
	if branchWindow.IsClosed {
		return ErrBranchClosed
	}

	// Граница сетки слотов отсчитывается от открытия филиала
	if localStart.Second() != 0 || localStart.Nanosecond() != 0 {
		return ErrInvalidSlotBoundary
	}
	openMins, err := branchWindow.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: failed to parse branch open time: %v", ErrInternal, err)
	}
	atMins, err := localTS.Minutes()
	if err != nil {
		return fmt.Errorf("%w: failed to parse scheduled time: %v", ErrInternal, err)
	}
	offset := atMins - openMins
	if offset < 0 {
		return ErrOutsideOperatingHours
	}
	if offset%domain.SlotStepMinutes != 0 {
		return ErrInvalidSlotBoundary
	}

	localEnd, err := localTS.AddMinutes(current.DurationMinutes)
	if err != nil || !branchWindow.Contains(localTS, localEnd) {
		return ErrOutsideOperatingHours
	}

	// Рабочее окно профессионала
	professionalWindow, err := uc.scheduleRepo.GetProfessionalWindow(ctx, professionalID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
			return ErrOutsideOperatingHours
		}
		return fmt.Errorf("%w: failed to get professional window: %v", ErrInternal, err)
	}
	if professionalWindow.IsClosed || !professionalWindow.Contains(localTS, localEnd) {
		return ErrOutsideOperatingHours
	}

	// Пересечения с другими бронированиями пользователя; само переносимое
	// бронирование из проверки исключается
	userBookings, err := uc.bookingRepo.GetActiveForUserInterval(ctx, req.CustomerID, current.UserID, scheduledAt, end)
	if err != nil {
		return fmt.Errorf("%w: failed to get user bookings: %v", ErrInternal, err)
	}
	if hasOtherBooking(userBookings, current.ID) {
		return ErrUserAlreadyBooked
	}

	// Занятость профессионала по всем филиалам тенанта
	professionalBookings, err := uc.bookingRepo.GetActiveForProfessionalInterval(ctx, req.CustomerID, professionalID, scheduledAt, end)
	if err != nil {
		return fmt.Errorf("%w: failed to get professional bookings: %v", ErrInternal, err)
	}
	if hasOtherBooking(professionalBookings, current.ID) {
		return ErrProfessionalUnavailable
	}

	if err := uc.bookingRepo.Reschedule(ctx, current.ID, current.CustomerID, scheduledAt, professionalID, professionalName); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrProfessionalConflict):
			return ErrProfessionalUnavailable
		case errors.Is(err, bookingRepo.ErrUserConflict):
			return ErrUserAlreadyBooked
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			return ErrBookingCancelled
		default:
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}
	}
	return nil
}

// applyStatus применяет смену статуса из patch (только для администратора)
func (uc *UseCase) applyStatus(ctx context.Context, current *domain.Booking, next domain.BookingStatus) error {
	switch next {
	case domain.StatusConfirmed:
		if err := uc.bookingRepo.UpdateStatusCAS(ctx, current.ID, current.CustomerID, domain.StatusPending, domain.StatusConfirmed); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrInvalidStatusTransition
			}
			return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}
	case domain.StatusCancelled:
		if err := uc.bookingRepo.Cancel(ctx, current.ID, current.CustomerID, nil); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrBookingCancelled
			}
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}
	default:
		return ErrInvalidStatusTransition
	}
	return nil
}

// hasOtherBooking проверяет наличие в выборке бронирования с другим ID
func hasOtherBooking(bookings []*domain.Booking, excludeID int64) bool {
	for _, b := range bookings {
		if b.ID != excludeID {
			return true
		}
	}
	return false
}

// resolveLocation загружает таймзону филиала, пустая строка - UTC
func resolveLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}
	return time.LoadLocation(timezone)
}
