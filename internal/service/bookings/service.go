package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	tenantClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис чтения бронирований и машины состояний подтверждения
//
// Переходы pending -> confirmed -> cancelled выполняются compare-and-swap
// обновлениями: ноль затронутых строк означает конкурентный переход,
// и причина конфликта восстанавливается повторным чтением
type Service struct {
	bookingRepo  BookingRepository
	tenantClient TenantServiceClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	tenantClient TenantServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		tenantClient: tenantClient,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID в рамках тенанта
// Клиент видит только свои бронирования, администратор - любые
func (s *Service) GetByID(ctx context.Context, customerID, bookingID int64, caller domain.Caller) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for customer=%d, caller=%d(%s)",
		bookingID, customerID, caller.UserID, caller.Role)

	booking, err := s.getBooking(ctx, bookingID, customerID, "GetByID")
	if err != nil {
		return nil, err
	}

	if !caller.CanAccessBooking(booking) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", caller.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetByToken получает бронирование по confirmation token
// Токен разыменовывается только в рамках тенанта, которому принадлежит slug:
// чужой slug не раскрывает даже существование бронирования
func (s *Service) GetByToken(ctx context.Context, customerSlug, token string) (*models.BookingResponse, error) {
	s.logger.Info("GetByToken: fetching booking by token for slug=%s", customerSlug)

	booking, err := s.getBookingByToken(ctx, customerSlug, token, "GetByToken")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// Confirm подтверждает бронирование по токену: pending -> confirmed
// Токен сам по себе является авторизацией
func (s *Service) Confirm(ctx context.Context, customerSlug, token string) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking by token for slug=%s", customerSlug)

	booking, err := s.getBookingByToken(ctx, customerSlug, token, "Confirm")
	if err != nil {
		return nil, err
	}

	if !booking.CanBeConfirmed() {
		return nil, s.confirmConflict(booking)
	}

	err = s.bookingRepo.UpdateStatusCAS(ctx, booking.ID, booking.CustomerID, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			// Кто-то успел поменять статус между чтением и CAS -
			// перечитываем, чтобы вернуть точную причину конфликта
			current, readErr := s.getBooking(ctx, booking.ID, booking.CustomerID, "Confirm")
			if readErr != nil {
				return nil, readErr
			}
			return nil, s.confirmConflict(current)
		}
		s.logger.Error("Confirm: repository error for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	confirmed, err := s.getBooking(ctx, booking.ID, booking.CustomerID, "Confirm")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: booking id=%d confirmed", confirmed.ID)
	return models.FromDomainBooking(confirmed), nil
}

// CancelByToken отменяет бронирование по токену
// Повторная отмена - конфликт, а не тихий успех: двойное нажатие
// должно быть видно вызывающему
func (s *Service) CancelByToken(ctx context.Context, customerSlug, token string, req *models.CancelBookingRequest) error {
	s.logger.Info("CancelByToken: cancelling booking by token for slug=%s", customerSlug)

	if err := validateReason(req.CancellationReason); err != nil {
		return err
	}

	booking, err := s.getBookingByToken(ctx, customerSlug, token, "CancelByToken")
	if err != nil {
		return err
	}

	return s.cancel(ctx, booking, req.CancellationReason, "CancelByToken")
}

// CancelByID отменяет бронирование аутентифицированным вызовом
// Клиент отменяет только свои бронирования, администратор - любые
func (s *Service) CancelByID(ctx context.Context, customerID, bookingID int64, caller domain.Caller, req *models.CancelBookingRequest) error {
	s.logger.Info("CancelByID: cancelling booking id=%d by user=%d(%s)", bookingID, caller.UserID, caller.Role)

	if err := validateReason(req.CancellationReason); err != nil {
		return err
	}

	booking, err := s.getBooking(ctx, bookingID, customerID, "CancelByID")
	if err != nil {
		return err
	}

	if !caller.CanAccessBooking(booking) {
		s.logger.Warn("CancelByID: access denied for user=%d to booking id=%d", caller.UserID, bookingID)
		return ErrAccessDenied
	}

	return s.cancel(ctx, booking, req.CancellationReason, "CancelByID")
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу; клиент видит только свою историю
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, customer=%d, status=%v",
		req.UserID, req.CustomerID, req.Status)

	if !req.Caller.IsAdmin() && req.Caller.UserID != req.UserID {
		s.logger.Warn("GetUserBookings: access denied for user=%d to history of user=%d",
			req.Caller.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.CustomerID, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBranchBookings получает бронирования филиала с фильтрацией
// по периоду и статусу. Доступно только администраторам тенанта
func (s *Service) GetBranchBookings(ctx context.Context, req *models.GetBranchBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBranchBookings: fetching bookings for branch=%d, customer=%d", req.BranchID, req.CustomerID)

	if !req.Caller.IsAdmin() {
		s.logger.Warn("GetBranchBookings: access denied for user=%d to branch=%d", req.Caller.UserID, req.BranchID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBranchBookings: invalid filter for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBranchWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBranchBookings: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: GetBranchBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBranchBookings: fetched %d bookings for branch=%d", len(bookings), req.BranchID)
	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные методы

// cancel выполняет отмену с CAS-защитой от повторной отмены
func (s *Service) cancel(ctx context.Context, booking *domain.Booking, reason *string, op string) error {
	if !booking.CanBeCancelled() {
		s.logger.Warn("%s: booking id=%d is already cancelled", op, booking.ID)
		return ErrAlreadyCancelled
	}

	if err := s.bookingRepo.Cancel(ctx, booking.ID, booking.CustomerID, reason); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("%s: booking id=%d cancelled concurrently", op, booking.ID)
			return ErrAlreadyCancelled
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, booking.ID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: booking id=%d cancelled", op, booking.ID)
	return nil
}

// confirmConflict возвращает точную причину невозможности подтверждения
func (s *Service) confirmConflict(booking *domain.Booking) error {
	if booking.IsCancelled() {
		s.logger.Warn("Confirm: booking id=%d is already cancelled", booking.ID)
		return ErrAlreadyCancelled
	}
	s.logger.Warn("Confirm: booking id=%d is already confirmed", booking.ID)
	return ErrAlreadyConfirmed
}

// getBooking читает бронирование по ID с маппингом ошибок репозитория
func (s *Service) getBooking(ctx context.Context, bookingID, customerID int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID, customerID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// getBookingByToken разрешает slug в тенанта и читает бронирование по токену
func (s *Service) getBookingByToken(ctx context.Context, customerSlug, token, op string) (*domain.Booking, error) {
	if customerSlug == "" || token == "" {
		return nil, fmt.Errorf("%w: slug and token are required", ErrInvalidInput)
	}

	customer, err := s.tenantClient.GetCustomerBySlug(ctx, customerSlug)
	if err != nil {
		if errors.Is(err, tenantClient.ErrCustomerNotFound) {
			s.logger.Warn("%s: customer slug=%s not found", op, customerSlug)
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("%s: failed to get customer slug=%s: %v", op, customerSlug, err)
		return nil, fmt.Errorf("%w: %s - failed to get customer: %v", ErrInternal, op, err)
	}

	booking, err := s.bookingRepo.GetByToken(ctx, token, customer.ID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: token not found within customer=%d", op, customer.ID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for token lookup: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return booking, nil
}

// validateReason проверяет длину причины отмены
func validateReason(reason *string) error {
	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}
	return nil
}
