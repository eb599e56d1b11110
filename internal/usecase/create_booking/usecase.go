package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	tenantClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания бронирования
//
// Все обращения к TenantService выполняются ДО открытия транзакции:
// внутри serializable-транзакции остаются только обращения к БД.
// Проверка конфликтов на уровне приложения продублирована exclusion
// constraint'ами в БД - они страхуют от гонок между инстансами сервиса
type UseCase struct {
	bookingRepo    BookingRepository
	scheduleRepo   ScheduleRepository
	tenantClient   TenantServiceClient
	txManager      TransactionManager
	tokenGenerator TokenGenerator
	timeProvider   TimeProvider
	logger         Logger
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
		bookingRepo:    bookingRepo,
		scheduleRepo:   scheduleRepo,
		tenantClient:   tenantClient,
		txManager:      txManager,
		tokenGenerator: &UUIDTokenGenerator{},
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// candidate профессионал-кандидат на назначение
type candidate struct {
	id   int64
	name string
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, user=%d, branch=%d, service=%d, professional=%v, at=%s",
		req.CustomerID, req.UserID, req.BranchID, req.ServiceID, req.ProfessionalID,
		req.ScheduledAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование возможно только на будущее время
	if !req.ScheduledAt.After(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: scheduled time %s is in the past", req.ScheduledAt.Format(time.RFC3339))
		return nil, ErrScheduledInPast
	}

	// 3. Тенант (источник валюты для фиксации цены)
	customer, err := uc.tenantClient.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 4. Филиал; чужой или несуществующий филиал - ошибка валидации,
	// существование чужих сущностей не раскрываем
	branch, err := uc.tenantClient.GetBranch(ctx, req.CustomerID, req.BranchID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrBranchNotFound) {
			uc.logger.Warn("CreateBooking: branch id=%d not found for customer=%d", req.BranchID, req.CustomerID)
			return nil, ErrInvalidBranchReference
		}
		uc.logger.Error("CreateBooking: failed to get branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}

	// 5. Услуга и её цена на этом филиале (цена фиксируется в бронировании)
	service, err := uc.tenantClient.GetService(ctx, req.CustomerID, req.ServiceID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found for customer=%d", req.ServiceID, req.CustomerID)
			return nil, ErrInvalidServiceReference
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	price, ok := service.PriceForBranch(req.BranchID)
	if !ok {
		uc.logger.Warn("CreateBooking: service id=%d not available at branch id=%d", req.ServiceID, req.BranchID)
		return nil, ErrServiceNotAvailableAtBranch
	}

	// 6. Кандидаты на назначение: либо запрошенный профессионал, либо
	// все назначенные на филиал в порядке возрастания ID
	candidates, err := uc.resolveCandidates(ctx, req, branch)
	if err != nil {
		return nil, err
	}

	// 7. Все wall-clock проверки ведём в таймзоне филиала
	loc, err := resolveLocation(branch.Timezone)
	if err != nil {
		uc.logger.Error("CreateBooking: invalid timezone %q for branch id=%d: %v", branch.Timezone, req.BranchID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}

	localStart := req.ScheduledAt.In(loc)
	weekday := localStart.Weekday()
	localTS := types.NewTimeString(localStart)
	start := req.ScheduledAt
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	explicit := req.ProfessionalID != nil

	// 8. Проверка расписания, занятости и вставка - атомарно,
	// на уровне изоляции serializable
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Рабочее окно филиала; отсутствие записи = закрыто (fail closed)
		branchWindow, err := uc.scheduleRepo.GetBranchWindow(txCtx, req.BranchID, weekday)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
				return ErrBranchClosed
			}
			return fmt.Errorf("%w: failed to get branch window: %v", ErrInternal, err)
		}
		if branchWindow.IsClosed {
			return ErrBranchClosed
		}

		// 8.2. Время должно попадать на границу сетки слотов,
		// отсчитываемой от открытия филиала
		if localStart.Second() != 0 || localStart.Nanosecond() != 0 {
			return ErrInvalidSlotBoundary
		}
		offset, err := gridOffset(branchWindow.StartTime, localTS)
		if err != nil {
			return fmt.Errorf("%w: failed to compute grid offset: %v", ErrInternal, err)
		}
		if offset < 0 {
			return ErrOutsideOperatingHours
		}
		if offset%domain.SlotStepMinutes != 0 {
			return ErrInvalidSlotBoundary
		}

		// 8.3. Интервал бронирования целиком в рабочих часах филиала
		localEnd, err := localTS.AddMinutes(service.DurationMinutes)
		if err != nil || !branchWindow.Contains(localTS, localEnd) {
			return ErrOutsideOperatingHours
		}

		// 8.4. У пользователя не должно быть пересекающихся активных
		// бронирований (в т.ч. на других филиалах тенанта)
		userBookings, err := uc.bookingRepo.GetActiveForUserInterval(txCtx, req.CustomerID, req.UserID, start, end)
		if err != nil {
			return fmt.Errorf("%w: failed to get user bookings: %v", ErrInternal, err)
		}
		if len(userBookings) > 0 {
			return ErrUserAlreadyBooked
		}

		// 8.5. Подбор профессионала: первый по возрастанию ID, который
		// работает в это время и не занят
		assigned, err := uc.pickProfessional(txCtx, req, candidates, explicit, weekday, localTS, service.DurationMinutes, start, end)
		if err != nil {
			return err
		}

		// 8.6. Вставка; exclusion constraint'ы БД - последний рубеж
		// против гонок
		booking := &domain.Booking{
			CustomerID:        req.CustomerID,
			BranchID:          req.BranchID,
			ServiceID:         req.ServiceID,
			ProfessionalID:    assigned.id,
			UserID:            req.UserID,
			ScheduledAt:       req.ScheduledAt,
			DurationMinutes:   service.DurationMinutes,
			TotalPrice:        price,
			Currency:          customer.Currency,
			Status:            domain.StatusPending,
			ConfirmationToken: uc.tokenGenerator.NewToken(),
			ServiceName:       service.Name,
			BranchName:        branch.Name,
			ProfessionalName:  assigned.name,
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrProfessionalConflict):
				return ErrProfessionalUnavailable
			case errors.Is(err, bookingRepo.ErrUserConflict):
				return ErrUserAlreadyBooked
			default:
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: rejected: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, professional=%d, token=%s",
		created.ID, created.ProfessionalID, created.ConfirmationToken)

	return toResponse(created), nil
}

// resolveCandidates возвращает кандидатов на назначение в порядке
// возрастания ID; записи профессионалов загружаются здесь, до транзакции
func (uc *UseCase) resolveCandidates(ctx context.Context, req *Request, branch *tenantClient.Branch) ([]candidate, error) {
	ids := branch.ProfessionalIDs
	if req.ProfessionalID != nil {
		ids = []int64{*req.ProfessionalID}
	}

	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	candidates := make([]candidate, 0, len(sorted))
	for _, id := range sorted {
		professional, err := uc.tenantClient.GetProfessional(ctx, req.CustomerID, id)
		if err != nil {
			if errors.Is(err, tenantClient.ErrProfessionalNotFound) {
				if req.ProfessionalID != nil {
					uc.logger.Warn("CreateBooking: professional id=%d not found for customer=%d", id, req.CustomerID)
					return nil, ErrInvalidProfessionalReference
				}
				// Назначение на филиале опередило справочник - пропускаем
				continue
			}
			uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}

		if !professional.Active || !professional.AssignedToBranch(req.BranchID) {
			if req.ProfessionalID != nil {
				uc.logger.Warn("CreateBooking: professional id=%d not assigned to branch id=%d", id, req.BranchID)
				return nil, ErrProfessionalNotAssigned
			}
			continue
		}

		candidates = append(candidates, candidate{id: professional.ID, name: professional.Name})
	}

	if len(candidates) == 0 {
		uc.logger.Warn("CreateBooking: no active professionals at branch id=%d", req.BranchID)
		return nil, ErrProfessionalUnavailable
	}

	return candidates, nil
}

// pickProfessional выбирает первого кандидата, который работает в запрошенное
// время и свободен от пересекающихся бронирований
// Для явно запрошенного профессионала причина отказа различается:
// не работает - ErrOutsideOperatingHours, занят - ErrProfessionalUnavailable
func (uc *UseCase) pickProfessional(
	ctx context.Context,
	req *Request,
	candidates []candidate,
	explicit bool,
	weekday time.Weekday,
	localTS types.TimeString,
	durationMinutes int,
	start, end time.Time,
) (*candidate, error) {
	for i := range candidates {
		c := &candidates[i]

		window, err := uc.scheduleRepo.GetProfessionalWindow(ctx, c.id, weekday)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
				if explicit {
					return nil, ErrOutsideOperatingHours
				}
				continue
			}
			return nil, fmt.Errorf("%w: failed to get professional window: %v", ErrInternal, err)
		}

		localEnd, err := localTS.AddMinutes(durationMinutes)
		if err != nil || window.IsClosed || !window.Contains(localTS, localEnd) {
			if explicit {
				return nil, ErrOutsideOperatingHours
			}
			continue
		}

		// Занятость профессионала смотрим по всем филиалам тенанта
		occupied, err := uc.bookingRepo.GetActiveForProfessionalInterval(ctx, req.CustomerID, c.id, start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get professional bookings: %v", ErrInternal, err)
		}
		if len(occupied) > 0 {
			if explicit {
				return nil, ErrProfessionalUnavailable
			}
			continue
		}

		return c, nil
	}

	return nil, ErrProfessionalUnavailable
}

// gridOffset смещение в минутах от открытия филиала до запрошенного времени
func gridOffset(open, at types.TimeString) (int, error) {
	openMins, err := open.Minutes()
	if err != nil {
		return 0, err
	}
	atMins, err := at.Minutes()
	if err != nil {
		return 0, err
	}
	return atMins - openMins, nil
}

// resolveLocation загружает таймзону филиала, пустая строка - UTC
func resolveLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}
	return time.LoadLocation(timezone)
}
