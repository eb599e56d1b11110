package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	tenantClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
)

// UseCase use case для получения сетки доступных слотов
//
// Конвейер: рабочие окна -> генерация сетки кандидатов -> вычитание
// занятых интервалов. Занятость понижает доступность слота, но никогда
// не повышает её
type UseCase struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	tenantClient TenantServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	tenantClient TenantServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		tenantClient: tenantClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case проверки доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: customer=%d, branch=%d, service=%d, professional=%v, date=%s",
		req.CustomerID, req.BranchID, req.ServiceID, req.ProfessionalID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем филиал
	branch, err := uc.tenantClient.GetBranch(ctx, req.CustomerID, req.BranchID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrBranchNotFound) {
			uc.logger.Warn("CheckAvailability: branch id=%d not found", req.BranchID)
			return nil, ErrBranchNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}

	// 3. Получаем услугу (она задаёт длительность слота)
	service, err := uc.tenantClient.GetService(ctx, req.CustomerID, req.ServiceID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrServiceNotFound) {
			uc.logger.Warn("CheckAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Проверяем, что услуга предоставляется на этом филиале
	if !service.AvailableAtBranch(req.BranchID) {
		uc.logger.Warn("CheckAvailability: service id=%d not available at branch id=%d",
			req.ServiceID, req.BranchID)
		return nil, ErrServiceNotAvailableAtBranch
	}

	// 5. Все wall-clock вычисления ведём в таймзоне филиала
	loc, err := resolveLocation(branch.Timezone)
	if err != nil {
		uc.logger.Error("CheckAvailability: invalid timezone %q for branch id=%d: %v",
			branch.Timezone, req.BranchID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}

	dayStart, dayEnd := localDayBounds(req.Date, loc)
	weekday := dayStart.Weekday()

	// 6. Рабочее окно филиала; отсутствие записи = закрыто (fail closed)
	// Закрытый день - пустая сетка, а не сетка недоступных слотов
	branchWindow, err := uc.scheduleRepo.GetBranchWindow(ctx, req.BranchID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
			uc.logger.Info("CheckAvailability: no branch window for branch=%d, weekday=%d",
				req.BranchID, weekday)
			return emptyResponse(req), nil
		}
		uc.logger.Error("CheckAvailability: failed to get branch window: %v", err)
		return nil, fmt.Errorf("%w: failed to get branch window: %v", ErrInternal, err)
	}
	if branchWindow.IsClosed {
		uc.logger.Info("CheckAvailability: branch id=%d is closed on %s",
			req.BranchID, req.Date.Format(domain.DateFormat))
		return emptyResponse(req), nil
	}

	// 7. Определяем кандидатов-профессионалов
	candidateIDs, err := uc.resolveCandidates(ctx, req, branch)
	if err != nil {
		return nil, err
	}

	// 8. Загружаем рабочие окна кандидатов
	windows := make(map[int64]*domain.OperatingWindow, len(candidateIDs))
	for _, id := range candidateIDs {
		window, err := uc.scheduleRepo.GetProfessionalWindow(ctx, id, weekday)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
				// Нет записи - профессионал в этот день не работает
				closed := domain.ClosedWindow(weekday)
				windows[id] = &closed
				continue
			}
			uc.logger.Error("CheckAvailability: failed to get professional window id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get professional window: %v", ErrInternal, err)
		}
		windows[id] = window
	}

	// 9. Генерируем сетку кандидатов от рабочих часов филиала
	grid, err := generateBranchGrid(branchWindow, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to generate grid: %v", err)
		return nil, fmt.Errorf("%w: failed to generate grid: %v", ErrInternal, err)
	}
	if len(grid) == 0 {
		// Длительность услуги не помещается в рабочее окно целиком
		uc.logger.Info("CheckAvailability: no feasible slots for duration=%d at branch=%d",
			service.DurationMinutes, req.BranchID)
		return emptyResponse(req), nil
	}

	// 10. Загружаем активные бронирования филиала на день
	branchBookings, err := uc.bookingRepo.GetActiveForBranchInterval(ctx, req.CustomerID, req.BranchID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	byProfessional := groupByProfessional(branchBookings)

	// 11. Занятые интервалы самого пользователя (в т.ч. на других филиалах)
	var userBookings []*domain.Booking
	if req.UserID != nil {
		userBookings, err = uc.bookingRepo.GetActiveForUserInterval(ctx, req.CustomerID, *req.UserID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("CheckAvailability: failed to get user bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to get user bookings: %v", ErrInternal, err)
		}
	}

	// 12. Размечаем доступность каждого слота сетки
	now := uc.timeProvider.Now()
	slots := make([]domain.Slot, 0, len(grid))
	for _, slotTime := range grid {
		start, err := absoluteTime(dayStart, slotTime)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve slot time: %v", ErrInternal, err)
		}
		end := start.Add(serviceDuration(service.DurationMinutes))

		// Слот доступен, если он в будущем и хотя бы один кандидат
		// работает в это время и не занят другим бронированием
		// Прошедшие слоты сегодняшнего дня остаются в сетке, но недоступны
		available := false
		if start.After(now) {
			for _, id := range candidateIDs {
				if !slotFitsWindow(windows[id], slotTime, service.DurationMinutes) {
					continue
				}
				if hasOverlap(byProfessional[id], start, end) {
					continue
				}
				available = true
				break
			}
		}

		// Пользователь не может занять слот, пересекающийся с его же бронированием
		if available && hasOverlap(userBookings, start, end) {
			available = false
		}

		slots = append(slots, domain.Slot{Time: slotTime, Available: available})
	}

	uc.logger.Info("CheckAvailability: generated %d slots for branch=%d, service=%d, date=%s",
		len(slots), req.BranchID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:           req.Date,
		BranchID:       req.BranchID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Slots:          slots,
	}, nil
}

// resolveCandidates возвращает профессионалов, среди которых ищется
// доступность: либо один запрошенный, либо все назначенные на филиал
func (uc *UseCase) resolveCandidates(ctx context.Context, req *Request, branch *tenantClient.Branch) ([]int64, error) {
	if req.ProfessionalID == nil {
		return branch.ProfessionalIDs, nil
	}

	professional, err := uc.tenantClient.GetProfessional(ctx, req.CustomerID, *req.ProfessionalID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrProfessionalNotFound) {
			uc.logger.Warn("CheckAvailability: professional id=%d not found", *req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get professional id=%d: %v", *req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if !professional.Active || !professional.AssignedToBranch(req.BranchID) {
		uc.logger.Warn("CheckAvailability: professional id=%d not assigned to branch id=%d",
			*req.ProfessionalID, req.BranchID)
		return nil, ErrProfessionalNotAssigned
	}

	return []int64{professional.ID}, nil
}

// emptyResponse ответ с пустой сеткой слотов (закрытый день)
func emptyResponse(req *Request) *Response {
	return &Response{
		Date:           req.Date,
		BranchID:       req.BranchID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Slots:          []domain.Slot{},
	}
}
