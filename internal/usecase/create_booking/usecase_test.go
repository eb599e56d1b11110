package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Моки

type mockBookingRepo struct {
	created              *domain.Booking
	createErr            error
	professionalBookings map[int64][]*domain.Booking
	userBookings         []*domain.Booking
}

func (m *mockBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	saved := *booking
	saved.ID = 1
	saved.CreatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	m.created = &saved
	return &saved, nil
}

func (m *mockBookingRepo) GetActiveForProfessionalInterval(_ context.Context, _, professionalID int64, _, _ time.Time) ([]*domain.Booking, error) {
	return m.professionalBookings[professionalID], nil
}

func (m *mockBookingRepo) GetActiveForUserInterval(_ context.Context, _, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return m.userBookings, nil
}

type mockScheduleRepo struct {
	branchWindows       map[time.Weekday]*domain.OperatingWindow
	professionalWindows map[int64]map[time.Weekday]*domain.OperatingWindow
}

func (m *mockScheduleRepo) GetBranchWindow(_ context.Context, _ int64, day time.Weekday) (*domain.OperatingWindow, error) {
	window, ok := m.branchWindows[day]
	if !ok {
		return nil, scheduleRepo.ErrWindowNotFound
	}
	return window, nil
}

func (m *mockScheduleRepo) GetProfessionalWindow(_ context.Context, professionalID int64, day time.Weekday) (*domain.OperatingWindow, error) {
	windows, ok := m.professionalWindows[professionalID]
	if !ok {
		return nil, scheduleRepo.ErrWindowNotFound
	}
	window, ok := windows[day]
	if !ok {
		return nil, scheduleRepo.ErrWindowNotFound
	}
	return window, nil
}

type mockTenantClient struct {
	customers     map[int64]*tenantservice.Customer
	branches      map[int64]*tenantservice.Branch
	services      map[int64]*tenantservice.Service
	professionals map[int64]*tenantservice.Professional
}

func (m *mockTenantClient) GetCustomer(_ context.Context, customerID int64) (*tenantservice.Customer, error) {
	customer, ok := m.customers[customerID]
	if !ok {
		return nil, tenantservice.ErrCustomerNotFound
	}
	return customer, nil
}

func (m *mockTenantClient) GetBranch(_ context.Context, _, branchID int64) (*tenantservice.Branch, error) {
	branch, ok := m.branches[branchID]
	if !ok {
		return nil, tenantservice.ErrBranchNotFound
	}
	return branch, nil
}

func (m *mockTenantClient) GetService(_ context.Context, _, serviceID int64) (*tenantservice.Service, error) {
	service, ok := m.services[serviceID]
	if !ok {
		return nil, tenantservice.ErrServiceNotFound
	}
	return service, nil
}

func (m *mockTenantClient) GetProfessional(_ context.Context, _, professionalID int64) (*tenantservice.Professional, error) {
	professional, ok := m.professionals[professionalID]
	if !ok {
		return nil, tenantservice.ErrProfessionalNotFound
	}
	return professional, nil
}

type mockTxManager struct{}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type fixedTokenGenerator struct {
	token string
}

func (g *fixedTokenGenerator) NewToken() string { return g.token }

type noopLogger struct{}

func (l *noopLogger) Info(string, ...interface{})  {}
func (l *noopLogger) Warn(string, ...interface{})  {}
func (l *noopLogger) Error(string, ...interface{}) {}

// Тестовые данные

const (
	testCustomerID = int64(1)
	testUserID     = int64(42)
	testBranchID   = int64(10)
	testServiceID  = int64(100)
	firstProID     = int64(500)
	secondProID    = int64(501)
	testToken      = "fixed-confirmation-token"
)

// 2026-09-01 вторник, "сейчас"; 2026-09-07 понедельник, запрошенный слот
var (
	testNow     = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	slotMonday  = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	slotEndDay  = time.Date(2026, 9, 7, 16, 30, 0, 0, time.UTC)
	slotOffGrid = time.Date(2026, 9, 7, 10, 7, 0, 0, time.UTC)
)

func workWeek(start, end types.TimeString, breakStart, breakEnd *types.TimeString) map[time.Weekday]*domain.OperatingWindow {
	windows := make(map[time.Weekday]*domain.OperatingWindow)
	for day := time.Monday; day <= time.Friday; day++ {
		windows[day] = &domain.OperatingWindow{
			DayOfWeek:  day,
			StartTime:  start,
			EndTime:    end,
			BreakStart: breakStart,
			BreakEnd:   breakEnd,
		}
	}
	return windows
}

func newFixture() (*mockBookingRepo, *mockScheduleRepo, *mockTenantClient) {
	bookings := &mockBookingRepo{
		professionalBookings: make(map[int64][]*domain.Booking),
	}

	schedule := &mockScheduleRepo{
		branchWindows: workWeek("09:00", "17:00",
			ptr.Ptr(types.TimeString("12:00")), ptr.Ptr(types.TimeString("13:00"))),
		professionalWindows: map[int64]map[time.Weekday]*domain.OperatingWindow{
			firstProID:  workWeek("09:00", "17:00", nil, nil),
			secondProID: workWeek("09:00", "17:00", nil, nil),
		},
	}

	tenant := &mockTenantClient{
		customers: map[int64]*tenantservice.Customer{
			testCustomerID: {ID: testCustomerID, Slug: "acme", Name: "Acme", Currency: "EUR"},
		},
		branches: map[int64]*tenantservice.Branch{
			testBranchID: {
				ID:              testBranchID,
				CustomerID:      testCustomerID,
				Name:            "Центральный филиал",
				ProfessionalIDs: []int64{secondProID, firstProID}, // намеренно не по порядку
			},
		},
		services: map[int64]*tenantservice.Service{
			testServiceID: {
				ID:              testServiceID,
				CustomerID:      testCustomerID,
				Name:            "Консультация",
				DurationMinutes: 60,
				Prices:          []tenantservice.BranchPrice{{BranchID: testBranchID, Price: 50}},
			},
		},
		professionals: map[int64]*tenantservice.Professional{
			firstProID: {
				ID: firstProID, CustomerID: testCustomerID, Name: "Анна",
				Active: true, BranchIDs: []int64{testBranchID},
			},
			secondProID: {
				ID: secondProID, CustomerID: testCustomerID, Name: "Борис",
				Active: true, BranchIDs: []int64{testBranchID},
			},
		},
	}

	return bookings, schedule, tenant
}

func newTestUseCase(bookings *mockBookingRepo, schedule *mockScheduleRepo, tenant *mockTenantClient) *UseCase {
	uc := NewUseCase(bookings, schedule, tenant, &mockTxManager{}, &noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	uc.tokenGenerator = &fixedTokenGenerator{token: testToken}
	return uc
}

func validRequest() *Request {
	return &Request{
		CustomerID:  testCustomerID,
		UserID:      testUserID,
		BranchID:    testBranchID,
		ServiceID:   testServiceID,
		ScheduledAt: slotMonday,
	}
}

// Тесты

func TestExecute_AutoAssignPicksLowestFreeID(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	uc := newTestUseCase(bookings, schedule, tenant)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Кандидаты перебираются по возрастанию ID независимо от порядка
	// в списке филиала
	assert.Equal(t, firstProID, resp.ProfessionalID)
	assert.Equal(t, "Анна", resp.ProfessionalName)

	// Цена и валюта зафиксированы на момент создания
	assert.Equal(t, 50.0, resp.TotalPrice)
	assert.Equal(t, "EUR", resp.Currency)

	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, testToken, resp.ConfirmationToken)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Консультация", resp.ServiceName)
	assert.Equal(t, "Центральный филиал", resp.BranchName)
}

func TestExecute_AutoAssignSkipsBusyProfessional(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	bookings.professionalBookings[firstProID] = []*domain.Booking{
		{ID: 7, ProfessionalID: firstProID, ScheduledAt: slotMonday, DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := newTestUseCase(bookings, schedule, tenant)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, secondProID, resp.ProfessionalID)
	assert.Equal(t, "Борис", resp.ProfessionalName)
}

func TestExecute_AllProfessionalsBusy(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	busy := []*domain.Booking{
		{ID: 7, ScheduledAt: slotMonday, DurationMinutes: 60, Status: domain.StatusPending},
	}
	bookings.professionalBookings[firstProID] = busy
	bookings.professionalBookings[secondProID] = busy
	uc := newTestUseCase(bookings, schedule, tenant)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProfessionalUnavailable)
}

func TestExecute_ExplicitProfessional(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	uc := newTestUseCase(bookings, schedule, tenant)

	req := validRequest()
	req.ProfessionalID = ptr.Ptr(secondProID)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, secondProID, resp.ProfessionalID)
}

func TestExecute_ExplicitProfessionalBusy(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	bookings.professionalBookings[secondProID] = []*domain.Booking{
		{ID: 7, ProfessionalID: secondProID, ScheduledAt: slotMonday, DurationMinutes: 60, Status: domain.StatusPending},
	}
	uc := newTestUseCase(bookings, schedule, tenant)

	req := validRequest()
	req.ProfessionalID = ptr.Ptr(secondProID)

	// Для явно запрошенного профессионала занятость не приводит к
	// автоподбору другого
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProfessionalUnavailable)
}

func TestExecute_ExplicitProfessionalOutsideHours(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	delete(schedule.professionalWindows, secondProID)
	uc := newTestUseCase(bookings, schedule, tenant)

	req := validRequest()
	req.ProfessionalID = ptr.Ptr(secondProID)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideOperatingHours)
}

func TestExecute_ExplicitProfessionalNotAssigned(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	tenant.professionals[secondProID].BranchIDs = []int64{999}
	uc := newTestUseCase(bookings, schedule, tenant)

	req := validRequest()
	req.ProfessionalID = ptr.Ptr(secondProID)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProfessionalNotAssigned)
}

func TestExecute_ExplicitProfessionalUnknown(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	uc := newTestUseCase(bookings, schedule, tenant)

	req := validRequest()
	req.ProfessionalID = ptr.Ptr(int64(666))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidProfessionalReference)
}

func TestExecute_UserAlreadyBooked(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	bookings.userBookings = []*domain.Booking{
		{ID: 9, UserID: testUserID, ScheduledAt: slotMonday, DurationMinutes: 30, Status: domain.StatusPending},
	}
	uc := newTestUseCase(bookings, schedule, tenant)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrUserAlreadyBooked)
}

func TestExecute_ScheduleRejections(t *testing.T) {
	tests := []struct {
		name        string
		scheduledAt time.Time
		wantErr     error
	}{
		{name: "past time", scheduledAt: testNow.Add(-time.Hour), wantErr: ErrScheduledInPast},
		{name: "exactly now", scheduledAt: testNow, wantErr: ErrScheduledInPast},
		{name: "saturday is closed", scheduledAt: time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC), wantErr: ErrBranchClosed},
		{name: "off grid minutes", scheduledAt: slotOffGrid, wantErr: ErrInvalidSlotBoundary},
		{name: "non zero seconds", scheduledAt: slotMonday.Add(30 * time.Second), wantErr: ErrInvalidSlotBoundary},
		{name: "before opening", scheduledAt: time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC), wantErr: ErrOutsideOperatingHours},
		{name: "ends past closing", scheduledAt: slotEndDay, wantErr: ErrOutsideOperatingHours},
		{name: "crosses branch break", scheduledAt: time.Date(2026, 9, 7, 11, 30, 0, 0, time.UTC), wantErr: ErrOutsideOperatingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, schedule, tenant := newFixture()
			uc := newTestUseCase(bookings, schedule, tenant)

			req := validRequest()
			req.ScheduledAt = tt.scheduledAt

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ReferenceErrors(t *testing.T) {
	t.Run("customer not found", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		delete(tenant.customers, testCustomerID)
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("branch not found", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		delete(tenant.branches, testBranchID)
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrInvalidBranchReference)
	})

	t.Run("service not found", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		delete(tenant.services, testServiceID)
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrInvalidServiceReference)
	})

	t.Run("service not available at branch", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		tenant.services[testServiceID].Prices = nil
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotAvailableAtBranch)
	})

	t.Run("invalid input", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		req := validRequest()
		req.BranchID = 0

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_ConstraintConflictMapping(t *testing.T) {
	t.Run("professional exclusion constraint", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.createErr = bookingRepo.ErrProfessionalConflict
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrProfessionalUnavailable)
	})

	t.Run("user exclusion constraint", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.createErr = bookingRepo.ErrUserConflict
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrUserAlreadyBooked)
	})
}

func TestExecute_BoundaryFollowsBranchOpening(t *testing.T) {
	// Филиал открывается в 09:30 - сетка сдвинута относительно часа
	bookings, schedule, tenant := newFixture()
	schedule.branchWindows = workWeek("09:30", "17:00", nil, nil)
	uc := newTestUseCase(bookings, schedule, tenant)

	req := validRequest()
	req.ScheduledAt = time.Date(2026, 9, 7, 10, 45, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Ровный час теперь не на границе сетки
	req.ScheduledAt = time.Date(2026, 9, 7, 10, 40, 0, 0, time.UTC)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlotBoundary)
}
