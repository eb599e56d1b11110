package update_booking

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
	bookings             map[int64]*domain.Booking
	userBookings         []*domain.Booking
	professionalBookings map[int64][]*domain.Booking
	rescheduleErr        error

	lastRescheduleCustomerID int64
}

func (m *mockBookingRepo) GetByID(_ context.Context, id, _ int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) Reschedule(_ context.Context, id, customerID int64, scheduledAt time.Time, professionalID int64, professionalName string) error {
	m.lastRescheduleCustomerID = customerID
	if m.rescheduleErr != nil {
		return m.rescheduleErr
	}
	b, ok := m.bookings[id]
	if !ok || b.CustomerID != customerID {
		return bookingRepo.ErrBookingNotFound
	}
	if b.IsCancelled() {
		return bookingRepo.ErrStatusConflict
	}
	b.ScheduledAt = scheduledAt
	b.ProfessionalID = professionalID
	b.ProfessionalName = professionalName
	b.UpdatedAt = ptr.Ptr(time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC))
	return nil
}

func (m *mockBookingRepo) UpdateStatusCAS(_ context.Context, id, customerID int64, expected, next domain.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok || b.CustomerID != customerID {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != expected {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = next
	return nil
}

func (m *mockBookingRepo) Cancel(_ context.Context, id, customerID int64, reason *string) error {
	b, ok := m.bookings[id]
	if !ok || b.CustomerID != customerID {
		return bookingRepo.ErrBookingNotFound
	}
	if b.IsCancelled() {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = ptr.Ptr(time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC))
	return nil
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
	branches      map[int64]*tenantservice.Branch
	professionals map[int64]*tenantservice.Professional
}

func (m *mockTenantClient) GetBranch(_ context.Context, _, branchID int64) (*tenantservice.Branch, error) {
	branch, ok := m.branches[branchID]
	if !ok {
		return nil, tenantservice.ErrBranchNotFound
	}
	return branch, nil
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

type noopLogger struct{}

func (l *noopLogger) Info(string, ...interface{})  {}
func (l *noopLogger) Warn(string, ...interface{})  {}
func (l *noopLogger) Error(string, ...interface{}) {}

// Тестовые данные

const (
	testCustomerID = int64(1)
	testBookingID  = int64(1)
	ownerID        = int64(42)
	adminID        = int64(7)
	firstProID     = int64(500)
	secondProID    = int64(501)
)

var (
	testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	// 2026-09-07 понедельник
	currentSlot = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	newSlot     = time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)
)

var (
	owner  = domain.Caller{UserID: ownerID, Role: domain.RoleClient}
	admin  = domain.Caller{UserID: adminID, Role: domain.RoleAdmin}
	victim = domain.Caller{UserID: 777, Role: domain.RoleClient}
)

func workWeek(start, end types.TimeString) map[time.Weekday]*domain.OperatingWindow {
	windows := make(map[time.Weekday]*domain.OperatingWindow)
	for day := time.Monday; day <= time.Friday; day++ {
		windows[day] = &domain.OperatingWindow{
			DayOfWeek: day,
			StartTime: start,
			EndTime:   end,
		}
	}
	return windows
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:               testBookingID,
		CustomerID:       testCustomerID,
		BranchID:         10,
		ServiceID:        100,
		ProfessionalID:   firstProID,
		ProfessionalName: "Анна",
		UserID:           ownerID,
		ScheduledAt:      currentSlot,
		DurationMinutes:  60,
		TotalPrice:       50,
		Currency:         "EUR",
		Status:           domain.StatusPending,
		CreatedAt:        time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func newFixture() (*mockBookingRepo, *mockScheduleRepo, *mockTenantClient) {
	booking := pendingBooking()

	bookings := &mockBookingRepo{
		bookings: map[int64]*domain.Booking{testBookingID: booking},
		// Интервальные выборки возвращают и само переносимое бронирование -
		// оно должно исключаться из проверки конфликтов
		userBookings:         []*domain.Booking{booking},
		professionalBookings: map[int64][]*domain.Booking{firstProID: {booking}},
	}

	schedule := &mockScheduleRepo{
		branchWindows: workWeek("09:00", "17:00"),
		professionalWindows: map[int64]map[time.Weekday]*domain.OperatingWindow{
			firstProID:  workWeek("09:00", "17:00"),
			secondProID: workWeek("09:00", "17:00"),
		},
	}

	tenant := &mockTenantClient{
		branches: map[int64]*tenantservice.Branch{
			10: {ID: 10, CustomerID: testCustomerID, Name: "Центральный филиал", ProfessionalIDs: []int64{firstProID, secondProID}},
		},
		professionals: map[int64]*tenantservice.Professional{
			firstProID: {
				ID: firstProID, CustomerID: testCustomerID, Name: "Анна",
				Active: true, BranchIDs: []int64{10},
			},
			secondProID: {
				ID: secondProID, CustomerID: testCustomerID, Name: "Борис",
				Active: true, BranchIDs: []int64{10},
			},
		},
	}

	return bookings, schedule, tenant
}

func newTestUseCase(bookings *mockBookingRepo, schedule *mockScheduleRepo, tenant *mockTenantClient) *UseCase {
	uc := NewUseCase(bookings, schedule, tenant, &mockTxManager{}, &noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

// Тесты

func TestExecute_RescheduleByOwner(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	uc := newTestUseCase(bookings, schedule, tenant)

	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID: testCustomerID,
		BookingID:  testBookingID,
		Caller:     owner,
		Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
	})
	require.NoError(t, err)

	assert.Equal(t, newSlot, resp.ScheduledAt)
	assert.Equal(t, firstProID, resp.ProfessionalID)
	assert.Equal(t, domain.StatusPending, resp.Status)
	require.NotNil(t, resp.UpdatedAt)

	// Перенос ограничен тенантом бронирования
	assert.Equal(t, testCustomerID, bookings.lastRescheduleCustomerID)
}

func TestExecute_RescheduleChangesProfessional(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	uc := newTestUseCase(bookings, schedule, tenant)

	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID: testCustomerID,
		BookingID:  testBookingID,
		Caller:     owner,
		Patch: Patch{
			ScheduledAt:    ptr.Ptr(newSlot),
			ProfessionalID: ptr.Ptr(secondProID),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, secondProID, resp.ProfessionalID)
	assert.Equal(t, "Борис", resp.ProfessionalName)
}

func TestExecute_RescheduleOwnIntervalNotAConflict(t *testing.T) {
	bookings, schedule, tenant := newFixture()
	uc := newTestUseCase(bookings, schedule, tenant)

	// Перенос на то же самое время: интервальные выборки вернут само
	// бронирование, но конфликтом оно не считается
	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID: testCustomerID,
		BookingID:  testBookingID,
		Caller:     owner,
		Patch:      Patch{ScheduledAt: ptr.Ptr(currentSlot)},
	})
	require.NoError(t, err)
	assert.Equal(t, currentSlot, resp.ScheduledAt)
}

func TestExecute_RescheduleConflicts(t *testing.T) {
	t.Run("user has another booking", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.userBookings = append(bookings.userBookings, &domain.Booking{
			ID: 99, UserID: ownerID, ScheduledAt: newSlot, DurationMinutes: 30, Status: domain.StatusConfirmed,
		})
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
		})
		assert.ErrorIs(t, err, ErrUserAlreadyBooked)
	})

	t.Run("professional busy with another booking", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.professionalBookings[firstProID] = append(bookings.professionalBookings[firstProID], &domain.Booking{
			ID: 99, ProfessionalID: firstProID, ScheduledAt: newSlot, DurationMinutes: 60, Status: domain.StatusPending,
		})
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
		})
		assert.ErrorIs(t, err, ErrProfessionalUnavailable)
	})

	t.Run("exclusion constraint race", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.rescheduleErr = bookingRepo.ErrProfessionalConflict
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
		})
		assert.ErrorIs(t, err, ErrProfessionalUnavailable)
	})
}

func TestExecute_RescheduleValidation(t *testing.T) {
	tests := []struct {
		name        string
		scheduledAt time.Time
		wantErr     error
	}{
		{name: "past time", scheduledAt: testNow.Add(-time.Hour), wantErr: ErrScheduledInPast},
		{name: "saturday is closed", scheduledAt: time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC), wantErr: ErrBranchClosed},
		{name: "off grid", scheduledAt: time.Date(2026, 9, 7, 14, 10, 0, 0, time.UTC), wantErr: ErrInvalidSlotBoundary},
		{name: "before opening", scheduledAt: time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC), wantErr: ErrOutsideOperatingHours},
		{name: "ends past closing", scheduledAt: time.Date(2026, 9, 7, 16, 30, 0, 0, time.UTC), wantErr: ErrOutsideOperatingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, schedule, tenant := newFixture()
			uc := newTestUseCase(bookings, schedule, tenant)

			_, err := uc.Execute(context.Background(), &Request{
				CustomerID: testCustomerID,
				BookingID:  testBookingID,
				Caller:     owner,
				Patch:      Patch{ScheduledAt: ptr.Ptr(tt.scheduledAt)},
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ProfessionalReferenceErrors(t *testing.T) {
	t.Run("unknown professional", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{ProfessionalID: ptr.Ptr(int64(666))},
		})
		assert.ErrorIs(t, err, ErrInvalidProfessionalReference)
	})

	t.Run("professional not assigned to branch", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		tenant.professionals[secondProID].BranchIDs = []int64{999}
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{ProfessionalID: ptr.Ptr(secondProID)},
		})
		assert.ErrorIs(t, err, ErrProfessionalNotAssigned)
	})
}

func TestExecute_StatusChangeByAdmin(t *testing.T) {
	t.Run("confirm pending", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		resp, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     admin,
			Patch:      Patch{Status: ptr.Ptr(domain.StatusConfirmed)},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, resp.Status)
	})

	t.Run("confirm already confirmed", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.bookings[testBookingID].Status = domain.StatusConfirmed
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     admin,
			Patch:      Patch{Status: ptr.Ptr(domain.StatusConfirmed)},
		})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("cancel", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		resp, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     admin,
			Patch:      Patch{Status: ptr.Ptr(domain.StatusCancelled)},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Status)
		require.NotNil(t, resp.CancelledAt)
	})

	t.Run("back to pending is never allowed", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.bookings[testBookingID].Status = domain.StatusConfirmed
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     admin,
			Patch:      Patch{Status: ptr.Ptr(domain.StatusPending)},
		})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})
}

func TestExecute_AccessControl(t *testing.T) {
	t.Run("stranger client", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     victim,
			Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("client cannot patch status directly", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{Status: ptr.Ptr(domain.StatusConfirmed)},
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin can reschedule any booking", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     admin,
			Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
		})
		assert.NoError(t, err)
	})
}

func TestExecute_TerminalAndMissing(t *testing.T) {
	t.Run("cancelled booking is terminal", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		bookings.bookings[testBookingID].Status = domain.StatusCancelled
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
		})
		assert.ErrorIs(t, err, ErrBookingCancelled)
	})

	t.Run("booking not found", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  404,
			Caller:     owner,
			Patch:      Patch{ScheduledAt: ptr.Ptr(newSlot)},
		})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("empty patch", func(t *testing.T) {
		bookings, schedule, tenant := newFixture()
		uc := newTestUseCase(bookings, schedule, tenant)

		_, err := uc.Execute(context.Background(), &Request{
			CustomerID: testCustomerID,
			BookingID:  testBookingID,
			Caller:     owner,
			Patch:      Patch{},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
