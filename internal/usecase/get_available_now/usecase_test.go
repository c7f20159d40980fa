package get_available_now

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SBS-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeTimeBlockRepo struct {
	blocks []*domain.TimeBlock
	err    error
}

func (f *fakeTimeBlockRepo) GetOverlappingDate(ctx context.Context, businessID int64, professionalID *int64, date time.Time) ([]*domain.TimeBlock, error) {
	return f.blocks, f.err
}

type fakeBusinessClient struct {
	business      *businessservice.Business
	businessErr   error
	professionals []*businessservice.Professional
	services      []*businessservice.Service
}

func (f *fakeBusinessClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	return f.business, f.businessErr
}

func (f *fakeBusinessClient) GetProfessionals(ctx context.Context, businessID int64) ([]*businessservice.Professional, error) {
	return f.professionals, nil
}

func (f *fakeBusinessClient) GetServices(ctx context.Context, businessID int64) ([]*businessservice.Service, error) {
	return f.services, nil
}

// tuesdayAt возвращает вторник 2026-03-10 с указанным временем
func tuesdayAt(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func openBusiness() *businessservice.Business {
	open := "09:00"
	close := "18:00"
	return &businessservice.Business{
		ID:   1,
		Name: "Salon",
		WorkingHours: businessservice.WeeklyHours{
			Tuesday: businessservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close},
		},
		DefaultBufferMinutes: 0,
	}
}

func workingProfessional(id int64, name string) *businessservice.Professional {
	return &businessservice.Professional{
		ID:       id,
		Name:     name,
		IsActive: true,
		// Нулевой буфер, чтобы арифметика окон в тестах была прямой
		UsesCustomBuffer:    true,
		CustomBufferMinutes: ptr.Ptr(0),
		WeeklyAvailability: map[string]businessservice.DayAvailability{
			"tuesday": {Start: "09:00", End: "18:00"},
		},
	}
}

func newTestUseCase(
	apptRepo *fakeAppointmentRepo,
	blockRepo *fakeTimeBlockRepo,
	client *fakeBusinessClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(apptRepo, blockRepo, client, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_BusinessClosedToday(t *testing.T) {
	business := openBusiness()
	business.WorkingHours.Tuesday.IsOpen = false

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{business: business},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Professionals)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{businessErr: businessservice.ErrBusinessNotFound},
		tuesdayAt(12, 0),
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_SortsByFreeTimeDescending(t *testing.T) {
	// Мастер 1 занят с 13:00, мастер 2 свободен до конца дня (18:00).
	// В 12:00 у первого 60 минут, у второго 360 - второй должен быть первым.
	appointments := []*domain.Appointment{
		{ProfessionalID: 1, StartTime: "13:00", DurationMinutes: 120, Status: domain.StatusConfirmed},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{
			business: openBusiness(),
			professionals: []*businessservice.Professional{
				workingProfessional(1, "Anna"),
				workingProfessional(2, "Boris"),
			},
		},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Professionals, 2)

	assert.Equal(t, int64(2), resp.Professionals[0].ProfessionalID)
	assert.Equal(t, 360, resp.Professionals[0].FreeMinutes)
	assert.Equal(t, types.TimeString("12:00"), resp.Professionals[0].FreeFrom)
	assert.Equal(t, types.TimeString("18:00"), resp.Professionals[0].FreeUntil)

	assert.Equal(t, int64(1), resp.Professionals[1].ProfessionalID)
	assert.Equal(t, 60, resp.Professionals[1].FreeMinutes)
	assert.Equal(t, types.TimeString("13:00"), resp.Professionals[1].FreeUntil)
}

func TestExecute_BusyProfessionalExcluded(t *testing.T) {
	// Мастер занят прямо сейчас - текущая минута внутри записи.
	appointments := []*domain.Appointment{
		{ProfessionalID: 1, StartTime: "11:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
		},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Professionals)
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	appointments := []*domain.Appointment{
		{ProfessionalID: 1, StartTime: "11:30", DurationMinutes: 60, Status: domain.StatusCancelledByClient},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
		},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Professionals, 1)
}

func TestExecute_MinFreeMinutesFilter(t *testing.T) {
	// Окно до следующей записи - 20 минут. При minFree=30 мастер не попадает.
	appointments := []*domain.Appointment{
		{ProfessionalID: 1, StartTime: "12:20", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
		},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, MinFreeMinutes: 30})
	require.NoError(t, err)
	assert.Empty(t, resp.Professionals)

	// С дефолтным порогом (15 минут) мастер доступен.
	resp, err = uc.Execute(context.Background(), &Request{BusinessID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Professionals, 1)
	assert.Equal(t, 20, resp.Professionals[0].FreeMinutes)
}

func TestExecute_ServiceFilter(t *testing.T) {
	services := []*businessservice.Service{
		{ID: 10, Name: "Haircut", IsActive: true, ProfessionalIDs: []int64{1}},
		{ID: 20, Name: "Manicure", IsActive: true, ProfessionalIDs: []int64{2}},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{
			business: openBusiness(),
			professionals: []*businessservice.Professional{
				workingProfessional(1, "Anna"),
				workingProfessional(2, "Boris"),
			},
			services: services,
		},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(10))})
	require.NoError(t, err)
	require.Len(t, resp.Professionals, 1)
	assert.Equal(t, int64(1), resp.Professionals[0].ProfessionalID)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(99))})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_BusinessWideBlockExcludesEveryone(t *testing.T) {
	blocks := []*domain.TimeBlock{
		{
			BusinessID: 1,
			StartsAt:   tuesdayAt(11, 0),
			EndsAt:     tuesdayAt(14, 0),
			BlockType:  domain.BlockMaintenance,
		},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeTimeBlockRepo{blocks: blocks},
		&fakeBusinessClient{
			business: openBusiness(),
			professionals: []*businessservice.Professional{
				workingProfessional(1, "Anna"),
				workingProfessional(2, "Boris"),
			},
		},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Professionals)
}

func TestExecute_InactiveProfessionalSkipped(t *testing.T) {
	prof := workingProfessional(1, "Anna")
	prof.IsActive = false

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{prof},
		},
		tuesdayAt(12, 0),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Professionals)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeTimeBlockRepo{},
		&fakeBusinessClient{},
		tuesdayAt(12, 0),
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BusinessID: 1, MinFreeMinutes: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
