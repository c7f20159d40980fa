package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	settingsStorage "github.com/m04kA/SBS-AvailabilityService/internal/infra/storage/settings"
	"github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SBS-AvailabilityService/pkg/ptr"
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
	created      *domain.Appointment
	createCalls  int
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.createCalls++
	created := *appt
	created.ID = 100
	f.created = &created
	return &created, nil
}

type fakeTimeBlockRepo struct {
	blocks []*domain.TimeBlock
}

func (f *fakeTimeBlockRepo) GetOverlappingDate(ctx context.Context, businessID int64, professionalID *int64, date time.Time) ([]*domain.TimeBlock, error) {
	return f.blocks, nil
}

type fakeSettingsRepo struct {
	settings *domain.BookingSettings
}

func (f *fakeSettingsRepo) GetWithHierarchy(ctx context.Context, businessID int64, professionalID *int64, serviceID *int64) (*domain.BookingSettings, error) {
	if f.settings == nil {
		return nil, settingsStorage.ErrSettingsNotFound
	}
	return f.settings, nil
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

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Вторник 2026-03-10
var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func openBusiness() *businessservice.Business {
	open := "09:00"
	close := "18:00"
	return &businessservice.Business{
		ID:   1,
		Name: "Salon",
		WorkingHours: businessservice.WeeklyHours{
			Tuesday: businessservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close},
		},
	}
}

func workingProfessional(id int64) *businessservice.Professional {
	return &businessservice.Professional{
		ID:                  id,
		Name:                "Anna",
		IsActive:            true,
		UsesCustomBuffer:    true,
		CustomBufferMinutes: ptr.Ptr(0),
		WeeklyAvailability: map[string]businessservice.DayAvailability{
			"tuesday": {Start: "09:00", End: "18:00"},
		},
	}
}

func haircutService() *businessservice.Service {
	price := 1500.0
	return &businessservice.Service{
		ID:              10,
		Name:            "Haircut",
		DurationMinutes: 60,
		Price:           &price,
		IsActive:        true,
	}
}

func validRequest() *Request {
	return &Request{
		BusinessID:     1,
		ProfessionalID: 1,
		ServiceID:      10,
		ClientID:       500,
		Date:           testDate,
		StartTime:      "10:00",
		CustomerName:   "Ivan Petrov",
		CustomerPhone:  "+79990001122",
	}
}

func newTestUseCase(
	apptRepo *fakeAppointmentRepo,
	settingsRepo *fakeSettingsRepo,
	client *fakeBusinessClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(apptRepo, &fakeTimeBlockRepo{}, settingsRepo, client, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, -1),
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Appointment)

	appt := resp.Appointment
	assert.Equal(t, int64(100), appt.ID)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Equal(t, domain.PaymentUnpaid, appt.PaymentStatus)
	assert.Equal(t, 60, appt.DurationMinutes)
	// Денормализованные данные услуги
	assert.Equal(t, "Haircut", appt.ServiceName)
	assert.Equal(t, 1500.0, appt.ServicePrice)
	assert.Equal(t, 1, repo.createCalls)
}

func TestExecute_SlotTakenByExistingAppointment(t *testing.T) {
	// Запись 09:30-10:30 пересекается с запрошенным слотом 10:00-11:00
	repo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			{ProfessionalID: 1, StartTime: "09:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, -1),
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Zero(t, repo.createCalls)
}

func TestExecute_BackToBackAppointmentAllowed(t *testing.T) {
	// Запись 09:00-10:00 заканчивается ровно в момент начала новой - конфликта нет
	repo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			{ProfessionalID: 1, StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, -1),
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, resp.Appointment)
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	repo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			{ProfessionalID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelledByClient},
		},
	}

	uc := newTestUseCase(
		repo,
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, -1),
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, resp.Appointment)
}

func TestExecute_TimeBlockMakesSlotUnavailable(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	uc := NewUseCase(
		repo,
		&fakeTimeBlockRepo{blocks: []*domain.TimeBlock{
			{
				BusinessID: 1,
				StartsAt:   time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC),
				EndsAt:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
				BlockType:  domain.BlockPersonal,
			},
		}},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testDate.AddDate(0, 0, -1)}

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, 2),
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooEarly)
}

func TestExecute_MinNoticeViolation(t *testing.T) {
	settings := &domain.BookingSettings{
		BusinessID:              1,
		SlotStepMinutes:         30,
		MinBookingNoticeMinutes: 120,
	}

	// Сейчас 09:00 того же дня, нужно 2 часа: старт 10:00 слишком ранний
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{settings: settings},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooEarly)

	// Старт ровно на границе уведомления проходит
	req := validRequest()
	req.StartTime = "11:00"
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotNil(t, resp.Appointment)
}

func TestExecute_AdvanceLimitViolation(t *testing.T) {
	settings := &domain.BookingSettings{
		BusinessID:         1,
		SlotStepMinutes:    30,
		AdvanceBookingDays: 3,
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{settings: settings},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, -10),
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooFarAhead)
}

func TestExecute_ProfessionalDoesNotOfferService(t *testing.T) {
	service := haircutService()
	service.ProfessionalIDs = []int64{2}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1)},
			services:      []*businessservice.Service{service},
		},
		testDate.AddDate(0, 0, -1),
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestExecute_NotFoundErrors(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{businessErr: businessservice.ErrBusinessNotFound},
		testDate.AddDate(0, 0, -1),
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	uc = newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business: openBusiness(),
			services: []*businessservice.Service{},
		},
		testDate.AddDate(0, 0, -1),
	)

	_, err = uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{},
		testDate.AddDate(0, 0, -1),
	)

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "zero business", mutate: func(r *Request) { r.BusinessID = 0 }},
		{name: "zero client", mutate: func(r *Request) { r.ClientID = 0 }},
		{name: "bad start time", mutate: func(r *Request) { r.StartTime = "25:99" }},
		{name: "empty customer name", mutate: func(r *Request) { r.CustomerName = "" }},
		{name: "empty customer phone", mutate: func(r *Request) { r.CustomerPhone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
