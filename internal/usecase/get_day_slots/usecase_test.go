package get_day_slots

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
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, nil
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

// Вторник 2026-03-10
var (
	testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayAgo   = testDate.AddDate(0, 0, -1)
)

func openBusiness() *businessservice.Business {
	open := "09:00"
	close := "12:00"
	return &businessservice.Business{
		ID:   1,
		Name: "Salon",
		WorkingHours: businessservice.WeeklyHours{
			Tuesday: businessservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close},
		},
	}
}

func workingProfessional(id int64, name string) *businessservice.Professional {
	return &businessservice.Professional{
		ID:       id,
		Name:     name,
		IsActive: true,
		// Нулевой буфер, чтобы арифметика слотов в тестах была прямой
		UsesCustomBuffer:    true,
		CustomBufferMinutes: ptr.Ptr(0),
		WeeklyAvailability: map[string]businessservice.DayAvailability{
			"tuesday": {Start: "09:00", End: "12:00"},
		},
	}
}

func haircutService() *businessservice.Service {
	return &businessservice.Service{ID: 10, Name: "Haircut", DurationMinutes: 60, IsActive: true}
}

func newTestUseCase(
	apptRepo *fakeAppointmentRepo,
	settingsRepo *fakeSettingsRepo,
	client *fakeBusinessClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(apptRepo, &fakeTimeBlockRepo{}, settingsRepo, client, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func slotTimes(slots []domain.DaySlot) []string {
	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.Time)
	}
	return times
}

func availableTimes(slots []domain.DaySlot) []string {
	var times []string
	for _, s := range slots {
		if s.Available {
			times = append(times, s.Time)
		}
	}
	return times
}

func TestExecute_UnionAcrossProfessionals(t *testing.T) {
	// Мастер 1 занят с 09:00 до 10:00, мастер 2 свободен весь день.
	// Объединение дает все слоты, дублей нет.
	appointments := []*domain.Appointment{
		{ProfessionalID: 1, StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business: openBusiness(),
			professionals: []*businessservice.Professional{
				workingProfessional(1, "Anna"),
				workingProfessional(2, "Boris"),
			},
			services: []*businessservice.Service{haircutService()},
		},
		dayAgo,
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, slotTimes(resp.Slots))
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}
}

func TestExecute_SingleProfessionalMarkedGrid(t *testing.T) {
	// Для конкретного мастера отдается полная сетка дня с флагами.
	// Запись 09:00-10:00 делает 09:00 и 09:30 недоступными.
	appointments := []*domain.Appointment{
		{ProfessionalID: 1, StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
			services:      []*businessservice.Service{haircutService()},
		},
		dayAgo,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID:     1,
		ServiceID:      10,
		ProfessionalID: ptr.Ptr(int64(1)),
		Date:           testDate,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, slotTimes(resp.Slots))
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, availableTimes(resp.Slots))
}

func TestExecute_OffGridSlotAfterOddAppointment(t *testing.T) {
	// Запись нестандартной длины 09:00-09:45 сдвигает первый свободный
	// старт на 09:45 - он добавляется в сетку отдельным доступным слотом.
	appointments := []*domain.Appointment{
		{ProfessionalID: 1, StartTime: "09:00", DurationMinutes: 45, Status: domain.StatusConfirmed},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      opennessWiderBusiness(),
			professionals: []*businessservice.Professional{wideProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		dayAgo,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID:     1,
		ServiceID:      10,
		ProfessionalID: ptr.Ptr(int64(1)),
		Date:           testDate,
	})
	require.NoError(t, err)
	assert.Contains(t, slotTimes(resp.Slots), "09:45")
	assert.Contains(t, availableTimes(resp.Slots), "09:45")
	// 09:00 и 09:30 пересекаются с записью
	assert.NotContains(t, availableTimes(resp.Slots), "09:00")
	assert.NotContains(t, availableTimes(resp.Slots), "09:30")
}

// 09:00-14:00, чтобы после нестандартной записи оставалось место для услуги
func opennessWiderBusiness() *businessservice.Business {
	b := openBusiness()
	close := "14:00"
	b.WorkingHours.Tuesday.CloseTime = &close
	return b
}

func wideProfessional(id int64) *businessservice.Professional {
	p := workingProfessional(id, "Anna")
	p.WeeklyAvailability["tuesday"] = businessservice.DayAvailability{Start: "09:00", End: "14:00"}
	return p
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, 5),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	business := openBusiness()
	business.WorkingHours.Tuesday.IsOpen = false

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      business,
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
			services:      []*businessservice.Service{haircutService()},
		},
		dayAgo,
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_MinNoticeFiltersTodaySlots(t *testing.T) {
	// Сейчас 09:50, уведомление заранее 60 минут: первый допустимый
	// старт - 10:50, то есть сеточный слот 11:00.
	settings := &domain.BookingSettings{
		BusinessID:              1,
		SlotStepMinutes:         30,
		MinBookingNoticeMinutes: 60,
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{settings: settings},
		&fakeBusinessClient{
			business:      opennessWiderBusiness(),
			professionals: []*businessservice.Professional{wideProfessional(1)},
			services:      []*businessservice.Service{haircutService()},
		},
		time.Date(2026, 3, 10, 9, 50, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "11:30", "12:00", "12:30", "13:00"}, slotTimes(resp.Slots))
}

func TestExecute_AdvanceBookingLimit(t *testing.T) {
	// Лимит 3 дня, дата через 5 дней - слотов нет.
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
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
			services:      []*businessservice.Service{haircutService()},
		},
		testDate.AddDate(0, 0, -5),
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business: openBusiness(),
			services: []*businessservice.Service{haircutService()},
		},
		dayAgo,
	)

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 99, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ProfessionalNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business:      openBusiness(),
			professionals: []*businessservice.Professional{workingProfessional(1, "Anna")},
			services:      []*businessservice.Service{haircutService()},
		},
		dayAgo,
	)

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID:     1,
		ServiceID:      10,
		ProfessionalID: ptr.Ptr(int64(42)),
		Date:           testDate,
	})
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestExecute_ServiceProfessionalBinding(t *testing.T) {
	// Услугу оказывает только мастер 2: слоты строятся по его занятости.
	service := haircutService()
	service.ProfessionalIDs = []int64{2}

	appointments := []*domain.Appointment{
		// Мастер 2 занят весь день
		{ProfessionalID: 2, StartTime: "09:00", DurationMinutes: 180, Status: domain.StatusConfirmed},
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: appointments},
		&fakeSettingsRepo{},
		&fakeBusinessClient{
			business: openBusiness(),
			professionals: []*businessservice.Professional{
				workingProfessional(1, "Anna"),
				workingProfessional(2, "Boris"),
			},
			services: []*businessservice.Service{service},
		},
		dayAgo,
	)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: testDate})
	require.NoError(t, err)
	// Мастер 1 свободен, но услугу не оказывает
	assert.Empty(t, resp.Slots)
}
