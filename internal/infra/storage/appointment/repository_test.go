package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/pkg/ptr"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns)
}

func addAppointmentRow(rows *sqlmock.Rows, id int64, startTime string, status domain.AppointmentStatus) *sqlmock.Rows {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id,                // id
		int64(1),          // business_id
		int64(7),          // professional_id
		int64(10),         // service_id
		int64(500),        // client_id
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), // appointment_date
		startTime+":00",  // start_time
		60,               // duration_minutes
		string(status),   // status
		"unpaid",         // payment_status
		"Haircut",        // service_name
		1500.0,           // service_price
		"Ivan Petrov",    // customer_name
		"+79990001122",   // customer_phone
		nil,              // notes
		nil,              // cancellation_reason
		nil,              // cancelled_at
		now,              // created_at
		now,              // updated_at
	)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := addAppointmentRow(appointmentRows(), 42, "10:00", domain.StatusConfirmed)
	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	appt, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), appt.ID)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Equal(t, "10:00", appt.StartTime.String())
	assert.Equal(t, 60, appt.DurationMinutes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(appointmentRows())

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_GetByBusinessWithFilter_SingleDateExcludesInactive(t *testing.T) {
	repo, mock := newMockRepo(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := addAppointmentRow(appointmentRows(), 1, "09:00", domain.StatusConfirmed)
	rows = addAppointmentRow(rows, 2, "11:00", domain.StatusPending)

	// Неактивные статусы исключаются запросом, сортировка по времени начала
	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE business_id = \$1 AND professional_id = \$2 AND appointment_date >= \$3 AND appointment_date <= \$4 AND status NOT IN \(\$5,\$6,\$7\) ORDER BY start_time ASC`).
		WithArgs(int64(1), int64(7), date, date,
			string(domain.StatusCancelledByClient),
			string(domain.StatusCancelledByBusiness),
			string(domain.StatusNoShow)).
		WillReturnRows(rows)

	filter := domain.BusinessAppointmentsFilter{
		BusinessID:     1,
		ProfessionalID: ptr.Ptr(int64(7)),
		StartDate:      &date,
		EndDate:        &date,
	}

	appointments, err := repo.GetByBusinessWithFilter(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, "09:00", appointments[0].StartTime.String())
	assert.Equal(t, "11:00", appointments[1].StartTime.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByBusinessWithFilter_StatusFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	status := domain.StatusCompleted
	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE business_id = \$1 AND status = \$2 ORDER BY appointment_date DESC, start_time DESC`).
		WithArgs(int64(1), string(status)).
		WillReturnRows(appointmentRows())

	filter := domain.BusinessAppointmentsFilter{BusinessID: 1, Status: &status}

	appointments, err := repo.GetByBusinessWithFilter(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, appointments)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO appointments .+ RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(100), now, now))

	appt := &domain.Appointment{
		BusinessID:      1,
		ProfessionalID:  7,
		ServiceID:       10,
		ClientID:        500,
		AppointmentDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentUnpaid,
		ServiceName:     "Haircut",
		ServicePrice:    1500.0,
		CustomerName:    "Ivan Petrov",
		CustomerPhone:   "+79990001122",
	}

	created, err := repo.Create(context.Background(), appt)
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Equal(t, now, created.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE appointments SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(string(domain.StatusCompleted), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, domain.StatusCompleted)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE appointments SET status = \$1, cancellation_reason = \$2, cancelled_at = NOW\(\), updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(string(domain.StatusCancelledByClient), "client asked", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 42, domain.StatusCancelledByClient, "client asked")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
