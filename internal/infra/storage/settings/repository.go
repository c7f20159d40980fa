package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SBS-AvailabilityService/pkg/psqlbuilder"
)

// settingsColumns полный набор колонок таблицы booking_settings
var settingsColumns = []string{
	"id",
	"business_id",
	"professional_id",
	"service_id",
	"slot_step_minutes",
	"min_booking_notice_minutes",
	"advance_booking_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с настройками бронирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новые настройки бронирования
func (r *Repository) Create(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns(
			"business_id",
			"professional_id",
			"service_id",
			"slot_step_minutes",
			"min_booking_notice_minutes",
			"advance_booking_days",
		).
		Values(
			s.BusinessID,
			s.ProfessionalID,
			s.ServiceID,
			s.SlotStepMinutes,
			s.MinBookingNoticeMinutes,
			s.AdvanceBookingDays,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByScope получает настройки для точной комбинации (business, professional, service)
// nil означает NULL в соответствующей колонке
func (r *Repository) GetByScope(ctx context.Context, businessID int64, professionalID *int64, serviceID *int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(settingsColumns...).
		From("booking_settings").
		Where(squirrel.Eq{"business_id": businessID})

	// Фильтрация по professional_id (NULL или конкретное значение)
	if professionalID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *professionalID})
	}

	// Фильтрация по service_id (NULL или конкретное значение)
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.ProfessionalID,
		&s.ServiceID,
		&s.SlotStepMinutes,
		&s.MinBookingNoticeMinutes,
		&s.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetByID получает настройки по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("booking_settings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.ProfessionalID,
		&s.ServiceID,
		&s.SlotStepMinutes,
		&s.MinBookingNoticeMinutes,
		&s.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetWithHierarchy получает настройки с учетом иерархии приоритетов
// Приоритет применения настроек:
// 1. Настройки для конкретной услуги у конкретного мастера (professionalID, serviceID)
// 2. Настройки для всех услуг конкретного мастера (professionalID, NULL)
// 3. Настройки для конкретной услуги у всех мастеров (NULL, serviceID)
// 4. Глобальные настройки бизнеса (NULL, NULL)
//
// Если настройки не найдены ни на одном уровне, возвращает ErrSettingsNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, businessID int64, professionalID *int64, serviceID *int64) (*domain.BookingSettings, error) {
	// 1. Конкретная услуга у конкретного мастера
	if professionalID != nil && serviceID != nil {
		s, err := r.GetByScope(ctx, businessID, professionalID, serviceID)
		if err == nil {
			return s, nil
		}
		if err != ErrSettingsNotFound {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (professional+service): %v", ErrExecQuery, err)
		}
	}

	// 2. Все услуги конкретного мастера
	if professionalID != nil {
		s, err := r.GetByScope(ctx, businessID, professionalID, nil)
		if err == nil {
			return s, nil
		}
		if err != ErrSettingsNotFound {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (professional only): %v", ErrExecQuery, err)
		}
	}

	// 3. Конкретная услуга у всех мастеров
	if serviceID != nil {
		s, err := r.GetByScope(ctx, businessID, nil, serviceID)
		if err == nil {
			return s, nil
		}
		if err != ErrSettingsNotFound {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 3 (service only): %v", ErrExecQuery, err)
		}
	}

	// 4. Глобальные настройки бизнеса
	s, err := r.GetByScope(ctx, businessID, nil, nil)
	if err == nil {
		return s, nil
	}
	if err != ErrSettingsNotFound {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 4 (global): %v", ErrExecQuery, err)
	}

	return nil, ErrSettingsNotFound
}

// GetAllByBusiness получает все настройки бизнеса (глобальные, по мастерам и услугам)
func (r *Repository) GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("booking_settings").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("professional_id ASC NULLS FIRST, service_id ASC NULLS FIRST"). // Глобальные настройки первыми
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BookingSettings, 0)

	for rows.Next() {
		var s domain.BookingSettings
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.BusinessID,
			&s.ProfessionalID,
			&s.ServiceID,
			&s.SlotStepMinutes,
			&s.MinBookingNoticeMinutes,
			&s.AdvanceBookingDays,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByBusiness - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		result = append(result, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Update обновляет настройки бронирования
func (r *Repository) Update(ctx context.Context, id int64, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_settings").
		Set("slot_step_minutes", s.SlotStepMinutes).
		Set("min_booking_notice_minutes", s.MinBookingNoticeMinutes).
		Set("advance_booking_days", s.AdvanceBookingDays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	s.ID = id
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// Delete удаляет настройки бронирования
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_settings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
