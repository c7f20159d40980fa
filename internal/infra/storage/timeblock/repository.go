package timeblock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SBS-AvailabilityService/pkg/psqlbuilder"
)

// timeBlockColumns полный набор колонок таблицы time_blocks
var timeBlockColumns = []string{
	"id",
	"business_id",
	"professional_id",
	"starts_at",
	"ends_at",
	"block_type",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с блокировками времени
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую блокировку времени
func (r *Repository) Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error) {
	if !block.EndsAt.After(block.StartsAt) {
		return nil, ErrInvalidRange
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_blocks").
		Columns(
			"business_id",
			"professional_id",
			"starts_at",
			"ends_at",
			"block_type",
			"reason",
		).
		Values(
			block.BusinessID,
			block.ProfessionalID,
			block.StartsAt,
			block.EndsAt,
			block.BlockType,
			block.Reason,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&block.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time
	block.UpdatedAt = updatedAt.Time

	return block, nil
}

// GetOverlappingRange получает блокировки бизнеса, пересекающиеся с периодом [from, to)
// Возвращает и персональные блокировки мастеров, и блокировки на весь бизнес
// (professional_id IS NULL); опциональный professionalID сужает выборку до
// блокировок конкретного мастера плюс общих
func (r *Repository) GetOverlappingRange(ctx context.Context, businessID int64, professionalID *int64, from, to time.Time) ([]*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(timeBlockColumns...).
		From("time_blocks").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Lt{"starts_at": to}).
		Where(squirrel.Gt{"ends_at": from}).
		OrderBy("starts_at ASC")

	if professionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"professional_id": *professionalID},
			squirrel.Eq{"professional_id": nil},
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlappingRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlappingRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTimeBlocks(rows)
}

// GetOverlappingDate получает блокировки бизнеса, затрагивающие календарную дату
func (r *Repository) GetOverlappingDate(ctx context.Context, businessID int64, professionalID *int64, date time.Time) ([]*domain.TimeBlock, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return r.GetOverlappingRange(ctx, businessID, professionalID, dayStart, dayEnd)
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_blocks").
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
		return ErrTimeBlockNotFound
	}

	return nil
}

// scanTimeBlocks сканирует результаты запроса в слайс блокировок
func scanTimeBlocks(rows *sql.Rows) ([]*domain.TimeBlock, error) {
	blocks := make([]*domain.TimeBlock, 0)

	for rows.Next() {
		var block domain.TimeBlock
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.BusinessID,
			&block.ProfessionalID,
			&block.StartsAt,
			&block.EndsAt,
			&block.BlockType,
			&block.Reason,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanTimeBlocks - scan row: %v", ErrScanRow, err)
		}

		block.CreatedAt = createdAt.Time
		block.UpdatedAt = updatedAt.Time

		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTimeBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}
