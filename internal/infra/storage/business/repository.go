package business

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var businessColumns = []string{
	"id",
	"owner_id",
	"name",
	"description",
	"address",
	"phone",
	"image_url",
	"created_at",
	"updated_at",
}

// Repository репозиторий бизнесов и их расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бизнес
func (r *Repository) Create(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("businesses").
		Columns("owner_id", "name", "description", "address", "phone", "image_url").
		Values(b.OwnerID, b.Name, b.Description, b.Address, b.Phone, b.ImageURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бизнес по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(businessColumns...).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBusiness(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan business: %v", ErrScanRow, err)
	}

	return b, nil
}

// List возвращает страницу каталога бизнесов, отсортированную по имени
func (r *Repository) List(ctx context.Context, filter domain.BusinessListFilter) ([]*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyListFilter(psqlbuilder.Select(businessColumns...).From("businesses"), filter).
		OrderBy("name ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset()))

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	businesses := make([]*domain.Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return businesses, nil
}

// Count возвращает количество бизнесов под фильтром (для пагинации)
func (r *Repository) Count(ctx context.Context, filter domain.BusinessListFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyListFilter(psqlbuilder.Select("COUNT(*)").From("businesses"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return total, nil
}

// GetHours получает записи расписания бизнеса как они хранятся.
// Дни могут отсутствовать или повторяться, нормализация выполняется выше.
func (r *Repository) GetHours(ctx context.Context, businessID int64) ([]domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "business_id", "day_of_week", "start_time", "end_time", "is_closed").
		From("business_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]domain.BusinessHours, 0, domain.DaysInWeek)
	for rows.Next() {
		var h domain.BusinessHours
		if err := rows.Scan(&h.ID, &h.BusinessID, &h.DayOfWeek, &h.StartTime, &h.EndTime, &h.IsClosed); err != nil {
			return nil, fmt.Errorf("%w: GetHours - scan row: %v", ErrScanRow, err)
		}
		hours = append(hours, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// ReplaceHours заменяет недельное расписание бизнеса целиком
// Вызывается внутри транзакции, иначе читатели могут увидеть пустую неделю
func (r *Repository) ReplaceHours(ctx context.Context, businessID int64, hours []domain.BusinessHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("business_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceHours - execute delete: %v", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("business_hours").
		Columns("business_id", "day_of_week", "start_time", "end_time", "is_closed")
	for _, h := range hours {
		insertBuilder = insertBuilder.Values(businessID, h.DayOfWeek, h.StartTime, h.EndTime, h.IsClosed)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func applyListFilter(b squirrel.SelectBuilder, filter domain.BusinessListFilter) squirrel.SelectBuilder {
	if filter.Query != nil && *filter.Query != "" {
		b = b.Where(squirrel.ILike{"name": "%" + *filter.Query + "%"})
	}
	if filter.OwnerID != nil {
		b = b.Where(squirrel.Eq{"owner_id": *filter.OwnerID})
	}
	return b
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (*domain.Business, error) {
	var b domain.Business
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Description,
		&b.Address,
		&b.Phone,
		&b.ImageURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
