package review

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий отзывов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет отзыв. На одну запись допускается один отзыв.
func (r *Repository) Create(ctx context.Context, rev *domain.Review) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reviews").
		Columns("appointment_id", "business_id", "user_id", "rating", "comment").
		Values(rev.AppointmentID, rev.BusinessID, rev.UserID, rev.Rating, rev.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rev.ID, &createdAt)
	if pgerrors.IsUniqueViolation(err) {
		return nil, ErrDuplicateReview
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rev.CreatedAt = createdAt.Time

	return rev, nil
}

// ListByBusiness получает отзывы бизнеса, новые первыми
func (r *Repository) ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "appointment_id", "business_id", "user_id", "rating", "comment", "created_at").
		From("reviews").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		var rev domain.Review
		var createdAt sql.NullTime
		if err := rows.Scan(&rev.ID, &rev.AppointmentID, &rev.BusinessID, &rev.UserID, &rev.Rating, &rev.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByBusiness - scan row: %v", ErrScanRow, err)
		}
		rev.CreatedAt = createdAt.Time
		reviews = append(reviews, &rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - rows error: %v", ErrScanRow, err)
	}

	return reviews, nil
}

// GetSummary считает средний рейтинг и количество отзывов бизнеса
func (r *Repository) GetSummary(ctx context.Context, businessID int64) (*domain.RatingSummary, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(AVG(rating), 0)", "COUNT(*)").
		From("reviews").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSummary - build select query: %v", ErrBuildQuery, err)
	}

	summary := &domain.RatingSummary{BusinessID: businessID}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&summary.AverageRating, &summary.ReviewsCount); err != nil {
		return nil, fmt.Errorf("%w: GetSummary - scan summary: %v", ErrScanRow, err)
	}

	return summary, nil
}
