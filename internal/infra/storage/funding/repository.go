package funding

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий счётчиков сборов и обработанных уведомлений об оплате
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сборов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertPaymentEvent фиксирует уведомление провайдера.
// Повторное уведомление с тем же (provider, event_id) возвращает ErrDuplicateEvent.
func (r *Repository) InsertPaymentEvent(ctx context.Context, evt domain.PaymentEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_events").
		Columns("provider", "event_id", "event_type", "counter_name", "amount", "currency", "occurred_at").
		Values(evt.Provider, evt.EventID, evt.EventType, evt.CounterName, evt.Amount, evt.Currency, evt.OccurredAt).
		Suffix("ON CONFLICT (provider, event_id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: InsertPaymentEvent - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: InsertPaymentEvent - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: InsertPaymentEvent - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDuplicateEvent
	}

	return nil
}

// IncrementCounter прибавляет сумму к счётчику, создавая его при первом поступлении
func (r *Repository) IncrementCounter(ctx context.Context, name, currency string, amount int64) (*domain.FundingCounter, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("funding_counters").
		Columns("name", "currency", "total_amount", "contributions").
		Values(name, currency, amount, 1).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			total_amount = funding_counters.total_amount + EXCLUDED.total_amount,
			contributions = funding_counters.contributions + 1,
			updated_at = NOW()
		RETURNING name, currency, total_amount, contributions, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: IncrementCounter - build upsert query: %v", ErrBuildQuery, err)
	}

	counter, err := scanCounter(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementCounter - execute upsert: %v", ErrExecQuery, err)
	}

	return counter, nil
}

// Get получает счётчик по имени
func (r *Repository) Get(ctx context.Context, name string) (*domain.FundingCounter, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("name", "currency", "total_amount", "contributions", "updated_at").
		From("funding_counters").
		Where(squirrel.Eq{"name": name}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	counter, err := scanCounter(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCounterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan counter: %v", ErrScanRow, err)
	}

	return counter, nil
}

func scanCounter(row *sql.Row) (*domain.FundingCounter, error) {
	var c domain.FundingCounter
	var updatedAt sql.NullTime

	if err := row.Scan(&c.Name, &c.Currency, &c.TotalAmount, &c.Contributions, &updatedAt); err != nil {
		return nil, err
	}

	c.UpdatedAt = updatedAt.Time

	return &c, nil
}
