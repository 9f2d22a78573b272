package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Исходы расчёта для метрик
const (
	OutcomeOK             = "ok"
	OutcomeClosed         = "closed"
	OutcomeMalformedHours = "malformed_hours"
	OutcomeDegraded       = "degraded"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Календарная дата (время и часовой пояс игнорируются)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Полночь запрошенной даты в часовом поясе бизнеса
	BusinessID      int64
	ServiceID       int64
	DurationMinutes int    // Длительность услуги
	Slots           []Slot // Свободные слоты по возрастанию времени начала

	// Degraded - расписание или записи не удалось загрузить, Slots пустой
	Degraded bool
	// Diagnostic - причина пустого ответа при Degraded или некорректных часах работы
	Diagnostic *string
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Метка начала, например "10:00" (после полуночи - "00:30")
	StartAt   time.Time        // Абсолютное время начала
	EndAt     time.Time        // Абсолютное время окончания
}
