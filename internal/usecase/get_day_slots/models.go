package get_day_slots

import (
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
)

// Request модель запроса слотов на день
type Request struct {
	BusinessID     int64     // ID бизнеса
	ServiceID      int64     // ID услуги (определяет длительность слота)
	ProfessionalID *int64    // Опциональный фильтр по мастеру
	Date           time.Time // Дата, на которую строятся слоты
}

// Response модель ответа со слотами на день
//
// Для конкретного мастера Slots содержит полную сетку рабочего дня бизнеса
// с флагами доступности. Без фильтра по мастеру - объединение доступных
// времен по всем мастерам (Available у таких слотов всегда true).
type Response struct {
	BusinessID     int64            // ID бизнеса
	ServiceID      int64            // ID услуги
	ProfessionalID *int64           // ID мастера, если запрошен конкретный
	Date           string           // Дата в формате YYYY-MM-DD
	Slots          []domain.DaySlot // Слоты в порядке возрастания времени
}
