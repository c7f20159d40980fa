package get_available_now

import (
	"time"

	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

// Request модель запроса "кто свободен прямо сейчас"
type Request struct {
	BusinessID     int64  // ID бизнеса
	ServiceID      *int64 // Опциональный фильтр по услуге
	MinFreeMinutes int    // Минимальное свободное окно в минутах (0 = дефолт 15)
}

// Response модель ответа со списком свободных мастеров
type Response struct {
	BusinessID    int64                   // ID бизнеса
	GeneratedAt   time.Time               // Момент, на который считалась доступность
	Professionals []AvailableProfessional // Мастера, свободные прямо сейчас (по убыванию свободного времени)
}

// AvailableProfessional мастер, свободный в текущий момент
type AvailableProfessional struct {
	ProfessionalID int64            // ID мастера
	Name           string           // Имя мастера
	AvatarURL      string           // URL аватара
	FreeFrom       types.TimeString // Начало свободного окна (= текущее время)
	FreeUntil      types.TimeString // Конец свободного окна
	FreeMinutes    int              // Длина свободного окна в минутах
	Services       []ServiceSummary // Услуги, которые оказывает мастер
}

// ServiceSummary краткая информация об услуге
type ServiceSummary struct {
	ID   int64
	Name string
}
