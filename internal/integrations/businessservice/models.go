package businessservice

import "time"

// DaySchedule расписание работы бизнеса на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "09:00"
	CloseTime *string `json:"close_time,omitempty"` // "18:00"
}

// WeeklyHours расписание работы бизнеса по дням недели
type WeeklyHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// Business модель бизнеса (салона) из BusinessService
type Business struct {
	ID                   int64       `json:"id"`
	Name                 string      `json:"name"`
	Timezone             string      `json:"timezone"`
	WorkingHours         WeeklyHours `json:"working_hours"`
	DefaultBufferMinutes int         `json:"default_buffer_minutes"`
	ManagerIDs           []int64     `json:"manager_ids"`
}

// IsManager проверяет, что пользователь является менеджером бизнеса
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ScheduleFor возвращает расписание бизнеса на указанный день недели
func (b *Business) ScheduleFor(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return b.WorkingHours.Monday
	case time.Tuesday:
		return b.WorkingHours.Tuesday
	case time.Wednesday:
		return b.WorkingHours.Wednesday
	case time.Thursday:
		return b.WorkingHours.Thursday
	case time.Friday:
		return b.WorkingHours.Friday
	case time.Saturday:
		return b.WorkingHours.Saturday
	case time.Sunday:
		return b.WorkingHours.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// DayAvailability рабочее окно мастера на один день недели
// Отсутствие записи на день недели означает выходной
type DayAvailability struct {
	Start      string  `json:"start"` // "09:00"
	End        string  `json:"end"`   // "18:00"
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
}

// Professional модель мастера из BusinessService
type Professional struct {
	ID                  int64  `json:"id"`
	BusinessID          int64  `json:"business_id"`
	Name                string `json:"name"`
	AvatarURL           string `json:"avatar_url"`
	IsActive            bool   `json:"is_active"`
	CustomBufferMinutes *int   `json:"custom_buffer_minutes,omitempty"`
	UsesCustomBuffer    bool   `json:"uses_custom_buffer"`

	// WeeklyAvailability ключ - день недели в нижнем регистре ("monday".."sunday")
	WeeklyAvailability map[string]DayAvailability `json:"weekly_availability"`
}

// AvailabilityFor возвращает рабочее окно мастера на день недели
// nil означает выходной день
func (p *Professional) AvailabilityFor(weekday time.Weekday) *DayAvailability {
	key := weekdayKey(weekday)
	if day, ok := p.WeeklyAvailability[key]; ok {
		return &day
	}
	return nil
}

// EffectiveBufferMinutes возвращает действующий буфер мастера:
// кастомный буфер, если включен, иначе дефолт бизнеса, иначе общий fallback
func (p *Professional) EffectiveBufferMinutes(businessDefault int, fallback int) int {
	if p.UsesCustomBuffer && p.CustomBufferMinutes != nil {
		return *p.CustomBufferMinutes
	}
	if businessDefault > 0 {
		return businessDefault
	}
	return fallback
}

// Service модель услуги из BusinessService
type Service struct {
	ID              int64    `json:"id"`
	BusinessID      int64    `json:"business_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price,omitempty"`
	IsActive        bool     `json:"is_active"`

	// ProfessionalIDs мастера, оказывающие услугу
	// Пустой список у ВСЕХ услуг бизнеса означает, что связка не настроена
	// и каждый мастер оказывает каждую услугу
	ProfessionalIDs []int64 `json:"professional_ids"`
}

// OfferedBy проверяет, что услугу оказывает указанный мастер
// unrestricted=true означает, что у бизнеса вообще нет связок услуга-мастер
func (s *Service) OfferedBy(professionalID int64, unrestricted bool) bool {
	if unrestricted || len(s.ProfessionalIDs) == 0 {
		return true
	}
	for _, id := range s.ProfessionalIDs {
		if id == professionalID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от BusinessService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func weekdayKey(weekday time.Weekday) string {
	switch weekday {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	case time.Sunday:
		return "sunday"
	default:
		return ""
	}
}
