package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден
	// или не оказывает запрошенную услугу
	ErrProfessionalNotFound = errors.New("create_appointment: professional not found")

	// ErrSlotUnavailable возвращается, когда запрошенное время занято
	// или не помещается в свободное окно мастера
	ErrSlotUnavailable = errors.New("create_appointment: slot unavailable")

	// ErrTooEarly возвращается, когда запись нарушает минимальное
	// время уведомления заранее
	ErrTooEarly = errors.New("create_appointment: booking notice violated")

	// ErrTooFarAhead возвращается, когда дата записи превышает
	// лимит глубины бронирования
	ErrTooFarAhead = errors.New("create_appointment: advance booking limit exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
