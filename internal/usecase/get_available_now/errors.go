package get_available_now

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_available_now: business not found")

	// ErrServiceNotFound возвращается, когда услуга-фильтр не найдена
	ErrServiceNotFound = errors.New("get_available_now: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_now: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_now: internal error")
)
