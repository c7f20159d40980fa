package get_available_now

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.MinFreeMinutes < 0 {
		return fmt.Errorf("%w: minFreeMinutes must not be negative", ErrInvalidInput)
	}

	return nil
}
