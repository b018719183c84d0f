package errs

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("reservation not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrReservaID        = errors.New("reservaId is required")
	ErrAlreadyExists    = errors.New("reservation already exists")
	ErrInvalidDateRange = errors.New("startDate must not be after endDate")
	ErrNoIdentity       = errors.New("no verified caller identity")
)
