package domain

import "errors"

// ErrorKind groups expected operation failures for transport mapping.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConflict
	KindValidation
	KindNotFound
)

var (
	ErrAlreadyOccupied        = errors.New("table is already occupied")
	ErrUnsettledOrders        = errors.New("table has unsettled orders")
	ErrAlreadyProcessed       = errors.New("reservation has already been processed")
	ErrResourceInactive       = errors.New("table is deactivated")
	ErrVenueMismatch          = errors.New("table and reservation belong to different venues")
	ErrReservationNotBookable = errors.New("reservation is not in a bookable state")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrNotFound               = errors.New("not found")
)

// KindOf classifies an operation error. Wrapped sentinels are recognized.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrAlreadyOccupied),
		errors.Is(err, ErrUnsettledOrders),
		errors.Is(err, ErrAlreadyProcessed):
		return KindConflict
	case errors.Is(err, ErrResourceInactive),
		errors.Is(err, ErrVenueMismatch),
		errors.Is(err, ErrReservationNotBookable),
		errors.Is(err, ErrInvalidArgument):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}
