package booking

import "fmt"

// Error codes returned to callers. They are stable and safe to show to clients.
const (
	CodeInvalidRate        = "invalidRate"
	CodeInvalidTimeRange   = "invalidTimeRange"
	CodeCarNotFound        = "carNotFound"
	CodeNotAuthenticated   = "notAuthenticated"
	CodeSchedulingConflict = "schedulingConflict"
	CodeBookingNotFound    = "bookingNotFound"
	CodeAlreadyTerminal    = "alreadyTerminal"
	CodeInvalidTransition  = "invalidTransition"
	CodePersistenceFailure = "persistenceFailure"
)

// BookingError is the structured failure of a booking operation.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any BookingError with the same code, so errors.Is works against the
// sentinels below even when the message carries details.
func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidRate        = &BookingError{Code: CodeInvalidRate, Message: "daily rate must not be negative"}
	ErrInvalidTimeRange   = &BookingError{Code: CodeInvalidTimeRange, Message: "pickup must be strictly before return"}
	ErrCarNotFound        = &BookingError{Code: CodeCarNotFound, Message: "car not found"}
	ErrNotAuthenticated   = &BookingError{Code: CodeNotAuthenticated, Message: "sign in to place a booking"}
	ErrSchedulingConflict = &BookingError{Code: CodeSchedulingConflict, Message: "car is already booked for this period"}
	ErrBookingNotFound    = &BookingError{Code: CodeBookingNotFound, Message: "booking not found"}
	ErrAlreadyTerminal    = &BookingError{Code: CodeAlreadyTerminal, Message: "booking is already closed"}
	ErrInvalidTransition  = &BookingError{Code: CodeInvalidTransition, Message: "booking cannot move to the requested status"}
	ErrPersistenceFailure = &BookingError{Code: CodePersistenceFailure, Message: "booking could not be saved"}
)

func newBookingError(code, format string, args ...any) error {
	return &BookingError{Code: code, Message: fmt.Sprintf(format, args...)}
}
