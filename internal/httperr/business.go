package httperr

import "errors"

// Business error codes returned to API clients.
const (
	CodeSalonNotFound       = "salon_not_found"
	CodeServiceNotFound     = "service_not_found"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeBlockNotFound       = "block_not_found"

	CodeSlotUnavailable = "slot_unavailable"
	CodeBookingBusy     = "booking_busy"

	CodeInvalidInput    = "invalid_input"
	CodeInvalidDate     = "invalid_date"
	CodeInvalidTime     = "invalid_time"
	CodeInvalidDuration = "invalid_duration"
	CodeInvalidStatus   = "invalid_status"

	CodeInvalidTransition  = "invalid_transition"
	CodeCancellationClosed = "cancellation_window_closed"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindInvalidTransition
)

var kinds = map[string]Kind{
	CodeSalonNotFound:       KindNotFound,
	CodeServiceNotFound:     KindNotFound,
	CodeAppointmentNotFound: KindNotFound,
	CodeBlockNotFound:       KindNotFound,

	CodeSlotUnavailable: KindConflict,
	CodeBookingBusy:     KindConflict,

	CodeInvalidInput:    KindInvalidInput,
	CodeInvalidDate:     KindInvalidInput,
	CodeInvalidTime:     KindInvalidInput,
	CodeInvalidDuration: KindInvalidInput,
	CodeInvalidStatus:   KindInvalidInput,

	CodeInvalidTransition:  KindInvalidTransition,
	CodeCancellationClosed: KindInvalidTransition,
}

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func (e BusinessError) Kind() Kind {
	return kinds[e.Code]
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf classifies err; anything that is not a BusinessError is
// KindUnknown and treated as an infrastructure failure.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind()
	}
	return KindUnknown
}
