package contentlog

import "errors"

// ErrInvalidPageSize is returned by SetPageSize for sizes outside PageSizes.
var ErrInvalidPageSize = errors.New("invalid page size")

// ErrUnknownField is returned by SetFilter for fields it does not know.
var ErrUnknownField = errors.New("unknown filter field")

// ApplicationError is a failure reported by the server in its envelope.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return "server: " + e.Message
}
