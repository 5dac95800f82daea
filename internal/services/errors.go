package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid          ErrorCode = "invalid"
	ErrorNotFound         ErrorCode = "not_found"
	ErrorForbidden        ErrorCode = "forbidden"
	ErrorConflict         ErrorCode = "conflict"
	ErrorUnauthorized     ErrorCode = "unauthorized"
	ErrorModelFault       ErrorCode = "model_fault"
	ErrorPersistenceFault ErrorCode = "persistence_fault"
)

// ServiceError is the taxonomy the controllers speak. NotFound and
// Forbidden surface synchronously to callers; model and persistence
// faults inside the analysis body become terminal job state instead.
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }

func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewModelFaultError(msg string) error {
	return &ServiceError{Code: ErrorModelFault, Message: msg}
}

func NewPersistenceFaultError(msg string) error {
	return &ServiceError{Code: ErrorPersistenceFault, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func IsCode(err error, code ErrorCode) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == code
}
