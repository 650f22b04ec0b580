package irodshttp

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

// ErrorPhase tells where an operation failed
type ErrorPhase string

const (
	// PhaseValidation is for errors raised before any network call
	PhaseValidation ErrorPhase = "validation"
	// PhaseTransport is for network failures and non-2xx HTTP responses
	PhaseTransport ErrorPhase = "transport"
	// PhaseApplication is for 2xx responses carrying a non-zero iRODS status code
	PhaseApplication ErrorPhase = "application"
)

// well-known iRODS error codes
const (
	SysInvalidInputParam          int = -130000
	ObjPathDoesNotExist           int = -358000
	CatNoRowsFound                int = -808000
	CatNameExistsAsCollection     int = -809000
	CatSuccessButWithNoInfo       int = -812000
	CatInvalidArgument            int = -816000
	CatNoAccessPermission         int = -818000
	CatCollectionNotEmpty         int = -821000
	CatInsufficientPrivilegeLevel int = -830000
)

var (
	// ErrNoToken is raised when an operation is called before a token is set
	ErrNoToken = xerrors.New("no token set, authenticate or call SetToken() first")
	// ErrInvalidType is raised when a parameter has a wrong primitive type
	ErrInvalidType = xerrors.New("invalid parameter type")
	// ErrInvalidValue is raised when a parameter value is outside the allowed set
	ErrInvalidValue = xerrors.New("invalid parameter value")
	// ErrMissingParameter is raised when a required parameter is not given
	ErrMissingParameter = xerrors.New("missing required parameter")
	// ErrOpenIDNotSupported is raised by AuthenticateWithOpenID
	ErrOpenIDNotSupported = xerrors.New("OpenID authentication is not supported")
)

// OperationError is the error returned by every API operation
type OperationError struct {
	Phase     ErrorPhase
	Endpoint  string
	Operation string
	// Code is the HTTP status for transport errors and the iRODS status for application errors
	Code    int
	Message string
	Err     error
}

func newValidationError(spec *operationSpec, cause error, format string, v ...interface{}) *OperationError {
	return &OperationError{
		Phase:     PhaseValidation,
		Endpoint:  spec.endpoint,
		Operation: spec.op,
		Code:      0,
		Message:   fmt.Sprintf(format, v...),
		Err:       cause,
	}
}

func newTransportError(spec *operationSpec, statusCode int, message string, cause error) *OperationError {
	return &OperationError{
		Phase:     PhaseTransport,
		Endpoint:  spec.endpoint,
		Operation: spec.op,
		Code:      statusCode,
		Message:   message,
		Err:       cause,
	}
}

func newApplicationError(spec *operationSpec, irodsStatusCode int, message string) *OperationError {
	return &OperationError{
		Phase:     PhaseApplication,
		Endpoint:  spec.endpoint,
		Operation: spec.op,
		Code:      irodsStatusCode,
		Message:   message,
	}
}

func (e *OperationError) Error() string {
	target := e.Endpoint
	if len(e.Operation) > 0 {
		target = fmt.Sprintf("%s (op=%s)", e.Endpoint, e.Operation)
	}

	switch e.Phase {
	case PhaseTransport:
		if e.Code > 0 {
			return fmt.Sprintf("request to %s failed with HTTP status %d: %s", target, e.Code, e.Message)
		}
		return fmt.Sprintf("request to %s failed: %s", target, e.Message)
	case PhaseApplication:
		return fmt.Sprintf("request to %s failed with iRODS status %d: %s", target, e.Code, e.Message)
	default:
		return fmt.Sprintf("invalid request to %s: %s", target, e.Message)
	}
}

// Unwrap returns the cause
func (e *OperationError) Unwrap() error {
	return e.Err
}

// ToString stringifies the object
func (e *OperationError) ToString() string {
	return fmt.Sprintf("<OperationError %s %s %s %d %q>", e.Phase, e.Endpoint, e.Operation, e.Code, e.Message)
}

func getOperationError(err error) (*OperationError, bool) {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr, true
	}
	return nil, false
}

// IsOperationError evaluates if the given error is OperationError
func IsOperationError(err error) bool {
	_, ok := getOperationError(err)
	return ok
}

// IsValidationError evaluates if the given error was raised before any network call
func IsValidationError(err error) bool {
	opErr, ok := getOperationError(err)
	return ok && opErr.Phase == PhaseValidation
}

// IsTransportError evaluates if the given error is a network failure or non-2xx response
func IsTransportError(err error) bool {
	opErr, ok := getOperationError(err)
	return ok && opErr.Phase == PhaseTransport
}

// IsApplicationError evaluates if the given error carries a non-zero iRODS status code
func IsApplicationError(err error) bool {
	opErr, ok := getOperationError(err)
	return ok && opErr.Phase == PhaseApplication
}

// IsNoTokenError evaluates if the given error was caused by a missing token
func IsNoTokenError(err error) bool {
	return errors.Is(err, ErrNoToken)
}

// GetIRODSStatusCode returns iRODS status code carried by the given application error, 0 otherwise
func GetIRODSStatusCode(err error) int {
	opErr, ok := getOperationError(err)
	if ok && opErr.Phase == PhaseApplication {
		return opErr.Code
	}
	return 0
}

// GetHTTPStatusCode returns HTTP status code carried by the given transport error, 0 otherwise
func GetHTTPStatusCode(err error) int {
	opErr, ok := getOperationError(err)
	if ok && opErr.Phase == PhaseTransport {
		return opErr.Code
	}
	return 0
}
