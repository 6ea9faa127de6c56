package chaindb

import (
	"errors"
	"fmt"

	"github.com/chaindb/chaindb_sdk_go/internal/chainapi"
	"github.com/chaindb/chaindb_sdk_go/internal/httpx"
)

// Messages reported by the ChainDB server.
const (
	MsgNameTaken          = "This user name is already taken"
	MsgNameAvailable      = "This user name is available"
	MsgInsufficientUnits  = "Sender user does not have enough units"
	MsgUserNotFound       = "User not found"
	MsgNoTransfers        = "No transfers found"
	MsgInvalidCredentials = "Invalid user name or password"
)

// ServerError is a failure reported through the response envelope.
type ServerError struct {
	Op      string
	Message string
}

func (e *ServerError) Error() string {
	if e.Op == "" {
		return "chaindb: " + e.Message
	}
	return fmt.Sprintf("chaindb: %s: %s", e.Op, e.Message)
}

// Is matches sentinels by message so errors.Is(err, ErrNameTaken) works
// regardless of the operation that produced err.
func (e *ServerError) Is(target error) bool {
	t, ok := target.(*ServerError)
	if !ok {
		return false
	}
	return t.Message == e.Message
}

var (
	ErrNameTaken          = &ServerError{Message: MsgNameTaken}
	ErrInsufficientUnits  = &ServerError{Message: MsgInsufficientUnits}
	ErrUserNotFound       = &ServerError{Message: MsgUserNotFound}
	ErrNoTransfers        = &ServerError{Message: MsgNoTransfers}
	ErrInvalidCredentials = &ServerError{Message: MsgInvalidCredentials}

	// ErrInvalidResponse wraps bodies that cannot be decoded.
	ErrInvalidResponse = errors.New("chaindb: invalid response")
	// ErrNilClient is returned when an operation runs on a nil ChainDB.
	ErrNilClient = errors.New("chaindb: client is nil")
)

// IsServerError reports whether err carries a server-reported message.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// callError wraps a transport failure. Non-2xx replies that still carry a
// failed envelope are reported as ServerErrors.
func callError(op string, err error) error {
	var httpErr *httpx.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message() != "" {
		return &ServerError{Op: op, Message: httpErr.Message()}
	}
	return fmt.Errorf("chaindb: %s: %w", op, err)
}

// decodeError maps chainapi decode failures onto package errors.
func decodeError(op string, err error) error {
	var failure *chainapi.ServerFailure
	if errors.As(err, &failure) {
		return &ServerError{Op: op, Message: failure.Message}
	}
	if errors.Is(err, chainapi.ErrMalformed) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op, err)
	}
	return fmt.Errorf("chaindb: %s: %w", op, err)
}
