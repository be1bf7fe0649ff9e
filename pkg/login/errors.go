package login

import (
	"errors"
	"fmt"
)

var (
	ErrRegistrationDisabled = errors.New("login: registration is disabled")
	ErrDomainNotAllowed     = errors.New("login: email domain is not allowed to register")
	ErrNoEmail              = errors.New("login: profile has no verified email")
)

// PolicyRejection is returned when settings refuse the login.
type PolicyRejection struct {
	Reason error
}

func (e *PolicyRejection) Error() string { return e.Reason.Error() }
func (e *PolicyRejection) Unwrap() error { return e.Reason }

// TransportFailure wraps a failed store or network operation.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string { return fmt.Sprintf("login: %s: %v", e.Op, e.Err) }
func (e *TransportFailure) Unwrap() error { return e.Err }

// IsPolicyRejection reports whether err is, or wraps, a *PolicyRejection.
func IsPolicyRejection(err error) bool {
	var pr *PolicyRejection
	return errors.As(err, &pr)
}

// IsTransportFailure reports whether err is, or wraps, a *TransportFailure.
func IsTransportFailure(err error) bool {
	var tf *TransportFailure
	return errors.As(err, &tf)
}

func reject(reason error) error { return &PolicyRejection{Reason: reason} }

func fail(op string, err error) error { return &TransportFailure{Op: op, Err: err} }
