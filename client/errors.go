package client

import "errors"

// LoginError indicates the IdP rejected the login, or one of the primary-authentication or
// session-creation calls failed outright.  Always fatal to the current invocation, never
// retried automatically.
type LoginError struct {
	Reason string
}

func newLoginError(reason string) *LoginError {
	return &LoginError{Reason: reason}
}

func (e *LoginError) Error() string {
	return e.Reason
}

// ErrNoSamlResponse is returned when the application activation page did not contain the
// expected SAMLResponse form input.  Distinct from an HTTP-level failure fetching the page.
var ErrNoSamlResponse = errors.New("no SAMLResponse input found in activation page")
