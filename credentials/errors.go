package credentials

import "fmt"

// AssumeRoleError indicates the federation exchange could not be completed.  The message
// preserves the specific cause (missing external tool, non-zero exit status, unparsable
// response, incomplete response) for diagnostics.
type AssumeRoleError struct {
	msg string
	err error
}

func newAssumeRoleError(msg string, err error) *AssumeRoleError {
	return &AssumeRoleError{msg: msg, err: err}
}

func (e *AssumeRoleError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *AssumeRoleError) Unwrap() error {
	return e.err
}
