package helpers

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

type userPasswordInputProvider struct {
	input io.Reader
}

// NewUserPasswordInputProvider returns a provider which gathers username and password
// information from the supplied reader.  Values are read as line-separated input.
func NewUserPasswordInputProvider(in io.Reader) *userPasswordInputProvider {
	return &userPasswordInputProvider{input: in}
}

// ReadInput gathers username and password information.  Either (or both) value can be
// provided as arguments, in which case it is used as-is.  A missing value causes a prompt
// on os.Stderr, and when the input reader is a terminal the password is read with echo
// disabled.  The password prompt repeats until a non-empty value is entered.
func (p *userPasswordInputProvider) ReadInput(user, password string) (string, string, error) {
	var err error

	if len(user) < 1 {
		_, _ = fmt.Fprint(os.Stderr, "Okta Username: ")
		if err = readLine(p.input, &user); err != nil {
			return "", "", err
		}
	}

	for len(password) < 1 {
		_, _ = fmt.Fprint(os.Stderr, "Okta Password: ")

		if f, ok := p.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			var b []byte
			b, err = term.ReadPassword(int(f.Fd()))
			if err != nil && !errors.Is(err, io.EOF) {
				return "", "", err
			}
			password = string(b)
			fmt.Println()
		} else {
			if err = readLine(p.input, &password); err != nil {
				return "", "", err
			}

			// non-terminal input has no way to produce more data, so don't loop forever
			if len(password) < 1 {
				return "", "", errors.New("no password provided")
			}
		}
	}

	return user, password, nil
}

func readLine(input io.Reader, dst *string) error {
	_, err := fmt.Fscanln(input, dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
