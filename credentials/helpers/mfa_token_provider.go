package helpers

import (
	"fmt"
	"io"
	"os"
)

type mfaTokenProvider struct {
	input io.Reader
}

// NewMfaTokenProvider returns a provider which reads an MFA passcode from the supplied reader.
func NewMfaTokenProvider(in io.Reader) *mfaTokenProvider {
	return &mfaTokenProvider{input: in}
}

// ReadInput prompts on os.Stderr and reads the passcode value.
func (p *mfaTokenProvider) ReadInput() (string, error) {
	var code string

	_, _ = fmt.Fprint(os.Stderr, "Enter your passcode: ")
	if err := readLine(p.input, &code); err != nil {
		return "", err
	}

	return code, nil
}
