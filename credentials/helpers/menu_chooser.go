package helpers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type menuChooser struct {
	input  io.Reader
	output io.Writer
}

// NewMenuChooser returns a chooser which presents an enumerated 1-based menu of options on
// the output writer and blocks reading a numeric selection from the input reader.  Invalid
// (non-numeric or out of range) input re-prompts, there is no retry limit.
func NewMenuChooser(in io.Reader, out io.Writer) *menuChooser {
	return &menuChooser{input: in, output: out}
}

// Choose implements the credentials.ChoiceProvider contract, returning the zero-based
// index of the selected option.
func (m *menuChooser) Choose(prompt string, options []string) (int, error) {
	if len(options) < 1 {
		return 0, errors.New("no options to choose from")
	}

	for i, o := range options {
		_, _ = fmt.Fprintf(m.output, "%2d) %s\n", i+1, o)
	}

	scanner := bufio.NewScanner(m.input)
	for {
		_, _ = fmt.Fprint(m.output, prompt)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errors.New("no selection made")
		}

		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 1 || n > len(options) {
			continue
		}
		return n - 1, nil
	}
}
