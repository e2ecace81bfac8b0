// Package prompt implements the interactive questions asked on the
// operator's terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidSelection is returned when the answer to Choose is not the
// number of a listed item.
var ErrInvalidSelection = errors.New("invalid selection")

// Choose prints label and the numbered items, reads one line and returns
// the chosen index. Any answer that is not a listed number fails with
// ErrInvalidSelection; the operator does not get a second try.
func Choose(reader *bufio.Reader, out io.Writer, label string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, ErrInvalidSelection
	}

	fmt.Fprintf(out, "%s\n", label)
	for i, item := range items {
		fmt.Fprintf(out, "  [%d] %s\n", i, item)
	}
	fmt.Fprintf(out, "Enter number (0-%d): ", len(items)-1)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return 0, ErrInvalidSelection
	}

	idx, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil || idx < 0 || idx >= len(items) {
		return 0, ErrInvalidSelection
	}
	return idx, nil
}

// Confirm asks a yes/no question and returns true only for an explicit
// yes. Anything else, including a read error, declines.
func Confirm(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
