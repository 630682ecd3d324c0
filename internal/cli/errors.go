package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// usageError marks a bad invocation. It exits with code 2.
type usageError struct {
	msg  string
	hint string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) *usageError {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func (e *usageError) withHint(h string) *usageError {
	e.hint = h
	return e
}

// exactArgs is cobra.ExactArgs with a usage line.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

const indexHint = "Hint: run `todo ls --plain` to see valid indexes"

// parseIndex turns a 1-based index argument into a position in a list of
// n items.
func parseIndex(op, s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, usagef("%s: not a number: %s", op, s)
	}
	if i < 1 || i > n {
		return 0, usagef("index out of range: have %d, got %d", n, i).withHint(indexHint)
	}
	return i - 1, nil
}
