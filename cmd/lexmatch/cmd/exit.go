package cmd

import (
	"errors"
	"fmt"
)

// exitCode is returned by commands that signal a specific exit status,
// grep style: 0=found, 1=nothing found, 2=error.
type exitCode struct{ code int }

func (e exitCode) Error() string {
	switch e.code {
	case 0:
		return ""
	case 1:
		return "no match"
	default:
		return fmt.Sprintf("exit %d", e.code)
	}
}

// ExitCode extracts the exit status carried by err.
// Returns -1 if err does not carry one.
func ExitCode(err error) int {
	var ec exitCode
	if errors.As(err, &ec) {
		return ec.code
	}
	return -1
}
