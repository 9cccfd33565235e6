package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Command completed
	ExitCheckFailed = 1 // check found problems in one or more files
	ExitError       = 2 // Configuration or runtime error
)

// CheckFailureError indicates that check ran successfully but found
// problems in one or more score files.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	os.Exit(exitCode(execute()))
}

// exitCode reports err on stderr and maps it to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(os.Stderr, err)

	var checkErr *CheckFailureError
	if errors.As(err, &checkErr) {
		return ExitCheckFailed
	}

	// All other errors are configuration/runtime errors
	return ExitError
}
