package cli

import "fmt"

// Returned by commands that finished without error but must end the process
// with a non-zero status.
type ExitStatus int

func (s ExitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(s))
}

// Process exit code for the status. Negative statuses wrap as on Unix, so
// -1 becomes 255.
func (s ExitStatus) Code() int {
	return int(s) & 0xff
}
