package orchestrator

import "errors"

var (
	ErrCheck   = errors.New("staleness check failed")
	ErrJob     = errors.New("job configuration failed")
	ErrExecute = errors.New("build execution failed")
	ErrReport  = errors.New("result report failed")
)
