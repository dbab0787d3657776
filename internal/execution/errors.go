package execution

import "errors"

var (
	ErrContext     = errors.New("execution context failed")
	ErrDependency  = errors.New("dependency installation failed")
	ErrExec        = errors.New("command could not be run")
	ErrOutsideRoot = errors.New("path is outside the execution context")
)
