package jobfile

import "errors"

var (
	ErrRead    = errors.New("failed to read job file")
	ErrFormat  = errors.New("unsupported job file format")
	ErrParse   = errors.New("failed to parse job file")
	ErrInvalid = errors.New("invalid job file")
)
