package settings

import "errors"

var (
	ErrRead    = errors.New("failed to read settings file")
	ErrParse   = errors.New("failed to parse settings file")
	ErrInvalid = errors.New("invalid settings")
)
