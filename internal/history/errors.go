package history

import "errors"

var (
	ErrOpen  = errors.New("failed to open history store")
	ErrStore = errors.New("history store operation failed")
)
