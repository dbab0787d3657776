package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrRuntime        = errors.New("runtime error")
	ErrEmptyArchive   = errors.New("archive contains no image")
	ErrMultipleImages = errors.New("archive contains more than one image")
)

// Wraps err under [ErrRuntime].
func wrap(err error) error {
	return fmt.Errorf("%w: %w", ErrRuntime, err)
}
