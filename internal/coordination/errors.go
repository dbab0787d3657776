package coordination

import "errors"

var (
	ErrUnsupportedScheme = errors.New("unsupported server URL scheme")
	ErrHTTPStatus        = errors.New("coordination service returned HTTP error")
	ErrMalformedResponse = errors.New("malformed coordination response")
	ErrTransport         = errors.New("coordination transport failed")
)
