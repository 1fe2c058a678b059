package protocol

import "errors"

var (
	ErrMalformedRequestLine = errors.New("protocol: malformed request line")
	ErrUnknownMethod        = errors.New("protocol: unknown method")
	ErrHeaderRead           = errors.New("protocol: cannot read headers")
	ErrBadContentLength     = errors.New("protocol: invalid Content-Length")
	ErrBodyTooLarge         = errors.New("protocol: body too large")
	ErrShortBody            = errors.New("protocol: body shorter than Content-Length")
)
