package media

import "errors"

var (
	// ErrDecode is returned when the source image cannot be read or decoded.
	ErrDecode = errors.New("failed to decode source image")
	// ErrEncoderUnavailable is returned when the configured output format has no
	// encoder in this build.
	ErrEncoderUnavailable = errors.New("image encoder unavailable")
	// ErrInvalidLadder is returned for empty, unsorted or non-positive width ladders.
	ErrInvalidLadder = errors.New("invalid width ladder")
)
