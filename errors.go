package swraster

import "errors"

var (
	// ErrInvalidSurface is returned for a nil buffer, a zero size or a
	// stride smaller than the width.
	ErrInvalidSurface = errors.New("swraster: invalid surface")

	// ErrNoTarget is returned when drawing before Target was called.
	ErrNoTarget = errors.New("swraster: no target surface")

	// ErrOutOfMemory is returned when an intermediate buffer would exceed
	// the configured memory limit. Pixels drawn before the failure stay in
	// place.
	ErrOutOfMemory = errors.New("swraster: out of memory")

	// ErrInvalidArgument is returned for unusable draw parameters, such as
	// a nil path or an image without pixels.
	ErrInvalidArgument = errors.New("swraster: invalid argument")
)
