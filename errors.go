package pixelsnap

import (
	"errors"
	"fmt"
)

var (
	// ErrNilImage is returned when Snap is called without an image.
	ErrNilImage = errors.New("image is nil")
	// ErrInvalidKColors is returned when KColors is not a positive integer.
	ErrInvalidKColors = errors.New("kColors must be a positive integer")
	// ErrInvalidDimensions matches every *DimensionError.
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)

// ConfigError reports an option outside its accepted range.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// DimensionError is returned for images smaller than 3x3 pixels.
type DimensionError struct {
	Width  int
	Height int
}

func (e *DimensionError) Error() string {
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Sprintf("image dimensions must be positive, got %dx%d", e.Width, e.Height)
	}
	return fmt.Sprintf("image must be at least 3x3 pixels, got %dx%d", e.Width, e.Height)
}

func (e *DimensionError) Is(target error) bool { return target == ErrInvalidDimensions }

// BufferSizeError is returned by FromPix when the buffer does not hold
// exactly width*height RGBA pixels.
type BufferSizeError struct {
	Width, Height int
	Len           int
}

func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("pixel buffer length %d does not match %dx%d RGBA (want %d)",
		e.Len, e.Width, e.Height, e.Width*e.Height*4)
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 || w < 3 || h < 3 {
		return &DimensionError{Width: w, Height: h}
	}
	return nil
}
