package consoleimg

import (
	"errors"
	"fmt"
	"image"
)

// ErrorKind classifies a ConvertError.
type ErrorKind int

const (
	// EmptyData means the raster has no pixels.
	EmptyData ErrorKind = iota
	// WrongImageType means the ProcessedImage variant does not match the display mode.
	WrongImageType
	// GetTerminalSizeError means the terminal dimensions could not be queried.
	GetTerminalSizeError
	// AboveMaxLength means an input exceeded a hard size limit.
	AboveMaxLength
	// LockError means a parallel worker failed while holding shared state.
	LockError
	// ImageError wraps an image codec failure.
	ImageError
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyData:
		return "empty data"
	case WrongImageType:
		return "wrong image type"
	case GetTerminalSizeError:
		return "failed to get terminal size"
	case AboveMaxLength:
		return "above max length"
	case LockError:
		return "lock error"
	case ImageError:
		return "image error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrorContext tags an error with where it happened.
type ErrorContext struct {
	Pixel    *image.Point
	Function string
}

func (c ErrorContext) String() string {
	switch {
	case c.Pixel != nil:
		return fmt.Sprintf("pixel (%d, %d)", c.Pixel.X, c.Pixel.Y)
	case c.Function != "":
		return c.Function
	default:
		return ""
	}
}

// ConvertError is the error type returned by the processor and converter.
type ConvertError struct {
	Kind     ErrorKind
	Expected string // WrongImageType only
	Actual   string // WrongImageType only
	Limit    uint64 // AboveMaxLength only
	Context  ErrorContext
	Err      error
}

var (
	ErrEmptyData       = &ConvertError{Kind: EmptyData}
	ErrWrongImageType  = &ConvertError{Kind: WrongImageType}
	ErrGetTerminalSize = &ConvertError{Kind: GetTerminalSizeError}
	ErrAboveMaxLength  = &ConvertError{Kind: AboveMaxLength}
	ErrLock            = &ConvertError{Kind: LockError}
	ErrImage           = &ConvertError{Kind: ImageError}
	ErrMissingPalette  = errors.New("gif frame has no local palette and the stream has no global palette")
	ErrInvalidGifFrame = errors.New("gif frame buffer does not match its rectangle")
)

func (e *ConvertError) Error() string {
	var msg string
	switch e.Kind {
	case WrongImageType:
		msg = fmt.Sprintf("wrong image type: expected %s, got %s", e.Expected, e.Actual)
	case AboveMaxLength:
		msg = fmt.Sprintf("above max length: limit is %d", e.Limit)
	default:
		msg = e.Kind.String()
	}
	if ctx := e.Context.String(); ctx != "" {
		msg += " at " + ctx
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConvertError) Unwrap() error { return e.Err }

// Is reports whether target is a ConvertError of the same kind, so the
// package sentinels can be used with errors.Is.
func (e *ConvertError) Is(target error) bool {
	var t *ConvertError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newWrongImageType(expected, actual ImageType) error {
	return &ConvertError{
		Kind:     WrongImageType,
		Expected: expected.String(),
		Actual:   actual.String(),
	}
}

func newImageError(function string, err error) error {
	return &ConvertError{Kind: ImageError, Context: ErrorContext{Function: function}, Err: err}
}

func newLockError(function string, recovered any) error {
	return &ConvertError{
		Kind:    LockError,
		Context: ErrorContext{Function: function},
		Err:     fmt.Errorf("worker panicked: %v", recovered),
	}
}
