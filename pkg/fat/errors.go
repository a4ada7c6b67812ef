package fat

import (
	"errors"
	"fmt"
)

var (
	ErrNotAContainer       = errors.New("fat: not a universal container")
	ErrTruncatedHeader     = errors.New("fat: truncated header")
	ErrUnknownArchitecture = errors.New("fat: unknown architecture")
	ErrOutOfBounds         = errors.New("fat: slice out of bounds")
	ErrIO                  = errors.New("fat: i/o error")
	ErrEmptyInput          = errors.New("fat: no architectures to build")

	ErrDuplicateArch = errors.New("fat: duplicate architecture")
	ErrAlignment     = errors.New("fat: alignment exponent out of range")
	ErrTooLarge      = errors.New("fat: layout exceeds 32-bit offsets")
	ErrInvalidLayout = errors.New("fat: invalid layout")
)

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
