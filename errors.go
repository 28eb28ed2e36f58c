package ftldat

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the codec.
var (
	// ErrIndexTooSmall is returned when an archive declares fewer index
	// slots than it has entries.
	ErrIndexTooSmall = errors.New("ftldat: index too small")

	// ErrTruncated is returned when a stream ends before a required field
	// or byte region can be fully read.
	ErrTruncated = errors.New("ftldat: truncated archive")

	// ErrInvalidPath is returned when an entry path is not valid UTF-8.
	ErrInvalidPath = errors.New("ftldat: entry path is not valid UTF-8")

	// ErrFormatOverflow is returned when a length does not fit the 4-byte
	// fields of the record layout.
	ErrFormatOverflow = errors.New("ftldat: length exceeds uint32 range")
)

// IndexTooSmallError reports a save attempted with more entries than the
// archive declares index slots. It unwraps to ErrIndexTooSmall.
type IndexTooSmallError struct {
	Entries   int
	IndexSize uint32
}

func (e *IndexTooSmallError) Error() string {
	return fmt.Sprintf("ftldat: index (%d slots) too small for %d entries", e.IndexSize, e.Entries)
}

func (e *IndexTooSmallError) Unwrap() error {
	return ErrIndexTooSmall
}
