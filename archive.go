package ftldat

import (
	"fmt"
	"math"

	"github.com/docker/go-units"
)

// recordOverhead is the fixed cost of one record on disk: the two 4-byte
// length fields written ahead of the path and content bytes.
const recordOverhead = 8

// Entry is one logical file in an archive.
//
// Path is relative to the archive root and always uses forward slashes,
// regardless of the host platform. Contents holds the raw file bytes and
// is treated as immutable once the Entry exists.
type Entry struct {
	Path     string
	Contents []byte
}

// RecordSize returns the number of bytes the entry occupies on disk:
// the two length fields plus the path and content bytes.
func (e Entry) RecordSize() int64 {
	return recordOverhead + int64(len(e.Path)) + int64(len(e.Contents))
}

// String renders the entry as "path (size)" with a human-readable size.
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Path, units.BytesSize(float64(e.RecordSize())))
}

// validate checks that the path and content lengths fit the 4-byte fields
// of the record layout.
func (e Entry) validate() error {
	if uint64(len(e.Path)) > math.MaxUint32 {
		return fmt.Errorf("path %.40q...: %w", e.Path, ErrFormatOverflow)
	}
	if uint64(len(e.Contents)) > math.MaxUint32 {
		return fmt.Errorf("contents of %s: %w", e.Path, ErrFormatOverflow)
	}
	return nil
}

// Archive is the in-memory model of a packed data file: an ordered entry
// list plus the declared number of index-table slots.
//
// Entry order determines on-disk placement order. IndexSize must be at
// least len(Entries) before the archive can be saved; Construct and Load
// always produce archives that satisfy this.
type Archive struct {
	Entries   []Entry
	IndexSize uint32
}

// Len returns the number of entries in the archive.
func (a *Archive) Len() int {
	return len(a.Entries)
}
