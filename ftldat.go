// Package ftldat packs and unpacks FTL data archives.
//
// An archive is a single file holding an index table of little-endian
// uint32 offsets followed by variable-length records, one per file. The
// package converts between that format and a directory tree:
//
//   - Load / Save move an Archive to and from a byte stream.
//   - Construct / Extract move an Archive to and from a directory.
//
// Archives are plain values: every operation returns a fresh Archive and
// never mutates one in place.
package ftldat

import "log/slog"

// PackDir builds an archive from the contents of dir and writes it to
// archivePath.
func PackDir(dir, archivePath string, opts ...ConstructOption) error {
	a, err := Construct(dir, opts...)
	if err != nil {
		return err
	}
	return a.SaveFile(archivePath)
}

// Unpack loads the archive at archivePath and extracts its entries into dir.
func Unpack(archivePath, dir string, opts ...ExtractOption) error {
	a, err := LoadFile(archivePath)
	if err != nil {
		return err
	}
	return a.Extract(dir, opts...)
}

// logOrDiscard returns the logger, falling back to a discard logger if nil.
func logOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
