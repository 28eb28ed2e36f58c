package ftldat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// Load decodes an archive from r.
//
// The stream must be seekable because the index table holds absolute byte
// offsets into the data region. Slots are scanned in ascending order;
// zero-valued slots are empty and skipped, so the resulting entry order is
// slot order even when record offsets are not monotonic. No partial
// Archive is returned on failure.
func Load(r io.ReadSeeker) (*Archive, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measure stream: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to header: %w", err)
	}

	indexSize, err := readUint32(r, "index size")
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i := uint32(0); i < indexSize; i++ {
		if _, err := r.Seek(4+4*int64(i), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to index slot %d: %w", i, err)
		}
		offset, err := readUint32(r, fmt.Sprintf("index slot %d", i))
		if err != nil {
			return nil, err
		}
		if offset == 0 {
			// Empty slot. Offset 0 is always inside the header, so it can
			// never start a record.
			continue
		}
		entry, err := readRecord(r, offset, size)
		if err != nil {
			return nil, fmt.Errorf("index slot %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return &Archive{Entries: entries, IndexSize: indexSize}, nil
}

// LoadFile opens the archive at path and decodes it.
func LoadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return a, nil
}

// readRecord decodes one record at the given absolute offset. streamSize
// bounds the length fields so a corrupt record surfaces as a truncation
// error instead of an oversized allocation.
func readRecord(r io.ReadSeeker, offset uint32, streamSize int64) (Entry, error) {
	if int64(offset) >= streamSize {
		return Entry{}, fmt.Errorf("record at offset %d: %w", offset, ErrTruncated)
	}
	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return Entry{}, fmt.Errorf("seek to record at offset %d: %w", offset, err)
	}

	contentLen, err := readUint32(r, "content length")
	if err != nil {
		return Entry{}, err
	}
	pathLen, err := readUint32(r, "path length")
	if err != nil {
		return Entry{}, err
	}

	remaining := streamSize - int64(offset) - recordOverhead
	if int64(pathLen)+int64(contentLen) > remaining {
		return Entry{}, fmt.Errorf("record at offset %d: %w", offset, ErrTruncated)
	}

	pathBytes := make([]byte, pathLen)
	if err := readFull(r, pathBytes, "path"); err != nil {
		return Entry{}, err
	}
	if !utf8.Valid(pathBytes) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidPath, pathBytes)
	}

	contents := make([]byte, contentLen)
	if err := readFull(r, contents, "contents"); err != nil {
		return Entry{}, err
	}

	return Entry{Path: string(pathBytes), Contents: contents}, nil
}

// readUint32 reads one little-endian uint32, mapping short reads to
// ErrTruncated.
func readUint32(r io.Reader, field string) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// readFull fills buf, mapping short reads to ErrTruncated.
func readFull(r io.Reader, buf []byte, field string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("read %s: %w", field, ErrTruncated)
		}
		return fmt.Errorf("read %s: %w", field, err)
	}
	return nil
}
