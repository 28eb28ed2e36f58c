package ftldat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// WriteTo encodes the archive to w in the canonical byte layout: the index
// size, one offset per entry, zero fill for unused slots, then the records
// in entry order. Writes are entirely sequential; record offsets are
// computed up front, so w does not need to be seekable.
//
// If len(a.Entries) exceeds a.IndexSize, WriteTo fails with an
// *IndexTooSmallError before writing any bytes. WriteTo implements
// io.WriterTo.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if len(a.Entries) > int(a.IndexSize) {
		return 0, &IndexTooSmallError{Entries: len(a.Entries), IndexSize: a.IndexSize}
	}
	for _, e := range a.Entries {
		if err := e.validate(); err != nil {
			return 0, err
		}
	}

	// Lay out the data region before touching w. Record offsets are
	// absolute and must themselves fit the 4-byte index slots.
	offsets := make([]uint32, len(a.Entries))
	offset := 4 + 4*int64(a.IndexSize)
	for i, e := range a.Entries {
		if offset > math.MaxUint32 {
			return 0, fmt.Errorf("record offset for %s: %w", e.Path, ErrFormatOverflow)
		}
		offsets[i] = uint32(offset)
		offset += e.RecordSize()
	}

	cw := &countingWriter{w: w}
	if err := writeUint32(cw, a.IndexSize); err != nil {
		return cw.n, fmt.Errorf("write index size: %w", err)
	}
	for i, e := range a.Entries {
		if err := writeUint32(cw, offsets[i]); err != nil {
			return cw.n, fmt.Errorf("write index slot for %s: %w", e.Path, err)
		}
	}
	if err := writeZeros(cw, 4*(int64(a.IndexSize)-int64(len(a.Entries)))); err != nil {
		return cw.n, fmt.Errorf("write empty index slots: %w", err)
	}
	for _, e := range a.Entries {
		if err := writeUint32(cw, uint32(len(e.Contents))); err != nil {
			return cw.n, fmt.Errorf("write content length for %s: %w", e.Path, err)
		}
		if err := writeUint32(cw, uint32(len(e.Path))); err != nil {
			return cw.n, fmt.Errorf("write path length for %s: %w", e.Path, err)
		}
		if _, err := io.WriteString(cw, e.Path); err != nil {
			return cw.n, fmt.Errorf("write path for %s: %w", e.Path, err)
		}
		if _, err := cw.Write(e.Contents); err != nil {
			return cw.n, fmt.Errorf("write contents for %s: %w", e.Path, err)
		}
	}

	return cw.n, nil
}

// SaveFile writes the archive to path atomically: the bytes go to a temp
// file in the same directory, which is renamed over the target only after
// a successful encode. A failed save never leaves a partial archive.
func (a *Archive) SaveFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ftldat-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	if _, err := a.WriteTo(bw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// countingWriter tracks bytes written for the io.WriterTo contract.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// writeZeros writes n zero bytes in fixed-size chunks.
func writeZeros(w io.Writer, n int64) error {
	var zeros [4096]byte
	for n > 0 {
		chunk := int64(len(zeros))
		if n < chunk {
			chunk = n
		}
		if _, err := w.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
