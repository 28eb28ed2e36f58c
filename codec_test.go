package ftldat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoEntryFixture is the canonical encoding of two entries with two index
// slots. The data region starts at 4+4*2=12; the first record is
// 8+5+2=15 bytes, so the second starts at 27.
var twoEntryFixture = []byte{
	0x02, 0x00, 0x00, 0x00, // index size
	0x0C, 0x00, 0x00, 0x00, // slot 0 -> 12
	0x1B, 0x00, 0x00, 0x00, // slot 1 -> 27
	0x02, 0x00, 0x00, 0x00, // content length 2
	0x05, 0x00, 0x00, 0x00, // path length 5
	'a', '.', 't', 'x', 't',
	'h', 'i',
	0x03, 0x00, 0x00, 0x00, // content length 3
	0x07, 0x00, 0x00, 0x00, // path length 7
	'b', '/', 'c', '.', 't', 'x', 't',
	'b', 'y', 'e',
}

func twoEntryArchive() *Archive {
	return &Archive{
		Entries: []Entry{
			{Path: "a.txt", Contents: []byte("hi")},
			{Path: "b/c.txt", Contents: []byte("bye")},
		},
		IndexSize: 2,
	}
}

func TestWriteToCanonicalBytes(t *testing.T) {
	var buf bytes.Buffer
	n, err := twoEntryArchive().WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(twoEntryFixture)), n)
	assert.Equal(t, twoEntryFixture, buf.Bytes())
}

func TestLoadCanonicalBytes(t *testing.T) {
	a, err := Load(bytes.NewReader(twoEntryFixture))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), a.IndexSize)
	require.Len(t, a.Entries, 2)
	assert.Equal(t, Entry{Path: "a.txt", Contents: []byte("hi")}, a.Entries[0])
	assert.Equal(t, Entry{Path: "b/c.txt", Contents: []byte("bye")}, a.Entries[1])
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		entries   []Entry
		indexSize uint32
	}{
		{"exact capacity", []Entry{
			{Path: "a.txt", Contents: []byte("hi")},
			{Path: "b/c.txt", Contents: []byte("bye")},
		}, 2},
		{"spare capacity", []Entry{
			{Path: "data/x.bin", Contents: []byte{0x00, 0xff, 0x10}},
		}, 16},
		{"empty contents", []Entry{
			{Path: "empty", Contents: []byte{}},
		}, 1},
		{"unicode path", []Entry{
			{Path: "データ/файл.txt", Contents: []byte("ok")},
		}, 4},
		{"duplicate paths", []Entry{
			{Path: "same.txt", Contents: []byte("first")},
			{Path: "same.txt", Contents: []byte("second")},
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Archive{Entries: tt.entries, IndexSize: tt.indexSize}
			var buf bytes.Buffer
			_, err := in.WriteTo(&buf)
			require.NoError(t, err)

			out, err := Load(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tt.indexSize, out.IndexSize)
			require.Len(t, out.Entries, len(tt.entries))
			for i, want := range tt.entries {
				assert.Equal(t, want.Path, out.Entries[i].Path)
				assert.Equal(t, []byte(want.Contents), out.Entries[i].Contents)
			}
		})
	}
}

func TestWriteToIndexTooSmall(t *testing.T) {
	a := &Archive{
		Entries: []Entry{
			{Path: "a", Contents: []byte("1")},
			{Path: "b", Contents: []byte("2")},
		},
		IndexSize: 1,
	}
	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexTooSmall)

	var tooSmall *IndexTooSmallError
	require.ErrorAs(t, err, &tooSmall)
	assert.Equal(t, 2, tooSmall.Entries)
	assert.Equal(t, uint32(1), tooSmall.IndexSize)

	// Precondition failure must not produce any output.
	assert.Zero(t, buf.Len())
}

func TestEmptyArchive(t *testing.T) {
	var buf bytes.Buffer
	n, err := (&Archive{}).WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, buf.Bytes())

	a, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, a.Entries)
	assert.Zero(t, a.IndexSize)
}

func TestEmptySlots(t *testing.T) {
	a := twoEntryArchive()
	a.IndexSize = 5
	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)

	// Three unused slots follow the two populated ones.
	raw := buf.Bytes()
	assert.Equal(t, make([]byte, 12), raw[12:24])

	out, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), out.IndexSize)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "a.txt", out.Entries[0].Path)
	assert.Equal(t, "b/c.txt", out.Entries[1].Path)
}

func TestLoadTruncated(t *testing.T) {
	tests := []struct {
		name string
		cut  int
	}{
		{"mid header", 3},
		{"mid index slot", 6},
		{"missing record", 12},
		{"mid record lengths", 14},
		{"mid path", 23},
		{"mid contents", 26},
		{"missing second record", 28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(twoEntryFixture[:tt.cut]))
			assert.ErrorIs(t, err, ErrTruncated)
		})
	}
}

func TestLoadOversizedLengths(t *testing.T) {
	// A content length far beyond the stream end is a truncation, not a
	// separate failure kind.
	raw := append([]byte(nil), twoEntryFixture...)
	binary.LittleEndian.PutUint32(raw[12:], 0xFFFFFF00)
	_, err := Load(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestLoadInvalidPath(t *testing.T) {
	raw := []byte{
		0x01, 0x00, 0x00, 0x00, // index size
		0x08, 0x00, 0x00, 0x00, // slot 0 -> 8
		0x00, 0x00, 0x00, 0x00, // content length 0
		0x02, 0x00, 0x00, 0x00, // path length 2
		0xFF, 0xFE, // not UTF-8
	}
	_, err := Load(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLoadSlotOrderNotOffsetOrder(t *testing.T) {
	// Slot 0 references the later record and slot 1 the earlier one;
	// entries must come back in slot order.
	var buf bytes.Buffer
	putUint32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	putUint32(2)  // index size
	putUint32(22) // slot 0 -> second record
	putUint32(12) // slot 1 -> first record
	putUint32(1)  // first record: "z" -> "1"
	putUint32(1)
	buf.WriteString("z")
	buf.WriteString("1")
	putUint32(1) // second record: "a" -> "2"
	putUint32(1)
	buf.WriteString("a")
	buf.WriteString("2")

	a, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, a.Entries, 2)
	assert.Equal(t, "a", a.Entries[0].Path)
	assert.Equal(t, "z", a.Entries[1].Path)
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dat")
	require.NoError(t, twoEntryArchive().SaveFile(path))

	a, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, twoEntryArchive(), a)
}

func TestSaveFileNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bad.dat")
	a := &Archive{
		Entries:   []Entry{{Path: "a", Contents: nil}},
		IndexSize: 0,
	}
	err := a.SaveFile(target)
	require.ErrorIs(t, err, ErrIndexTooSmall)

	_, statErr := os.Stat(target)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	// The temp file is cleaned up as well.
	dirents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, dirents)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.dat"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
