package iosink

import (
	"bytes"
	"io"
	"os"

	"github.com/sparrowdata/arrowipc/ipcerr"
)

// Source is a sequential origin of encapsulated messages: a plain io.Reader.
// ipcmsg.NextMessage and ipcstream.Reader consume any Source directly; the
// type exists so call sites can name the concept instead of writing
// io.Reader everywhere a stream-format source is expected.
type Source = io.Reader

// RandomAccessSource is an origin that also supports reading at an absolute
// offset and reporting its total size, which the file format needs to find
// and read its trailing footer without consuming the stream from the front
// (spec §4.5 — the footer is discovered via the trailing footer_size, not by
// reading forward through every message).
type RandomAccessSource interface {
	io.ReaderAt
	Size() (int64, error)
}

// MemSource is a RandomAccessSource backed by an in-memory byte slice.
type MemSource struct {
	data []byte
}

var _ RandomAccessSource = (*MemSource)(nil)

// NewMemSource wraps data. The slice is read, never copied or retained
// beyond the lifetime the caller already controls.
func NewMemSource(data []byte) *MemSource {
	return &MemSource{data: data}
}

func (s *MemSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(s.data)) {
		return 0, ipcerr.New(ipcerr.Truncated, "read at offset %d past %d-byte source", off, len(s.data))
	}

	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (s *MemSource) Size() (int64, error) { return int64(len(s.data)), nil }

// Reader returns a fresh sequential io.Reader over the full contents, for
// stream-mode reading of the same underlying bytes.
func (s *MemSource) Reader() io.Reader { return bytes.NewReader(s.data) }

// FileSource is a RandomAccessSource backed by an *os.File. os.File already
// implements io.ReaderAt natively, so this only adds the Size query the
// footer-locating logic in ipcfile needs.
type FileSource struct {
	f *os.File
}

var _ RandomAccessSource = (*FileSource)(nil)

// NewFileSource wraps f. The caller retains ownership and is responsible for
// closing it.
func NewFileSource(f *os.File) *FileSource {
	return &FileSource{f: f}
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) {
	n, err := s.f.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, ipcerr.Wrap(ipcerr.Truncated, err, "read file source at offset %d", off)
	}

	return n, err
}

func (s *FileSource) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, ipcerr.Wrap(ipcerr.InvalidState, err, "stat file source")
	}

	return info.Size(), nil
}

// Reader returns a sequential io.Reader starting at the file's current
// offset (position 0 for a freshly opened file).
func (s *FileSource) Reader() io.Reader { return s.f }
