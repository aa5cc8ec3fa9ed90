// Package iosink provides the write- and read-destination abstractions the
// codec's stream and file writers/readers are built on (spec §6). Unlike the
// type-erased output_stream/any_output_stream hierarchy this is grounded on,
// Go's structural interfaces need no erasure wrapper: any io.Writer already
// satisfies Sink's embedded contract, and Sink only adds what io.Writer lacks
// (a byte count, an optional capacity hint, Flush and Close).
package iosink

import (
	"bytes"
	"io"

	"github.com/sparrowdata/arrowipc/ipcerr"
)

// Sink is a destination the codec writes encapsulated messages to: a plain
// io.Writer plus a running size (for computing Block offsets while writing
// an IPC file), a capacity hint implementations may act on or ignore, and
// Flush and Close.
type Sink interface {
	io.Writer
	Size() int64
	Reserve(additional int)
	Flush() error
	Close() error
}

// MemSink is a Sink backed by a single growable in-memory buffer, the
// contiguous equivalent of sparrow_ipc's memory_output_stream.
type MemSink struct {
	buf *bytes.Buffer
}

var _ Sink = (*MemSink)(nil)

// NewMemSink returns a MemSink writing into a fresh internal buffer.
func NewMemSink() *MemSink {
	return &MemSink{buf: new(bytes.Buffer)}
}

// NewMemSinkBuffer returns a MemSink that appends to buf, which the caller
// retains ownership of and may inspect after writing completes.
func NewMemSinkBuffer(buf *bytes.Buffer) *MemSink {
	return &MemSink{buf: buf}
}

func (s *MemSink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *MemSink) Size() int64                 { return int64(s.buf.Len()) }
func (s *MemSink) Reserve(additional int)      { s.buf.Grow(additional) }
func (s *MemSink) Flush() error                { return nil }
func (s *MemSink) Close() error                { return nil }

// Bytes returns the accumulated contents. The slice is only valid until the
// next Write.
func (s *MemSink) Bytes() []byte { return s.buf.Bytes() }

// ChunkedMemSink is a Sink that keeps each Write call as its own chunk
// instead of concatenating them, mirroring sparrow_ipc's
// chunked_memory_output_stream. Useful for a caller that wants to hand the
// written message/body boundaries to a vectored I/O API (writev, net.Buffers)
// without an extra copy into one contiguous buffer.
type ChunkedMemSink struct {
	chunks [][]byte
	size   int64
}

var _ Sink = (*ChunkedMemSink)(nil)

// NewChunkedMemSink returns an empty ChunkedMemSink.
func NewChunkedMemSink() *ChunkedMemSink {
	return &ChunkedMemSink{}
}

func (s *ChunkedMemSink) Write(p []byte) (int, error) {
	chunk := make([]byte, len(p))
	copy(chunk, p)
	s.chunks = append(s.chunks, chunk)
	s.size += int64(len(chunk))

	return len(p), nil
}

func (s *ChunkedMemSink) Size() int64 { return s.size }

// Reserve grows the chunk-index capacity by roughly one chunk per 64 bytes
// of additional data, a rough guess since the caller's actual chunk count is
// unknown ahead of time.
func (s *ChunkedMemSink) Reserve(additional int) {
	want := len(s.chunks) + additional/64 + 1
	if cap(s.chunks) >= want {
		return
	}
	grown := make([][]byte, len(s.chunks), want)
	copy(grown, s.chunks)
	s.chunks = grown
}

func (s *ChunkedMemSink) Flush() error { return nil }
func (s *ChunkedMemSink) Close() error { return nil }

// Chunks returns the accumulated chunks in write order. The caller owns the
// returned slices.
func (s *ChunkedMemSink) Chunks() [][]byte { return s.chunks }

// WriteTo implements io.WriterTo, concatenating chunks onto w without
// requiring the caller to do it by hand.
func (s *ChunkedMemSink) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, chunk := range s.chunks {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// FileSink is a Sink backed by an *os.File (or any io.WriteCloser that also
// supports Sync), the equivalent of sparrow_ipc's file_output_stream. Go's
// os.File tracks its own write offset, so FileSink only needs to track the
// byte count Size reports — the same bookkeeping file_output_stream does by
// hand with m_written_bytes, since std::ofstream doesn't expose it either.
type FileSink struct {
	w       io.Writer
	syncer  interface{ Sync() error }
	closer  io.Closer
	written int64
}

var _ Sink = (*FileSink)(nil)

// NewFileSink wraps f. f is flushed via Sync (when it implements one; a
// bytes-backed stand-in for tests need not) and closed via Close.
func NewFileSink(f interface {
	io.Writer
	io.Closer
}) *FileSink {
	sink := &FileSink{w: f, closer: f}
	if s, ok := f.(interface{ Sync() error }); ok {
		sink.syncer = s
	}

	return sink
}

func (s *FileSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.written += int64(n)
	if err != nil {
		return n, ipcerr.Wrap(ipcerr.InvalidState, err, "write to file sink")
	}

	return n, nil
}

func (s *FileSink) Size() int64            { return s.written }
func (s *FileSink) Reserve(additional int) {}

func (s *FileSink) Flush() error {
	if s.syncer == nil {
		return nil
	}
	if err := s.syncer.Sync(); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "sync file sink")
	}

	return nil
}

func (s *FileSink) Close() error {
	if err := s.closer.Close(); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "close file sink")
	}

	return nil
}
