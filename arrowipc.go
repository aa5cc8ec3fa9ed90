// Package arrowipc implements the Apache Arrow IPC binary format: the
// stream and file codecs that serialize columnar record batches to, and
// parse them back from, a precisely framed byte sequence any Arrow-compatible
// implementation can read.
//
// # Core Features
//
//   - Full type/format mapping for primitive, binary, temporal, decimal and
//     nested (list, fixed-size list, struct) Arrow types
//   - Optional per-buffer body compression (LZ4_FRAME, Zstd)
//   - Schema-consistency enforcement across every record batch on one stream
//   - Both the stream variant (schema, record batches, end-of-stream
//     sentinel) and the file variant (magic header, stream region, footer
//     with a Block index, magic trailer)
//   - Incremental, chunk-fed reading for callers that don't hold a blocking
//     io.Reader
//
// # Basic Usage
//
// Writing a stream:
//
//	import "github.com/sparrowdata/arrowipc"
//
//	var buf bytes.Buffer
//	w := arrowipc.NewStreamWriter(iosink.NewMemSinkBuffer(&buf), compress.None)
//	if err := w.Write(batch1); err != nil { ... }
//	if err := w.Write(batch2); err != nil { ... }
//	if err := w.End(); err != nil { ... }
//
// Reading it back:
//
//	schema, batches, err := arrowipc.DeserializeStream(&buf, nil)
//
// Writing a file:
//
//	sink := iosink.NewFileSink(f)
//	fw, err := arrowipc.NewFileWriter(sink, schema, compress.Zstd)
//	fw.WriteAll(batches)
//	fw.End()
//	sink.Close()
//
// Reading one:
//
//	schema, batches, err := arrowipc.ReadFile(iosink.NewFileSource(f), nil)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around ipcstream and
// ipcfile, covering the most common use cases. For direct control over the
// underlying sink or the incremental chunk-fed reader, use those packages (and iosink, recordbatch, ipcmsg) directly.
package arrowipc

import (
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/ipcfile"
	"github.com/sparrowdata/arrowipc/ipcstream"
	"github.com/sparrowdata/arrowipc/iosink"
)

// NewStreamWriter creates a stream writer over sink, compressing record
// batch buffers with compression (compress.None for none).
//
// Parameters:
//   - sink: the destination the framed messages are written to.
//   - compression: the body compression algorithm for every record batch
//     written on this stream.
//
// Returns:
//   - *ipcstream.Writer: the created stream writer.
//
// Example:
//
//	w := arrowipc.NewStreamWriter(iosink.NewMemSink(), compress.LZ4Frame)
//	defer w.End()
//	w.Write(batch)
func NewStreamWriter(sink iosink.Sink, compression compress.Algorithm) *ipcstream.Writer {
	return ipcstream.NewWriter(sink, compression)
}

// NewStreamReader creates a stream reader over src.
//
// Parameters:
//   - src: the source framed messages are read from.
//   - mem: the allocator new record batches' arrays are built with; nil
//     defaults to memory.DefaultAllocator.
//
// Returns:
//   - *ipcstream.Reader: the created stream reader.
func NewStreamReader(src io.Reader, mem memory.Allocator) *ipcstream.Reader {
	return ipcstream.NewReader(src, mem)
}

// SerializeStream writes every batch in order to sink, as a complete stream
// (schema message derived from the first batch, then each record batch,
// then the end-of-stream sentinel). It fails with SchemaMismatch, leaving no
// sentinel written, if any later batch's schema doesn't match the first.
//
// Parameters:
//   - sink: the destination the stream is written to.
//   - batches: the record batches to write, in order; when empty, only the
//     end-of-stream sentinel is written.
//   - compression: the body compression algorithm to use.
//
// Example:
//
//	err := arrowipc.SerializeStream(iosink.NewMemSink(), []arrow.Record{batch1, batch2}, compress.None)
func SerializeStream(sink iosink.Sink, batches []arrow.Record, compression compress.Algorithm) error {
	w := ipcstream.NewWriter(sink, compression)
	if err := w.WriteAll(batches); err != nil {
		return err
	}

	return w.End()
}

// DeserializeStream reads src to completion as a stream, returning its
// schema and every record batch in order. This is the one-shot counterpart
// to NewStreamReader for callers that don't need incremental control.
//
// Parameters:
//   - src: the source to read a complete stream from.
//   - mem: the allocator new record batches' arrays are built with; nil
//     defaults to memory.DefaultAllocator.
func DeserializeStream(src io.Reader, mem memory.Allocator) (*arrow.Schema, []arrow.Record, error) {
	return ipcstream.DeserializeAll(src, mem)
}

// NewChunkedStreamReader creates an incremental, chunk-fed stream reader for
// callers that receive stream bytes as they arrive rather than holding a
// blocking io.Reader.
//
// Parameters:
//   - mem: the allocator new record batches' arrays are built with; nil
//     defaults to memory.DefaultAllocator.
//
// Example:
//
//	r := arrowipc.NewChunkedStreamReader(nil)
//	for chunk := range incoming {
//	    batches, err := r.Feed(chunk)
//	    ...
//	}
func NewChunkedStreamReader(mem memory.Allocator) *ipcstream.ChunkedReader {
	return ipcstream.NewChunkedReader(mem)
}

// NewFileWriter creates a file writer over sink for schema, writing the file
// header immediately.
//
// Parameters:
//   - sink: the destination the file is written to.
//   - schema: the schema every record batch written on this file must match.
//   - compression: the body compression algorithm for every record batch.
//
// Returns:
//   - *ipcfile.Writer: the created file writer.
//   - error: an error if the header or schema message could not be written.
func NewFileWriter(sink iosink.Sink, schema *arrow.Schema, compression compress.Algorithm) (*ipcfile.Writer, error) {
	return ipcfile.NewWriter(sink, schema, compression)
}

// SerializeFile writes a complete IPC file (header, schema, batches, EOS
// sentinel, footer, trailer) to sink.
//
// Parameters:
//   - sink: the destination the file is written to.
//   - schema: the schema every batch in batches must match.
//   - batches: the record batches to write, in order; may be empty.
//   - compression: the body compression algorithm to use.
func SerializeFile(sink iosink.Sink, schema *arrow.Schema, batches []arrow.Record, compression compress.Algorithm) error {
	w, err := ipcfile.NewWriter(sink, schema, compression)
	if err != nil {
		return err
	}

	if err := w.WriteAll(batches); err != nil {
		return err
	}

	return w.End()
}

// ReadFile validates an IPC file's magic and footer and returns its schema
// and every record batch it contains, in order.
//
// Parameters:
//   - src: a random-access source over the complete file's bytes.
//   - mem: the allocator new record batches' arrays are built with; nil
//     defaults to memory.DefaultAllocator.
func ReadFile(src iosink.RandomAccessSource, mem memory.Allocator) (*arrow.Schema, []arrow.Record, error) {
	return ipcfile.ReadFile(src, mem)
}
