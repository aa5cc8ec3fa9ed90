package ipcfile

import (
	"log/slog"

	"github.com/apache/arrow/go/v18/arrow"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/ipcstream"
	"github.com/sparrowdata/arrowipc/iosink"
)

// Writer produces a complete IPC file: the 8-byte magic header, a stream
// region (schema message, record-batch messages, EOS sentinel), a Footer
// FlatBuffer, the little-endian footer_size, and the trailing 6-byte magic.
// schema is required at construction (unlike ipcstream.Writer) because the
// footer must describe the schema even if zero record batches are written.
type Writer struct {
	sink   iosink.Sink
	stream *ipcstream.Writer
	ended  bool
}

// NewWriter returns a Writer for schema, writing the file header immediately
// and establishing the stream schema.
func NewWriter(sink iosink.Sink, schema *arrow.Schema, compression compress.Algorithm) (*Writer, error) {
	if err := writeHeader(sink); err != nil {
		return nil, err
	}

	stream := ipcstream.NewWriter(sink, compression)
	if err := stream.WriteSchema(schema); err != nil {
		return nil, err
	}

	return &Writer{sink: sink, stream: stream}, nil
}

// Write emits rec as the file's next record batch. rec's schema must match
// (structurally) the schema the Writer was constructed with.
func (w *Writer) Write(rec arrow.Record) error {
	if w.ended {
		return ipcerr.New(ipcerr.InvalidState, "write after end")
	}

	return w.stream.Write(rec)
}

// WriteAll writes each record in order, stopping at the first error.
func (w *Writer) WriteAll(recs []arrow.Record) error {
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	return nil
}

// End finalizes the file: the EOS sentinel, the Footer FlatBuffer, the
// footer_size field, and the trailing magic. Idempotent like
// ipcstream.Writer.End.
func (w *Writer) End() error {
	if w.ended {
		return nil
	}

	if err := w.stream.End(); err != nil {
		return err
	}

	footer, err := fb.EncodeFooter(w.stream.Schema(), w.stream.Blocks())
	if err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "encode file footer")
	}

	if _, err := w.sink.Write(footer); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "write file footer")
	}

	var sizeField [footerSizeFieldSize]byte
	wireOrder.PutUint32(sizeField[:], uint32(len(footer)))
	if _, err := w.sink.Write(sizeField[:]); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "write footer_size")
	}

	if _, err := w.sink.Write(magic[:]); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "write trailing magic")
	}

	w.ended = true

	return nil
}

// Close finalizes the file the same way End does, but for callers invoking
// it via defer where there is no sensible way to propagate a late error.
// Any failure during that finalization is swallowed (logged at slog.Warn)
// rather than returned. Callers that need to observe a finalization error
// should call End directly instead of Close.
func (w *Writer) Close() {
	if err := w.End(); err != nil {
		slog.Warn("ipcfile: writer close failed to finalize file", "error", err)
	}
}
