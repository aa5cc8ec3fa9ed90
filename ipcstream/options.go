package ipcstream

import (
	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/internal/options"
	"github.com/sparrowdata/arrowipc/iosink"
)

// WriterOption configures a Writer built via NewWriterWithOptions.
type WriterOption = options.Option[*Writer]

// WithCompression sets the body compression algorithm for every record
// batch the writer encodes. The default, if no WithCompression option is
// given, is compress.None.
func WithCompression(algo compress.Algorithm) WriterOption {
	return options.NoError(func(w *Writer) {
		w.compression = algo
	})
}

// NewWriterWithOptions is the functional-options counterpart to NewWriter,
// for callers that want to configure a Writer declaratively (and may want to
// add further options later) rather than through NewWriter's single
// positional compression argument. With no options given, the writer
// defaults to compress.None, same as NewWriter(sink, compress.None).
func NewWriterWithOptions(sink iosink.Sink, opts ...WriterOption) (*Writer, error) {
	w := &Writer{sink: sink, compression: compress.None}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	return w, nil
}
