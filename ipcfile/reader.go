package ipcfile

import (
	"bytes"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/ipcstream"
	"github.com/sparrowdata/arrowipc/iosink"
)

// ReadFile validates both magic occurrences, locates the footer via the
// trailing footer_size field, and parses the stream region sequentially
// (spec §4.5.4). The footer's Block index is used only to check that it
// declares as many record batches as the stream region holds; the batches
// themselves are recovered in order by sequential stream parsing, not by
// seeking to each Block.
func ReadFile(src iosink.RandomAccessSource, mem memory.Allocator) (*arrow.Schema, []arrow.Record, error) {
	size, err := src.Size()
	if err != nil {
		return nil, nil, err
	}
	if size < minFileSize {
		return nil, nil, ipcerr.New(ipcerr.Truncated, "file of %d bytes smaller than the minimum %d-byte envelope", size, minFileSize)
	}

	var head [headerSize]byte
	if _, err := src.ReadAt(head[:], 0); err != nil {
		return nil, nil, ipcerr.Wrap(ipcerr.Truncated, err, "read file header")
	}
	if err := checkMagic(head[:len(magic)]); err != nil {
		return nil, nil, err
	}

	var tail [trailerSize]byte
	if _, err := src.ReadAt(tail[:], size-trailerSize); err != nil {
		return nil, nil, ipcerr.Wrap(ipcerr.Truncated, err, "read file trailer")
	}
	if err := checkMagic(tail[footerSizeFieldSize:]); err != nil {
		return nil, nil, err
	}

	footerSize := int64(wireOrder.Uint32(tail[:footerSizeFieldSize]))
	streamEnd := size - trailerSize - footerSize
	if footerSize < 0 || streamEnd < headerSize {
		return nil, nil, ipcerr.New(ipcerr.Truncated, "footer_size %d leaves no room for the stream region in a %d-byte file", footerSize, size)
	}

	footerBytes := make([]byte, footerSize)
	if _, err := src.ReadAt(footerBytes, streamEnd); err != nil {
		return nil, nil, ipcerr.Wrap(ipcerr.Truncated, err, "read footer")
	}

	footer, err := fb.DecodeFooter(footerBytes)
	if err != nil {
		return nil, nil, ipcerr.Wrap(ipcerr.FormatParse, err, "decode footer")
	}

	streamBytes := make([]byte, streamEnd-headerSize)
	if _, err := src.ReadAt(streamBytes, headerSize); err != nil {
		return nil, nil, ipcerr.Wrap(ipcerr.Truncated, err, "read stream region")
	}

	schema, batches, err := ipcstream.DeserializeAll(bytes.NewReader(streamBytes), mem)
	if err != nil {
		return nil, nil, err
	}

	if footer.Schema != nil && len(footer.RecordBatches) != len(batches) {
		return nil, nil, ipcerr.New(ipcerr.SizeMismatch, "footer declares %d record batches, stream region contains %d", len(footer.RecordBatches), len(batches))
	}

	return schema, batches, nil
}
