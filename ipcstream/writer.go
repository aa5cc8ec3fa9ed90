// Package ipcstream implements component C5's stream orchestrator (spec
// §4.5.1/§4.5.2): the schema-first message sequencing, the
// schema-consistency check across record batches on a single writer, the
// end-of-stream sentinel, and the EXPECT_SCHEMA → EXPECT_BATCH_OR_EOS →
// TERMINATED read-side state machine (spec §4.4.3). ipcfile builds on top of
// this package rather than duplicating the sequencing logic.
package ipcstream

import (
	"github.com/apache/arrow/go/v18/arrow"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/ipcmsg"
	"github.com/sparrowdata/arrowipc/iosink"
	"github.com/sparrowdata/arrowipc/recordbatch"
)

func align8(n int) int64 { return int64((n + 7) &^ 7) }

// Writer sequences a schema message, a run of record-batch messages and a
// terminating end-of-stream sentinel onto a Sink. It is not safe for
// concurrent use (spec §5's single-threaded, synchronous scheduling model).
type Writer struct {
	sink        iosink.Sink
	compression compress.Algorithm

	schema      *arrow.Schema
	fingerprint fingerprint
	haveSchema  bool
	ended       bool
	poisoned    bool

	blocks []fb.Block
}

// NewWriter returns a Writer that frames messages onto sink, compressing
// record-batch buffers with compression (compress.None for no compression).
func NewWriter(sink iosink.Sink, compression compress.Algorithm) *Writer {
	return &Writer{sink: sink, compression: compression}
}

// WriteSchema establishes the stream's schema explicitly, before any record
// batch is written. It is a no-op if schema is already the established
// schema (by fingerprint), and an error if a different schema was already
// established. Most callers don't need this — Write derives the schema from
// the first batch automatically — but a file writer needs a schema to put
// in its footer even when zero record batches are ever written.
func (w *Writer) WriteSchema(schema *arrow.Schema) error {
	if w.poisoned {
		return ipcerr.New(ipcerr.InvalidState, "stream writer is poisoned by a previous error")
	}
	if w.ended {
		return ipcerr.New(ipcerr.InvalidState, "stream already ended")
	}

	fp, err := schemaFingerprint(schema)
	if err != nil {
		w.poisoned = true
		return err
	}

	if w.haveSchema {
		if fp != w.fingerprint {
			w.poisoned = true
			return ipcerr.New(ipcerr.SchemaMismatch, "WriteSchema called with a schema different from the one already established")
		}

		return nil
	}

	metadata, err := fb.EncodeSchemaMessage(schema)
	if err != nil {
		w.poisoned = true
		return err
	}

	if _, err := ipcmsg.WriteMessage(w.sink, metadata, nil); err != nil {
		w.poisoned = true
		return err
	}

	w.schema, w.fingerprint, w.haveSchema = schema, fp, true

	return nil
}

// Write emits rec as the next record-batch message. The first call on a
// Writer with no schema yet established also emits the schema message,
// derived from rec's own schema. Every subsequent call's schema must match
// (structurally, by fingerprint) or Write fails with SchemaMismatch and no
// bytes of the offending batch are written. The writer is then poisoned:
// every further Write, WriteSchema and End fails with InvalidState, so no
// sentinel is appended to the failed stream. (End is a no-op only on a
// stream that already ended successfully.)
func (w *Writer) Write(rec arrow.Record) error {
	if w.poisoned {
		return ipcerr.New(ipcerr.InvalidState, "stream writer is poisoned by a previous error")
	}
	if w.ended {
		return ipcerr.New(ipcerr.InvalidState, "write after end")
	}

	if !w.haveSchema {
		if err := w.WriteSchema(rec.Schema()); err != nil {
			return err
		}
	} else {
		fp, err := schemaFingerprint(rec.Schema())
		if err != nil {
			w.poisoned = true
			return err
		}
		if fp != w.fingerprint {
			w.poisoned = true
			return ipcerr.New(ipcerr.SchemaMismatch, "record batch schema does not match the stream's established schema")
		}
	}

	enc, err := recordbatch.Encode(rec, w.compression)
	if err != nil {
		w.poisoned = true
		return err
	}

	offset := w.sink.Size()

	if _, err := ipcmsg.WriteMessage(w.sink, enc.Metadata, enc.Body); err != nil {
		w.poisoned = true
		return err
	}

	// Per spec §4.5.3, a file footer's Block.metaDataLength counts the
	// 4-byte metadata-length prefix plus the padded metadata, but not the
	// leading 4-byte continuation marker.
	w.blocks = append(w.blocks, fb.Block{
		Offset:         offset,
		MetaDataLength: int32(4 + align8(len(enc.Metadata))),
		BodyLength:     int64(len(enc.Body)),
	})

	return nil
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

// End emits the end-of-stream sentinel. It is idempotent: calling End again
// on an already-ended stream is a no-op, matching spec §7. Calling End on a
// poisoned stream (a prior Write failed with SchemaMismatch or worse)
// reports InvalidState, since the stream is not a safe place to append a
// sentinel — the caller already has a valid prefix up to the failing write
// and may close or truncate the sink externally.
func (w *Writer) End() error {
	if w.ended {
		return nil
	}
	if w.poisoned {
		return ipcerr.New(ipcerr.InvalidState, "stream writer is poisoned by a previous error")
	}

	if err := ipcmsg.WriteEOS(w.sink); err != nil {
		w.poisoned = true
		return err
	}

	w.ended = true

	return nil
}

// Schema returns the schema established so far (nil if none yet).
func (w *Writer) Schema() *arrow.Schema { return w.schema }

// Blocks returns the {offset, metaDataLength, bodyLength} entry recorded for
// every record batch written so far, in write order — the raw material for
// an ipcfile.Writer's footer.
func (w *Writer) Blocks() []fb.Block {
	out := make([]fb.Block, len(w.blocks))
	copy(out, w.blocks)

	return out
}
