package ipcstream

import (
	"bytes"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/sparrowdata/arrowipc/endian"
	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/recordbatch"
)

const prefixSize = 8
const continuationMarker uint32 = 0xFFFFFFFF

// wireOrder is fixed little-endian by the format itself, not a runtime
// choice; see the identical note in ipcmsg.
var wireOrder = endian.GetLittleEndianEngine()

// ChunkedReader is the incremental counterpart to Reader, for callers that
// receive stream bytes as they arrive (e.g. off a socket) rather than
// holding a blocking io.Reader (spec §4.5.2's "append-then-feed" Source).
// Each Feed call parses as many complete messages as the accumulated bytes
// allow and returns the record batches they yielded; a message straddling
// two Feed calls is held back until the rest of it arrives. Records is the
// accumulator every completed batch is also appended to, so a caller that
// only cares about the final result can ignore Feed's return value and read
// Records once TERMINATED.
type ChunkedReader struct {
	mem      memory.Allocator
	buf      bytes.Buffer
	state    readState
	poisoned bool

	schema      *arrow.Schema
	fingerprint fingerprint

	Records []arrow.Record
}

// NewChunkedReader returns an empty ChunkedReader. mem is the allocator new
// record batches' arrays are built with; nil defaults to
// memory.DefaultAllocator.
func NewChunkedReader(mem memory.Allocator) *ChunkedReader {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	return &ChunkedReader{mem: mem, state: stateExpectSchema}
}

// Schema returns the stream's schema once the schema message has been fed in
// full (nil before that).
func (r *ChunkedReader) Schema() *arrow.Schema { return r.schema }

// Done reports whether the stream has reached its end-of-stream sentinel.
func (r *ChunkedReader) Done() bool { return r.state == stateTerminated }

// Feed appends chunk to the accumulated bytes and decodes every complete
// message now available, returning the record batches decoded during this
// call (nil if chunk didn't complete any). A fatal parse error poisons the
// reader: every subsequent Feed call fails with InvalidState.
func (r *ChunkedReader) Feed(chunk []byte) ([]arrow.Record, error) {
	if r.poisoned {
		return nil, ipcerr.New(ipcerr.InvalidState, "chunked reader is poisoned by a previous error")
	}
	if r.state == stateTerminated {
		return nil, nil
	}

	r.buf.Write(chunk)

	var decoded []arrow.Record

	for {
		rec, progressed, err := r.tryConsumeOne()
		if err != nil {
			r.poisoned = true
			return decoded, err
		}
		if !progressed {
			break
		}
		if rec != nil {
			decoded = append(decoded, rec)
			r.Records = append(r.Records, rec)
		}
		if r.state == stateTerminated {
			break
		}
	}

	return decoded, nil
}

// tryConsumeOne attempts to parse exactly one message out of the front of
// r.buf. progressed is false when the buffered bytes don't yet hold a
// complete message (the buffer is left untouched for the next Feed).
func (r *ChunkedReader) tryConsumeOne() (rec arrow.Record, progressed bool, err error) {
	data := r.buf.Bytes()
	if len(data) < prefixSize {
		return nil, false, nil
	}

	marker := wireOrder.Uint32(data[0:4])
	if marker != continuationMarker {
		return nil, false, ipcerr.New(ipcerr.UnexpectedMessage, "missing continuation marker, got 0x%08x", marker)
	}

	metaLen := int(wireOrder.Uint32(data[4:8]))
	if metaLen == 0 {
		r.buf.Next(prefixSize)
		r.state = stateTerminated
		return nil, true, nil
	}

	headerEnd := prefixSize + metaLen
	if len(data) < headerEnd {
		return nil, false, nil
	}

	msg, err := fb.DecodeMessage(data[prefixSize:headerEnd])
	if err != nil {
		return nil, false, err
	}

	bodyEnd := headerEnd + int(msg.BodyLength)
	if len(data) < bodyEnd {
		return nil, false, nil
	}

	var body []byte
	if msg.BodyLength > 0 {
		body = bytes.Clone(data[headerEnd:bodyEnd])
	}

	r.buf.Next(bodyEnd)

	switch r.state {
	case stateExpectSchema:
		if msg.Kind != fb.KindSchema {
			r.state = stateTerminated
			return nil, true, ipcerr.New(ipcerr.UnexpectedMessage, "stream does not begin with a schema message")
		}

		fp, err := schemaFingerprint(msg.Schema)
		if err != nil {
			return nil, true, err
		}

		r.schema, r.fingerprint = msg.Schema, fp
		r.state = stateExpectBatchOrEOS

		return nil, true, nil

	case stateExpectBatchOrEOS:
		if msg.Kind != fb.KindRecordBatch {
			r.state = stateTerminated
			return nil, true, ipcerr.New(ipcerr.UnexpectedMessage, "unexpected second schema message mid-stream")
		}

		decoded, err := recordbatch.Decode(r.schema, msg.RecordBatch, body, r.mem)
		if err != nil {
			return nil, true, err
		}

		return decoded, true, nil
	}

	return nil, true, nil
}
