package ipcstream

import (
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/ipcmsg"
	"github.com/sparrowdata/arrowipc/recordbatch"
)

type readState int

const (
	stateExpectSchema readState = iota
	stateExpectBatchOrEOS
	stateTerminated
)

// Reader drives the EXPECT_SCHEMA → EXPECT_BATCH_OR_EOS → TERMINATED state
// machine (spec §4.4.3) over a Source, decoding one record batch per Next
// call. It is not safe for concurrent use.
type Reader struct {
	src   io.Reader
	mem   memory.Allocator
	state readState

	schema      *arrow.Schema
	fingerprint fingerprint

	poisoned bool
}

// NewReader returns a Reader pulling framed messages from src. mem is the
// allocator new record batches' arrays are built with; a nil mem defaults to
// memory.DefaultAllocator.
func NewReader(src io.Reader, mem memory.Allocator) *Reader {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	return &Reader{src: src, mem: mem, state: stateExpectSchema}
}

// Schema returns the stream's schema once the first message has been
// consumed (nil before that).
func (r *Reader) Schema() *arrow.Schema { return r.schema }

// Next returns the next record batch. It returns (nil, io.EOF) once the
// stream reaches its end-of-stream sentinel, or once the underlying Source
// is exhausted before any further message starts (a clean close standing in
// for an explicit sentinel, per ipcmsg.NextMessage). Any other failure is
// fatal: the Reader is poisoned and further Next calls fail with
// InvalidState.
func (r *Reader) Next() (arrow.Record, error) {
	if r.poisoned {
		return nil, ipcerr.New(ipcerr.InvalidState, "stream reader is poisoned by a previous error")
	}

	for {
		switch r.state {
		case stateTerminated:
			return nil, io.EOF
		}

		env, eos, err := ipcmsg.NextMessage(r.src)
		if err == io.EOF {
			r.state = stateTerminated
			return nil, io.EOF
		}
		if err != nil {
			r.state = stateTerminated
			r.poisoned = true
			return nil, err
		}
		if eos {
			r.state = stateTerminated
			return nil, io.EOF
		}

		switch r.state {
		case stateExpectSchema:
			if env.Message.Kind != fb.KindSchema {
				r.state = stateTerminated
				r.poisoned = true
				return nil, ipcerr.New(ipcerr.UnexpectedMessage, "stream does not begin with a schema message")
			}

			fp, err := schemaFingerprint(env.Message.Schema)
			if err != nil {
				r.state = stateTerminated
				r.poisoned = true
				return nil, err
			}

			r.schema, r.fingerprint = env.Message.Schema, fp
			r.state = stateExpectBatchOrEOS

			continue

		case stateExpectBatchOrEOS:
			if env.Message.Kind != fb.KindSchema {
				rec, err := recordbatch.Decode(r.schema, env.Message.RecordBatch, env.Body, r.mem)
				if err != nil {
					r.state = stateTerminated
					r.poisoned = true
					return nil, err
				}

				return rec, nil
			}

			r.state = stateTerminated
			r.poisoned = true
			return nil, ipcerr.New(ipcerr.UnexpectedMessage, "unexpected second schema message mid-stream")
		}
	}
}

// DeserializeAll reads src to completion, returning its schema and every
// record batch in order — the one-shot convenience API spec §4.5.2 names.
func DeserializeAll(src io.Reader, mem memory.Allocator) (*arrow.Schema, []arrow.Record, error) {
	r := NewReader(src, mem)

	var batches []arrow.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		batches = append(batches, rec)
	}

	return r.Schema(), batches, nil
}
