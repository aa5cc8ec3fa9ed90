// Package recordbatch implements component C4 of the codec: converting a
// bound arrow.Record to and from the (FieldNode list, Buffer list, body
// bytes) triple a RecordBatch message carries, by a depth-first pre-order
// walk over the record's arrays (spec §4.4). Dictionary-encoded and other
// types ipctype.Tag does not recognize are rejected, never silently
// degraded.
package recordbatch

import (
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/internal/pool"
	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/ipctype"
)

// Encoded is the wire-ready form of one record batch: FlatBuffer metadata
// (a finished Message) and the body bytes it describes.
type Encoded struct {
	Metadata []byte
	Body     []byte
}

// Encode walks rec's columns depth-first and produces its wire form. When
// compression is compress.None, buffers are written as-is; otherwise each
// buffer is independently framed through a compress.Cache created for this
// call, so a buffer shared by several arrays of rec is compressed once.
// Separate Encode calls share no cache, and callers cannot supply one.
func Encode(rec arrow.Record, compression compress.Algorithm) (Encoded, error) {
	var frame *compress.Frame
	if compression != compress.None {
		f, err := compress.NewFrame(compression)
		if err != nil {
			return Encoded{}, err
		}
		frame = f
	}
	cache := compress.NewCache()

	body := pool.GetBatchBuffer()
	defer pool.PutBatchBuffer(body)
	body.Reset()

	var nodes []fb.FieldNode
	var buffers []fb.Buffer

	for _, col := range rec.Columns() {
		if err := visit(col.Data(), &nodes, &buffers, body, frame, cache); err != nil {
			return Encoded{}, err
		}
	}

	bodyLength := int64(body.Len())

	var compressionArg *compress.Algorithm
	if frame != nil {
		compressionArg = &compression
	}

	metadata, err := fb.EncodeRecordBatchMessage(rec.NumRows(), nodes, buffers, compressionArg, bodyLength)
	if err != nil {
		return Encoded{}, err
	}

	bodyCopy := make([]byte, body.Len())
	copy(bodyCopy, body.Bytes())

	return Encoded{Metadata: metadata, Body: bodyCopy}, nil
}

// visit appends one FieldNode for data and its physical buffers (recursing
// into children for nested types), writing buffer payloads into body.
func visit(data arrow.ArrayData, nodes *[]fb.FieldNode, buffers *[]fb.Buffer, body *pool.ByteBuffer, frame *compress.Frame, cache *compress.Cache) error {
	*nodes = append(*nodes, fb.FieldNode{
		Length:    int64(data.Len()),
		NullCount: int64(data.NullN()),
	})

	bufs := data.Buffers()
	if data.DataType().ID() == arrow.NULL {
		// A Null array owns no buffers on the wire (ipctype.BufferCount is 0).
		bufs = nil
	}
	for _, buf := range bufs {
		var raw []byte
		if buf != nil {
			raw = buf.Bytes()
		}

		offset, length, err := appendBuffer(body, raw, frame, cache)
		if err != nil {
			return err
		}

		*buffers = append(*buffers, fb.Buffer{Offset: offset, Length: length})
	}

	for _, child := range data.Children() {
		if err := visit(child, nodes, buffers, body, frame, cache); err != nil {
			return err
		}
	}

	return nil
}

// appendBuffer writes raw (optionally compressed) to body at the next
// 8-byte-aligned offset and pads the buffer back to an 8-byte boundary
// afterward (spec §4.4.2 alignment rule). An empty/nil raw buffer (e.g. a
// field with no validity bitmap) is recorded with length 0 and nothing is
// written.
func appendBuffer(body *pool.ByteBuffer, raw []byte, frame *compress.Frame, cache *compress.Cache) (offset int64, length int64, err error) {
	if len(raw) == 0 {
		return int64(body.Len()), 0, nil
	}

	padTo8(body)
	offset = int64(body.Len())

	payload := raw
	if frame != nil {
		payload, err = cache.CompressCached(frame, raw)
		if err != nil {
			return 0, 0, err
		}
	}

	body.MustWrite(payload)
	length = int64(len(payload))
	padTo8(body)

	return offset, length, nil
}

func padTo8(body *pool.ByteBuffer) {
	if rem := body.Len() % 8; rem != 0 {
		var zeros [8]byte
		body.MustWrite(zeros[:8-rem])
	}
}

// Decode reconstructs an arrow.Record for schema from a decoded RecordBatch
// message and its body bytes.
func Decode(schema *arrow.Schema, rb fb.DecodedRecordBatch, body []byte, mem memory.Allocator) (arrow.Record, error) {
	var frame *compress.Frame
	if rb.Compression != nil {
		f, err := compress.NewFrame(*rb.Compression)
		if err != nil {
			return nil, err
		}
		frame = f
	}

	nodeIdx, bufIdx := 0, 0
	fields := schema.Fields()
	cols := make([]arrow.Array, len(fields))

	for i, field := range fields {
		data, err := rebuild(field.Type, rb.Nodes, &nodeIdx, rb.Buffers, &bufIdx, body, frame, mem)
		if err != nil {
			return nil, err
		}
		cols[i] = array.MakeFromData(data)
		data.Release()
	}

	if nodeIdx != len(rb.Nodes) || bufIdx != len(rb.Buffers) {
		return nil, ipcerr.New(ipcerr.SizeMismatch, "record batch declared %d nodes / %d buffers, consumed %d / %d", len(rb.Nodes), len(rb.Buffers), nodeIdx, bufIdx)
	}

	rec := array.NewRecord(schema, cols, rb.Length)
	for _, c := range cols {
		c.Release()
	}

	return rec, nil
}

func rebuild(dt arrow.DataType, nodes []fb.FieldNode, nodeIdx *int, buffers []fb.Buffer, bufIdx *int, body []byte, frame *compress.Frame, mem memory.Allocator) (arrow.ArrayData, error) {
	if *nodeIdx >= len(nodes) {
		return nil, ipcerr.New(ipcerr.Truncated, "record batch metadata has fewer FieldNode entries than the schema requires")
	}
	node := nodes[*nodeIdx]
	*nodeIdx++

	tag, err := ipctype.TagOf(dt)
	if err != nil {
		return nil, ipcerr.Wrap(ipcerr.UnknownType, err, "record batch field")
	}

	nbuf := tag.BufferCount()
	bufs := make([]*memory.Buffer, nbuf)
	for i := 0; i < nbuf; i++ {
		if *bufIdx >= len(buffers) {
			return nil, ipcerr.New(ipcerr.Truncated, "record batch metadata has fewer Buffer entries than its fields require")
		}
		b := buffers[*bufIdx]
		*bufIdx++

		buf, err := materializeBuffer(b, body, frame)
		if err != nil {
			return nil, err
		}
		bufs[i] = buf
	}

	var children []arrow.ArrayData
	switch v := dt.(type) {
	case *arrow.ListType:
		child, err := rebuild(v.Elem(), nodes, nodeIdx, buffers, bufIdx, body, frame, mem)
		if err != nil {
			return nil, err
		}
		children = []arrow.ArrayData{child}
	case *arrow.FixedSizeListType:
		child, err := rebuild(v.Elem(), nodes, nodeIdx, buffers, bufIdx, body, frame, mem)
		if err != nil {
			return nil, err
		}
		children = []arrow.ArrayData{child}
	case *arrow.StructType:
		children = make([]arrow.ArrayData, len(v.Fields()))
		for i, f := range v.Fields() {
			c, err := rebuild(f.Type, nodes, nodeIdx, buffers, bufIdx, body, frame, mem)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
	}

	return array.NewData(dt, int(node.Length), bufs, children, int(node.NullCount), 0), nil
}

func materializeBuffer(b fb.Buffer, body []byte, frame *compress.Frame) (*memory.Buffer, error) {
	if b.Length == 0 {
		return nil, nil
	}

	if b.Offset < 0 || b.Offset+b.Length > int64(len(body)) {
		return nil, ipcerr.New(ipcerr.Truncated, "buffer [%d, %d) out of range of %d-byte body", b.Offset, b.Offset+b.Length, len(body))
	}

	framed := body[b.Offset : b.Offset+b.Length]
	if frame == nil {
		return memory.NewBufferBytes(framed), nil
	}

	raw, err := frame.Decompress(framed)
	if err != nil {
		return nil, err
	}

	return memory.NewBufferBytes(raw), nil
}
