package fb

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/ipcerr"
)

func errUnsupportedCompression(algo compress.Algorithm) error {
	return ipcerr.New(ipcerr.UnsupportedMessage, "compression algorithm %v has no wire encoding", algo)
}

// FieldNode mirrors Schema.fbs's FieldNode struct: a fixed 16-byte inline
// record of (length, null_count) per field, emitted in the depth-first
// pre-order the record batch's fields are visited in (spec §4.4).
type FieldNode struct {
	Length    int64
	NullCount int64
}

// Buffer mirrors Message.fbs's Buffer struct: a fixed 16-byte inline record
// of (offset, length) into the message body, one per physical buffer a
// field owns.
type Buffer struct {
	Offset int64
	Length int64
}

// createFieldNode appends one FieldNode struct inline at the builder's
// current position and returns its offset.
func createFieldNode(b *flatbuffers.Builder, n FieldNode) flatbuffers.UOffsetT {
	b.Prep(8, 16)
	b.PrependInt64(n.NullCount)
	b.PrependInt64(n.Length)

	return b.Offset()
}

// createBuffer appends one Buffer struct inline and returns its offset.
func createBuffer(b *flatbuffers.Builder, buf Buffer) flatbuffers.UOffsetT {
	b.Prep(8, 16)
	b.PrependInt64(buf.Length)
	b.PrependInt64(buf.Offset)

	return b.Offset()
}

// BuildFieldNodesVector builds the nodes:[FieldNode] vector and returns its
// offset.
func BuildFieldNodesVector(b *flatbuffers.Builder, nodes []FieldNode) flatbuffers.UOffsetT {
	b.StartVector(16, len(nodes), 8)
	for i := len(nodes) - 1; i >= 0; i-- {
		createFieldNode(b, nodes[i])
	}

	return b.EndVector(len(nodes))
}

// BuildBuffersVector builds the buffers:[Buffer] vector and returns its offset.
func BuildBuffersVector(b *flatbuffers.Builder, buffers []Buffer) flatbuffers.UOffsetT {
	b.StartVector(16, len(buffers), 8)
	for i := len(buffers) - 1; i >= 0; i-- {
		createBuffer(b, buffers[i])
	}

	return b.EndVector(len(buffers))
}

// BuildBodyCompression builds a BodyCompression table (codec, method=BUFFER)
// and returns its offset. Callers only invoke this when body compression is
// actually in use; None never produces a BodyCompression message.
func BuildBodyCompression(b *flatbuffers.Builder, algo compress.Algorithm) (flatbuffers.UOffsetT, error) {
	codec, err := wireCompressionType(algo)
	if err != nil {
		return 0, err
	}

	b.StartObject(2)
	b.PrependByteSlot(1, byte(bodyCompressionMethodBuffer), 0)
	b.PrependByteSlot(0, byte(codec), 0)

	return b.EndObject(), nil
}

func wireCompressionType(algo compress.Algorithm) (compressionType, error) {
	switch algo {
	case compress.LZ4Frame:
		return compressionTypeLZ4Frame, nil
	case compress.Zstd:
		return compressionTypeZstd, nil
	default:
		return 0, errUnsupportedCompression(algo)
	}
}

// BuildRecordBatch builds a RecordBatch table (length, nodes, buffers,
// compression) and returns its offset. nodesVec and buffersVec must already
// be built (BuildFieldNodesVector / BuildBuffersVector); compressionOff is 0
// when the batch is uncompressed.
func BuildRecordBatch(b *flatbuffers.Builder, length int64, nodesVec, buffersVec, compressionOff flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b.StartObject(4)
	if compressionOff != 0 {
		b.PrependUOffsetTSlot(3, compressionOff, 0)
	}
	b.PrependUOffsetTSlot(2, buffersVec, 0)
	b.PrependUOffsetTSlot(1, nodesVec, 0)
	b.PrependInt64Slot(0, length, 0)

	return b.EndObject()
}

// DecodedRecordBatch is the parsed form of a RecordBatch table.
type DecodedRecordBatch struct {
	Length      int64
	Nodes       []FieldNode
	Buffers     []Buffer
	Compression *compress.Algorithm
}

// DecodeRecordBatch parses a RecordBatch table at pos within buf.
func DecodeRecordBatch(buf []byte, pos flatbuffers.UOffsetT) DecodedRecordBatch {
	var tab flatbuffers.Table
	tab.Bytes = buf
	tab.Pos = pos

	var out DecodedRecordBatch

	if o := tab.Offset(4); o != 0 {
		out.Length = tab.GetInt64(o + tab.Pos)
	}

	if o := tab.Offset(6); o != 0 {
		vecPos := o + tab.Pos
		n := tab.VectorLen(vecPos)
		out.Nodes = make([]FieldNode, n)
		base := tab.Vector(vecPos)
		for i := 0; i < n; i++ {
			elemPos := base + flatbuffers.UOffsetT(i*16)
			out.Nodes[i] = FieldNode{
				Length:    tab.GetInt64(elemPos),
				NullCount: tab.GetInt64(elemPos + 8),
			}
		}
	}

	if o := tab.Offset(8); o != 0 {
		vecPos := o + tab.Pos
		n := tab.VectorLen(vecPos)
		out.Buffers = make([]Buffer, n)
		base := tab.Vector(vecPos)
		for i := 0; i < n; i++ {
			elemPos := base + flatbuffers.UOffsetT(i*16)
			out.Buffers[i] = Buffer{
				Offset: tab.GetInt64(elemPos),
				Length: tab.GetInt64(elemPos + 8),
			}
		}
	}

	if o := tab.Offset(10); o != 0 {
		compTabPos := tab.Indirect(o + tab.Pos)
		var compTab flatbuffers.Table
		compTab.Bytes = buf
		compTab.Pos = compTabPos

		codec := compressionTypeLZ4Frame
		if co := compTab.Offset(4); co != 0 {
			codec = compressionType(compTab.GetByte(co + compTab.Pos))
		}

		var algo compress.Algorithm
		switch codec {
		case compressionTypeZstd:
			algo = compress.Zstd
		default:
			algo = compress.LZ4Frame
		}
		out.Compression = &algo
	}

	return out
}
