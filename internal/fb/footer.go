package fb

import (
	"github.com/apache/arrow/go/v18/arrow"
	flatbuffers "github.com/google/flatbuffers/go"
)

// Block mirrors File.fbs's Block struct: a fixed 24-byte inline record
// (offset, metaDataLength, 4 bytes padding, bodyLength) describing one
// message's position within the file (spec §4.5, Footer.recordBatches).
type Block struct {
	Offset         int64
	MetaDataLength int32
	BodyLength     int64
}

// createBlock appends one Block struct inline and returns its offset.
func createBlock(b *flatbuffers.Builder, blk Block) flatbuffers.UOffsetT {
	b.Prep(8, 24)
	b.PrependInt64(blk.BodyLength)
	b.Pad(4)
	b.PrependInt32(blk.MetaDataLength)
	b.PrependInt64(blk.Offset)

	return b.Offset()
}

// BuildBlocksVector builds a [Block] vector and returns its offset.
func BuildBlocksVector(b *flatbuffers.Builder, blocks []Block) flatbuffers.UOffsetT {
	b.StartVector(24, len(blocks), 8)
	for i := len(blocks) - 1; i >= 0; i-- {
		createBlock(b, blocks[i])
	}

	return b.EndVector(len(blocks))
}

// EncodeFooter builds a complete Footer FlatBuffer (version, schema, an
// empty dictionaries vector, recordBatches) and returns the finished bytes.
// Dictionary batches are out of scope (spec's dictionary-batch rejection),
// so dictionaries is always empty but still present for reader
// compatibility with the published File format.
func EncodeFooter(schema *arrow.Schema, recordBatches []Block) ([]byte, error) {
	b := flatbuffers.NewBuilder(1024)

	schemaOff, err := BuildSchema(b, schema)
	if err != nil {
		return nil, err
	}

	dictionariesVec := BuildBlocksVector(b, nil)
	recordBatchesVec := BuildBlocksVector(b, recordBatches)

	b.StartObject(5)
	b.PrependUOffsetTSlot(3, recordBatchesVec, 0)
	b.PrependUOffsetTSlot(2, dictionariesVec, 0)
	b.PrependUOffsetTSlot(1, schemaOff, 0)
	b.PrependInt16Slot(0, int16(metadataVersionV5), 0)
	footerOff := b.EndObject()

	b.Finish(footerOff)

	return b.FinishedBytes(), nil
}

// DecodedFooter is the parsed form of a Footer FlatBuffer.
type DecodedFooter struct {
	Schema        *arrow.Schema
	RecordBatches []Block
}

// DecodeFooter parses a complete Footer FlatBuffer.
func DecodeFooter(buf []byte) (DecodedFooter, error) {
	rootPos := flatbuffers.GetUOffsetT(buf)

	var tab flatbuffers.Table
	tab.Bytes = buf
	tab.Pos = rootPos

	var out DecodedFooter

	if o := tab.Offset(6); o != 0 {
		schema, err := DecodeSchema(buf, tab.Indirect(o+tab.Pos))
		if err != nil {
			return DecodedFooter{}, err
		}
		out.Schema = schema
	}

	if o := tab.Offset(10); o != 0 {
		vecPos := o + tab.Pos
		n := tab.VectorLen(vecPos)
		out.RecordBatches = make([]Block, n)
		base := tab.Vector(vecPos)
		for i := 0; i < n; i++ {
			elemPos := base + flatbuffers.UOffsetT(i*24)
			out.RecordBatches[i] = Block{
				Offset:         tab.GetInt64(elemPos),
				MetaDataLength: tab.GetInt32(elemPos + 8),
				BodyLength:     tab.GetInt64(elemPos + 16),
			}
		}
	}

	return out, nil
}
