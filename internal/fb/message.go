package fb

import (
	"github.com/apache/arrow/go/v18/arrow"
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/sparrowdata/arrowipc/compress"
	"github.com/sparrowdata/arrowipc/ipcerr"
)

// MessageKind identifies which MessageHeader union member a Message carries.
type MessageKind int

const (
	KindSchema MessageKind = iota
	KindRecordBatch
)

// EncodeSchemaMessage builds a complete Message FlatBuffer (version, header =
// Schema, bodyLength = 0) and returns the finished bytes.
func EncodeSchemaMessage(schema *arrow.Schema) ([]byte, error) {
	b := flatbuffers.NewBuilder(1024)

	schemaOff, err := BuildSchema(b, schema)
	if err != nil {
		return nil, err
	}

	msgOff := buildMessage(b, headerSchema, schemaOff, 0)
	b.Finish(msgOff)

	return b.FinishedBytes(), nil
}

// EncodeRecordBatchMessage builds a complete Message FlatBuffer (version,
// header = RecordBatch, bodyLength) and returns the finished bytes.
// compression is nil for an uncompressed batch; otherwise a BodyCompression
// table naming *compression is attached.
func EncodeRecordBatchMessage(length int64, nodes []FieldNode, buffers []Buffer, compression *compress.Algorithm, bodyLength int64) ([]byte, error) {
	b := flatbuffers.NewBuilder(1024)

	nodesVec := BuildFieldNodesVector(b, nodes)
	buffersVec := BuildBuffersVector(b, buffers)

	var compressionOff flatbuffers.UOffsetT
	if compression != nil {
		off, err := BuildBodyCompression(b, *compression)
		if err != nil {
			return nil, err
		}
		compressionOff = off
	}

	rbOff := BuildRecordBatch(b, length, nodesVec, buffersVec, compressionOff)

	msgOff := buildMessage(b, headerRecordBatch, rbOff, bodyLength)
	b.Finish(msgOff)

	return b.FinishedBytes(), nil
}

func buildMessage(b *flatbuffers.Builder, kind messageHeader, headerOff flatbuffers.UOffsetT, bodyLength int64) flatbuffers.UOffsetT {
	b.StartObject(5)
	b.PrependInt64Slot(3, bodyLength, 0)
	b.PrependUOffsetTSlot(2, headerOff, 0)
	b.PrependByteSlot(1, byte(kind), byte(headerNone))
	b.PrependInt16Slot(0, int16(metadataVersionV5), 0)

	return b.EndObject()
}

// DecodedMessage is the parsed form of a top-level Message FlatBuffer.
type DecodedMessage struct {
	Kind       MessageKind
	Schema     *arrow.Schema
	RecordBatch DecodedRecordBatch
	BodyLength int64
}

// DecodeMessage parses a complete Message FlatBuffer (as produced by
// EncodeSchemaMessage / EncodeRecordBatchMessage).
func DecodeMessage(buf []byte) (DecodedMessage, error) {
	if len(buf) == 0 {
		return DecodedMessage{}, ipcerr.New(ipcerr.Truncated, "empty message metadata")
	}

	rootPos := flatbuffers.GetUOffsetT(buf)

	var tab flatbuffers.Table
	tab.Bytes = buf
	tab.Pos = rootPos

	headerType := headerNone
	if o := tab.Offset(6); o != 0 {
		headerType = messageHeader(tab.GetByte(o + tab.Pos))
	}

	var bodyLength int64
	if o := tab.Offset(10); o != 0 {
		bodyLength = tab.GetInt64(o + tab.Pos)
	}

	headerOffset := flatbuffers.UOffsetT(0)
	if o := tab.Offset(8); o != 0 {
		headerOffset = tab.Indirect(o + tab.Pos)
	}

	switch headerType {
	case headerSchema:
		schema, err := DecodeSchema(buf, headerOffset)
		if err != nil {
			return DecodedMessage{}, err
		}

		return DecodedMessage{Kind: KindSchema, Schema: schema, BodyLength: bodyLength}, nil

	case headerRecordBatch:
		rb := DecodeRecordBatch(buf, headerOffset)

		return DecodedMessage{Kind: KindRecordBatch, RecordBatch: rb, BodyLength: bodyLength}, nil

	case headerDictionaryBatch, headerTensor, headerSparseTensor:
		return DecodedMessage{}, ipcerr.New(ipcerr.UnsupportedMessage, "MessageHeader type %d not supported by this codec", headerType)

	default:
		return DecodedMessage{}, ipcerr.New(ipcerr.UnexpectedMessage, "unrecognized MessageHeader type %d", headerType)
	}
}
