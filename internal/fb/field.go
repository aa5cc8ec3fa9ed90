package fb

import (
	"github.com/apache/arrow/go/v18/arrow"
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/ipctype"
)

// BuildField constructs a Field table (name, nullable, type_type, type,
// children, custom_metadata) for f and returns its offset. Children are
// built recursively, depth-first, before the parent Field's StartObject
// call, as the FlatBuffer builder requires.
func BuildField(b *flatbuffers.Builder, f arrow.Field) (flatbuffers.UOffsetT, error) {
	tag, err := ipctype.TagOf(f.Type)
	if err != nil {
		return 0, ipcerr.Wrap(ipcerr.UnknownType, err, "field %q", f.Name)
	}

	params := buildParamsOf(f.Type)

	var childOffsets []flatbuffers.UOffsetT
	for _, c := range params.Children {
		child := arrow.Field{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
		off, err := BuildField(b, child)
		if err != nil {
			return 0, err
		}
		childOffsets = append(childOffsets, off)
	}

	typeID, typeOff, err := buildTypeUnion(b, tag, params)
	if err != nil {
		return 0, err
	}

	nameOff := b.CreateString(f.Name)

	var childrenVec flatbuffers.UOffsetT
	if len(childOffsets) > 0 {
		b.StartVector(4, len(childOffsets), 4)
		for i := len(childOffsets) - 1; i >= 0; i-- {
			b.PrependUOffsetT(childOffsets[i])
		}
		childrenVec = b.EndVector(len(childOffsets))
	}

	metadataVec := buildMetadata(b, f.Metadata)

	b.StartObject(7)
	if metadataVec != 0 {
		b.PrependUOffsetTSlot(6, metadataVec, 0)
	}
	if childrenVec != 0 {
		b.PrependUOffsetTSlot(5, childrenVec, 0)
	}
	b.PrependUOffsetTSlot(3, typeOff, 0)
	b.PrependByteSlot(2, byte(typeID), 0)
	b.PrependBoolSlot(1, f.Nullable, false)
	b.PrependUOffsetTSlot(0, nameOff, 0)

	return b.EndObject(), nil
}

// buildMetadata constructs the Field.custom_metadata vector ([KeyValue]) for
// md and returns its offset, or 0 if md carries no pairs (the slot is then
// omitted entirely, matching the optional children slot above).
func buildMetadata(b *flatbuffers.Builder, md arrow.Metadata) flatbuffers.UOffsetT {
	if md.Len() == 0 {
		return 0
	}

	kvOffsets := make([]flatbuffers.UOffsetT, md.Len())
	for i := 0; i < md.Len(); i++ {
		keyOff := b.CreateString(md.Keys()[i])
		valOff := b.CreateString(md.Values()[i])

		b.StartObject(2)
		b.PrependUOffsetTSlot(1, valOff, 0)
		b.PrependUOffsetTSlot(0, keyOff, 0)
		kvOffsets[i] = b.EndObject()
	}

	b.StartVector(4, len(kvOffsets), 4)
	for i := len(kvOffsets) - 1; i >= 0; i-- {
		b.PrependUOffsetT(kvOffsets[i])
	}

	return b.EndVector(len(kvOffsets))
}

// DecodeField parses a Field table at pos within buf into an arrow.Field,
// recursing into children for nested (List/FixedSizeList/Struct) types.
func DecodeField(buf []byte, pos flatbuffers.UOffsetT) (arrow.Field, error) {
	var tab flatbuffers.Table
	tab.Bytes = buf
	tab.Pos = pos

	var name string
	if o := tab.Offset(4); o != 0 {
		name = tab.String(o + tab.Pos)
	}

	nullable := false
	if o := tab.Offset(6); o != 0 {
		nullable = tab.GetBool(o + tab.Pos)
	}

	typeIDVal := typeID(0)
	if o := tab.Offset(8); o != 0 {
		typeIDVal = typeID(tab.GetByte(o + tab.Pos))
	}

	var typeTab flatbuffers.Table
	if o := tab.Offset(10); o != 0 {
		unionPos := tab.Indirect(o + tab.Pos)
		typeTab.Bytes = buf
		typeTab.Pos = unionPos
	}

	tag, params, err := decodeTypeUnion(typeIDVal, typeTab)
	if err != nil {
		return arrow.Field{}, ipcerr.Wrap(ipcerr.UnknownType, err, "field %q", name)
	}

	if o := tab.Offset(14); o != 0 {
		childVecPos := o + tab.Pos
		n := tab.VectorLen(childVecPos)
		children := make([]ipctype.ChildSpec, 0, n)
		for i := 0; i < n; i++ {
			childPos := tab.Indirect(tab.Vector(childVecPos) + flatbuffers.UOffsetT(i)*4)
			childField, err := DecodeField(buf, childPos)
			if err != nil {
				return arrow.Field{}, err
			}
			children = append(children, ipctype.ChildSpec{
				Name:     childField.Name,
				Type:     childField.Type,
				Nullable: childField.Nullable,
			})
		}
		params.Children = children
	}

	dt, err := ipctype.ToArrowType(tag, params)
	if err != nil {
		return arrow.Field{}, ipcerr.Wrap(ipcerr.UnknownType, err, "field %q", name)
	}

	md := decodeMetadata(buf, tab, 16)

	return arrow.Field{Name: name, Type: dt, Nullable: nullable, Metadata: md}, nil
}

// decodeMetadata reads the custom_metadata vector ([KeyValue]) at vtable
// slot offset voff within tab, preserving pair order. Returns the zero
// arrow.Metadata if the slot is absent, same as an empty metadata map.
func decodeMetadata(buf []byte, tab flatbuffers.Table, voff flatbuffers.VOffsetT) arrow.Metadata {
	o := tab.Offset(voff)
	if o == 0 {
		return arrow.Metadata{}
	}

	vecPos := o + tab.Pos
	n := tab.VectorLen(vecPos)
	keys := make([]string, n)
	vals := make([]string, n)

	for i := 0; i < n; i++ {
		var kv flatbuffers.Table
		kv.Bytes = buf
		kv.Pos = tab.Indirect(tab.Vector(vecPos) + flatbuffers.UOffsetT(i)*4)

		if ko := kv.Offset(4); ko != 0 {
			keys[i] = kv.String(ko + kv.Pos)
		}
		if vo := kv.Offset(6); vo != 0 {
			vals[i] = kv.String(vo + kv.Pos)
		}
	}

	return arrow.NewMetadata(keys, vals)
}

// buildParamsOf extracts the ipctype.BuildParams this dt's Type union
// member needs, including recursing into nested child fields.
func buildParamsOf(dt arrow.DataType) ipctype.BuildParams {
	var p ipctype.BuildParams

	switch v := dt.(type) {
	case *arrow.FixedSizeBinaryType:
		p.FixedWidth = int32(v.ByteWidth)
	case *arrow.Decimal32Type:
		p.DecimalPrecision, p.DecimalScale = v.Precision, v.Scale
	case *arrow.Decimal64Type:
		p.DecimalPrecision, p.DecimalScale = v.Precision, v.Scale
	case *arrow.Decimal128Type:
		p.DecimalPrecision, p.DecimalScale = v.Precision, v.Scale
	case *arrow.Decimal256Type:
		p.DecimalPrecision, p.DecimalScale = v.Precision, v.Scale
	case *arrow.Time32Type:
		p.TimeUnit = v.Unit
	case *arrow.Time64Type:
		p.TimeUnit = v.Unit
	case *arrow.TimestampType:
		p.TimeUnit, p.TimeZone = v.Unit, v.TimeZone
	case *arrow.DurationType:
		p.TimeUnit = v.Unit
	case *arrow.ListType:
		elem := v.ElemField()
		p.Children = []ipctype.ChildSpec{{Name: elem.Name, Type: elem.Type, Nullable: elem.Nullable}}
	case *arrow.FixedSizeListType:
		p.ListSize = v.Len()
		elem := v.ElemField()
		p.Children = []ipctype.ChildSpec{{Name: elem.Name, Type: elem.Type, Nullable: elem.Nullable}}
	case *arrow.StructType:
		fields := v.Fields()
		p.Children = make([]ipctype.ChildSpec, len(fields))
		for i, f := range fields {
			p.Children[i] = ipctype.ChildSpec{Name: f.Name, Type: f.Type, Nullable: f.Nullable}
		}
	}

	return p
}

// ChildrenOf returns dt's immediate child fields (List/FixedSizeList/Struct),
// or nil for a type with no children. Exported for callers outside this
// package that need to walk the same nested structure BuildField does, such
// as a schema fingerprint.
func ChildrenOf(dt arrow.DataType) []arrow.Field {
	specs := buildParamsOf(dt).Children
	if len(specs) == 0 {
		return nil
	}

	fields := make([]arrow.Field, len(specs))
	for i, c := range specs {
		fields[i] = arrow.Field{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
	}

	return fields
}

// BuildSchema constructs a Schema table (endianness, fields) and returns its
// offset.
func BuildSchema(b *flatbuffers.Builder, schema *arrow.Schema) (flatbuffers.UOffsetT, error) {
	fields := schema.Fields()

	fieldOffsets := make([]flatbuffers.UOffsetT, len(fields))
	for i, f := range fields {
		off, err := BuildField(b, f)
		if err != nil {
			return 0, err
		}
		fieldOffsets[i] = off
	}

	b.StartVector(4, len(fieldOffsets), 4)
	for i := len(fieldOffsets) - 1; i >= 0; i-- {
		b.PrependUOffsetT(fieldOffsets[i])
	}
	fieldsVec := b.EndVector(len(fieldOffsets))

	b.StartObject(2)
	b.PrependUOffsetTSlot(1, fieldsVec, 0)
	b.PrependInt16Slot(0, int16(endiannessLittle), int16(endiannessLittle))

	return b.EndObject(), nil
}

// DecodeSchema parses a Schema table at pos within buf.
func DecodeSchema(buf []byte, pos flatbuffers.UOffsetT) (*arrow.Schema, error) {
	var tab flatbuffers.Table
	tab.Bytes = buf
	tab.Pos = pos

	var fields []arrow.Field
	if o := tab.Offset(6); o != 0 {
		vecPos := o + tab.Pos
		n := tab.VectorLen(vecPos)
		fields = make([]arrow.Field, n)
		for i := 0; i < n; i++ {
			fieldPos := tab.Indirect(tab.Vector(vecPos) + flatbuffers.UOffsetT(i)*4)
			f, err := DecodeField(buf, fieldPos)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
	}

	return arrow.NewSchema(fields, nil), nil
}
