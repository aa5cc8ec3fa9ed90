package fb

import (
	"github.com/apache/arrow/go/v18/arrow"
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/sparrowdata/arrowipc/ipcerr"
	"github.com/sparrowdata/arrowipc/ipctype"
)

// timeUnitFromArrow converts arrow.TimeUnit to the wire-level timeUnit enum
// shared by Time, Timestamp and Duration; the two enums share numeric values
// (Second=0 .. Nanosecond=3) so this is a plain cast.
func timeUnitFromArrow(u arrow.TimeUnit) timeUnit {
	return timeUnit(u)
}

// arrowTimeUnit is the reverse of timeUnitFromArrow.
func arrowTimeUnit(u timeUnit) arrow.TimeUnit {
	return arrow.TimeUnit(u)
}

// buildTypeUnion constructs the FlatBuffer table for tag's Type union member
// and returns its type ID byte plus table offset. Any string/vector children
// (e.g. Timestamp's timezone) are built before this call returns, as required
// by the FlatBuffer builder's bottom-up construction order.
func buildTypeUnion(b *flatbuffers.Builder, tag ipctype.Tag, p ipctype.BuildParams) (typeID, flatbuffers.UOffsetT, error) {
	switch tag {
	case ipctype.Null:
		b.StartObject(0)
		return typeNull, b.EndObject(), nil

	case ipctype.Bool:
		b.StartObject(0)
		return typeBool, b.EndObject(), nil

	case ipctype.Int8, ipctype.Uint8, ipctype.Int16, ipctype.Uint16,
		ipctype.Int32, ipctype.Uint32, ipctype.Int64, ipctype.Uint64:
		bitWidth, signed := intLayout(tag)
		b.StartObject(2)
		b.PrependBoolSlot(1, signed, false)
		b.PrependInt32Slot(0, bitWidth, 0)
		return typeInt, b.EndObject(), nil

	case ipctype.Float16, ipctype.Float32, ipctype.Float64:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(floatPrecision(tag)), 0)
		return typeFloatingPoint, b.EndObject(), nil

	case ipctype.Utf8:
		b.StartObject(0)
		return typeUtf8, b.EndObject(), nil

	case ipctype.Binary:
		b.StartObject(0)
		return typeBinary, b.EndObject(), nil

	case ipctype.FixedSizeBinary:
		b.StartObject(1)
		b.PrependInt32Slot(0, p.FixedWidth, 0)
		return typeFixedSizeBinary, b.EndObject(), nil

	case ipctype.Decimal32, ipctype.Decimal64, ipctype.Decimal128, ipctype.Decimal256:
		bitWidth := decimalBitWidth(tag)
		b.StartObject(3)
		b.PrependInt32Slot(2, bitWidth, 128)
		b.PrependInt32Slot(1, p.DecimalScale, 0)
		b.PrependInt32Slot(0, p.DecimalPrecision, 0)
		return typeDecimal, b.EndObject(), nil

	case ipctype.Date32:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(dateUnitDay), int16(dateUnitMillisecond))
		return typeDate, b.EndObject(), nil

	case ipctype.Date64:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(dateUnitMillisecond), int16(dateUnitMillisecond))
		return typeDate, b.EndObject(), nil

	case ipctype.Time32:
		b.StartObject(2)
		b.PrependInt32Slot(1, 32, 0)
		b.PrependInt16Slot(0, int16(timeUnitFromArrow(p.TimeUnit)), 0)
		return typeTime, b.EndObject(), nil

	case ipctype.Time64:
		b.StartObject(2)
		b.PrependInt32Slot(1, 64, 0)
		b.PrependInt16Slot(0, int16(timeUnitFromArrow(p.TimeUnit)), 0)
		return typeTime, b.EndObject(), nil

	case ipctype.Timestamp:
		var tzOff flatbuffers.UOffsetT
		if p.TimeZone != "" {
			tzOff = b.CreateString(p.TimeZone)
		}
		b.StartObject(2)
		if tzOff != 0 {
			b.PrependUOffsetTSlot(1, tzOff, 0)
		}
		b.PrependInt16Slot(0, int16(timeUnitFromArrow(p.TimeUnit)), 0)
		return typeTimestamp, b.EndObject(), nil

	case ipctype.Duration:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(timeUnitFromArrow(p.TimeUnit)), 0)
		return typeDuration, b.EndObject(), nil

	case ipctype.IntervalYearMonth:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(intervalUnitYearMonth), 0)
		return typeInterval, b.EndObject(), nil

	case ipctype.IntervalDayTime:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(intervalUnitDayTime), 0)
		return typeInterval, b.EndObject(), nil

	case ipctype.IntervalMonthDayNano:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(intervalUnitMonthDayNano), 0)
		return typeInterval, b.EndObject(), nil

	case ipctype.List:
		b.StartObject(0)
		return typeList, b.EndObject(), nil

	case ipctype.FixedSizeList:
		b.StartObject(1)
		b.PrependInt32Slot(0, p.ListSize, 0)
		return typeFixedSizeList, b.EndObject(), nil

	case ipctype.Struct:
		b.StartObject(0)
		return typeStruct, b.EndObject(), nil

	default:
		return typeNone, 0, ipcerr.New(ipcerr.UnknownType, "tag %v has no Type union mapping", tag)
	}
}

// decodeTypeUnion parses the Type union member at tab into a Tag plus the
// BuildParams fields that member carries. Children (for List/FixedSizeList/
// Struct) are filled in by the caller after decoding the Field's children
// vector.
func decodeTypeUnion(id typeID, tab flatbuffers.Table) (ipctype.Tag, ipctype.BuildParams, error) {
	var params ipctype.BuildParams

	switch id {
	case typeNull:
		return ipctype.Null, params, nil

	case typeBool:
		return ipctype.Bool, params, nil

	case typeInt:
		bitWidth := int32(0)
		if o := tab.Offset(4); o != 0 {
			bitWidth = tab.GetInt32(o + tab.Pos)
		}
		signed := false
		if o := tab.Offset(6); o != 0 {
			signed = tab.GetBool(o + tab.Pos)
		}
		return tagForInt(bitWidth, signed)

	case typeFloatingPoint:
		precision := int16(0)
		if o := tab.Offset(4); o != 0 {
			precision = tab.GetInt16(o + tab.Pos)
		}
		return tagForFloat(precision), params, nil

	case typeUtf8:
		return ipctype.Utf8, params, nil

	case typeBinary:
		return ipctype.Binary, params, nil

	case typeFixedSizeBinary:
		width := int32(0)
		if o := tab.Offset(4); o != 0 {
			width = tab.GetInt32(o + tab.Pos)
		}
		params.FixedWidth = width
		return ipctype.FixedSizeBinary, params, nil

	case typeDecimal:
		if o := tab.Offset(4); o != 0 {
			params.DecimalPrecision = tab.GetInt32(o + tab.Pos)
		}
		if o := tab.Offset(6); o != 0 {
			params.DecimalScale = tab.GetInt32(o + tab.Pos)
		}
		bitWidth := int32(128)
		if o := tab.Offset(8); o != 0 {
			bitWidth = tab.GetInt32(o + tab.Pos)
		}
		return tagForDecimal(bitWidth, params)

	case typeDate:
		unit := dateUnit(dateUnitMillisecond)
		if o := tab.Offset(4); o != 0 {
			unit = dateUnit(tab.GetInt16(o + tab.Pos))
		}
		if unit == dateUnitDay {
			return ipctype.Date32, params, nil
		}
		return ipctype.Date64, params, nil

	case typeTime:
		unit := timeUnit(0)
		if o := tab.Offset(4); o != 0 {
			unit = timeUnit(tab.GetInt16(o + tab.Pos))
		}
		bitWidth := int32(32)
		if o := tab.Offset(6); o != 0 {
			bitWidth = tab.GetInt32(o + tab.Pos)
		}
		params.TimeUnit = arrowTimeUnit(unit)
		if bitWidth == 64 {
			return ipctype.Time64, params, nil
		}
		return ipctype.Time32, params, nil

	case typeTimestamp:
		unit := timeUnit(0)
		if o := tab.Offset(4); o != 0 {
			unit = timeUnit(tab.GetInt16(o + tab.Pos))
		}
		params.TimeUnit = arrowTimeUnit(unit)
		if o := tab.Offset(6); o != 0 {
			params.TimeZone = tab.String(o + tab.Pos)
		}
		return ipctype.Timestamp, params, nil

	case typeDuration:
		unit := timeUnit(0)
		if o := tab.Offset(4); o != 0 {
			unit = timeUnit(tab.GetInt16(o + tab.Pos))
		}
		params.TimeUnit = arrowTimeUnit(unit)
		return ipctype.Duration, params, nil

	case typeInterval:
		unit := intervalUnit(0)
		if o := tab.Offset(4); o != 0 {
			unit = intervalUnit(tab.GetInt16(o + tab.Pos))
		}
		switch unit {
		case intervalUnitYearMonth:
			return ipctype.IntervalYearMonth, params, nil
		case intervalUnitDayTime:
			return ipctype.IntervalDayTime, params, nil
		default:
			return ipctype.IntervalMonthDayNano, params, nil
		}

	case typeList:
		return ipctype.List, params, nil

	case typeFixedSizeList:
		if o := tab.Offset(4); o != 0 {
			params.ListSize = tab.GetInt32(o + tab.Pos)
		}
		return ipctype.FixedSizeList, params, nil

	case typeStruct:
		return ipctype.Struct, params, nil

	default:
		return 0, params, ipcerr.New(ipcerr.UnknownType, "unrecognized Type union id %d", id)
	}
}

func intLayout(tag ipctype.Tag) (bitWidth int32, signed bool) {
	switch tag {
	case ipctype.Int8:
		return 8, true
	case ipctype.Uint8:
		return 8, false
	case ipctype.Int16:
		return 16, true
	case ipctype.Uint16:
		return 16, false
	case ipctype.Int32:
		return 32, true
	case ipctype.Uint32:
		return 32, false
	case ipctype.Int64:
		return 64, true
	case ipctype.Uint64:
		return 64, false
	default:
		return 0, false
	}
}

func tagForInt(bitWidth int32, signed bool) (ipctype.Tag, ipctype.BuildParams, error) {
	var p ipctype.BuildParams
	switch {
	case bitWidth == 8 && signed:
		return ipctype.Int8, p, nil
	case bitWidth == 8 && !signed:
		return ipctype.Uint8, p, nil
	case bitWidth == 16 && signed:
		return ipctype.Int16, p, nil
	case bitWidth == 16 && !signed:
		return ipctype.Uint16, p, nil
	case bitWidth == 32 && signed:
		return ipctype.Int32, p, nil
	case bitWidth == 32 && !signed:
		return ipctype.Uint32, p, nil
	case bitWidth == 64 && signed:
		return ipctype.Int64, p, nil
	case bitWidth == 64 && !signed:
		return ipctype.Uint64, p, nil
	default:
		return 0, p, ipcerr.New(ipcerr.UnknownType, "unsupported Int bitWidth=%d signed=%v", bitWidth, signed)
	}
}

func floatPrecision(tag ipctype.Tag) int {
	switch tag {
	case ipctype.Float16:
		return 0
	case ipctype.Float32:
		return 1
	default:
		return 2
	}
}

func tagForFloat(precision int16) ipctype.Tag {
	switch precision {
	case 0:
		return ipctype.Float16
	case 1:
		return ipctype.Float32
	default:
		return ipctype.Float64
	}
}

func decimalBitWidth(tag ipctype.Tag) int32 {
	switch tag {
	case ipctype.Decimal32:
		return 32
	case ipctype.Decimal64:
		return 64
	case ipctype.Decimal256:
		return 256
	default:
		return 128
	}
}

func tagForDecimal(bitWidth int32, p ipctype.BuildParams) (ipctype.Tag, ipctype.BuildParams, error) {
	switch bitWidth {
	case 32:
		return ipctype.Decimal32, p, nil
	case 64:
		return ipctype.Decimal64, p, nil
	case 128:
		return ipctype.Decimal128, p, nil
	case 256:
		return ipctype.Decimal256, p, nil
	default:
		return 0, p, ipcerr.New(ipcerr.UnknownType, "unsupported Decimal bitWidth=%d", bitWidth)
	}
}
