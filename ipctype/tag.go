// Package ipctype implements component C1 of the codec: the bidirectional
// mapping between this module's closed type enum (Tag) and both the bound
// collaborator's arrow.DataType and the Arrow C-Data-Interface format string
// ("d:9,2", "w:16", "+w:4", ...). The FlatBuffer wire metadata (internal/fb)
// encodes types from Tag directly and does not go through format strings.
//
// A dedicated Tag enum exists (rather than switching on arrow.DataType
// directly everywhere) because the format-string grammar is the part of C1
// that the spec holds to precise, testable string output — keeping it next
// to a closed enum makes the round trip total and the malformed-input
// rejection paths easy to enumerate.
package ipctype

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
)

// Tag identifies the logical Arrow type of a field, independent of the
// concrete arrow.DataType implementation bound to it.
type Tag uint8

const (
	Null Tag = iota + 1
	Bool
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float16
	Float32
	Float64
	Utf8
	Binary
	FixedSizeBinary
	Decimal32
	Decimal64
	Decimal128
	Decimal256
	Date32
	Date64
	Time32
	Time64
	Timestamp
	Duration
	IntervalYearMonth
	IntervalDayTime
	IntervalMonthDayNano
	List
	FixedSizeList
	Struct
)

func (t Tag) String() string {
	switch t {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Int8:
		return "Int8"
	case Uint8:
		return "Uint8"
	case Int16:
		return "Int16"
	case Uint16:
		return "Uint16"
	case Int32:
		return "Int32"
	case Uint32:
		return "Uint32"
	case Int64:
		return "Int64"
	case Uint64:
		return "Uint64"
	case Float16:
		return "Float16"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Utf8:
		return "Utf8"
	case Binary:
		return "Binary"
	case FixedSizeBinary:
		return "FixedSizeBinary"
	case Decimal32:
		return "Decimal32"
	case Decimal64:
		return "Decimal64"
	case Decimal128:
		return "Decimal128"
	case Decimal256:
		return "Decimal256"
	case Date32:
		return "Date32"
	case Date64:
		return "Date64"
	case Time32:
		return "Time32"
	case Time64:
		return "Time64"
	case Timestamp:
		return "Timestamp"
	case Duration:
		return "Duration"
	case IntervalYearMonth:
		return "IntervalYearMonth"
	case IntervalDayTime:
		return "IntervalDayTime"
	case IntervalMonthDayNano:
		return "IntervalMonthDayNano"
	case List:
		return "List"
	case FixedSizeList:
		return "FixedSizeList"
	case Struct:
		return "Struct"
	default:
		return "Unknown"
	}
}

// IsNested reports whether values of this tag carry one or more child
// arrays (List, FixedSizeList, Struct).
func (t Tag) IsNested() bool {
	switch t {
	case List, FixedSizeList, Struct:
		return true
	default:
		return false
	}
}

// BufferCount returns the number of raw data buffers (validity bitmap
// included) a field of this tag owns, per the Arrow columnar layout
// referenced in spec §4.4.2. It does not include child buffers.
func (t Tag) BufferCount() int {
	switch t {
	case Null:
		return 0
	case Struct, FixedSizeList:
		return 1 // validity only
	case Utf8, Binary:
		return 3 // validity, offsets, data
	case List:
		return 2 // validity, offsets
	default:
		return 2 // validity, data
	}
}

var errUnknownType = fmt.Errorf("arrowipc/ipctype: unknown or unsupported arrow.DataType")

// TagOf maps a bound arrow.DataType to this module's Tag. Dictionary, Union,
// and extension types are not supported and report errUnknownType; callers
// should translate that into ipcerr.UnknownType / UnsupportedMessage as
// appropriate for the call site.
func TagOf(dt arrow.DataType) (Tag, error) {
	switch v := dt.(type) {
	case *arrow.NullType:
		return Null, nil
	case *arrow.BooleanType:
		return Bool, nil
	case *arrow.Int8Type:
		return Int8, nil
	case *arrow.Uint8Type:
		return Uint8, nil
	case *arrow.Int16Type:
		return Int16, nil
	case *arrow.Uint16Type:
		return Uint16, nil
	case *arrow.Int32Type:
		return Int32, nil
	case *arrow.Uint32Type:
		return Uint32, nil
	case *arrow.Int64Type:
		return Int64, nil
	case *arrow.Uint64Type:
		return Uint64, nil
	case *arrow.Float16Type:
		return Float16, nil
	case *arrow.Float32Type:
		return Float32, nil
	case *arrow.Float64Type:
		return Float64, nil
	case *arrow.StringType:
		return Utf8, nil
	case *arrow.BinaryType:
		return Binary, nil
	case *arrow.FixedSizeBinaryType:
		return FixedSizeBinary, nil
	case *arrow.Decimal32Type:
		return Decimal32, nil
	case *arrow.Decimal64Type:
		return Decimal64, nil
	case *arrow.Decimal128Type:
		return Decimal128, nil
	case *arrow.Decimal256Type:
		return Decimal256, nil
	case *arrow.Date32Type:
		return Date32, nil
	case *arrow.Date64Type:
		return Date64, nil
	case *arrow.Time32Type:
		return Time32, nil
	case *arrow.Time64Type:
		return Time64, nil
	case *arrow.TimestampType:
		return Timestamp, nil
	case *arrow.DurationType:
		return Duration, nil
	case *arrow.MonthIntervalType:
		return IntervalYearMonth, nil
	case *arrow.DayTimeIntervalType:
		return IntervalDayTime, nil
	case *arrow.MonthDayNanoIntervalType:
		return IntervalMonthDayNano, nil
	case *arrow.ListType:
		return List, nil
	case *arrow.FixedSizeListType:
		return FixedSizeList, nil
	case *arrow.StructType:
		return Struct, nil
	default:
		return 0, fmt.Errorf("%w: %T", errUnknownType, v)
	}
}

// ChildSpec describes one child field needed to rebuild a nested
// arrow.DataType from a Tag (List/FixedSizeList/Struct).
type ChildSpec struct {
	Name     string
	Type     arrow.DataType
	Nullable bool
}

// BuildParams carries the per-type parameters ToArrowType reads. The decimal,
// fixed-width, list-size and time fields are consulted only for the tags
// that need them; Children is consulted only for List/FixedSizeList/Struct.
type BuildParams struct {
	DecimalPrecision int32
	DecimalScale     int32
	FixedWidth       int32
	ListSize         int32
	TimeUnit         arrow.TimeUnit
	TimeZone         string
	Children         []ChildSpec
}

// ToArrowType rebuilds a concrete arrow.DataType for tag t from p.
func ToArrowType(t Tag, p BuildParams) (arrow.DataType, error) {
	switch t {
	case Null:
		return arrow.Null, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case Uint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case Uint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case Float16:
		return arrow.FixedWidthTypes.Float16, nil
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Utf8:
		return arrow.BinaryTypes.String, nil
	case Binary:
		return arrow.BinaryTypes.Binary, nil
	case FixedSizeBinary:
		return &arrow.FixedSizeBinaryType{ByteWidth: int(p.FixedWidth)}, nil
	case Decimal32:
		return &arrow.Decimal32Type{Precision: p.DecimalPrecision, Scale: p.DecimalScale}, nil
	case Decimal64:
		return &arrow.Decimal64Type{Precision: p.DecimalPrecision, Scale: p.DecimalScale}, nil
	case Decimal128:
		return &arrow.Decimal128Type{Precision: p.DecimalPrecision, Scale: p.DecimalScale}, nil
	case Decimal256:
		return &arrow.Decimal256Type{Precision: p.DecimalPrecision, Scale: p.DecimalScale}, nil
	case Date32:
		return arrow.FixedWidthTypes.Date32, nil
	case Date64:
		return arrow.FixedWidthTypes.Date64, nil
	case Time32:
		return &arrow.Time32Type{Unit: p.TimeUnit}, nil
	case Time64:
		return &arrow.Time64Type{Unit: p.TimeUnit}, nil
	case Timestamp:
		return &arrow.TimestampType{Unit: p.TimeUnit, TimeZone: p.TimeZone}, nil
	case Duration:
		return &arrow.DurationType{Unit: p.TimeUnit}, nil
	case IntervalYearMonth:
		return arrow.FixedWidthTypes.MonthInterval, nil
	case IntervalDayTime:
		return arrow.FixedWidthTypes.DayTimeInterval, nil
	case IntervalMonthDayNano:
		return arrow.FixedWidthTypes.MonthDayNanoInterval, nil
	case List:
		if len(p.Children) != 1 {
			return nil, fmt.Errorf("arrowipc/ipctype: List requires exactly one child, got %d", len(p.Children))
		}
		elem := arrow.Field{Name: p.Children[0].Name, Type: p.Children[0].Type, Nullable: p.Children[0].Nullable}
		return arrow.ListOfField(elem), nil
	case FixedSizeList:
		if len(p.Children) != 1 {
			return nil, fmt.Errorf("arrowipc/ipctype: FixedSizeList requires exactly one child, got %d", len(p.Children))
		}
		elem := arrow.Field{Name: p.Children[0].Name, Type: p.Children[0].Type, Nullable: p.Children[0].Nullable}
		return arrow.FixedSizeListOfField(p.ListSize, elem), nil
	case Struct:
		fields := make([]arrow.Field, len(p.Children))
		for i, c := range p.Children {
			fields[i] = arrow.Field{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
		}
		return arrow.StructOf(fields...), nil
	default:
		return nil, fmt.Errorf("%w: tag=%v", errUnknownType, t)
	}
}
