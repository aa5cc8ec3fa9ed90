package ipctype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/sparrowdata/arrowipc/ipcerr"
)

func newFormatParseErr(format string, reason string, args ...any) error {
	return ipcerr.New(ipcerr.FormatParse, "%s: %s", strconv.Quote(format), fmt.Sprintf(reason, args...))
}

// FormatString renders the Arrow C-Data-Interface format string for tag t,
// consulting p for the tags that need extra parameters (decimal precision
// and scale, fixed width, time unit). This satisfies spec §4.1's concrete
// scenario 4 ("format string must be exactly \"d:9,2\"") and the
// "+w:<listSize>" / "w:<byteWidth>" rules.
func FormatString(t Tag, p BuildParams) string {
	switch t {
	case Null:
		return "n"
	case Bool:
		return "b"
	case Int8:
		return "c"
	case Uint8:
		return "C"
	case Int16:
		return "s"
	case Uint16:
		return "S"
	case Int32:
		return "i"
	case Uint32:
		return "I"
	case Int64:
		return "l"
	case Uint64:
		return "L"
	case Float16:
		return "e"
	case Float32:
		return "f"
	case Float64:
		return "g"
	case Utf8:
		return "u"
	case Binary:
		return "z"
	case FixedSizeBinary:
		return "w:" + strconv.Itoa(int(p.FixedWidth))
	case Decimal32:
		return decimalFormat(p, 32)
	case Decimal64:
		return decimalFormat(p, 64)
	case Decimal128:
		return decimalFormat(p, 128)
	case Decimal256:
		return decimalFormat(p, 256)
	case Date32:
		return "tdD"
	case Date64:
		return "tdm"
	case Time32:
		if p.TimeUnit == arrow.Millisecond {
			return "ttm"
		}
		return "tts"
	case Time64:
		if p.TimeUnit == arrow.Nanosecond {
			return "ttn"
		}
		return "ttu"
	case Timestamp:
		return "ts" + timeUnitCode(p.TimeUnit) + ":" + p.TimeZone
	case Duration:
		return "tD" + timeUnitCode(p.TimeUnit)
	case IntervalYearMonth:
		return "tiM"
	case IntervalDayTime:
		return "tiD"
	case IntervalMonthDayNano:
		return "tin"
	case List:
		return "+l"
	case FixedSizeList:
		return "+w:" + strconv.Itoa(int(p.ListSize))
	case Struct:
		return "+s"
	default:
		return ""
	}
}

// decimalFormat renders "d:<precision>,<scale>" for 128-bit decimals (the
// Arrow default bit width, so it is elided) and "d:<precision>,<scale>,<bitWidth>"
// for the 32/64/256-bit variants, per spec §4.1.
func decimalFormat(p BuildParams, bitWidth int) string {
	base := "d:" + strconv.Itoa(int(p.DecimalPrecision)) + "," + strconv.Itoa(int(p.DecimalScale))
	if bitWidth == 128 {
		return base
	}

	return base + "," + strconv.Itoa(bitWidth)
}

func timeUnitCode(u arrow.TimeUnit) string {
	switch u {
	case arrow.Second:
		return "s"
	case arrow.Millisecond:
		return "m"
	case arrow.Microsecond:
		return "u"
	case arrow.Nanosecond:
		return "n"
	default:
		return "s"
	}
}

// ParseFormat parses an Arrow C-Data-Interface format string back into a Tag
// plus its BuildParams, rejecting malformed fixed-size suffixes (missing
// integer, trailing garbage) with a FormatParse-classified error, per spec
// §4.1's requirement.
func ParseFormat(s string) (Tag, BuildParams, error) {
	switch s {
	case "n":
		return Null, BuildParams{}, nil
	case "b":
		return Bool, BuildParams{}, nil
	case "c":
		return Int8, BuildParams{}, nil
	case "C":
		return Uint8, BuildParams{}, nil
	case "s":
		return Int16, BuildParams{}, nil
	case "S":
		return Uint16, BuildParams{}, nil
	case "i":
		return Int32, BuildParams{}, nil
	case "I":
		return Uint32, BuildParams{}, nil
	case "l":
		return Int64, BuildParams{}, nil
	case "L":
		return Uint64, BuildParams{}, nil
	case "e":
		return Float16, BuildParams{}, nil
	case "f":
		return Float32, BuildParams{}, nil
	case "g":
		return Float64, BuildParams{}, nil
	case "u":
		return Utf8, BuildParams{}, nil
	case "z":
		return Binary, BuildParams{}, nil
	case "tdD":
		return Date32, BuildParams{}, nil
	case "tdm":
		return Date64, BuildParams{}, nil
	case "tts":
		return Time32, BuildParams{TimeUnit: arrow.Second}, nil
	case "ttm":
		return Time32, BuildParams{TimeUnit: arrow.Millisecond}, nil
	case "ttu":
		return Time64, BuildParams{TimeUnit: arrow.Microsecond}, nil
	case "ttn":
		return Time64, BuildParams{TimeUnit: arrow.Nanosecond}, nil
	case "tiM":
		return IntervalYearMonth, BuildParams{}, nil
	case "tiD":
		return IntervalDayTime, BuildParams{}, nil
	case "tin":
		return IntervalMonthDayNano, BuildParams{}, nil
	case "+l":
		return List, BuildParams{}, nil
	case "+s":
		return Struct, BuildParams{}, nil
	}

	switch {
	case strings.HasPrefix(s, "w:"):
		width, err := parseFixedSuffix(s, "w:")
		if err != nil {
			return 0, BuildParams{}, err
		}

		return FixedSizeBinary, BuildParams{FixedWidth: int32(width)}, nil

	case strings.HasPrefix(s, "+w:"):
		size, err := parseFixedSuffix(s, "+w:")
		if err != nil {
			return 0, BuildParams{}, err
		}

		return FixedSizeList, BuildParams{ListSize: int32(size)}, nil

	case strings.HasPrefix(s, "d:"):
		return parseDecimalFormat(s)

	case strings.HasPrefix(s, "ts"):
		return parseTimestampFormat(s)

	case strings.HasPrefix(s, "tD"):
		return parseDurationFormat(s)

	case strings.HasPrefix(s, "+ud:"), strings.HasPrefix(s, "+us:"):
		return 0, BuildParams{}, newFormatParseErr(s, "union types are not supported by this codec")
	}

	return 0, BuildParams{}, newFormatParseErr(s, "unrecognized format string")
}

// parseFixedSuffix parses the integer following a "<prefix>" marker and
// rejects both a missing integer and any trailing garbage after it.
func parseFixedSuffix(s, prefix string) (int, error) {
	rest := strings.TrimPrefix(s, prefix)
	if rest == "" {
		return 0, newFormatParseErr(s, "missing integer after "+prefix)
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, newFormatParseErr(s, "invalid integer after "+prefix)
	}

	return n, nil
}

func parseDecimalFormat(s string) (Tag, BuildParams, error) {
	rest := strings.TrimPrefix(s, "d:")
	parts := strings.Split(rest, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, BuildParams{}, newFormatParseErr(s, "decimal format requires \"d:precision,scale[,bitWidth]\"")
	}

	precision, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, BuildParams{}, newFormatParseErr(s, "invalid decimal precision")
	}

	scale, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, BuildParams{}, newFormatParseErr(s, "invalid decimal scale")
	}

	params := BuildParams{DecimalPrecision: int32(precision), DecimalScale: int32(scale)}

	if len(parts) == 2 {
		return Decimal128, params, nil
	}

	bitWidth, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, BuildParams{}, newFormatParseErr(s, "invalid decimal bit width")
	}

	switch bitWidth {
	case 32:
		return Decimal32, params, nil
	case 64:
		return Decimal64, params, nil
	case 128:
		return Decimal128, params, nil
	case 256:
		return Decimal256, params, nil
	default:
		return 0, BuildParams{}, newFormatParseErr(s, "unsupported decimal bit width %d", bitWidth)
	}
}

func parseTimestampFormat(s string) (Tag, BuildParams, error) {
	// "ts" + unit-code + ":" + timezone (timezone may be empty)
	if len(s) < 4 || s[3] != ':' {
		return 0, BuildParams{}, newFormatParseErr(s, "timestamp format requires \"ts<unit>:<timezone>\"")
	}

	unit, err := parseTimeUnitCode(s[2])
	if err != nil {
		return 0, BuildParams{}, newFormatParseErr(s, "%v", err)
	}

	return Timestamp, BuildParams{TimeUnit: unit, TimeZone: s[4:]}, nil
}

func parseDurationFormat(s string) (Tag, BuildParams, error) {
	if len(s) != 3 {
		return 0, BuildParams{}, newFormatParseErr(s, "duration format requires \"tD<unit>\"")
	}

	unit, err := parseTimeUnitCode(s[2])
	if err != nil {
		return 0, BuildParams{}, newFormatParseErr(s, "%v", err)
	}

	return Duration, BuildParams{TimeUnit: unit}, nil
}

func parseTimeUnitCode(c byte) (arrow.TimeUnit, error) {
	switch c {
	case 's':
		return arrow.Second, nil
	case 'm':
		return arrow.Millisecond, nil
	case 'u':
		return arrow.Microsecond, nil
	case 'n':
		return arrow.Nanosecond, nil
	default:
		return 0, newFormatParseErr(string(c), "invalid time unit code")
	}
}
