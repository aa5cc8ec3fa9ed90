package ipctype

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatString_Decimal128ElidesBitWidth(t *testing.T) {
	got := FormatString(Decimal128, BuildParams{DecimalPrecision: 9, DecimalScale: 2})
	assert.Equal(t, "d:9,2", got)
}

func TestFormatString_Decimal256IncludesBitWidth(t *testing.T) {
	got := FormatString(Decimal256, BuildParams{DecimalPrecision: 20, DecimalScale: 4})
	assert.Equal(t, "d:20,4,256", got)
}

func TestFormatString_FixedSizeBinaryAndList(t *testing.T) {
	assert.Equal(t, "w:16", FormatString(FixedSizeBinary, BuildParams{FixedWidth: 16}))
	assert.Equal(t, "+w:4", FormatString(FixedSizeList, BuildParams{ListSize: 4}))
}

func TestFormatString_Timestamp(t *testing.T) {
	got := FormatString(Timestamp, BuildParams{TimeUnit: arrow.Microsecond, TimeZone: "UTC"})
	assert.Equal(t, "tsu:UTC", got)
}

func TestParseFormat_RoundTripsEveryPrimitive(t *testing.T) {
	cases := []struct {
		format string
		tag    Tag
	}{
		{"n", Null}, {"b", Bool}, {"c", Int8}, {"C", Uint8},
		{"s", Int16}, {"S", Uint16}, {"i", Int32}, {"I", Uint32},
		{"l", Int64}, {"L", Uint64}, {"e", Float16}, {"f", Float32},
		{"g", Float64}, {"u", Utf8}, {"z", Binary},
		{"tdD", Date32}, {"tdm", Date64},
		{"+l", List}, {"+s", Struct},
	}

	for _, c := range cases {
		tag, _, err := ParseFormat(c.format)
		require.NoErrorf(t, err, "format %q", c.format)
		assert.Equalf(t, c.tag, tag, "format %q", c.format)
	}
}

func TestParseFormat_Decimal(t *testing.T) {
	tag, params, err := ParseFormat("d:9,2")
	require.NoError(t, err)
	assert.Equal(t, Decimal128, tag)
	assert.Equal(t, int32(9), params.DecimalPrecision)
	assert.Equal(t, int32(2), params.DecimalScale)

	tag, params, err = ParseFormat("d:20,4,256")
	require.NoError(t, err)
	assert.Equal(t, Decimal256, tag)
	assert.Equal(t, int32(20), params.DecimalPrecision)
}

func TestParseFormat_FixedSizeSuffix(t *testing.T) {
	tag, params, err := ParseFormat("w:16")
	require.NoError(t, err)
	assert.Equal(t, FixedSizeBinary, tag)
	assert.Equal(t, int32(16), params.FixedWidth)

	_, _, err = ParseFormat("w:")
	require.Error(t, err)

	_, _, err = ParseFormat("w:notanumber")
	require.Error(t, err)
}

func TestParseFormat_Timestamp(t *testing.T) {
	tag, params, err := ParseFormat("tsu:America/New_York")
	require.NoError(t, err)
	assert.Equal(t, Timestamp, tag)
	assert.Equal(t, arrow.Microsecond, params.TimeUnit)
	assert.Equal(t, "America/New_York", params.TimeZone)
}

func TestParseFormat_RejectsUnionAndGarbage(t *testing.T) {
	_, _, err := ParseFormat("+ud:")
	require.Error(t, err)

	_, _, err = ParseFormat("not a format string")
	require.Error(t, err)
}

func TestFormatString_ParseFormat_RoundTripDecimal(t *testing.T) {
	for tag, bitWidth := range map[Tag]int{Decimal32: 32, Decimal64: 64, Decimal128: 128, Decimal256: 256} {
		s := FormatString(tag, BuildParams{DecimalPrecision: 5, DecimalScale: 1})
		got, params, err := ParseFormat(s)
		require.NoErrorf(t, err, "format %q (bitWidth %d)", s, bitWidth)
		assert.Equal(t, tag, got)
		assert.Equal(t, int32(5), params.DecimalPrecision)
	}
}
