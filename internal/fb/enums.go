// Package fb hand-builds and parses the subset of Arrow's Schema.fbs /
// Message.fbs FlatBuffer tables this module needs, directly against
// github.com/google/flatbuffers/go's Builder/Table runtime rather than
// flatc-generated bindings (none are vendored in this module). The table
// layouts, field orders and enum values below are fixed by the public Arrow
// columnar IPC format, not chosen by this package.
package fb

// metadataVersion values from Schema.fbs MetadataVersion. Only V5 is
// produced; decoding does not read or check the version field.
type metadataVersion int16

const metadataVersionV5 metadataVersion = 4

// endianness values from Schema.fbs Endianness.
type endianness int16

const (
	endiannessLittle endianness = 0
)

// typeID values from Schema.fbs Type union, restricted to the members
// ipctype.Tag can produce.
type typeID byte

const (
	typeNone            typeID = 0
	typeNull            typeID = 1
	typeInt             typeID = 2
	typeFloatingPoint   typeID = 3
	typeBinary          typeID = 4
	typeUtf8            typeID = 5
	typeBool            typeID = 6
	typeDecimal         typeID = 7
	typeDate            typeID = 8
	typeTime            typeID = 9
	typeTimestamp       typeID = 10
	typeInterval        typeID = 11
	typeList            typeID = 12
	typeStruct          typeID = 13
	typeFixedSizeBinary typeID = 15
	typeFixedSizeList   typeID = 16
	typeDuration        typeID = 18
)

// messageHeader values from Message.fbs MessageHeader union.
type messageHeader byte

const (
	headerNone            messageHeader = 0
	headerSchema          messageHeader = 1
	headerDictionaryBatch messageHeader = 2
	headerRecordBatch     messageHeader = 3
	headerTensor          messageHeader = 4
	headerSparseTensor    messageHeader = 5
)

// dateUnit values from Schema.fbs DateUnit.
type dateUnit int16

const (
	dateUnitDay         dateUnit = 0
	dateUnitMillisecond dateUnit = 1
)

// timeUnit values from Schema.fbs TimeUnit, shared by Time/Timestamp/Duration.
type timeUnit int16

const (
	timeUnitSecond      timeUnit = 0
	timeUnitMillisecond timeUnit = 1
	timeUnitMicrosecond timeUnit = 2
	timeUnitNanosecond  timeUnit = 3
)

// intervalUnit values from Schema.fbs IntervalUnit.
type intervalUnit int16

const (
	intervalUnitYearMonth    intervalUnit = 0
	intervalUnitDayTime      intervalUnit = 1
	intervalUnitMonthDayNano intervalUnit = 2
)

// compressionType values from Message.fbs CompressionType, mirroring
// compress.Algorithm's LZ4Frame/Zstd ordering.
type compressionType byte

const (
	compressionTypeLZ4Frame compressionType = 0
	compressionTypeZstd     compressionType = 1
)

// bodyCompressionMethod values from Message.fbs BodyCompressionMethod. Only
// BUFFER (whole-buffer compression) is produced; spec has no use for the
// per-value-run method some Arrow implementations also support.
type bodyCompressionMethod byte

const (
	bodyCompressionMethodBuffer bodyCompressionMethod = 0
)
