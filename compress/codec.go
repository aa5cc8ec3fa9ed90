// Package compress implements component C2 of the codec: per-buffer body
// compression with the length-prefixed framing rule from spec §4.2.
//
// Two concerns are kept deliberately separate, adapted from the teacher's
// single flat Codec interface (github.com/arloliu/mebo/compress):
//
//   - Codec (this file) wraps one compression algorithm's raw
//     Compress/Decompress, same shape as the teacher's Compressor/
//     Decompressor/Codec interfaces.
//   - Frame (frame.go) applies spec §4.2's "[i64 header][payload]" wire rule
//     on top of a Codec, including the "skip if not smaller" -1 fallback —
//     this framing step has no counterpart in the teacher, which stores
//     sizes in its blob header instead of per-buffer.
//
// Callers of this package almost always want Frame, not Codec, directly.
package compress

import "fmt"

// Algorithm identifies a body compression algorithm. It corresponds to the
// Arrow IPC BodyCompression.codec FlatBuffer enum (LZ4_FRAME = 0, ZSTD = 1)
// but does not share its numeric values: None, this module's own addition
// for the uncompressed path, is 0, and internal/fb translates LZ4Frame and
// Zstd to their wire values. None still goes through Frame's header for wire
// uniformity per spec §4.2.
type Algorithm uint8

const (
	None Algorithm = iota
	LZ4Frame
	Zstd
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "None"
	case LZ4Frame:
		return "LZ4_FRAME"
	case Zstd:
		return "ZSTD"
	default:
		return "Unknown"
	}
}

// Compressor compresses raw bytes. Returned slices are newly allocated and
// owned by the caller; input slices are never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses raw bytes previously produced by a matching
// Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines Compressor and Decompressor for one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// NewCodec is a factory returning the Codec for algorithm a.
func NewCodec(a Algorithm) (Codec, error) {
	switch a {
	case None:
		return NoneCodec{}, nil
	case LZ4Frame:
		return NewLZ4Codec(), nil
	case Zstd:
		return NewZstdCodec(), nil
	default:
		return nil, fmt.Errorf("arrowipc/compress: unknown algorithm %v", a)
	}
}
