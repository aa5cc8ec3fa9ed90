package compress

import (
	"encoding/binary"

	"github.com/sparrowdata/arrowipc/ipcerr"
)

// HeaderSize is the width of the per-buffer length header defined by
// spec §4.2: an i64, little-endian.
const HeaderSize = 8

// rawSentinel is the header value written when the compressed payload would
// not be smaller than the uncompressed input: the payload that follows is
// the uncompressed input verbatim (spec §4.2's "skip if not smaller" rule).
const rawSentinel = -1

// Frame applies one algorithm's Codec with the wire framing from spec §4.2:
// "[i64 header][payload]", where header is either the original uncompressed
// length (compression helped) or -1 (payload is raw, compression did not
// help). None always takes the -1 path, which keeps the wire shape uniform
// across compressed and uncompressed buffers.
type Frame struct {
	Algorithm Algorithm
	codec     Codec
}

// NewFrame builds a Frame for the given algorithm.
func NewFrame(a Algorithm) (*Frame, error) {
	codec, err := NewCodec(a)
	if err != nil {
		return nil, err
	}

	return &Frame{Algorithm: a, codec: codec}, nil
}

// Compress frames data: it attempts compression (unless Algorithm is None),
// and falls back to the raw/-1 form whenever the compressed payload would
// not be strictly smaller than the input.
func (f *Frame) Compress(data []byte) ([]byte, error) {
	if f.Algorithm == None {
		return f.frameRaw(data), nil
	}

	compressed, err := f.codec.Compress(data)
	if err != nil {
		return nil, ipcerr.Wrap(ipcerr.CompressionError, err, "compress with %v", f.Algorithm)
	}

	if len(compressed) >= len(data) {
		return f.frameRaw(data), nil
	}

	out := make([]byte, HeaderSize+len(compressed))
	binary.LittleEndian.PutUint64(out[:HeaderSize], uint64(len(data)))
	copy(out[HeaderSize:], compressed)

	return out, nil
}

func (f *Frame) frameRaw(data []byte) []byte {
	out := make([]byte, HeaderSize+len(data))
	binary.LittleEndian.PutUint64(out[:HeaderSize], uint64(rawSentinel))
	copy(out[HeaderSize:], data)

	return out
}

// Decompress reverses Compress. When the header is -1 the returned slice
// aliases framed[HeaderSize:] (a zero-copy view); otherwise it is an owned
// buffer of exactly header bytes. An error is returned when framed is
// shorter than HeaderSize, when the underlying codec fails, or when the
// decompressed length does not match the declared header.
func (f *Frame) Decompress(framed []byte) ([]byte, error) {
	if len(framed) < HeaderSize {
		return nil, ipcerr.New(ipcerr.Truncated, "compressed buffer shorter than %d-byte header", HeaderSize)
	}

	header := int64(binary.LittleEndian.Uint64(framed[:HeaderSize]))
	payload := framed[HeaderSize:]

	if header == rawSentinel {
		return payload, nil
	}

	if header < 0 {
		return nil, ipcerr.New(ipcerr.DecompressionError, "negative non-sentinel header %d", header)
	}

	out, err := f.codec.Decompress(payload)
	if err != nil {
		return nil, ipcerr.Wrap(ipcerr.DecompressionError, err, "decompress with %v", f.Algorithm)
	}

	if int64(len(out)) != header {
		return nil, ipcerr.New(ipcerr.SizeMismatch, "decompressed %d bytes, header declared %d", len(out), header)
	}

	return out, nil
}
