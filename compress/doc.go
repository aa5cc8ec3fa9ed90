// Package compress implements per-buffer body compression for Arrow IPC
// messages: the Codec algorithms themselves (this file's neighbors) and the
// length-prefixed wire framing that wraps them (frame.go).
//
// # Overview
//
// An IPC record batch's buffers are compressed independently, not as one
// concatenated blob. Each buffer, once framed by Frame, carries its own
// 8-byte header:
//
//	[i64 header][payload]
//
// header is the original uncompressed length when compression helped, or -1
// when the compressed form was not smaller than the input, in which case
// payload is the input unchanged. This mirrors the BodyCompression FlatBuffer
// message recorded once per record batch.
//
// # Algorithms
//
// Three algorithms are supported, matching the Arrow IPC BodyCompression
// codec enum plus this module's own uncompressed marker:
//
//	compress.None      no compression; still passes through Frame's header
//	compress.LZ4Frame  github.com/pierrec/lz4/v4, LZ4 frame container
//	compress.Zstd      github.com/klauspost/compress/zstd (pure Go build)
//	                    or github.com/valyala/gozstd (cgo build, opt-in)
//
// # Usage
//
//	frame, err := compress.NewFrame(compress.Zstd)
//	framed, err := frame.Compress(bodyBytes)   // wire-ready, with header
//	original, err := frame.Decompress(framed)
//
// # Compression cache
//
// Cache memoizes Frame.Compress results by buffer identity so that a
// size-prediction pass and a subsequent write pass over the same record
// batch compress each buffer exactly once:
//
//	cache := compress.NewCache()
//	framed, err := cache.CompressCached(frame, buf)
//
// # Memory management
//
// Codec implementations pool their underlying encoder/decoder state
// (sync.Pool) to avoid per-call allocation; Frame and Cache allocate one
// output slice per buffer, owned by the caller.
//
// # Thread safety
//
// Codec and Frame values are safe for concurrent use. Cache is not: it is
// scoped to a single writer encoding one record batch at a time.
package compress
