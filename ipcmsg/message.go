// Package ipcmsg implements component C3 of the codec: the encapsulated
// message framing defined by spec §4.3 — the continuation marker, the
// little-endian metadata-length prefix, the FlatBuffer metadata itself
// padded to an 8-byte boundary, and the message body that follows it. It
// also recognizes the end-of-stream sentinel: a continuation marker
// followed by a zero metadata length and no body.
//
// Encoding of the FlatBuffer metadata itself is internal/fb's concern;
// ipcmsg only frames whatever bytes internal/fb hands it.
package ipcmsg

import (
	"io"

	"github.com/sparrowdata/arrowipc/endian"
	"github.com/sparrowdata/arrowipc/internal/fb"
	"github.com/sparrowdata/arrowipc/internal/pool"
	"github.com/sparrowdata/arrowipc/ipcerr"
)

// wireOrder is fixed by the format itself: the continuation marker and the
// metadata-length prefix are little-endian on the wire regardless of host
// byte order, so unlike endian's mebo-era host-detection helpers this is not
// swappable at runtime.
var wireOrder = endian.GetLittleEndianEngine()

// continuationMarker precedes every message (and the EOS sentinel) in the
// current (V5) IPC format, distinguishing it from the pre-0.15 format that
// wrote the metadata length directly.
const continuationMarker uint32 = 0xFFFFFFFF

// prefixSize is the width of [continuation marker][metadata length].
const prefixSize = 8

func align8(n int) int {
	return (n + 7) &^ 7
}

// WriteMessage frames metadata (a finished FlatBuffer Message, from
// internal/fb) and body onto w, padding metadata to an 8-byte boundary per
// spec §4.3. It returns the total number of bytes written.
func WriteMessage(w io.Writer, metadata []byte, body []byte) (int64, error) {
	paddedLen := align8(len(metadata))

	buf := pool.GetMessageBuffer()
	defer pool.PutMessageBuffer(buf)
	buf.Reset()

	var prefix [prefixSize]byte
	wireOrder.PutUint32(prefix[0:4], continuationMarker)
	wireOrder.PutUint32(prefix[4:8], uint32(paddedLen))
	buf.MustWrite(prefix[:])
	buf.MustWrite(metadata)

	if pad := paddedLen - len(metadata); pad > 0 {
		var zeros [8]byte
		buf.MustWrite(zeros[:pad])
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), ipcerr.Wrap(ipcerr.InvalidState, err, "write message prefix+metadata")
	}

	total := int64(n)

	if len(body) > 0 {
		bn, err := w.Write(body)
		total += int64(bn)
		if err != nil {
			return total, ipcerr.Wrap(ipcerr.InvalidState, err, "write message body")
		}
	}

	return total, nil
}

// WriteEOS writes the end-of-stream sentinel: the continuation marker
// followed by a zero-length metadata field, with no body.
func WriteEOS(w io.Writer) error {
	var prefix [prefixSize]byte
	wireOrder.PutUint32(prefix[0:4], continuationMarker)
	wireOrder.PutUint32(prefix[4:8], 0)

	if _, err := w.Write(prefix[:]); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "write EOS sentinel")
	}

	return nil
}

// Envelope is one decoded encapsulated message: its parsed FlatBuffer
// metadata and its raw (still-framed, possibly compressed) body bytes.
type Envelope struct {
	Message fb.DecodedMessage
	Body    []byte
}

// NextMessage reads one encapsulated message from r. It returns (nil, true,
// nil) on the end-of-stream sentinel, and (nil, false, io.EOF) when r is
// exhausted before any bytes of a new message are read (a clean stream
// close without an explicit EOS, which spec §6 Source semantics treat as
// equivalent to EOS for streaming sources that cannot write a trailer).
func NextMessage(r io.Reader) (*Envelope, bool, error) {
	var prefix [prefixSize]byte

	n, err := io.ReadFull(r, prefix[:])
	if err == io.EOF && n == 0 {
		return nil, false, io.EOF
	}
	if err != nil {
		return nil, false, ipcerr.Wrap(ipcerr.Truncated, err, "read message prefix")
	}

	marker := wireOrder.Uint32(prefix[0:4])
	if marker != continuationMarker {
		return nil, false, ipcerr.New(ipcerr.UnexpectedMessage, "missing continuation marker, got 0x%08x", marker)
	}

	metaLen := wireOrder.Uint32(prefix[4:8])
	if metaLen == 0 {
		return nil, true, nil
	}

	metadata := make([]byte, metaLen)
	if _, err := io.ReadFull(r, metadata); err != nil {
		return nil, false, ipcerr.Wrap(ipcerr.Truncated, err, "read message metadata (%d bytes)", metaLen)
	}

	msg, err := fb.DecodeMessage(metadata)
	if err != nil {
		return nil, false, err
	}

	var body []byte
	if msg.BodyLength > 0 {
		body = make([]byte, msg.BodyLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, false, ipcerr.Wrap(ipcerr.Truncated, err, "read message body (%d bytes)", msg.BodyLength)
		}
	}

	return &Envelope{Message: msg, Body: body}, false, nil
}
