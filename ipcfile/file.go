// Package ipcfile implements component C5's file orchestrator (spec
// §4.5.3/§4.5.4): the "ARROW1" magic header and trailer wrapping a stream
// region, and the trailing Footer FlatBuffer (schema plus a Block index of
// every record batch). It is built directly on ipcstream rather than
// reimplementing message sequencing.
package ipcfile

import (
	"bytes"
	"io"

	"github.com/sparrowdata/arrowipc/endian"
	"github.com/sparrowdata/arrowipc/ipcerr"
)

// magic is the 6-byte file marker written at both the head (padded to 8
// bytes) and the tail (unpadded) of an IPC file, per spec §6.
var magic = [6]byte{'A', 'R', 'R', 'O', 'W', '1'}

// wireOrder is fixed little-endian by the format itself (the footer_size
// field), not a runtime choice; see the identical note in ipcmsg.
var wireOrder = endian.GetLittleEndianEngine()

const headerSize = 8 // magic(6) + 2 bytes zero padding
const footerSizeFieldSize = 4
const trailerSize = footerSizeFieldSize + len(magic)
const minFileSize = headerSize + trailerSize

func writeHeader(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "write file magic header")
	}
	if _, err := w.Write([]byte{0, 0}); err != nil {
		return ipcerr.Wrap(ipcerr.InvalidState, err, "write file header padding")
	}

	return nil
}

func checkMagic(got []byte) error {
	if !bytes.Equal(got, magic[:]) {
		return ipcerr.New(ipcerr.BadMagic, "expected %q, got %q", magic[:], got)
	}

	return nil
}
