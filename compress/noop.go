package compress

// NoneCodec is the identity codec used for the uncompressed body path.
// Adapted from the teacher's NoOpCompressor; Frame always wraps its output
// in the -1-header form so the wire shape stays uniform (spec §4.2).
type NoneCodec struct{}

var _ Codec = (*NoneCodec)(nil)

// Compress returns data unchanged.
func (c NoneCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
func (c NoneCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
