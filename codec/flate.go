package codec

import (
	"compress/flate"
	"io"
)

// Flate is the production Codec, backed by the standard library's
// DEFLATE implementation at best-compression level.
type Flate struct{}

// NewWriter implements Codec.
func (Flate) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.BestCompression)
}

// NewReader implements Codec.
func (Flate) NewReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}
