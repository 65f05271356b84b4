// Package codec declares the streaming compression collaborator used by
// container.Writer and container.Reader to turn a chunk's framed
// variant records into a compact, randomly-skippable payload.
//
// The reference format (CSG3, see package container) is specified
// against an LZMS-compatible streaming codec with a 64 MiB window. No
// third-party compression library appears anywhere in the retrieved
// example pack — the only compression usage found at all is the
// standard library's compress/gzip in mb0-daql's migration stream
// reader — so Flate below binds this interface to the standard
// library's compress/flate, which offers the same streaming
// Writer/Reader shape. See DESIGN.md for the full justification.
package codec

import "io"

// Codec is a streaming compressor/decompressor pair.
type Codec interface {
	// NewWriter wraps w so that bytes written to the result are
	// compressed into w. Close must be called to flush the stream.
	NewWriter(w io.Writer) (io.WriteCloser, error)

	// NewReader wraps r so that reads from the result are decompressed
	// from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}
