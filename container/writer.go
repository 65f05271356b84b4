package container

import (
	"bytes"
	"io"
	"sort"

	"github.com/gogpu/shaderperm/build"
	"github.com/gogpu/shaderperm/codec"
	"github.com/gogpu/shaderperm/internal/logging"
	"github.com/gogpu/shaderperm/internal/parallel"
	"github.com/gogpu/shaderperm/option"
)

// WriterOptions configures a Writer.
type WriterOptions struct {
	// MaxChunkVariants is the target chunk size in variants.
	MaxChunkVariants int

	// Workers is the size of the compression worker pool. 0 means
	// GOMAXPROCS.
	Workers int
}

// WriterOption configures a Writer during construction.
type WriterOption func(*WriterOptions)

func defaultWriterOptions() WriterOptions {
	return WriterOptions{MaxChunkVariants: DefaultMaxChunkVariants}
}

// WithMaxChunkVariants overrides the target chunk size.
func WithMaxChunkVariants(n int) WriterOption {
	return func(o *WriterOptions) { o.MaxChunkVariants = n }
}

// WithCompressionWorkers sets the compression worker pool size.
func WithCompressionWorkers(n int) WriterOption {
	return func(o *WriterOptions) { o.Workers = n }
}

// Writer produces a CSG3 container from a compiled group's variants.
type Writer struct {
	codec codec.Codec
	opts  WriterOptions
}

// NewWriter creates a Writer bound to the given compression Codec.
func NewWriter(c codec.Codec, opts ...WriterOption) *Writer {
	o := defaultWriterOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &Writer{codec: c, opts: o}
}

type compressedChunk struct {
	chunkKey    uint64
	shaderCount uint32
	payload     []byte
}

// WriteContainer writes the CSG3 encoding of variants — whose key space
// is shaped by options — to dst. variants must be in permutation
// emission order (the order option.Permutations and build.Driver.Compile
// both produce), which is not ascending key order.
func (w *Writer) WriteContainer(dst io.Writer, options []option.Option, variants []build.Variant) error {
	layout := computeLayout(options, len(variants), w.opts.MaxChunkVariants)
	chunks := partition(variants, layout.ChunkSize)

	results := make([]compressedChunk, len(chunks))
	errs := make([]error, len(chunks))
	pool := parallel.NewWorkerPool(w.opts.Workers)
	defer pool.Close()

	work := make([]func(), len(chunks))
	for i, chunk := range chunks {
		i, chunk := i, chunk
		work[i] = func() {
			results[i], errs[i] = compressChunk(w.codec, chunk, layout.IndexMask)
		}
	}
	pool.ExecuteAll(work)

	for _, err := range errs {
		if err != nil {
			return &WriteFailureError{Reason: "compressing chunk", Err: err}
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].chunkKey < results[j].chunkKey })

	header := make([]byte, 0, headerSize)
	header = append(header, fileMagic[:]...)
	header = putUint64(header, layout.IndexMask)
	header = putUint32(header, uint32(len(results)))
	if _, err := dst.Write(header); err != nil {
		return &WriteFailureError{Reason: "writing header", Err: err}
	}

	directory := make([]byte, 0, len(results)*directoryEntrySize)
	offset := uint64(0)
	for _, c := range results {
		directory = putUint64(directory, c.chunkKey)
		directory = putUint64(directory, offset)
		directory = putUint32(directory, c.shaderCount)
		offset += uint64(len(c.payload))
	}
	if _, err := dst.Write(directory); err != nil {
		return &WriteFailureError{Reason: "writing directory", Err: err}
	}

	for _, c := range results {
		if _, err := dst.Write(c.payload); err != nil {
			return &WriteFailureError{Reason: "writing payload", Err: err}
		}
	}

	logging.Logger().Info("wrote container", "variants", len(variants), "chunks", len(results), "mask", layout.IndexMask)
	return nil
}

// compressChunk frames chunk's variant records (§6: magic, key, size,
// bytecode) and compresses the result. chunk is a slice of the
// emission-ordered variants; the framed payload preserves that order. A non-nil error means
// the codec itself failed — WriteContainer treats this as fatal for the
// whole write, per spec's ContainerWriteFailure.
func compressChunk(c codec.Codec, chunk []build.Variant, mask uint64) (compressedChunk, error) {
	var raw bytes.Buffer
	for _, v := range chunk {
		raw.Write(recordMagic[:])
		writeUint64(&raw, v.Key)
		writeUint32(&raw, uint32(len(v.Bytecode)))
		raw.Write(v.Bytecode)
	}

	var compressed bytes.Buffer
	cw, err := c.NewWriter(&compressed)
	if err == nil {
		_, err = cw.Write(raw.Bytes())
	}
	if err == nil {
		err = cw.Close()
	}
	if err != nil {
		return compressedChunk{}, err
	}

	chunkKey := uint64(0)
	if len(chunk) > 0 {
		chunkKey = chunk[0].Key & mask
	}
	return compressedChunk{
		chunkKey:    chunkKey,
		shaderCount: uint32(len(chunk)),
		payload:     compressed.Bytes(),
	}, nil
}
