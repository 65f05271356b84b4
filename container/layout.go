package container

import "github.com/gogpu/shaderperm/option"

// DefaultMaxChunkVariants is the target chunk size in variants, tunable
// via WriterOptions.
const DefaultMaxChunkVariants = 64

// Layout describes how a variant_count-sized permutation set is sliced
// into chunks: chunkSize contiguous permutations per chunk, with the
// chunk's identity carried in the low bits of its keys.
//
// Because option.Permutations enumerates with the LAST option varying
// fastest, the leading options — packed into the lowest offset bits of a
// key — vary slowest, so those low bits are constant within any
// chunkSize run of consecutive permutations. key & IndexMask therefore
// isolates exactly the bits that identify a chunk — the property Reader
// depends on to map a runtime key to the one chunk containing it.
type Layout struct {
	ChunkCount int
	ChunkSize  int
	IndexMask  uint64
}

// computeLayout walks options in declaration order, multiplying an
// accumulator by each option's value count and widening a bit offset by
// each option's key length, until the resulting chunk size is at most
// maxChunk. If variantCount already fits in one chunk, the whole set is
// a single chunk with a zero mask.
func computeLayout(options []option.Option, variantCount, maxChunk int) Layout {
	if variantCount <= maxChunk {
		return Layout{ChunkCount: 1, ChunkSize: variantCount, IndexMask: 0}
	}

	accumulator := 1
	offset := 0
	for _, o := range options {
		accumulator *= o.ValueCount()
		offset += o.KeyLength()
		if variantCount/accumulator <= maxChunk {
			break
		}
	}

	return Layout{
		ChunkCount: accumulator,
		ChunkSize:  variantCount / accumulator,
		IndexMask:  uint64(1)<<uint(offset) - 1,
	}
}

// partition slices variants into consecutive chunkSize runs. The final
// run may be shorter (or, defensively, present even when it shouldn't be
// for a true Cartesian product) if variantCount isn't an exact multiple
// of chunkSize.
func partition[T any](items []T, chunkSize int) [][]T {
	if chunkSize <= 0 {
		return [][]T{items}
	}
	var chunks [][]T
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
