package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/shaderperm/codec"
	"github.com/gogpu/shaderperm/internal/logging"
)

// Reader opens a CSG3 container, reads its directory eagerly, and
// decompresses individual chunks on demand, activating at most one
// decompressed chunk at a time and caching decoded variants in memory.
//
// Thread safety: a single instance-level mutex covers the file handle,
// the active chunk and the bytecode cache, matching the file format's
// single-lock design — a Reader is safe for concurrent use but not
// parallel-scalable. Use a pool of Readers, each owning its own file
// handle, to scale reads.
type Reader struct {
	mu sync.Mutex

	src   io.ReadSeeker
	codec codec.Codec

	indexMask   uint64
	directory   []directoryEntry
	byChunkKey  map[uint64]int
	payloadBase int64
	fileSize    int64

	activeChunkKey   uint64
	activeChunkValid bool
	activeChunkData  []byte
	activeIndex      map[uint64]int // variant key -> offset within activeChunkData

	cache map[uint64][]byte
}

// Open validates the CSG3 header, reads the directory and remembers the
// payload base offset. src must support Seek — Open reads its end to
// determine the file size needed to infer the last chunk's compressed
// length.
func Open(src io.ReadSeeker, c codec.Codec) (*Reader, error) {
	fileSize, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &CorruptError{Reason: "seeking to end", Err: err}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &CorruptError{Reason: "seeking to start", Err: err}
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(src, header); err != nil {
		return nil, &CorruptError{Reason: "reading header", Err: err}
	}
	if !bytes.Equal(header[:4], fileMagic[:]) {
		return nil, &CorruptError{Reason: "bad magic"}
	}
	indexMask := binary.LittleEndian.Uint64(header[4:12])
	chunkCount := binary.LittleEndian.Uint32(header[12:16])

	directory := make([]directoryEntry, chunkCount)
	byChunkKey := make(map[uint64]int, chunkCount)
	dirBuf := make([]byte, directoryEntrySize)
	for i := range directory {
		if _, err := io.ReadFull(src, dirBuf); err != nil {
			return nil, &CorruptError{Reason: "reading directory", Err: err}
		}
		entry := directoryEntry{
			chunkKey:         binary.LittleEndian.Uint64(dirBuf[0:8]),
			compressedOffset: binary.LittleEndian.Uint64(dirBuf[8:16]),
			shaderCount:      binary.LittleEndian.Uint32(dirBuf[16:20]),
		}
		directory[i] = entry
		byChunkKey[entry.chunkKey] = i
	}

	payloadBase, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, &CorruptError{Reason: "locating payload base", Err: err}
	}

	return &Reader{
		src:         src,
		codec:       c,
		indexMask:   indexMask,
		directory:   directory,
		byChunkKey:  byChunkKey,
		payloadBase: payloadBase,
		fileSize:    fileSize,
		cache:       make(map[uint64][]byte),
	}, nil
}

// Get resolves key to its compiled bytecode. An unknown key resolves to
// (nil, false) — this is not an error.
func (r *Reader) Get(key uint64) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.cache[key]; ok {
		return b, true
	}

	chunkKey := key & r.indexMask
	if !r.activeChunkValid || r.activeChunkKey != chunkKey {
		if err := r.activate(chunkKey); err != nil {
			logging.Logger().Warn("chunk activation failed, treating lookup as not found",
				"chunkKey", chunkKey, "err", err)
			return nil, false
		}
	}

	offset, ok := r.activeIndex[key]
	if !ok {
		return nil, false
	}

	rec := r.activeChunkData[offset:]
	size := binary.LittleEndian.Uint32(rec[12:16])
	bytecode := append([]byte(nil), rec[recordHeaderSize:recordHeaderSize+int(size)]...)

	r.cache[key] = bytecode
	return bytecode, true
}

// ClearCache drops the decoded-variant cache. Safe to call at any time;
// subsequent lookups simply re-decode from the active (or a freshly
// activated) chunk.
func (r *Reader) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[uint64][]byte)
}

// activate decompresses the chunk identified by chunkKey and builds its
// within-chunk key index, dropping whatever chunk was previously active.
func (r *Reader) activate(chunkKey uint64) error {
	idx, ok := r.byChunkKey[chunkKey]
	if !ok {
		return fmt.Errorf("container: no chunk for key %d", chunkKey)
	}
	entry := r.directory[idx]

	compressedLen := r.compressedLength(idx)
	if _, err := r.src.Seek(r.payloadBase+int64(entry.compressedOffset), io.SeekStart); err != nil {
		return fmt.Errorf("container: seeking to chunk: %w", err)
	}
	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r.src, compressed); err != nil {
		return fmt.Errorf("container: reading chunk: %w", err)
	}

	decompressor, err := r.codec.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("container: opening decompressor: %w", err)
	}
	defer decompressor.Close()
	data, err := io.ReadAll(decompressor)
	if err != nil {
		return fmt.Errorf("container: decompressing chunk: %w", err)
	}

	index, err := indexChunk(data, int(entry.shaderCount))
	if err != nil {
		return err
	}

	r.activeChunkKey = chunkKey
	r.activeChunkValid = true
	r.activeChunkData = data
	r.activeIndex = index
	return nil
}

// compressedLength infers chunk i's compressed byte length: the gap to
// the next chunk's offset, or to end-of-file for the last chunk.
func (r *Reader) compressedLength(i int) int64 {
	if i+1 < len(r.directory) {
		return int64(r.directory[i+1].compressedOffset - r.directory[i].compressedOffset)
	}
	return r.fileSize - (r.payloadBase + int64(r.directory[i].compressedOffset))
}

// indexChunk scans a decompressed chunk once, reading each record's
// framing header to learn its size and skipping the bytecode, to build a
// variant-key -> byte-offset index.
func indexChunk(data []byte, shaderCount int) (map[uint64]int, error) {
	index := make(map[uint64]int, shaderCount)
	pos := 0
	for i := 0; i < shaderCount; i++ {
		if pos+recordHeaderSize > len(data) {
			return nil, fmt.Errorf("container: truncated record header at offset %d", pos)
		}
		if !bytes.Equal(data[pos:pos+4], recordMagic[:]) {
			return nil, fmt.Errorf("container: bad record magic at offset %d", pos)
		}
		key := binary.LittleEndian.Uint64(data[pos+4 : pos+12])
		size := binary.LittleEndian.Uint32(data[pos+12 : pos+16])
		index[key] = pos
		pos += recordHeaderSize + int(size)
		if pos > len(data) {
			return nil, fmt.Errorf("container: truncated record bytecode at offset %d", pos)
		}
	}
	return index, nil
}
