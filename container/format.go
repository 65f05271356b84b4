// Package container implements the CSG3 chunked, compressed,
// random-access container format: Writer lays out a compiled group's
// variants into contiguous chunks along the permutation key's low bits
// and writes the directory + compressed payload; Reader opens that file,
// indexes the directory eagerly, and decompresses chunks on demand.
package container

import (
	"bytes"
	"encoding/binary"
)

// fileMagic identifies a CSG3 container. Earlier on-disk revisions
// (CSG1, CSG2) are not supported — this implementation accepts only the
// chunked, random-access CSG3 layout.
var fileMagic = [4]byte{'C', 'S', 'G', '3'}

// recordMagic identifies one variant record within a decompressed chunk.
var recordMagic = [4]byte{'S', 'H', '0', '1'}

// headerSize is magic[4] + chunk_index_mask(u64) + chunk_count(u32).
const headerSize = 4 + 8 + 4

// directoryEntrySize is chunk_key(u64) + compressed_offset(u64) +
// shader_count(u32).
const directoryEntrySize = 8 + 8 + 4

// recordHeaderSize is magic[4] + key(u64) + size(u32), preceding each
// record's bytecode.
const recordHeaderSize = 4 + 8 + 4

type directoryEntry struct {
	chunkKey          uint64
	compressedOffset  uint64
	shaderCount       uint32
}

func putUint64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func putUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}
