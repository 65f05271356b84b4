package container

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/gogpu/shaderperm/build"
	"github.com/gogpu/shaderperm/codec"
	"github.com/gogpu/shaderperm/option"
)

// failingCodec always fails to open a compressor, simulating a broken
// codec collaborator.
type failingCodec struct{}

var errFakeCodecBroken = errors.New("fake codec: broken")

func (failingCodec) NewWriter(io.Writer) (io.WriteCloser, error) {
	return nil, errFakeCodecBroken
}

func (failingCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return codec.Flate{}.NewReader(r)
}

func variantsFor(opts []option.Option) []build.Variant {
	perms := option.Permutations(opts)
	out := make([]build.Variant, len(perms))
	for i, p := range perms {
		out[i] = build.Variant{Key: p.Key, Bytecode: []byte(fmt32(p.Key))}
	}
	return out
}

func fmt32(k uint64) string {
	return "bytecode-for-" + string([]byte{byte(k), byte(k >> 8), byte(k >> 16), byte(k >> 24)})
}

func buildAndOpen(t *testing.T, opts []option.Option, variants []build.Variant, writerOpts ...WriterOption) *Reader {
	t.Helper()
	w := NewWriter(codec.Flate{}, writerOpts...)
	var buf bytes.Buffer
	if err := w.WriteContainer(&buf, opts, variants); err != nil {
		t.Fatal(err)
	}
	r, err := Open(bytes.NewReader(buf.Bytes()), codec.Flate{})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNoOptionsSingleChunk(t *testing.T) {
	variants := variantsFor(nil)
	r := buildAndOpen(t, nil, variants)

	if len(r.directory) != 1 {
		t.Fatalf("len(directory) = %d, want 1", len(r.directory))
	}
	if r.indexMask != 0 {
		t.Errorf("indexMask = %d, want 0", r.indexMask)
	}

	got, ok := r.Get(0)
	if !ok {
		t.Fatal("expected key 0 to be found")
	}
	if !bytes.Equal(got, variants[0].Bytecode) {
		t.Errorf("bytecode mismatch: got %v want %v", got, variants[0].Bytecode)
	}
	if _, ok := r.Get(1); ok {
		t.Error("expected key 1 to be not found")
	}
}

func TestOneBooleanRoundTrip(t *testing.T) {
	opts := []option.Option{option.NewBoolean("X")}
	variants := variantsFor(opts)
	r := buildAndOpen(t, opts, variants)

	for _, v := range variants {
		got, ok := r.Get(v.Key)
		if !ok {
			t.Fatalf("key %d not found", v.Key)
		}
		if !bytes.Equal(got, v.Bytecode) {
			t.Errorf("key %d: bytecode mismatch", v.Key)
		}
	}
}

func TestEnumPlusBooleanRoundTrip(t *testing.T) {
	mode, err := option.NewEnumeration("Mode", "A", "B", "C")
	if err != nil {
		t.Fatal(err)
	}
	opts := []option.Option{mode, option.NewBoolean("Fast")}
	variants := variantsFor(opts)
	if len(variants) != 6 {
		t.Fatalf("len(variants) = %d, want 6", len(variants))
	}

	r := buildAndOpen(t, opts, variants)
	for _, v := range variants {
		got, ok := r.Get(v.Key)
		if !ok || !bytes.Equal(got, v.Bytecode) {
			t.Errorf("round trip failed for key %d", v.Key)
		}
	}
}

func TestLargeProductForcesChunking(t *testing.T) {
	opts := []option.Option{
		option.NewBoolean("A"),
		option.NewBoolean("B"),
		option.NewBoolean("C"),
		option.NewBoolean("D"),
	}
	mode, err := option.NewEnumeration("Mode", "0", "1", "2", "3", "4", "5")
	if err != nil {
		t.Fatal(err)
	}
	opts = append(opts, mode)

	variants := variantsFor(opts)
	if len(variants) != 96 {
		t.Fatalf("len(variants) = %d, want 96", len(variants))
	}

	w := NewWriter(codec.Flate{})
	var buf bytes.Buffer
	if err := w.WriteContainer(&buf, opts, variants); err != nil {
		t.Fatal(err)
	}
	r, err := Open(bytes.NewReader(buf.Bytes()), codec.Flate{})
	if err != nil {
		t.Fatal(err)
	}

	if len(r.directory) != 2 {
		t.Fatalf("len(directory) = %d, want 2", len(r.directory))
	}
	if r.indexMask != 0x1 {
		t.Errorf("indexMask = %#x, want 0x1", r.indexMask)
	}

	// Fetch one variant from each chunk, then re-fetch the first after
	// activating the second — the active-chunk slot is evicted, the
	// cache is cleared explicitly to force re-activation through the
	// real decompression path. The first option (A) is the slowest-
	// varying, so its value only flips at the halfway point of the
	// emission order — that's what separates the two chunks, not
	// adjacency.
	keyA := variants[0].Key  // A=0 half
	keyB := variants[48].Key // A=1 half
	if keyA&r.indexMask == keyB&r.indexMask {
		t.Fatalf("test fixture error: expected keyA and keyB in different chunks")
	}

	gotA, ok := r.Get(keyA)
	if !ok || !bytes.Equal(gotA, variants[0].Bytecode) {
		t.Fatalf("keyA round trip failed")
	}
	gotB, ok := r.Get(keyB)
	if !ok || !bytes.Equal(gotB, variants[48].Bytecode) {
		t.Fatalf("keyB round trip failed")
	}

	r.ClearCache()
	gotA2, ok := r.Get(keyA)
	if !ok || !bytes.Equal(gotA2, variants[0].Bytecode) {
		t.Fatalf("keyA re-fetch after eviction failed")
	}
}

func TestEmptyOptionListYieldsOnePermutation(t *testing.T) {
	perms := option.Permutations(nil)
	if len(perms) != 1 || perms[0].Key != 0 {
		t.Fatalf("perms = %v, want single key-0 permutation", perms)
	}
}

func TestFirstOptionAloneExceedsMaxChunk(t *testing.T) {
	big, err := option.NewIntegerRange("Big", 0, 199) // 200 values
	if err != nil {
		t.Fatal(err)
	}
	opts := []option.Option{big}
	variants := variantsFor(opts)

	w := NewWriter(codec.Flate{}, WithMaxChunkVariants(64))
	var buf bytes.Buffer
	if err := w.WriteContainer(&buf, opts, variants); err != nil {
		t.Fatal(err)
	}
	r, err := Open(bytes.NewReader(buf.Bytes()), codec.Flate{})
	if err != nil {
		t.Fatal(err)
	}
	// accumulator stops after the single, only option: chunkCount=200,
	// chunkSize=1.
	if len(r.directory) != 200 {
		t.Fatalf("len(directory) = %d, want 200", len(r.directory))
	}
}

func TestWriteContainerPropagatesCodecFailure(t *testing.T) {
	variants := variantsFor(nil)
	w := NewWriter(failingCodec{})
	var buf bytes.Buffer

	err := w.WriteContainer(&buf, nil, variants)
	if err == nil {
		t.Fatal("expected an error from a broken codec")
	}
	if !errors.Is(err, ErrContainerWriteFailure) {
		t.Fatalf("err = %v, want ErrContainerWriteFailure", err)
	}
	var wf *WriteFailureError
	if !errors.As(err, &wf) {
		t.Fatalf("err = %v, want *WriteFailureError", err)
	}
	if !errors.Is(wf.Err, errFakeCodecBroken) {
		t.Errorf("wf.Err = %v, want errFakeCodecBroken", wf.Err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written to dst on failure, got %d bytes", buf.Len())
	}
}

func TestCorruptMagicRejected(t *testing.T) {
	variants := variantsFor(nil)
	w := NewWriter(codec.Flate{})
	var buf bytes.Buffer
	if err := w.WriteContainer(&buf, nil, variants); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	data[0] ^= 0xFF

	_, err := Open(bytes.NewReader(data), codec.Flate{})
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestKeyResolvesToExactlyOneChunk(t *testing.T) {
	opts := []option.Option{
		option.NewBoolean("A"),
		option.NewBoolean("B"),
		option.NewBoolean("C"),
		option.NewBoolean("D"),
	}
	mode, err := option.NewEnumeration("Mode", "0", "1", "2", "3", "4", "5")
	if err != nil {
		t.Fatal(err)
	}
	opts = append(opts, mode)
	variants := variantsFor(opts)

	r := buildAndOpen(t, opts, variants)
	for _, v := range variants {
		chunkKey := v.Key & r.indexMask
		matches := 0
		for _, e := range r.directory {
			if e.chunkKey == chunkKey {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("key %d matched %d directory entries, want 1", v.Key, matches)
		}
	}
}
