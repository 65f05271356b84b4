package header

import (
	"strings"
	"testing"

	"github.com/gogpu/shaderperm/option"
)

func TestEntriesOneBoolean(t *testing.T) {
	entries := Entries([]option.Option{option.NewBoolean("X")})
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Name != "X" || entries[0].Value != 1 {
		t.Errorf("entries[0] = %+v, want {X 1}", entries[0])
	}
}

func TestEntriesEnumPlusBoolean(t *testing.T) {
	mode, err := option.NewEnumeration("Mode", "A", "B", "C")
	if err != nil {
		t.Fatal(err)
	}
	entries := Entries([]option.Option{mode, option.NewBoolean("Fast")})

	want := map[string]uint64{
		"ModeA": 0,
		"ModeB": 1,
		"ModeC": 2,
		"Fast":  4, // Mode's KeyLength is 2 bits, so Fast's offset is 2.
	}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(want))
	}
	for _, e := range entries {
		v, ok := want[e.Name]
		if !ok {
			t.Errorf("unexpected entry %q", e.Name)
			continue
		}
		if e.Value != v {
			t.Errorf("entry %q = %d, want %d", e.Name, e.Value, v)
		}
	}
}

func TestEntriesIntegerRange(t *testing.T) {
	lod, err := option.NewIntegerRange("Lod", 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	entries := Entries([]option.Option{lod})
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}
	if entries[0].Name != "Lod0" || entries[0].Value != 0 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[3].Name != "Lod3" || entries[3].Value != 3 {
		t.Errorf("entries[3] = %+v", entries[3])
	}
}

func TestEntriesEmptyOptionList(t *testing.T) {
	entries := Entries(nil)
	if len(entries) != 0 {
		t.Fatalf("len(entries) = %d, want 0", len(entries))
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	mode, err := option.NewEnumeration("Mode", "A", "B")
	if err != nil {
		t.Fatal(err)
	}
	opts := []option.Option{mode, option.NewBoolean("Fast")}

	a := Generate("basic", "Game.Shaders", opts)
	b := Generate("basic", "Game.Shaders", opts)
	if a != b {
		t.Error("Generate is not idempotent for identical inputs")
	}
}

func TestGenerateDefaultNamespace(t *testing.T) {
	out := Generate("basic", "", nil)
	if !strings.Contains(out, "namespace "+DefaultNamespace+" {") {
		t.Errorf("expected default namespace %q in output:\n%s", DefaultNamespace, out)
	}
}

func TestGenerateNestsDottedNamespace(t *testing.T) {
	out := Generate("basic", "Game.Shaders.Forward", nil)
	if !strings.Contains(out, "namespace Game {") {
		t.Error("missing outer namespace")
	}
	if !strings.Contains(out, "namespace Shaders {") {
		t.Error("missing middle namespace")
	}
	if !strings.Contains(out, "namespace Forward {") {
		t.Error("missing inner namespace")
	}
}

func TestGenerateContainsTypeNameAndDefault(t *testing.T) {
	out := Generate("basic", "X", nil)
	if !strings.Contains(out, "basicFlags") {
		t.Errorf("expected type name basicFlags in output:\n%s", out)
	}
	if !strings.Contains(out, "Default = 0,") {
		t.Errorf("expected Default = 0 entry in output:\n%s", out)
	}
}

func TestGenerateContainsBooleanEntry(t *testing.T) {
	out := Generate("basic", "X", []option.Option{option.NewBoolean("X")})
	if !strings.Contains(out, "X = 1,") {
		t.Errorf("expected X = 1 entry in output:\n%s", out)
	}
}
