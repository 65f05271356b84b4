package option

// Offsets returns, for each option in order, the bit offset at which its
// local value index is packed into a permutation key: the cumulative sum
// of the preceding options' KeyLength. Permutations and the header
// generator both derive their bit assignments from this single
// computation.
func Offsets(options []Option) []int {
	offsets := make([]int, len(options))
	offset := 0
	for i, o := range options {
		offsets[i] = offset
		offset += o.KeyLength()
	}
	return offsets
}

// Permutation is one point in the Cartesian product of an option list's
// values, addressed by a dense integer key.
type Permutation struct {
	Key     uint64
	Defines []Define
}

// Permutations enumerates the full Cartesian product of options in
// deterministic order: a mixed-radix counter over per-option value
// indices where the LAST option varies fastest. An empty option list
// yields exactly one permutation with Key 0 and no defines.
//
// The key packs each option's local index into its own bit field, least
// significant field first, with offsets equal to the cumulative sum of
// the preceding options' KeyLength. Because the last option varies
// fastest, the first options' fields — the key's low bits — stay
// constant across long runs of consecutive permutations, so emission
// order is not ascending key order. ContainerWriter's chunk layout
// depends on this property (see container.Layout).
func Permutations(options []Option) []Permutation {
	n := len(options)
	counts := make([]int, n)
	for i, o := range options {
		counts[i] = o.ValueCount()
	}
	offsets := Offsets(options)

	idx := make([]int, n)
	var out []Permutation
	for {
		key := uint64(0)
		defines := make([]Define, 0, n*2)
		for i, o := range options {
			key |= uint64(idx[i]) << uint(offsets[i])
			defines = append(defines, o.DefinedValues(idx[i])...)
		}
		out = append(out, Permutation{Key: key, Defines: defines})

		// Increment the mixed-radix counter, last position fastest.
		j := n - 1
		for j >= 0 {
			idx[j]++
			if idx[j] < counts[j] {
				break
			}
			idx[j] = 0
			j--
		}
		if j < 0 {
			break
		}
	}
	return out
}
