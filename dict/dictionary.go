// Package dict implements the ordered, bidirectional string table that
// tlcodec's encoder and decoder use to intern map keys and short
// strings. See spec §3 "Dictionary" and §4.1.
package dict

import "github.com/cespare/xxhash/v2"

// Dictionary maps strings to absolute indices and back. A Dictionary may
// be layered on top of a read-only seed: seed entries occupy indices
// [0, seed.Size()), and entries inserted at runtime ("extended") occupy
// indices [seed.Size(), seed.Size()+extended count). Insertion into the
// extended tier is append-only and idempotent; indices never shift once
// assigned.
//
// A Dictionary is not safe for concurrent use, matching the
// single-threaded codec it backs.
type Dictionary struct {
	seed *Dictionary // nil for a root (unseeded) dictionary

	words   []string       // ordered local word list (this tier only)
	indices map[string]int // word -> local index (this tier only)
}

// New creates a dictionary pre-populated with words, in order, as its
// seed tier. Pass nil or an empty slice for an unseeded dictionary.
func New(words []string) *Dictionary {
	d := &Dictionary{
		words:   make([]string, 0, len(words)),
		indices: make(map[string]int, len(words)),
	}
	for _, w := range words {
		d.insertLocal(w)
	}

	return d
}

// NewSeeded creates an empty extended dictionary layered on top of seed.
// seed is treated as read-only: callers must not mutate it for the
// lifetime of the returned Dictionary.
func NewSeeded(seed *Dictionary) *Dictionary {
	return &Dictionary{
		seed:    seed,
		words:   make([]string, 0),
		indices: make(map[string]int),
	}
}

// offset is the absolute index of this tier's first entry: the total
// size of the seed chain beneath it.
func (d *Dictionary) offset() int {
	if d.seed == nil {
		return 0
	}

	return d.seed.Size()
}

// Size returns the total number of interned words visible through d,
// seed tier plus extended tier.
func (d *Dictionary) Size() int {
	return d.offset() + len(d.words)
}

// insertLocal appends word to this tier unconditionally, returning its
// local index. Callers must already know word is absent from this tier.
func (d *Dictionary) insertLocal(word string) int {
	idx := len(d.words)
	d.words = append(d.words, word)
	d.indices[word] = idx

	return idx
}

// MaybeInsert interns word if it is not already present anywhere in the
// seed or extended tiers, returning its absolute index either way, and
// whether it was newly inserted (as opposed to already present).
func (d *Dictionary) MaybeInsert(word string) (absIndex int, inserted bool) {
	if idx, ok := d.GetIndex(word); ok {
		return idx, false
	}

	local := d.insertLocal(word)

	return d.offset() + local, true
}

// GetIndex returns the absolute index of word, checking the seed tier
// first and the extended tier second, matching the two-tier lookup
// order specified for wireDictionary in §4.3.
func (d *Dictionary) GetIndex(word string) (int, bool) {
	if d.seed != nil {
		if idx, ok := d.seed.GetIndex(word); ok {
			return idx, true
		}
	}

	if local, ok := d.indices[word]; ok {
		return d.offset() + local, true
	}

	return 0, false
}

// GetValue resolves an absolute index back to its word, checking the
// seed tier for indices below this tier's offset and the extended tier
// otherwise.
func (d *Dictionary) GetValue(absIndex int) (string, bool) {
	off := d.offset()
	if absIndex < off {
		if d.seed != nil {
			return d.seed.GetValue(absIndex)
		}

		return "", false
	}

	local := absIndex - off
	if local < 0 || local >= len(d.words) {
		return "", false
	}

	return d.words[local], true
}

// Fingerprint returns an xxHash64 digest over the ordered, combined word
// list (seed then extended). It is a diagnostic aid for two peers to
// cheaply confirm their seed dictionaries agree before a shared-
// dictionary session starts (spec §3 invariant 3); neither the encoder
// nor the decoder consults it during normal operation.
func (d *Dictionary) Fingerprint() uint64 {
	h := xxhash.New()
	for i := 0; i < d.Size(); i++ {
		w, _ := d.GetValue(i)
		_, _ = h.Write([]byte(w))
		_, _ = h.Write([]byte{0}) // separator so "ab","c" != "a","bc"
	}

	return h.Sum64()
}
