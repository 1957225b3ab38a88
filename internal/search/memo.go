package search

import "github.com/kdyer/wordle-bits/internal/bitset"

// memoEntry pairs a cloned key bitset with its cached result. Cloning on
// insert means the memo table owns a stable snapshot independent of any
// mutation the caller might later perform on the bitset it searched with.
type memoEntry struct {
	key    *bitset.Bitset
	result PlayerResult
}

// memoTable is a hash-bucketed map from remaining-candidates bitset to
// PlayerResult, keyed on bitset.Hash() with bucket chaining resolved by
// Equal — spec.md "Design Notes" calls for "a stable content hash over the
// bitset... not a structural map[hash]value", since two different
// remaining-candidate sets can collide on a 64-bit hash.
type memoTable struct {
	buckets map[uint64][]memoEntry
	size    int
}

func newMemoTable() *memoTable {
	return &memoTable{buckets: make(map[uint64][]memoEntry)}
}

func (m *memoTable) get(p *bitset.Bitset) (PlayerResult, bool) {
	for _, e := range m.buckets[p.Hash()] {
		if e.key.Equal(p) {
			return e.result, true
		}
	}
	return PlayerResult{}, false
}

func (m *memoTable) put(p *bitset.Bitset, r PlayerResult) {
	h := p.Hash()
	bucket := m.buckets[h]
	for i, e := range bucket {
		if e.key.Equal(p) {
			bucket[i].result = r
			return
		}
	}
	m.buckets[h] = append(bucket, memoEntry{key: p.Clone(), result: r})
	m.size++
}
