// Package pruneindex implements the precomputed feedback grid and prune-mask
// index described in spec.md §4.4, grounded in
// original_source/src/guess_pair_index.hpp (GuessPairIndex) and
// original_source/src/prune_index.hpp (PruneIndex::_index_prune,
// PruneIndex::save, PruneIndex::load, PruneIndex::load_or_generate).
//
// Progress reporting during the O(|W|²) build follows the teacher's
// api/wordle.go, which reports calculateHints/calculateBitvecs progress with
// github.com/schollz/progressbar/v3.
package pruneindex

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/kdyer/wordle-bits/internal/bitset"
	"github.com/kdyer/wordle-bits/internal/feedback"
	"github.com/kdyer/wordle-bits/internal/word"
)

// ErrCorruptIndex is returned when a serialized index file is truncated or
// otherwise inconsistent with the wordlist size (spec.md §7).
var ErrCorruptIndex = errors.New("pruneindex: corrupt or truncated index file")

// ErrMissingFeedback is returned by PruneMask when fid was not produced by
// any (guess, solution) pair in the wordlist, e.g. an out-of-set guess
// (spec.md §7).
var ErrMissingFeedback = errors.New("pruneindex: unknown feedback id")

// ErrIndexOutOfRange backs the panic WordAt and FeedbackAt raise for an
// out-of-range index (spec.md §7: a programming error; abort, not handled).
var ErrIndexOutOfRange = errors.New("pruneindex: word index out of range")

// missingFeedbackCacheSize bounds the on-the-fly rebuild cache so repeated
// ad hoc out-of-wordlist guesses during an interactive session cannot grow
// memory unboundedly, the same wrapping pattern as
// xflash-panda-acl-engine/pkg/acl/metadb/cache.go's CachedDatabase around an
// LRU.
const missingFeedbackCacheSize = 1024

// PruneIndex is a move-only (by convention — callers should not clone it)
// handle over the precomputed feedback grid and prune-mask map.
type PruneIndex struct {
	words []word.Word
	size  int

	// grid[g][s] is the FeedbackId of guessing words[g] against words[s].
	// Never persisted: cheaply recomputable from the wordlist (spec.md §4.4).
	grid [][]feedback.ID

	// pruneMap[fid] is a bitset over the wordlist where bit k = 1 iff word k
	// is inconsistent with feedback fid.
	pruneMap map[feedback.ID]*bitset.Bitset

	onTheFly *lru.Cache[feedback.ID, *bitset.Bitset]
}

// Build computes the full feedback grid and prune map for words, reporting
// progress to stderr.
func Build(words []word.Word) *PruneIndex {
	return build(words, true)
}

// BuildSilent is Build without progress reporting, for tests and library
// callers that manage their own output.
func BuildSilent(words []word.Word) *PruneIndex {
	return build(words, false)
}

func build(words []word.Word, showProgress bool) *PruneIndex {
	n := len(words)
	grid := make([][]feedback.ID, n)
	pruneMap := make(map[feedback.ID]*bitset.Bitset)

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(n), "building prune index")
	}

	for g := 0; g < n; g++ {
		row := make([]feedback.ID, n)
		for s := 0; s < n; s++ {
			row[s] = feedback.Compute(words[g], words[s])
		}
		grid[g] = row

		// De-dup: one prune bitset per distinct fid seen under this guess,
		// exploiting feedback_grid[g][s'] == fid <=> s' survives (spec.md §4.4).
		for s := 0; s < n; s++ {
			fid := row[s]
			if _, ok := pruneMap[fid]; ok {
				continue
			}
			mask := bitset.New(n)
			for k := 0; k < n; k++ {
				if row[k] != fid {
					mask.Set(k)
				}
			}
			pruneMap[fid] = mask
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	cache, _ := lru.New[feedback.ID, *bitset.Bitset](missingFeedbackCacheSize)

	return &PruneIndex{words: words, size: n, grid: grid, pruneMap: pruneMap, onTheFly: cache}
}

// Size returns |W|.
func (p *PruneIndex) Size() int {
	return p.size
}

// FeedbackAt returns the precomputed feedback_grid[g][s]. It panics, wrapping
// ErrIndexOutOfRange, if g or s is not a valid index into the wordlist.
func (p *PruneIndex) FeedbackAt(g, s int) feedback.ID {
	if g < 0 || g >= p.size || s < 0 || s >= p.size {
		panic(fmt.Errorf("%w: g=%d s=%d (size %d)", ErrIndexOutOfRange, g, s, p.size))
	}
	return p.grid[g][s]
}

// WordAt returns the wordlist entry at index i. It panics, wrapping
// ErrIndexOutOfRange, if i is not a valid index into the wordlist.
func (p *PruneIndex) WordAt(i int) word.Word {
	if i < 0 || i >= p.size {
		panic(fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, p.size))
	}
	return p.words[i]
}

// PruneMask returns the prune bitset for fid. If fid was never produced by
// any in-wordlist pair — e.g. it came from an out-of-set guess — it returns
// ErrMissingFeedback unless a prior RebuildMissing call cached it.
func (p *PruneIndex) PruneMask(fid feedback.ID) (*bitset.Bitset, error) {
	if mask, ok := p.pruneMap[fid]; ok {
		return mask, nil
	}
	if p.onTheFly != nil {
		if mask, ok := p.onTheFly.Get(fid); ok {
			return mask, nil
		}
	}
	return nil, ErrMissingFeedback
}

// RebuildMissing computes (and caches, bounded) the prune mask for feedback
// fid produced by guessing g, for the MissingFeedback recovery path in
// spec.md §7: "Surfaced; driver may rebuild on the fly."
func (p *PruneIndex) RebuildMissing(g word.Word, fid feedback.ID) *bitset.Bitset {
	mask := bitset.New(p.size)
	for k, w := range p.words {
		if feedback.Compute(g, w) != fid {
			mask.Set(k)
		}
	}
	if p.onTheFly != nil {
		p.onTheFly.Add(fid, mask)
	}
	return mask
}

// Save writes the index in the binary format from spec.md §4.4: a uint64
// keyset size, then for each distinct fid a uint64 fid followed by
// ceil(|W|/64) little-endian uint64 bitset blocks. The grid is not
// persisted.
func (p *PruneIndex) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(p.pruneMap)))
	if _, err := bw.Write(hdr[:]); err != nil {
		return fmt.Errorf("pruneindex: write keyset size: %w", err)
	}

	for fid, mask := range p.pruneMap {
		binary.LittleEndian.PutUint64(hdr[:], uint64(fid))
		if _, err := bw.Write(hdr[:]); err != nil {
			return fmt.Errorf("pruneindex: write fid: %w", err)
		}
		if _, err := mask.WriteTo(bw); err != nil {
			return fmt.Errorf("pruneindex: write bitset: %w", err)
		}
	}

	return bw.Flush()
}

// Load reads a previously Saved index and recomputes the feedback grid from
// words (spec.md §4.4: "Grid is not persisted; it is cheaply recomputable
// from the wordlist"). It fails with ErrCorruptIndex if the file is
// truncated, has bytes after the last entry, or holds a bitset with a bit set
// at an index >= len(words).
func Load(r io.Reader, words []word.Word) (*PruneIndex, error) {
	n := len(words)
	br := bufio.NewReader(r)

	var hdr [8]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: reading keyset size: %v", ErrCorruptIndex, err)
	}
	keysetSize := binary.LittleEndian.Uint64(hdr[:])

	pruneMap := make(map[feedback.ID]*bitset.Bitset, keysetSize)
	for i := uint64(0); i < keysetSize; i++ {
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: truncated fid at entry %d: %v", ErrCorruptIndex, i, err)
		}
		fid := feedback.ID(binary.LittleEndian.Uint64(hdr[:]))

		mask, err := bitset.ReadBitset(br, n)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated bitset at entry %d: %v", ErrCorruptIndex, i, err)
		}
		if rem := n % 64; rem != 0 {
			blocks := mask.Blocks()
			if blocks[len(blocks)-1]>>uint(rem) != 0 {
				return nil, fmt.Errorf("%w: bitset at entry %d has bits beyond %d words", ErrCorruptIndex, i, n)
			}
		}
		pruneMap[fid] = mask
	}
	if _, err := br.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after %d entries", ErrCorruptIndex, keysetSize)
	}

	grid := make([][]feedback.ID, n)
	for g := 0; g < n; g++ {
		row := make([]feedback.ID, n)
		for s := 0; s < n; s++ {
			row[s] = feedback.Compute(words[g], words[s])
		}
		grid[g] = row
	}

	cache, _ := lru.New[feedback.ID, *bitset.Bitset](missingFeedbackCacheSize)
	return &PruneIndex{words: words, size: n, grid: grid, pruneMap: pruneMap, onTheFly: cache}, nil
}

// LoadOrBuild loads the index from path if it exists, else builds it and
// writes it to path for next time (original_source/src/prune_index.hpp's
// PruneIndex::load_or_generate). A failure to write the freshly built index
// back to disk is non-fatal — the caller still gets a usable index.
func LoadOrBuild(path string, words []word.Word) (*PruneIndex, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		idx := Build(words)
		if out, cerr := os.Create(path); cerr == nil {
			_ = idx.Save(out)
			_ = out.Close()
		}
		return idx, nil
	} else if err != nil {
		return nil, fmt.Errorf("pruneindex: open %s: %w", path, err)
	}
	defer f.Close()

	idx, err := Load(f, words)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
