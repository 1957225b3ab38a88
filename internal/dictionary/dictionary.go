// Package dictionary implements the O(1)-per-candidate pruning predicate and
// the mask-stack "alive" state described in spec.md §4.3 and §3, grounded in
// original_source/src/dictionary.hpp (Dictionary::should_prune_word,
// Dictionary::borrow_2bit, Dictionary::encode_wordlist).
package dictionary

import (
	"errors"
	"fmt"

	"github.com/kdyer/wordle-bits/internal/bitset"
	"github.com/kdyer/wordle-bits/internal/feedback"
	"github.com/kdyer/wordle-bits/internal/word"
)

// Two-bit-lane borrow masks for the parallel subtract-and-check used by the
// min/max letter count checks (spec.md §4.3).
const (
	lsbMask uint64 = 0x5555555555555555
	msbMask uint64 = 0xAAAAAAAAAAAAAAAA
)

const letterLaneMask = uint32(1<<word.BitsPerLetter) - 1

// ErrUnmatchedPop is returned by Pop when only the base mask remains on the
// stack (spec.md §7: a programming error).
var ErrUnmatchedPop = errors.New("dictionary: pop called with only the base mask present")

// ErrIndexOutOfRange backs the panic Word raises for an out-of-range index
// (spec.md §7: a programming error; abort, not handled).
var ErrIndexOutOfRange = errors.New("dictionary: word index out of range")

// Dictionary holds the wordlist and a stack of "alive" masks (spec.md §3).
// Each mask is a bitset over the wordlist where bit i = 1 means word i is
// pruned (eliminated). The stack is never empty: index 0 is the all-zero
// base mask. Every Prune must be paired with exactly one Pop.
type Dictionary struct {
	words []word.Word
	stack []*bitset.Bitset
}

// New builds a Dictionary over words with every word alive.
func New(words []word.Word) *Dictionary {
	return &Dictionary{
		words: words,
		stack: []*bitset.Bitset{bitset.New(len(words))},
	}
}

// Size returns the total wordlist size.
func (d *Dictionary) Size() int {
	return len(d.words)
}

// Word returns the word at index i. It panics, wrapping ErrIndexOutOfRange,
// if i is not a valid index into the wordlist.
func (d *Dictionary) Word(i int) word.Word {
	if i < 0 || i >= len(d.words) {
		panic(fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, len(d.words)))
	}
	return d.words[i]
}

// Top returns the current alive mask (bit=1 means pruned). The returned
// bitset is owned by the Dictionary and must not be mutated by the caller.
func (d *Dictionary) Top() *bitset.Bitset {
	return d.stack[len(d.stack)-1]
}

// IsPruned reports whether word i is pruned under the current mask.
func (d *Dictionary) IsPruned(i int) bool {
	return d.Top().Get(i)
}

// Count returns the number of words still alive under the current mask.
func (d *Dictionary) Count() int {
	return d.Size() - d.Top().Count()
}

// LiveWords returns the text of every word still alive under the current
// mask, in wordlist order. Grounded in original_source/src/solver.hpp's
// Solver::print_remaining.
func (d *Dictionary) LiveWords() []string {
	out := make([]string, 0, d.Count())
	for i, w := range d.words {
		if !d.IsPruned(i) {
			out = append(out, w.Text)
		}
	}
	return out
}

// Prune derives the four packed check vectors from the constraints and
// applies should_prune_word to every still-alive candidate, pushing the
// resulting mask onto the stack and returning it. Pruning is monotone:
// a word pruned under the previous mask remains pruned.
func (d *Dictionary) Prune(c feedback.Constraints) *bitset.Bitset {
	next := d.Top().Clone()

	var cCheck, cMask uint32
	for i := 0; i < word.Length; i++ {
		if !c.CorrectPos[i] {
			continue
		}
		shift := uint(word.BitsPerLetter * i)
		cCheck |= uint32(c.CorrectLetter[i]) << shift
		cMask |= letterLaneMask << shift
	}

	var wCheck uint32
	wMask := ^uint32(0)
	for i := 0; i < word.Length; i++ {
		if !c.WrongPos[i] {
			continue
		}
		shift := uint(word.BitsPerLetter * i)
		wCheck |= uint32(c.WrongLetter[i]) << shift
		wMask ^= letterLaneMask << shift
	}

	var minCts uint64
	for l := 0; l < word.NumLetters; l++ {
		minCts |= uint64(c.MinCount[l]) << uint(word.BitsPerCount*l)
	}

	var maxCts, maxMask uint64
	for l := 0; l < word.NumLetters; l++ {
		if c.MaxCount[l] < 0 {
			continue
		}
		shift := uint(word.BitsPerCount * l)
		maxCts |= uint64(c.MaxCount[l]) << shift
		maxMask |= uint64(0b11) << shift
	}

	for i, w := range d.words {
		if next.Get(i) {
			continue
		}
		if shouldPrune(w.EncodedWord, w.EncodedCounts, cCheck, cMask, wCheck, wMask, minCts, maxCts, maxMask) {
			next.Set(i)
		}
	}

	d.stack = append(d.stack, next)
	return next
}

// Pop discards the current mask and reverts to the previous one.
func (d *Dictionary) Pop() error {
	if len(d.stack) <= 1 {
		return ErrUnmatchedPop
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

// shouldPrune implements Dictionary::should_prune_word (spec.md §4.3):
// correct-placement check, wrong-placement check (examined lane by lane),
// and the min/max letter count checks via parallel 2-bit-lane subtraction.
func shouldPrune(encodedWord uint32, letterCounts uint64, cCheck, cMask, wCheck, wMask uint32, minCts, maxCts, maxMask uint64) bool {
	if (cCheck^encodedWord)&cMask != 0 {
		return true
	}

	wResult := (wCheck ^ encodedWord) | wMask
	for pos := 0; pos < word.Length; pos++ {
		block := (wResult >> uint(word.BitsPerLetter*pos)) & letterLaneMask
		if block == 0 {
			return true
		}
	}

	if borrow2Bit(letterCounts, minCts) != 0 {
		return true
	}

	if maxMask&borrow2Bit(maxCts, letterCounts) != 0 {
		return true
	}

	return false
}

// borrow2Bit computes, in parallel across all 26 2-bit lanes, the final
// borrow bit of x - y (spec.md §4.3). A non-zero high bit in a lane means
// that lane's subtraction underflowed.
func borrow2Bit(x, y uint64) uint64 {
	diff := (^x) & y
	lowBorrow := lsbMask & diff
	return msbMask & (diff | ((lowBorrow << 1) & ^(x ^ y)))
}
