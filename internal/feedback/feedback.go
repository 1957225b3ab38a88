// Package feedback computes the canonical FeedbackId for a (guess, solution)
// pair and derives the pruning constraints it implies, per spec.md §4.2 and
// §3. It is grounded in original_source/src/guess_pair.hpp (the id encoding)
// and original_source/src/guess.hpp's infer() (the constraint derivation).
package feedback

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/kdyer/wordle-bits/internal/word"
)

// Color tags, matching original_source/src/guess_pair.hpp's YELLOW/GREEN
// constants (grey is the implicit zero value).
const (
	Grey   uint8 = 0b00
	Yellow uint8 = 0b01
	Green  uint8 = 0b10
)

// bitsPerLane and colorOffset lay out each position's 7-bit lane: 5 bits of
// letter, then 2 bits of color tag, per spec.md §3.
const (
	bitsPerLane = 7
	colorOffset = word.BitsPerLetter
)

// ErrInvalidColorString is returned by FromColors when the input is not
// exactly five characters drawn from {'g','y','x'}.
var ErrInvalidColorString = errors.New("feedback: color string must be five characters of g/y/x")

// ID is the 35-bit canonical feedback identifier (spec.md §3), stored in the
// low 35 bits of a uint64.
type ID uint64

// Compute returns the canonical FeedbackId for guessing g against solution s
// (spec.md §4.2). Greens are assigned in the first pass, then yellows are
// assigned left to right and capped by the solution's remaining letter
// multiplicity, so a guess and solution with differing non-zero
// multiplicities of the same letter are handled correctly.
func Compute(g, s word.Word) ID {
	var id uint64
	var placed [word.NumLetters]uint8
	var green [word.Length]bool

	for i := 0; i < word.Length; i++ {
		letter := g.Letters[i]
		id |= uint64(letter) << (bitsPerLane * uint(i))

		if letter == s.Letters[i] {
			green[i] = true
			placed[letter]++
			id |= uint64(Green) << (bitsPerLane*uint(i) + colorOffset)
		}
	}

	for i := 0; i < word.Length; i++ {
		if green[i] {
			continue
		}
		letter := g.Letters[i]
		if placed[letter] < s.Counts[letter] {
			id |= uint64(Yellow) << (bitsPerLane*uint(i) + colorOffset)
			placed[letter]++
		}
		// else: grey, tag bits already zero.
	}

	return ID(id)
}

// FromColors builds a FeedbackId for guess g from a hand-typed color string,
// one of 'g' (green), 'y' (yellow), or 'x' (grey) per position. This
// supports a player entering real feedback from outside the wordlist
// (original_source/src/guess.hpp's Guess::set), which spec.md §4.6 calls out
// as something the driver may need to do.
func FromColors(g word.Word, colors string) (ID, error) {
	if len(colors) != word.Length {
		return 0, ErrInvalidColorString
	}

	var id uint64
	for i := 0; i < word.Length; i++ {
		letter := g.Letters[i]
		id |= uint64(letter) << (bitsPerLane * uint(i))

		var tag uint8
		switch colors[i] {
		case 'g':
			tag = Green
		case 'y':
			tag = Yellow
		case 'x':
			tag = Grey
		default:
			return 0, ErrInvalidColorString
		}
		id |= uint64(tag) << (bitsPerLane*uint(i) + colorOffset)
	}
	return ID(id), nil
}

// Letter returns the guess letter (0..25) encoded at position i.
func (f ID) Letter(i int) uint8 {
	return uint8((uint64(f) >> (bitsPerLane * uint(i))) & 0x1F)
}

// Tag returns the color tag at position i.
func (f ID) Tag(i int) uint8 {
	return uint8((uint64(f) >> (bitsPerLane*uint(i) + colorOffset)) & 0b11)
}

// Solved reports whether every position is green, i.e. the guess equals the
// solution (spec.md §8 property 2).
func (f ID) Solved() bool {
	for i := 0; i < word.Length; i++ {
		if f.Tag(i) != Green {
			return false
		}
	}
	return true
}

func (f ID) String() string {
	var sb strings.Builder
	for i := 0; i < word.Length; i++ {
		letter := 'a' + rune(f.Letter(i))
		var tag string
		switch f.Tag(i) {
		case Green:
			tag = "green"
		case Yellow:
			tag = "yellow"
		default:
			tag = "grey"
		}
		fmt.Fprintf(&sb, "%c:%s ", letter, tag)
	}
	return strings.TrimSpace(sb.String())
}

// Constraints are the pruning inputs derived from a FeedbackId (spec.md §3
// GuessConstraints).
type Constraints struct {
	// CorrectPos[i] / CorrectLetter[i]: a green tile at position i.
	CorrectPos    [word.Length]bool
	CorrectLetter [word.Length]uint8

	// WrongPos[i] / WrongLetter[i]: a yellow or grey tile at position i —
	// both forbid that letter at that position.
	WrongPos    [word.Length]bool
	WrongLetter [word.Length]uint8

	// MinCount[c] is the greens+yellows count of letter c: a lower bound on
	// its multiplicity in the solution.
	MinCount [word.NumLetters]uint8

	// MaxCount[c] is defined (>= 0) whenever a grey of letter c appears, in
	// which case it is an exact upper bound equal to MinCount[c] (0 when c has
	// no greens/yellows, i.e. c is absent from the solution). -1 means
	// undefined (equivalent to 5).
	MaxCount [word.NumLetters]int8
}

// DeriveConstraints computes the GuessConstraints implied by a FeedbackId
// (spec.md §3's invariant: for any letter c, if MaxCount[c] is defined then
// MinCount[c] <= MaxCount[c] <= 5 — this holds here because MaxCount[c], when
// defined, is set equal to MinCount[c]).
func DeriveConstraints(fid ID) Constraints {
	var c Constraints
	for i := range c.MaxCount {
		c.MaxCount[i] = -1
	}

	var greenYellowCount [word.NumLetters]uint8
	var hasGrey [word.NumLetters]bool

	for i := 0; i < word.Length; i++ {
		letter := fid.Letter(i)
		switch fid.Tag(i) {
		case Green:
			c.CorrectPos[i] = true
			c.CorrectLetter[i] = letter
			greenYellowCount[letter]++
		case Yellow:
			c.WrongPos[i] = true
			c.WrongLetter[i] = letter
			greenYellowCount[letter]++
		default:
			c.WrongPos[i] = true
			c.WrongLetter[i] = letter
			hasGrey[letter] = true
		}
	}

	c.MinCount = greenYellowCount
	for l := 0; l < word.NumLetters; l++ {
		if hasGrey[l] {
			c.MaxCount[l] = int8(greenYellowCount[l])
		}
	}

	return c
}

// WrongPositions returns the sorted positions at which letter is known-wrong
// (a yellow or grey tile for that letter), mirroring the inspection helpers
// in original_source/src/guess.hpp (print_state's wrong_placements listing)
// and using golang.org/x/exp/slices the way the teacher's hint/hint.go does
// for un-hinted-letter bookkeeping.
func (c Constraints) WrongPositions(letter uint8) []int {
	var positions []int
	for i := 0; i < word.Length; i++ {
		if c.WrongPos[i] && c.WrongLetter[i] == letter {
			positions = append(positions, i)
		}
	}
	slices.Sort(positions)
	return positions
}

// IsKnownWrongAt reports whether pos appears in a previously computed
// WrongPositions slice.
func IsKnownWrongAt(positions []int, pos int) bool {
	return slices.Contains(positions, pos)
}
