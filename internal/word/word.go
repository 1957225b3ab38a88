// Package word implements the five-letter word encoding described in
// spec.md §4.1, grounded in original_source/src/word.hpp and
// original_source/src/dictionary.hpp's encode_wordlist.
package word

import "errors"

// Length is the fixed word length this engine supports (spec.md §1
// Non-goals: variable word length is out of scope).
const Length = 5

// NumLetters is the alphabet size.
const NumLetters = 26

// BitsPerLetter and BitsPerCount are the packed-encoding lane widths used by
// the Dictionary pruning predicate (spec.md §4.3).
const (
	BitsPerLetter = 5
	BitsPerCount  = 2
)

// ErrInvalidWord is returned when the input is not exactly five lowercase
// ASCII letters (spec.md §7).
var ErrInvalidWord = errors.New("word: input is not five lowercase letters")

// Word is an immutable encoding of a five-letter wordlist entry.
type Word struct {
	Text string

	// Letters[i] is the letter at position i, in 0..25.
	Letters [Length]uint8

	// Counts[c] is the number of times letter c occurs in the word, 0..5.
	Counts [NumLetters]uint8

	// EncodedWord packs Letters into a 25-bit value: Letters[i] occupies
	// bits [5i, 5i+5).
	EncodedWord uint32

	// EncodedCounts packs Counts into a 52-bit value: Counts[c] occupies
	// bits [2c, 2c+2).
	EncodedCounts uint64
}

// Encode builds a Word from a five-letter lowercase string. It fails with
// ErrInvalidWord if the input is not exactly five characters in 'a'..'z'.
func Encode(s string) (Word, error) {
	if len(s) != Length {
		return Word{}, ErrInvalidWord
	}

	var w Word
	w.Text = s

	for i := 0; i < Length; i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return Word{}, ErrInvalidWord
		}
		letter := uint8(c - 'a')
		w.Letters[i] = letter
		w.Counts[letter]++
		w.EncodedWord |= uint32(letter) << (BitsPerLetter * uint(i))
	}

	for c := 0; c < NumLetters; c++ {
		w.EncodedCounts |= uint64(w.Counts[c]) << (BitsPerCount * uint(c))
	}

	return w, nil
}

// MustEncode is Encode, panicking on error. Useful for literal test fixtures.
func MustEncode(s string) Word {
	w, err := Encode(s)
	if err != nil {
		panic(err)
	}
	return w
}

// EncodeAll encodes every word in words, stopping at the first invalid one.
func EncodeAll(words []string) ([]Word, error) {
	out := make([]Word, len(words))
	for i, s := range words {
		w, err := Encode(s)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}
