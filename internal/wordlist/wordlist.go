// Package wordlist loads the UTF-8, one-word-per-line wordlist files
// described in spec.md §6, generalizing the teacher's main.go LoadWords
// (which opened io/guesses.txt and io/answers.txt with bufio.Scanner and no
// validation) to reject anything that is not a five-letter lowercase word.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kdyer/wordle-bits/internal/word"
)

// Load reads path and encodes every non-blank line as a word.Word, returning
// InvalidWord (via word.ErrInvalidWord) on the first line that is not five
// lowercase letters, with its line number attached.
func Load(path string) ([]word.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordlist: open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if _, err := word.Encode(line); err != nil {
			return nil, fmt.Errorf("wordlist: %s line %d %q: %w", path, lineNo, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wordlist: read %s: %w", path, err)
	}

	words, err := word.EncodeAll(lines)
	if err != nil {
		return nil, fmt.Errorf("wordlist: %s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("wordlist: %s contains no words", path)
	}
	return words, nil
}
