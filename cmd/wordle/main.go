// Command wordle is the interactive driver from spec.md §4.6 and §6: an
// external collaborator over the core solve(P)/feedback_of/apply interface.
// Its command-line shape (positional wordlist path, optional index path,
// exit codes 0/1/2) and its Usage block follow CyphrRiot-glyphriot/main.go's
// use of the standard flag package, here on a flag.NewFlagSet so run takes
// its arguments explicitly; its REPL loop adapts the teacher's main.go DemoMain/BestWordMain
// switch-on-os.Args shape into a continuing guess/feedback cycle instead of
// a one-shot demo.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/colorstring"
	"github.com/rivo/uniseg"
	"golang.org/x/term"

	"github.com/kdyer/wordle-bits/internal/dictionary"
	"github.com/kdyer/wordle-bits/internal/feedback"
	"github.com/kdyer/wordle-bits/internal/pruneindex"
	"github.com/kdyer/wordle-bits/internal/search"
	"github.com/kdyer/wordle-bits/internal/wordlist"
)

const (
	exitOK          = 0
	exitUsageError  = 1
	exitCorruptIdx  = 2
	liveWordsToShow = 12
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("wordle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mean := fs.Bool("mean", false, "optimize mean-weighted expected depth instead of worst case")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wordle <wordlist-path> [prune-index-path]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		fs.Usage()
		return exitUsageError
	}
	wordlistPath := rest[0]
	indexPath := wordlistPath + ".idx"
	if len(rest) == 2 {
		indexPath = rest[1]
	}

	words, err := wordlist.Load(wordlistPath)
	if err != nil {
		fmt.Fprintf(stderr, "wordle: %v\n", err)
		return exitUsageError
	}

	idx, err := pruneindex.LoadOrBuild(indexPath, words)
	if err != nil {
		if errors.Is(err, pruneindex.ErrCorruptIndex) {
			fmt.Fprintf(stderr, "wordle: %v\n", err)
			return exitCorruptIdx
		}
		fmt.Fprintf(stderr, "wordle: %v\n", err)
		return exitUsageError
	}

	objective := search.WorstCase
	if *mean {
		objective = search.MeanWeighted
	}
	engine := search.New(idx, objective)
	dict := dictionary.New(words)

	colored := term.IsTerminal(int(stdout.Fd()))
	scanner := bufio.NewScanner(stdin)

	for {
		if dict.Count() == 0 {
			fmt.Fprintln(stderr, "wordle: no candidates remain; feedback is inconsistent")
			return exitUsageError
		}

		result := engine.Solve(dict.Top())
		guess := idx.WordAt(result.GuessIdx)

		fmt.Fprintf(stdout, "recommended guess: %s (cost %d, %d candidates remain)\n",
			guess.Text, result.Cost, dict.Count())
		printLiveWords(stdout, dict)

		if dict.Count() == 1 {
			fmt.Fprintln(stdout, "solved.")
			return exitOK
		}

		fmt.Fprint(stdout, "enter feedback as five characters of g/y/x (or blank to quit): ")
		if !scanner.Scan() {
			return exitOK
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return exitOK
		}

		fid, err := feedback.FromColors(guess, line)
		if err != nil {
			fmt.Fprintf(stderr, "wordle: %v\n", err)
			continue
		}

		printTiles(stdout, guess.Text, fid, colored)
		if fid.Solved() {
			fmt.Fprintln(stdout, "solved.")
			return exitOK
		}

		dict.Prune(feedback.DeriveConstraints(fid))
	}
}

// printTiles renders a guess colored by its feedback tags, the way a
// terminal Wordle client shows green/yellow/grey tiles, using colorstring
// the way CyphrRiot-glyphriot's prompt.go colors its own status lines. When
// stdout is not a terminal (colored is false) it falls back to plain text.
func printTiles(w *os.File, guessText string, fid feedback.ID, colored bool) {
	if !colored {
		fmt.Fprintln(w, fid.String())
		return
	}
	var sb strings.Builder
	for i, r := range guessText {
		var tag string
		switch fid.Tag(i) {
		case feedback.Green:
			tag = "green"
		case feedback.Yellow:
			tag = "yellow"
		default:
			tag = "white"
		}
		fmt.Fprintf(&sb, "[%s]%c[reset]", tag, r)
	}
	fmt.Fprintln(w, colorstring.Color(sb.String()))
}

// printLiveWords lists up to liveWordsToShow remaining candidates, padded to
// a common display width with rivo/uniseg so the columns line up even if a
// future wordlist carries multi-rune graphemes, the way the teacher's
// hint package leans on golang.org/x/exp/slices for small positional
// bookkeeping rather than hand-rolled loops.
func printLiveWords(w *os.File, dict *dictionary.Dictionary) {
	live := dict.LiveWords()
	shown := live
	truncated := false
	if len(shown) > liveWordsToShow {
		shown = shown[:liveWordsToShow]
		truncated = true
	}

	width := 0
	for _, s := range shown {
		if n := uniseg.GraphemeClusterCount(s); n > width {
			width = n
		}
	}

	fmt.Fprint(w, "candidates: ")
	for i, s := range shown {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%-*s", width, s)
	}
	if truncated {
		fmt.Fprintf(w, " ... (%d more)", len(live)-len(shown))
	}
	fmt.Fprintln(w)
}
