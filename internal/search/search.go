// Package search implements the memoized adversarial minimax engine from
// spec.md §4.5, grounded in original_source/src/solver.hpp (Solver::player,
// Solver::antagonist) and original_source/src/wordle_solver.hpp
// (WordleSolver::player, WordleSolver::antagonist — the bitset-indexed
// variant the spec's remaining-candidates state is modeled on).
package search

import (
	"github.com/kdyer/wordle-bits/internal/bitset"
	"github.com/kdyer/wordle-bits/internal/pruneindex"
)

// Objective selects the aggregation antagonist uses across feedback classes
// (spec.md "Design Notes": represent max vs sum as a policy parameter rather
// than duplicating the recursion).
type Objective int

const (
	// WorstCase minimizes, over guesses, the maximum depth over the
	// adversary's reply.
	WorstCase Objective = iota

	// MeanWeighted minimizes, over guesses, the sum over feedback classes of
	// (class size x resulting subtree cost) — a path-sum proxy for expected
	// depth over solutions drawn uniformly from the live set.
	//
	// spec.md's Open Questions flag the source's mean-weighted return value
	// as ambiguous between "max over path-sum" (which reduces to worst-case)
	// and "a pure sum with a spurious per-branch max". This engine takes the
	// documented resolution: a pure sum over the antagonist's loop, with min
	// taken at the player.
	MeanWeighted
)

// PlayerResult is the player's tagged result: a Feasible flag rather than an
// int-max sentinel, so recursive cost increments can never overflow (spec.md
// "Design Notes": sentinel cost values).
type PlayerResult struct {
	Feasible bool
	Cost     int
	GuessIdx int
}

// AntagonistResult is the antagonist's tagged result.
type AntagonistResult struct {
	Feasible bool
	Cost     int

	// AdversaryIdx is the solution index realizing the returned cost under
	// WorstCase. Under MeanWeighted the cost is a sum over all classes, so
	// there is no single realizing solution; AdversaryIdx is the last
	// solution class processed and is informational only.
	AdversaryIdx int
}

// Stats instruments a search the way original_source/src/solver.hpp's
// Solver::solve reports num_prunes / memo_hits_ / memo_misses_ /
// ghits_ / gmisses_ after solving, returned to the caller instead of printed
// directly (the Search Engine is CPU-bound with no I/O — spec.md §5).
type Stats struct {
	MemoHits   int
	MemoMisses int

	// ClassDedupSkips counts candidates skipped in antagonist's loop because
	// they shared a FeedbackId with an already-processed solution (spec.md
	// §4.5's feedback-class dedup).
	ClassDedupSkips int
}

// Engine is the memoized minimax search over remaining-candidate bitsets. It
// owns its memo table; Reset clears it. An Engine is not safe for concurrent
// use (spec.md §5: single-threaded cooperative).
type Engine struct {
	index     *pruneindex.PruneIndex
	objective Objective
	memo      *memoTable
	stats     Stats
}

// New builds an Engine over a PruneIndex for the given objective.
func New(index *pruneindex.PruneIndex, objective Objective) *Engine {
	return &Engine{index: index, objective: objective, memo: newMemoTable()}
}

// Reset clears the memo table and stats counters.
func (e *Engine) Reset() {
	e.memo = newMemoTable()
	e.stats = Stats{}
}

// Stats returns a snapshot of the current instrumentation counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// MemoSize returns the number of distinct states memoized so far (spec.md
// §8: "memo size strictly monotonically increases within one run").
func (e *Engine) MemoSize() int {
	return e.memo.size
}

// Solve computes the optimal guess for remaining-candidates state p under
// this Engine's objective (spec.md §4.5 player()).
func (e *Engine) Solve(p *bitset.Bitset) PlayerResult {
	return e.player(p)
}

// player implements spec.md §4.5's player(P). It does not take a bound: an
// earlier revision threaded a bound through to antagonist for early-exit
// pruning, but that let antagonist return a branch's cost before it had
// examined every solution class, and that bound-limited (non-optimal) value
// was then memoized keyed on P alone with no record that it was only a
// partial answer. A later lookup of the same P under a looser bound — or a
// direct top-level Solve — would replay the stale value.
// original_source/src/solver.hpp's shipped antagonist has no such check; its
// only bound-based shortcut lived in player (the bound==1 case), and the
// author's own comment on it ("sometimes returns different results... not
// sure why") is exactly this failure mode. This engine always computes
// antagonist's result over every feedback class, so every memoized entry is
// exact regardless of when or how often it is looked up.
func (e *Engine) player(p *bitset.Bitset) PlayerResult {
	live := aliveIndices(p)
	if len(live) == 0 {
		panic("search: player called with no live candidates")
	}
	if len(live) == 1 {
		return PlayerResult{Feasible: true, Cost: 1, GuessIdx: live[0]}
	}

	if cached, ok := e.memo.get(p); ok {
		e.stats.MemoHits++
		return cached
	}
	e.stats.MemoMisses++

	var best PlayerResult
	for _, g := range live {
		ar := e.antagonist(p, g)
		if !ar.Feasible {
			continue
		}
		if !best.Feasible || ar.Cost < best.Cost {
			best = PlayerResult{Feasible: true, Cost: ar.Cost, GuessIdx: g}
		}
	}

	e.memo.put(p, best)
	return best
}

// antagonist implements spec.md §4.5's antagonist(P, g), including the
// feedback-class dedup that turns the inner loop from |W| to the number of
// distinct fids under g within P. It always examines every feedback class to
// completion — see the note on player above for why no bound-based early
// exit is used here.
func (e *Engine) antagonist(p *bitset.Bitset, g int) AntagonistResult {
	live := aliveIndices(p)
	computed := bitset.New(p.Len())

	switch e.objective {
	case MeanWeighted:
		var result AntagonistResult
		sum := 0
		for _, s := range live {
			if computed.Get(s) {
				continue
			}
			if g == s {
				sum++
				result = AntagonistResult{Feasible: true, Cost: sum, AdversaryIdx: s}
				continue
			}

			mask := e.maskFor(g, s)
			classSize := markComputed(computed, live, mask)
			e.stats.ClassDedupSkips += classSize - 1

			pPrime := p.Or(mask)
			child := e.player(pPrime)
			sum += classSize * (child.Cost + 1)
			result = AntagonistResult{Feasible: true, Cost: sum, AdversaryIdx: s}
		}
		return result

	default: // WorstCase
		var worst AntagonistResult
		for _, s := range live {
			if computed.Get(s) {
				continue
			}
			if g == s {
				contrib := AntagonistResult{Feasible: true, Cost: 1, AdversaryIdx: s}
				if !worst.Feasible || contrib.Cost > worst.Cost {
					worst = contrib
				}
				continue
			}

			mask := e.maskFor(g, s)
			classSize := markComputed(computed, live, mask)
			e.stats.ClassDedupSkips += classSize - 1

			pPrime := p.Or(mask)
			child := e.player(pPrime)
			cost := child.Cost + 1

			if !worst.Feasible || cost > worst.Cost {
				worst = AntagonistResult{Feasible: true, Cost: cost, AdversaryIdx: s}
			}
		}
		return worst
	}
}

// maskFor looks up the prune mask for guessing g against s, rebuilding it
// on the fly (spec.md §7 MissingFeedback) in the unlikely case the index
// does not already contain the feedback id — this should not happen for a
// PruneIndex built from the same wordlist the bitset state was derived from.
func (e *Engine) maskFor(g, s int) *bitset.Bitset {
	fid := e.index.FeedbackAt(g, s)
	mask, err := e.index.PruneMask(fid)
	if err != nil {
		return e.index.RebuildMissing(e.index.WordAt(g), fid)
	}
	return mask
}

// markComputed marks every live index whose feedback class matches mask
// (i.e. mask bit = 0, meaning "not pruned by this feedback") as computed,
// and returns the class size.
func markComputed(computed *bitset.Bitset, live []int, mask *bitset.Bitset) int {
	n := 0
	for _, k := range live {
		if !mask.Get(k) {
			computed.Set(k)
			n++
		}
	}
	return n
}

// aliveIndices returns live(P) = {i : P[i] = 0} in ascending order, which
// also fixes the deterministic tie-break order spec.md §4.5 requires.
func aliveIndices(p *bitset.Bitset) []int {
	out := make([]int, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		if !p.Get(i) {
			out = append(out, i)
		}
	}
	return out
}
