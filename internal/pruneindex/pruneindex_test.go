package pruneindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdyer/wordle-bits/internal/dictionary"
	"github.com/kdyer/wordle-bits/internal/feedback"
	"github.com/kdyer/wordle-bits/internal/word"
)

func encodeAll(t *testing.T, words ...string) []word.Word {
	t.Helper()
	ws, err := word.EncodeAll(words)
	require.NoError(t, err)
	return ws
}

// spec.md §3: "for every (g, s), prune_map[feedback_grid[g][s]][s] = 0"
func TestSolutionNeverPrunesItself(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate", "raise", "aural", "share")
	idx := BuildSilent(words)

	for g := range words {
		for s := range words {
			fid := idx.FeedbackAt(g, s)
			mask, err := idx.PruneMask(fid)
			require.NoError(t, err)
			assert.Falsef(t, mask.Get(s), "guess=%d solution=%d", g, s)
		}
	}
}

// spec.md §3: "prune_map[feedback_grid[g][s]] equals {k : feedback_grid[g][k] != feedback_grid[g][s]}"
func TestPruneMapMatchesDefinition(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate", "raise", "aural", "share", "stare")
	idx := BuildSilent(words)

	g := 3
	for s := range words {
		fid := idx.FeedbackAt(g, s)
		mask, err := idx.PruneMask(fid)
		require.NoError(t, err)

		for k := range words {
			want := idx.FeedbackAt(g, k) != fid
			assert.Equal(t, want, mask.Get(k), "g=%d s=%d k=%d", g, s, k)
		}
	}
}

// spec.md §8: index-vs-direct agreement with the Dictionary pruning predicate.
func TestIndexAgreesWithDictionaryPruning(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate", "raise", "aural", "share", "stare", "adult")
	idx := BuildSilent(words)

	for g := range words {
		for s := range words {
			fid := idx.FeedbackAt(g, s)
			indexMask, err := idx.PruneMask(fid)
			require.NoError(t, err)

			d := dictionary.New(words)
			directMask := d.Prune(feedback.DeriveConstraints(fid))

			assert.True(t, indexMask.Equal(directMask), "g=%d s=%d", g, s)
		}
	}
}

// spec.md §8 property 5: index round-trip.
func TestSaveLoadRoundTrip(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate", "raise", "aural", "share", "stare")
	idx := BuildSilent(words)

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	loaded, err := Load(&buf, words)
	require.NoError(t, err)

	for g := range words {
		for s := range words {
			fid := idx.FeedbackAt(g, s)
			want, err := idx.PruneMask(fid)
			require.NoError(t, err)
			got, err := loaded.PruneMask(fid)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		}
	}
}

func TestLoadTruncatedIsCorrupt(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate")
	idx := BuildSilent(words)

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-3])
	_, err := Load(truncated, words)
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestMissingFeedbackRebuild(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate")
	idx := BuildSilent(words)

	bogus := feedback.ID(^uint64(0) & ((1 << 35) - 1))
	_, err := idx.PruneMask(bogus)
	assert.ErrorIs(t, err, ErrMissingFeedback)

	rebuilt := idx.RebuildMissing(words[0], bogus)
	again, err := idx.PruneMask(bogus)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(again))
}

func TestWordAtOutOfRangePanics(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate")
	idx := BuildSilent(words)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}()
	idx.WordAt(3)
}

func TestFeedbackAtOutOfRangePanics(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate")
	idx := BuildSilent(words)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}()
	idx.FeedbackAt(0, 3)
}
