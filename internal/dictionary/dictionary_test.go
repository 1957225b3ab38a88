package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdyer/wordle-bits/internal/feedback"
	"github.com/kdyer/wordle-bits/internal/word"
)

func encodeAll(t *testing.T, words ...string) []word.Word {
	t.Helper()
	ws, err := word.EncodeAll(words)
	require.NoError(t, err)
	return ws
}

// spec.md §8 property 3: pruning with constraints derived from
// feedback_id(g, s) never prunes s itself.
func TestPruneNeverElimatesSolution(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate", "raise", "aural", "share")
	for gi := range words {
		for si := range words {
			d := New(words)
			fid := feedback.Compute(words[gi], words[si])
			c := feedback.DeriveConstraints(fid)
			mask := d.Prune(c)
			assert.Falsef(t, mask.Get(si), "guess=%s solution=%s pruned the solution", words[gi].Text, words[si].Text)
		}
	}
}

func TestPruneReducesOrKeepsCandidates(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate")
	d := New(words)

	before := d.Count()
	fid := feedback.Compute(words[1], words[0]) // guess "abase" vs solution "aback"
	d.Prune(feedback.DeriveConstraints(fid))
	assert.LessOrEqual(t, d.Count(), before)
}

func TestPushPopRestoresState(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate")
	d := New(words)
	before := d.Top().Clone()

	fid := feedback.Compute(words[1], words[0])
	d.Prune(feedback.DeriveConstraints(fid))
	require.NoError(t, d.Pop())

	assert.True(t, before.Equal(d.Top()))
}

func TestUnmatchedPop(t *testing.T) {
	words := encodeAll(t, "aback", "abase")
	d := New(words)
	err := d.Pop()
	assert.ErrorIs(t, err, ErrUnmatchedPop)
}

// spec.md §8 property 4: words sharing a FeedbackId under a guess form an
// equivalence class under pruning: either both survive or both are pruned.
func TestFeedbackEquivalenceClasses(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate", "raise", "aural", "share", "stare")
	guess := words[3] // "raise"

	for i := range words {
		for j := range words {
			if feedback.Compute(guess, words[i]) != feedback.Compute(guess, words[j]) {
				continue
			}
			di := New(words)
			di.Prune(feedback.DeriveConstraints(feedback.Compute(guess, words[i])))
			dj := New(words)
			dj.Prune(feedback.DeriveConstraints(feedback.Compute(guess, words[j])))
			assert.Equal(t, di.IsPruned(i), dj.IsPruned(i))
			assert.Equal(t, di.IsPruned(j), dj.IsPruned(j))
		}
	}
}

func TestLiveWords(t *testing.T) {
	words := encodeAll(t, "aback", "abase", "abate")
	d := New(words)
	fid := feedback.Compute(words[1], words[0])
	d.Prune(feedback.DeriveConstraints(fid))
	live := d.LiveWords()
	assert.Contains(t, live, "aback")
}

func TestWordOutOfRangePanics(t *testing.T) {
	words := encodeAll(t, "aback", "abase")
	d := New(words)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}()
	d.Word(2)
}
