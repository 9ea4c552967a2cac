package multigram_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/source"
	"github.com/katalvlaran/multigram/token"
)

// learnWords runs a fresh engine over words and returns it.
func learnWords(t *testing.T, words []string, opts ...multigram.Option) *multigram.Engine {
	t.Helper()
	e, err := multigram.New(source.Words(words...), opts...)
	require.NoError(t, err)
	require.NoError(t, e.Run())
	return e
}

func node(t *testing.T, e *multigram.Engine, raw string) *multigram.Node {
	t.Helper()
	n := e.Find(token.NewSymbol(raw))
	require.NotNil(t, n, "node %q", raw)
	return n
}

// TestNew_Options verifies invalid options surface as ErrOptionViolation.
func TestNew_Options(t *testing.T) {
	cases := []struct {
		name string
		opt  multigram.Option
	}{
		{"zero tokens", multigram.WithMaxTokens(0)},
		{"negative strength", multigram.WithMaxStrength(-1)},
		{"zero threshold", multigram.WithThreshold(0)},
		{"threshold above max", multigram.WithThreshold(1.5)},
		{"unknown policy", multigram.WithPoolPolicy(multigram.PoolPolicy(9))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := multigram.New(nil, tc.opt)
			assert.ErrorIs(t, err, multigram.ErrOptionViolation)
		})
	}

	e, err := multigram.New(nil, multigram.WithMaxTokens(8), multigram.WithMaxStrength(3), multigram.WithThreshold(0.5))
	require.NoError(t, err)
	assert.Equal(t, 8, e.MaxTokens())
	assert.Equal(t, 3, e.MaxStrength())
	assert.Equal(t, 0.5, e.Threshold())
	assert.Equal(t, multigram.StateIdle, e.State())
}

// TestDecay_Monotonicity checks strength == max(0, initial-n) after n ticks.
func TestDecay_Monotonicity(t *testing.T) {
	e, err := multigram.New(nil, multigram.WithMaxStrength(5))
	require.NoError(t, err)
	require.NoError(t, e.Learn(token.NewSymbol("a")))

	a := node(t, e, "a")
	initial := a.Strength()
	assert.Equal(t, 4, initial, "triggered to max, then one tick")

	for n := 1; n <= 8; n++ {
		e.Tick()
		want := initial - n
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, a.Strength(), "after %d ticks", n)
	}
}

// TestDedup_Identity checks equal tokens resolve to one node.
func TestDedup_Identity(t *testing.T) {
	e := learnWords(t, []string{"a", "b", "a", "a"})

	assert.Equal(t, 2, e.Stats().Tokens)
	a := node(t, e, "a")
	assert.Equal(t, 0, a.Slot())
	assert.Same(t, a, e.Lookup(token.NewSymbol("a"), token.MaxSimilarity))
	assert.Nil(t, e.Find(token.NewSymbol("zzz")))
	assert.Nil(t, e.Find(nil))
}

// TestDistance_Correctness checks window [A,B,C] then D.
func TestDistance_Correctness(t *testing.T) {
	e := learnWords(t, []string{"A", "B", "C", "D"})
	a, b, c, d := node(t, e, "A"), node(t, e, "B"), node(t, e, "C"), node(t, e, "D")

	for _, tc := range []struct {
		from *multigram.Node
		dist int
	}{{c, 1}, {b, 2}, {a, 3}} {
		edge := tc.from.EdgeTo(d, tc.dist)
		require.NotNil(t, edge, "%s→D at %d", tc.from, tc.dist)
		assert.EqualValues(t, 1, edge.Strength)
		assert.Equal(t, tc.dist, edge.Distance)
	}
	for dist := 0; dist <= e.MaxStrength(); dist++ {
		assert.Nil(t, d.EdgeTo(d, dist))
	}
	assert.Nil(t, d.Edges(0))
	assert.Nil(t, d.Edges(e.MaxStrength()+1))
	assert.Equal(t, 6, e.Stats().Edges)
}

// TestReinforcement_Increments checks repeated pairs grow by one each time.
func TestReinforcement_Increments(t *testing.T) {
	e := learnWords(t, []string{"x", "y", "<eol>", "x", "y", "<eol>", "x", "y"})
	edge := node(t, e, "x").EdgeTo(node(t, e, "y"), 1)
	require.NotNil(t, edge)
	assert.EqualValues(t, 3, edge.Strength)
	assert.Len(t, node(t, e, "x").Edges(1), 1)
}

// TestSettle_Isolation checks nothing before a boundary links to anything after it.
func TestSettle_Isolation(t *testing.T) {
	e, err := multigram.New(source.Words("X", "Y", "<eol>", "Z"), multigram.WithMaxStrength(20))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, e.ProcessNext())
	}
	assert.Equal(t, multigram.StateSettling, e.State())
	assert.Equal(t, 20, e.SettleCount())

	for i := 0; i < 20; i++ {
		require.NoError(t, e.ProcessNext())
	}
	assert.Equal(t, multigram.StateLearning, e.State())
	assert.Equal(t, 0, e.SettleCount())
	for _, n := range e.Recent() {
		assert.Nil(t, n)
	}
	for _, n := range e.Nodes() {
		assert.Zero(t, n.Strength(), "%s fully decayed", n)
	}

	require.NoError(t, e.Run())
	z := node(t, e, "Z")
	for _, raw := range []string{"X", "Y"} {
		from := node(t, e, raw)
		for d := 1; d <= 20; d++ {
			assert.Nil(t, from.EdgeTo(z, d), "%s→Z at %d", raw, d)
		}
	}
	assert.True(t, e.Exhausted())
	assert.Equal(t, 1, e.Stats().Lines)
}

// TestLearn_PushDrainsSettle checks Learn absorbs a pending settle first.
func TestLearn_PushDrainsSettle(t *testing.T) {
	e, err := multigram.New(nil, multigram.WithMaxStrength(4))
	require.NoError(t, err)

	assert.ErrorIs(t, e.Learn(nil), multigram.ErrNilToken)
	require.NoError(t, e.Learn(token.NewSymbol("a")))
	require.NoError(t, e.Learn(token.EOL()))
	assert.Equal(t, multigram.StateSettling, e.State())
	require.NoError(t, e.Learn(token.NewSymbol("b")))

	assert.Equal(t, multigram.StateLearning, e.State())
	assert.Nil(t, node(t, e, "a").EdgeTo(node(t, e, "b"), 1))
	assert.Nil(t, node(t, e, "a").EdgeTo(node(t, e, "b"), 2))
}

// TestSoftmax_NormalizationLaw checks every non-empty bucket sums to one.
func TestSoftmax_NormalizationLaw(t *testing.T) {
	e := learnWords(t, []string{
		"a", "b", "<eol>",
		"a", "c", "<eol>",
		"a", "b", "c", "<eol>",
	})
	e.Normalize()

	for _, n := range e.Nodes() {
		for d := 1; d <= n.MaxDistance(); d++ {
			edges := n.Edges(d)
			if len(edges) == 0 {
				continue
			}
			sum := 0.0
			for _, edge := range edges {
				sum += edge.Softmax
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "%s bucket %d", n, d)
		}
	}

	ab := node(t, e, "a").EdgeTo(node(t, e, "b"), 1)
	ac := node(t, e, "a").EdgeTo(node(t, e, "c"), 1)
	want := math.Exp(2) / (math.Exp(2) + math.Exp(1))
	assert.InDelta(t, want, ab.Softmax, 1e-12)
	assert.InDelta(t, 1-want, ac.Softmax, 1e-12)

	e.Normalize()
	assert.InDelta(t, want, ab.Softmax, 1e-12, "idempotent")
}

// TestSoftmax_LargeStrengths checks the pass stays finite.
func TestSoftmax_LargeStrengths(t *testing.T) {
	words := make([]string, 0, 3000)
	for i := 0; i < 1000; i++ {
		words = append(words, "p", "q", "<eol>")
	}
	e := learnWords(t, words, multigram.WithMaxStrength(2))
	e.NormalizeIfDirty()

	edge := node(t, e, "p").EdgeTo(node(t, e, "q"), 1)
	assert.EqualValues(t, 1000, edge.Strength)
	assert.Equal(t, 1.0, edge.Softmax)
}

// TestPool_ExhaustionPolicies checks Skip drops and ticks while Abort fails.
func TestPool_ExhaustionPolicies(t *testing.T) {
	t.Run("skip", func(t *testing.T) {
		e := learnWords(t, []string{"a", "b", "c", "a"},
			multigram.WithMaxTokens(2), multigram.WithLogger(zaptest.NewLogger(t)))
		st := e.Stats()
		assert.Equal(t, 2, st.Tokens)
		assert.Equal(t, 1, st.Dropped)
		assert.Equal(t, 3, st.Learned)
		assert.EqualValues(t, 4, st.Ticks)
		assert.Nil(t, e.Find(token.NewSymbol("c")))
	})

	t.Run("skip keeps distances", func(t *testing.T) {
		e := learnWords(t, []string{"a", "b", "c", "b"}, multigram.WithMaxTokens(2))
		a, b := node(t, e, "a"), node(t, e, "b")
		assert.NotNil(t, a.EdgeTo(b, 3), "a→b spans the dropped token")
		assert.NotNil(t, b.EdgeTo(b, 2))
		assert.Nil(t, b.EdgeTo(b, 1))
		assert.Nil(t, a.EdgeTo(b, 2))
	})

	t.Run("skip end of line still settles", func(t *testing.T) {
		e, err := multigram.New(source.Words("X", "Y", "Z", "<eol>", "Y"), multigram.WithMaxTokens(3))
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			require.NoError(t, e.ProcessNext())
		}
		assert.Equal(t, multigram.StateSettling, e.State())
		assert.Equal(t, e.MaxStrength(), e.SettleCount())

		require.NoError(t, e.Run())
		st := e.Stats()
		assert.Equal(t, 1, st.Dropped)
		assert.Equal(t, 1, st.Lines)

		x, y, z := node(t, e, "X"), node(t, e, "Y"), node(t, e, "Z")
		assert.NotNil(t, x.EdgeTo(y, 1))
		for d := 1; d <= e.MaxStrength(); d++ {
			assert.Nil(t, z.EdgeTo(y, d), "Z→Y at %d", d)
			assert.Nil(t, y.EdgeTo(y, d), "Y→Y at %d", d)
			if d != 1 {
				assert.Nil(t, x.EdgeTo(y, d), "X→Y at %d", d)
			}
		}
	})

	t.Run("abort", func(t *testing.T) {
		e, err := multigram.New(source.Words("a", "b", "c"),
			multigram.WithMaxTokens(2), multigram.WithPoolPolicy(multigram.PolicyAbort))
		require.NoError(t, err)
		assert.ErrorIs(t, e.Run(), multigram.ErrPoolExhausted)
		assert.False(t, e.Exhausted())
	})
}

// TestEngine_NilSourceAndReset covers push-only engines and Reset.
func TestEngine_NilSourceAndReset(t *testing.T) {
	e, err := multigram.New(nil)
	require.NoError(t, err)
	require.NoError(t, e.ProcessNext())
	assert.True(t, e.Exhausted())
	assert.Equal(t, 0, e.Stats().InputLines)

	require.NoError(t, e.Learn(token.NewSymbol("a")))
	require.NoError(t, e.Learn(token.NewSymbol("b")))
	e.Reset()

	st := e.Stats()
	assert.Zero(t, st.Tokens)
	assert.Zero(t, st.Edges)
	assert.Zero(t, st.Ticks)
	assert.False(t, st.Exhausted)
	assert.Equal(t, multigram.StateIdle, st.State)
}

// TestStats_Counts checks the counter snapshot.
func TestStats_Counts(t *testing.T) {
	e := learnWords(t, []string{"a", "b", "c", "<eol>"}, multigram.WithMaxTokens(16))
	st := e.Stats()

	assert.Equal(t, 4, st.Tokens)
	assert.Equal(t, 16, st.Capacity)
	assert.Equal(t, 6, st.Edges)
	assert.Equal(t, 4, st.Learned)
	assert.Equal(t, 1, st.Lines)
	assert.Equal(t, 1, st.InputLines)
	assert.EqualValues(t, 4+multigram.DefaultMaxStrength, st.Ticks)
	assert.Equal(t, multigram.StateIdle, st.State)
	assert.True(t, st.Exhausted)
}

func TestParsePoolPolicy(t *testing.T) {
	p, err := multigram.ParsePoolPolicy("abort")
	require.NoError(t, err)
	assert.Equal(t, multigram.PolicyAbort, p)
	assert.Equal(t, "abort", p.String())

	p, err = multigram.ParsePoolPolicy("")
	require.NoError(t, err)
	assert.Equal(t, multigram.PolicySkip, p)

	_, err = multigram.ParsePoolPolicy("panic")
	assert.ErrorIs(t, err, multigram.ErrOptionViolation)
	assert.Equal(t, "settling", multigram.StateSettling.String())
}
