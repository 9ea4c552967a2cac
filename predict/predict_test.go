package predict_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/multigram/embedding"
	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/predict"
	"github.com/katalvlaran/multigram/source"
	"github.com/katalvlaran/multigram/token"
)

func learn(t *testing.T, text string, opts ...multigram.Option) *multigram.Engine {
	t.Helper()
	e, err := multigram.New(source.Words(strings.Fields(text)...), opts...)
	require.NoError(t, err)
	require.NoError(t, e.Run())
	return e
}

func nodes(t *testing.T, e *multigram.Engine, raws ...string) []*multigram.Node {
	t.Helper()
	out := make([]*multigram.Node, len(raws))
	for i, raw := range raws {
		out[i] = e.Find(token.NewSymbol(raw))
		require.NotNil(t, out[i], raw)
	}
	return out
}

func render(seq []*multigram.Node) string {
	parts := make([]string, len(seq))
	for i, n := range seq {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// TestMostLikelyNext_TieBreak covers the the-cat-sat / the-cat-ran example.
func TestMostLikelyNext_TieBreak(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"tie goes to first seen", "the cat sat <eol> the cat ran <eol>", "sat"},
		{"tie order follows learning", "the cat ran <eol> the cat sat <eol>", "ran"},
		{"reinforced wins", "the cat sat <eol> the cat ran <eol> the cat sat <eol>", "sat"},
		{"reinforced wins regardless of order", "the cat ran <eol> the cat sat <eol> the cat sat <eol>", "sat"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := learn(t, tc.text)
			got := predict.MostLikelyNext(e, nodes(t, e, "the", "cat"), 1)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestMostLikelyNext_Threshold(t *testing.T) {
	e := learn(t, "a b <eol>")
	hist := nodes(t, e, "a")

	assert.Equal(t, "b", predict.MostLikelyNext(e, hist, 1).String())
	assert.Nil(t, predict.MostLikelyNext(e, hist, 2), "weight 1 below threshold")
	assert.Nil(t, predict.MostLikelyNext(e, nil, 0))
	assert.Nil(t, predict.MostLikelyNext(nil, hist, 0))
}

// TestMostLikelyNext_LongRangeOnlyAddsWeight checks distance>1 never seeds.
func TestMostLikelyNext_LongRangeOnlyAddsWeight(t *testing.T) {
	// x→z at distance 2 exists, but z has no distance-1 successor.
	e := learn(t, "x y z")
	got := predict.MostLikelyNext(e, nodes(t, e, "x", "z"), 0)
	assert.Nil(t, got)
}

// TestMostLikelyNext_SpanLimit checks only MaxStrength nodes are consulted.
func TestMostLikelyNext_SpanLimit(t *testing.T) {
	e := learn(t, "a b c <eol> q b d <eol> q b d <eol>", multigram.WithMaxStrength(2))
	// Three nodes of history but MaxStrength 2: only q and b vote.
	got := predict.MostLikelyNext(e, nodes(t, e, "a", "q", "b"), 0)
	require.NotNil(t, got)
	assert.Equal(t, "d", got.String())
}

// TestGenerateLikely_Terminates checks generation stops at a sink or the cap.
func TestGenerateLikely_Terminates(t *testing.T) {
	e := learn(t, "a b c")
	seq, err := predict.GenerateLikely(e, nodes(t, e, "a")[0])
	require.NoError(t, err)
	assert.Equal(t, "a b c", render(seq))

	cyclic := learn(t, "a b a b a b")
	seq, err = predict.GenerateLikely(cyclic, nodes(t, cyclic, "a")[0], predict.WithMaxLength(10))
	require.NoError(t, err)
	assert.Len(t, seq, 10)
	assert.Equal(t, "a b a b a b a b a b", render(seq))
}

func TestGenerateLikely_Errors(t *testing.T) {
	e := learn(t, "a b")
	_, err := predict.GenerateLikely(nil, nil)
	assert.ErrorIs(t, err, predict.ErrNilEngine)
	_, err = predict.GenerateLikely(e, nil)
	assert.ErrorIs(t, err, predict.ErrEmptySeed)
	_, err = predict.GenerateLikely(e, nodes(t, e, "a")[0], predict.WithMaxLength(0))
	assert.ErrorIs(t, err, predict.ErrOptionViolation)
	_, err = predict.GenerateLikely(e, nodes(t, e, "a")[0], predict.WithThreshold(-1))
	assert.ErrorIs(t, err, predict.ErrOptionViolation)
}

func TestGenerateLikely_EndsAtBoundary(t *testing.T) {
	e := learn(t, "the cat sat <eol> the cat sat <eol> the cat ran <eol>")
	seq, err := predict.GenerateLikely(e, nodes(t, e, "the")[0])
	require.NoError(t, err)
	assert.Equal(t, "the cat sat <eol>", render(seq))
}

// TestGenerateBestFit_LengthMatch covers seeds without vectors.
func TestGenerateBestFit_LengthMatch(t *testing.T) {
	e := learn(t, "the cat sat <eol> the horse ran <eol>")
	ctx := context.Background()

	seq, err := predict.GenerateBestFit(ctx, e, []string{"the", "zebra"})
	require.NoError(t, err)
	assert.Equal(t, "the horse ran <eol>", render(seq))

	seq, err = predict.GenerateBestFit(ctx, e, []string{"the", "xyz"})
	require.NoError(t, err)
	assert.Equal(t, "the cat sat <eol>", render(seq))

	seq, err = predict.GenerateBestFit(ctx, e, []string{"the", "toolongseed", "ran"})
	require.NoError(t, err)
	assert.Equal(t, "the", seq[0].String(), "unmatched seeds do not advance")
}

func TestGenerateBestFit_Errors(t *testing.T) {
	e := learn(t, "a b")
	ctx := context.Background()

	_, err := predict.GenerateBestFit(ctx, nil, []string{"a"})
	assert.ErrorIs(t, err, predict.ErrNilEngine)
	_, err = predict.GenerateBestFit(ctx, e, nil)
	assert.ErrorIs(t, err, predict.ErrEmptySeed)
	_, err = predict.GenerateBestFit(ctx, e, []string{"zebra"})
	assert.ErrorIs(t, err, predict.ErrUnknownSeed)
	_, err = predict.GenerateBestFit(ctx, e, []string{""})
	assert.ErrorIs(t, err, token.ErrEmptyRaw)
}

func TestGenerateBestFit_MaxLength(t *testing.T) {
	e := learn(t, "a b a b a b")
	seq, err := predict.GenerateBestFit(context.Background(), e, []string{"a", "b"}, predict.WithMaxLength(5))
	require.NoError(t, err)
	assert.Len(t, seq, 5)
}

// TestGenerateBestFit_Vectors covers the similarity-guided path.
func TestGenerateBestFit_Vectors(t *testing.T) {
	vectors := map[string][]float32{
		"the":   {1, 0, 0, 0},
		"cat":   {0, 1, 0, 0},
		"dog":   {0, 0, 1, 0},
		"puppy": {0, 0.3, 0.9, 0},
		"rock":  {0, 0, 0, 1},
	}
	embedder := embedding.EmbedderFunc(func(_ context.Context, text string) ([]float32, error) {
		v, ok := vectors[text]
		if !ok {
			return nil, errors.New("no vector for " + text)
		}
		return v, nil
	})
	reg, err := embedding.NewRegistry(8, 0.99)
	require.NoError(t, err)
	factory := embedding.NewFactory(embedder, reg)

	src := source.NewText(strings.NewReader("the cat. the dog."), source.WithFactory(factory))
	e, err := multigram.New(src, multigram.WithFactory(factory))
	require.NoError(t, err)
	require.NoError(t, e.Run())
	ctx := context.Background()

	seq, err := predict.GenerateBestFit(ctx, e, []string{"the", "puppy"})
	require.NoError(t, err)
	assert.Equal(t, "the dog <eol>", render(seq))

	seq, err = predict.GenerateBestFit(ctx, e, []string{"the", "rock"})
	require.NoError(t, err)
	require.NotEmpty(t, seq)
	assert.Equal(t, "the", seq[0].String())
	assert.NotEqual(t, "rock", seq[len(seq)-1].String(), "orthogonal seed does not advance")
}
