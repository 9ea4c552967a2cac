package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/multigram/config"
	"github.com/katalvlaran/multigram/predict"
)

type cli struct {
	dir string
	db  string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvLogLevel, "")
	dir := t.TempDir()
	return &cli{dir: dir, db: filepath.Join(dir, "model.db")}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config", filepath.Join(c.dir, "config.yaml"),
		"--db", c.db,
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) corpus(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(c.dir, "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestCLI_LearnGenerateInspect(t *testing.T) {
	c := newCLI(t)
	corpus := c.corpus(t, "The cat sat. The cat sat. The dog ran.")

	out, err := c.run(t, "learn", corpus, "--layers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "layer 0: snapshot")
	assert.Contains(t, out, "layer 1: snapshot")

	out, err = c.run(t, "generate", "The")
	require.NoError(t, err)
	assert.Equal(t, "the cat sat <eol>\n", out)

	out, err = c.run(t, "inspect", "cat")
	require.NoError(t, err)
	assert.Contains(t, out, "cat (slot 1")
	assert.Contains(t, out, "d=1")
	assert.Contains(t, out, "sat")

	out, err = c.run(t, "snapshots")
	require.NoError(t, err)
	assert.Contains(t, out, "LAYER")
	assert.Equal(t, 3, strings.Count(out, "\n"), "header and two snapshots")
}

func TestCLI_GenerateFromPhraseLayer(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "learn", c.corpus(t, "The cat sat. The cat sat. The dog ran."), "--layers", "2")
	require.NoError(t, err)

	out, err := c.run(t, "generate", "--layer", "1", "The cat sat")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "the cat sat"), out)

	_, err = c.run(t, "generate", "--layer", "1", "the cow")
	assert.ErrorIs(t, err, predict.ErrUnknownSeed)
}

func TestCLI_GenerateErrors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "generate", "anything")
	assert.Error(t, err, "no snapshot yet")

	_, err = c.run(t, "learn", c.corpus(t, "a b c."))
	require.NoError(t, err)

	_, err = c.run(t, "generate", "zebra")
	assert.ErrorIs(t, err, predict.ErrUnknownSeed)

	_, err = c.run(t, "generate", "zebra", "a")
	assert.ErrorIs(t, err, predict.ErrUnknownSeed)

	_, err = c.run(t, "learn", c.corpus(t, "a."), "--layers", "0")
	assert.Error(t, err)
}
