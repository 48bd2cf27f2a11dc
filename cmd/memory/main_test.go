package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lox/memory/internal/memory"
	"github.com/lox/memory/internal/scoreboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes an HCL config into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newSave(t *testing.T, seed int64) string {
	t.Helper()
	var out bytes.Buffer
	cmd := &NewCmd{
		ConfigFlags: ConfigFlags{Config: filepath.Join(t.TempDir(), "missing.hcl")},
		Seed:        &seed,
		P1:          "Ada",
		P2:          "Grace",
		Output:      filepath.Join(t.TempDir(), "game"),
		Out:         &out,
	}
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "game.mem")
	return cmd.Output + memory.SaveExt
}

func TestNewWritesLoadableSave(t *testing.T) {
	path := newSave(t, 42)

	var out bytes.Buffer
	require.NoError(t, CheckCmd{File: path, Out: &out}.Run())

	text := out.String()
	assert.Contains(t, text, path+": ok")
	assert.Contains(t, text, "Ada: 0 []")
	assert.Contains(t, text, "Grace: 0 []")
	assert.Contains(t, text, "pairs left: 18")
	assert.NotContains(t, text, "game over")
}

func TestNewIsDeterministicWithSeed(t *testing.T) {
	first, err := os.ReadFile(newSave(t, 7))
	require.NoError(t, err)
	second, err := os.ReadFile(newSave(t, 7))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestCheckTOML(t *testing.T) {
	path := newSave(t, 42)

	var out bytes.Buffer
	require.NoError(t, CheckCmd{File: path, TOML: true, Out: &out}.Run())

	var snap memory.Snapshot
	_, err := toml.Decode(out.String(), &snap)
	require.NoError(t, err)

	require.Len(t, snap.Cards, memory.DeckSize)
	for _, c := range snap.Cards {
		require.NotNil(t, c.ID, "card %d", c.Index)
	}
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "Ada", snap.Players[0].Name)
	assert.False(t, snap.GameOver)
}

func TestCheckRejectsMalformedSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mem")
	require.NoError(t, os.WriteFile(path, []byte("not a save\n"), 0644))

	err := CheckCmd{File: path, Out: &bytes.Buffer{}}.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, memory.ErrMalformedSave)
	assert.Contains(t, err.Error(), path)
}

func TestCheckMissingFile(t *testing.T) {
	err := CheckCmd{File: filepath.Join(t.TempDir(), "nope.mem"), Out: &bytes.Buffer{}}.Run()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScoresListsRecentGames(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scores.db")
	store, err := scoreboard.Open(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	finished := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, scoreboard.Result{
		GameID: "aaaaaaaa-1111", PlayerOne: "Ada", PlayerTwo: "Grace",
		ScoreOne: 10, ScoreTwo: 8, Winner: "Ada", FinishedAt: finished,
	}))
	require.NoError(t, store.Record(ctx, scoreboard.Result{
		GameID: "bbbbbbbb-2222", PlayerOne: "Ada", PlayerTwo: "Grace",
		ScoreOne: 9, ScoreTwo: 9, FinishedAt: finished.Add(time.Hour),
	}))
	require.NoError(t, store.Record(ctx, scoreboard.Result{
		GameID: "cccccccc-3333", PlayerOne: "Lin", PlayerTwo: "Ada",
		ScoreOne: 9, ScoreTwo: 9, Winner: memory.NoOne, FinishedAt: finished.Add(-time.Hour),
	}))
	require.NoError(t, store.Close())

	cfgPath := writeConfig(t, "storage {\n  scoreboard_path = \""+filepath.ToSlash(dbPath)+"\"\n}\n")

	var out bytes.Buffer
	require.NoError(t, ScoresCmd{ConfigFlags: ConfigFlags{Config: cfgPath}, Limit: 10, Out: &out}.Run())

	text := out.String()
	assert.Contains(t, text, "aaaaaaaa")
	assert.NotContains(t, text, "aaaaaaaa-1111")
	assert.Contains(t, text, "10-8")
	assert.Contains(t, text, "9-9")
	assert.Equal(t, 2, strings.Count(text, "draw"))
	assert.NotContains(t, text, memory.NoOne)
	assert.Less(t, bytes.Index(out.Bytes(), []byte("bbbbbbbb")), bytes.Index(out.Bytes(), []byte("aaaaaaaa")),
		"newest game first")
}

func TestScoresEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scores.db")
	cfgPath := writeConfig(t, "storage {\n  scoreboard_path = \""+filepath.ToSlash(dbPath)+"\"\n}\n")

	var out bytes.Buffer
	require.NoError(t, ScoresCmd{ConfigFlags: ConfigFlags{Config: cfgPath}, Limit: 5, Out: &out}.Run())
	assert.Contains(t, out.String(), "No finished games yet")
}

func TestScoresRejectsBadLimit(t *testing.T) {
	cfgPath := writeConfig(t, "")
	err := ScoresCmd{ConfigFlags: ConfigFlags{Config: cfgPath}, Limit: 0}.Run()
	assert.Error(t, err)
}

func TestConfigErrorsAreWrapped(t *testing.T) {
	cfgPath := writeConfig(t, "log {\n  level = \"loud\"\n}\n")
	err := (&NewCmd{ConfigFlags: ConfigFlags{Config: cfgPath}, Output: filepath.Join(t.TempDir(), "x")}).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
