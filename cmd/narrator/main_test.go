package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/life-narrator/internal/models"
	"github.com/tatianab/life-narrator/internal/store"
)

func seedSave(t *testing.T, dir string) models.GameState {
	t.Helper()
	settings, err := models.NewSettings(models.GameSettings{
		PlayerName: "Aylin",
		Difficulty: models.DifficultyEasy,
		Realism:    models.RealismMedium,
		Trait:      models.TraitPrecision,
		Country:    "Turkey",
		Year:       "1985",
		WorldType:  models.WorldHistorical,
	})
	require.NoError(t, err)
	state := models.GameState{
		Settings:  settings,
		Stats:     models.InitialStats(settings),
		TurnCount: 3,
	}
	state.Stats.Inventory = []string{"bread"}
	require.NoError(t, store.NewFile(dir).Save(context.Background(), state))
	return state
}

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestStatusWithoutSave(t *testing.T) {
	out := run(t, "", "status", "--store", "file", "--save-dir", t.TempDir())
	assert.Contains(t, out, "No saved game.")
}

func TestStatusPrintsSave(t *testing.T) {
	dir := t.TempDir()
	seedSave(t, dir)

	out := run(t, "", "status", "--store", "file", "--save-dir", dir)
	assert.Contains(t, out, "Aylin")
	assert.Contains(t, out, "Turn 3")
	assert.Contains(t, out, "Health: 100%")
	assert.Contains(t, out, "Inventory: bread")
	assert.NotContains(t, out, "Final score")
}

func TestResetAborts(t *testing.T) {
	dir := t.TempDir()
	seedSave(t, dir)

	out := run(t, "n\n", "reset", "--store", "file", "--save-dir", dir)
	assert.Contains(t, out, "Aborted.")

	ok, err := store.NewFile(dir).HasSave(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetConfirmed(t *testing.T) {
	dir := t.TempDir()
	seedSave(t, dir)

	out := run(t, "y\n", "reset", "--store", "file", "--save-dir", dir)
	assert.Contains(t, out, "Saved game deleted.")

	ok, err := store.NewFile(dir).HasSave(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetYesFlagOnSQLite(t *testing.T) {
	path := t.TempDir() + "/narrator.db"
	db, err := store.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(context.Background(), models.GameState{TurnCount: 1}))
	require.NoError(t, db.Close())

	out := run(t, "", "reset", "--yes", "--store", "sqlite", "--sqlite-path", path)
	assert.Contains(t, out, "Saved game deleted.")
}

func TestSettingsFromFlagsRejectsTraitOnHardest(t *testing.T) {
	cmd := newPlayCmd(&app{})
	require.NoError(t, cmd.Flags().Parse([]string{"--name", "Ali", "--difficulty", "impossible", "--trait", "strong"}))
	_, err := settingsFromFlags(cmd)
	assert.ErrorIs(t, err, models.ErrInvalidSettings)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("YES\n"), &out))
	assert.False(t, confirm(strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "[y/N]")
}
