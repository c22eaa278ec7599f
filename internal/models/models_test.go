package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() GameSettings {
	return GameSettings{
		PlayerName:  "Leyla",
		Difficulty:  DifficultyMedium,
		Realism:     RealismHigh,
		Trait:       TraitCharismatic,
		Country:     "Anatolia",
		Year:        "300 BC",
		WorldType:   WorldHistorical,
		StartingAge: 15,
	}
}

func TestNewSettings(t *testing.T) {
	s, err := NewSettings(validSettings())
	require.NoError(t, err)
	assert.Equal(t, "Leyla", s.PlayerName)

	tests := []struct {
		name   string
		mutate func(*GameSettings)
	}{
		{"impossible with trait", func(s *GameSettings) { s.Difficulty, s.Trait = DifficultyImpossible, TraitStrong }},
		{"very hard with trait", func(s *GameSettings) { s.Difficulty, s.Trait = DifficultyVeryHard, TraitIntelligence }},
		{"age too high", func(s *GameSettings) { s.StartingAge = 21 }},
		{"negative age", func(s *GameSettings) { s.StartingAge = -1 }},
		{"blank name", func(s *GameSettings) { s.PlayerName = "  " }},
		{"unknown world", func(s *GameSettings) { s.WorldType = "steampunk" }},
		{"unknown difficulty", func(s *GameSettings) { s.Difficulty = "nightmare" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			_, err := NewSettings(s)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestNewSettingsHardestWithoutTrait(t *testing.T) {
	s := validSettings()
	s.Difficulty = DifficultyImpossible
	s.Trait = TraitNone
	got, err := NewSettings(s)
	require.NoError(t, err)
	assert.Equal(t, TraitNone, got.Trait)
}

func TestInitialStats(t *testing.T) {
	s := validSettings()
	stats := InitialStats(s)
	assert.Equal(t, 15, stats.AgeYears)
	assert.Equal(t, 5475, stats.DaysLived)
	assert.Equal(t, 100, stats.Health)
	assert.Equal(t, 50, stats.Wealth)
	assert.Empty(t, stats.Inventory)
	assert.Empty(t, stats.Achievements)

	s.StartingAge = 10
	assert.Equal(t, 0, InitialStats(s).Wealth)
}

func TestGameStateClone(t *testing.T) {
	state := GameState{
		Stats:       CharacterStats{Inventory: []string{"rope"}},
		History:     []HistoryEntry{{Role: RoleNarrator, Text: "dawn"}},
		CurrentTurn: &TurnData{StorySegment: "dawn", Options: []string{"wake"}},
	}
	clone := state.Clone()
	clone.Stats.Inventory[0] = "knife"
	clone.History[0].Text = "dusk"
	clone.CurrentTurn.Options[0] = "sleep"

	assert.Equal(t, "rope", state.Stats.Inventory[0])
	assert.Equal(t, "dawn", state.History[0].Text)
	assert.Equal(t, "wake", state.CurrentTurn.Options[0])
}
