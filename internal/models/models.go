package models

import (
	"slices"

	"golang.org/x/text/language"
)

// Achievement is a milestone the narrator awarded the character.
type Achievement struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// CharacterStats is the mutable numeric state of the character.
// It is owned by a GameState and changed only through the mutators in stats.go.
type CharacterStats struct {
	AgeYears     int           `yaml:"age_years"`
	DaysLived    int           `yaml:"days_lived"`
	Health       int           `yaml:"health"` // 0-100
	Wealth       int           `yaml:"wealth"`
	Inventory    []string      `yaml:"inventory"`
	Achievements []Achievement `yaml:"achievements"`
}

// Role identifies who authored a history entry.
type Role string

const (
	RolePlayer   Role = "player"
	RoleNarrator Role = "narrator"
)

// HistoryEntry is one line of the turn log.
type HistoryEntry struct {
	Role Role   `yaml:"role"`
	Text string `yaml:"text"`
}

// TurnData is the narrative segment currently on offer and its choices.
type TurnData struct {
	StorySegment string   `yaml:"story_segment"`
	Options      []string `yaml:"options"`
}

// GameState aggregates everything that is saved between sessions.
type GameState struct {
	Settings    GameSettings   `yaml:"settings"`
	Stats       CharacterStats `yaml:"stats"`
	History     []HistoryEntry `yaml:"history"`
	CurrentTurn *TurnData      `yaml:"current_turn,omitempty"`
	TurnCount   int            `yaml:"turn_count"`
}

// IsDead reports whether the character has reached the terminal state.
func (s *GameState) IsDead() bool {
	return s.Stats.Health <= 0
}

// LastEntry returns the most recent history entry, if any.
func (s *GameState) LastEntry() (HistoryEntry, bool) {
	if len(s.History) == 0 {
		return HistoryEntry{}, false
	}
	return s.History[len(s.History)-1], true
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (s GameState) Clone() GameState {
	out := s
	out.Stats = s.Stats.Clone()
	out.History = slices.Clone(s.History)
	if s.CurrentTurn != nil {
		turn := *s.CurrentTurn
		turn.Options = slices.Clone(s.CurrentTurn.Options)
		out.CurrentTurn = &turn
	}
	return out
}

// Clone returns a deep copy of the stats.
func (c CharacterStats) Clone() CharacterStats {
	out := c
	out.Inventory = slices.Clone(c.Inventory)
	out.Achievements = slices.Clone(c.Achievements)
	return out
}

// NarrationRequest is everything the narrative generator is given for one turn.
// Action is nil for the opening scene.
type NarrationRequest struct {
	Settings GameSettings
	Stats    CharacterStats
	History  []HistoryEntry
	Action   *string
	Language language.Tag
}
