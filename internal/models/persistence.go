package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is written into every encoded snapshot.
const SnapshotVersion = 2

type snapshot struct {
	Version   int            `yaml:"version"`
	Settings  GameSettings   `yaml:"settings"`
	Stats     *savedStats    `yaml:"stats"`
	History   []HistoryEntry `yaml:"history"`
	Turn      *TurnData      `yaml:"current_turn,omitempty"`
	TurnCount int            `yaml:"turn_count"`
}

// savedStats uses pointers so fields absent from older saves can be
// told apart from zero values.
type savedStats struct {
	AgeYears     *int           `yaml:"age_years"`
	DaysLived    *int           `yaml:"days_lived"`
	Health       *int           `yaml:"health"`
	Wealth       *int           `yaml:"wealth"`
	Inventory    *[]string      `yaml:"inventory"`
	Achievements *[]Achievement `yaml:"achievements"`
}

// EncodeSnapshot serializes the whole game state.
func EncodeSnapshot(state GameState) ([]byte, error) {
	stats := state.Stats.Clone()
	if stats.Inventory == nil {
		stats.Inventory = []string{}
	}
	if stats.Achievements == nil {
		stats.Achievements = []Achievement{}
	}
	snap := snapshot{
		Version:  SnapshotVersion,
		Settings: state.Settings,
		Stats: &savedStats{
			AgeYears:     &stats.AgeYears,
			DaysLived:    &stats.DaysLived,
			Health:       &stats.Health,
			Wealth:       &stats.Wealth,
			Inventory:    &stats.Inventory,
			Achievements: &stats.Achievements,
		},
		History:   state.History,
		Turn:      state.CurrentTurn,
		TurnCount: state.TurnCount,
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a saved game and migrates it forward: missing stat
// fields get their defaults and legacy history roles are renamed.
func DecodeSnapshot(data []byte) (GameState, error) {
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return GameState{}, fmt.Errorf("decode snapshot: %w", err)
	}

	state := GameState{
		Settings:    snap.Settings,
		Stats:       migrateStats(snap.Stats),
		History:     make([]HistoryEntry, 0, len(snap.History)),
		CurrentTurn: snap.Turn,
		TurnCount:   max(0, snap.TurnCount),
	}
	for _, entry := range snap.History {
		entry.Role = migrateRole(entry.Role)
		state.History = append(state.History, entry)
	}
	return state, nil
}

func migrateStats(saved *savedStats) CharacterStats {
	stats := CharacterStats{
		Health:       MaxHealth,
		Inventory:    []string{},
		Achievements: []Achievement{},
	}
	if saved == nil {
		return stats
	}
	if saved.DaysLived != nil {
		stats.DaysLived = max(0, *saved.DaysLived)
	}
	if saved.AgeYears != nil {
		stats.AgeYears = max(0, *saved.AgeYears)
	} else {
		stats.AgeYears = stats.DaysLived / DaysPerYear
	}
	if saved.Health != nil {
		stats.Health = min(MaxHealth, max(0, *saved.Health))
	}
	if saved.Wealth != nil {
		stats.Wealth = max(0, *saved.Wealth)
	}
	if saved.Inventory != nil && *saved.Inventory != nil {
		stats.Inventory = *saved.Inventory
	}
	if saved.Achievements != nil && *saved.Achievements != nil {
		stats.Achievements = *saved.Achievements
	}
	return stats
}

func migrateRole(r Role) Role {
	switch r {
	case "user":
		return RolePlayer
	case "model":
		return RoleNarrator
	}
	return r
}
