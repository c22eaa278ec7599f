package models

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyVeryEasy   Difficulty = "very_easy"
	DifficultyEasy       Difficulty = "easy"
	DifficultyMedium     Difficulty = "medium"
	DifficultyHard       Difficulty = "hard"
	DifficultyVeryHard   Difficulty = "very_hard"
	DifficultyImpossible Difficulty = "impossible"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{
	DifficultyVeryEasy, DifficultyEasy, DifficultyMedium,
	DifficultyHard, DifficultyVeryHard, DifficultyImpossible,
}

// AllowsTrait reports whether a starting trait may be chosen at this difficulty.
func (d Difficulty) AllowsTrait() bool {
	return d != DifficultyVeryHard && d != DifficultyImpossible
}

type Realism string

const (
	RealismHigh   Realism = "high"
	RealismMedium Realism = "medium"
	RealismLow    Realism = "low"
)

var Realisms = []Realism{RealismHigh, RealismMedium, RealismLow}

type Trait string

const (
	TraitIntelligence Trait = "intelligence"
	TraitPrecision    Trait = "precision"
	TraitReligious    Trait = "religious"
	TraitCharismatic  Trait = "charismatic"
	TraitStrong       Trait = "strong"
	TraitNone         Trait = "none"
)

var Traits = []Trait{
	TraitIntelligence, TraitPrecision, TraitReligious,
	TraitCharismatic, TraitStrong, TraitNone,
}

type WorldType string

const (
	WorldHistorical      WorldType = "historical"
	WorldRealistic       WorldType = "realistic"
	WorldFantasy         WorldType = "fantasy"
	WorldPostApocalyptic WorldType = "post_apocalyptic"
	WorldCyberpunk       WorldType = "cyberpunk"
)

var WorldTypes = []WorldType{
	WorldHistorical, WorldRealistic, WorldFantasy,
	WorldPostApocalyptic, WorldCyberpunk,
}

const (
	MinStartingAge = 0
	MaxStartingAge = 20
)

// GameSettings describes the character and world chosen at game creation.
// Build it with NewSettings; it is never modified afterwards.
type GameSettings struct {
	PlayerName  string     `yaml:"player_name"`
	Difficulty  Difficulty `yaml:"difficulty"`
	Realism     Realism    `yaml:"realism"`
	Trait       Trait      `yaml:"trait"`
	Country     string     `yaml:"country"`
	Year        string     `yaml:"year"` // free text, e.g. "2024" or "300 BC"
	WorldType   WorldType  `yaml:"world_type"`
	StartingAge int        `yaml:"starting_age"`
}

// NewSettings validates s and returns it. A trait other than none on the
// two hardest difficulties is rejected rather than corrected.
func NewSettings(s GameSettings) (GameSettings, error) {
	s.PlayerName = strings.TrimSpace(s.PlayerName)
	s.Country = strings.TrimSpace(s.Country)
	s.Year = strings.TrimSpace(s.Year)
	if err := s.Validate(); err != nil {
		return GameSettings{}, err
	}
	return s, nil
}

// Validate checks enum membership, the starting age range and the
// trait/difficulty rule.
func (s GameSettings) Validate() error {
	if s.PlayerName == "" {
		return fmt.Errorf("%w: player name is required", ErrInvalidSettings)
	}
	if !contains(Difficulties, s.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSettings, s.Difficulty)
	}
	if !contains(Realisms, s.Realism) {
		return fmt.Errorf("%w: unknown realism %q", ErrInvalidSettings, s.Realism)
	}
	if !contains(Traits, s.Trait) {
		return fmt.Errorf("%w: unknown trait %q", ErrInvalidSettings, s.Trait)
	}
	if !contains(WorldTypes, s.WorldType) {
		return fmt.Errorf("%w: unknown world type %q", ErrInvalidSettings, s.WorldType)
	}
	if s.StartingAge < MinStartingAge || s.StartingAge > MaxStartingAge {
		return fmt.Errorf("%w: starting age %d outside [%d,%d]", ErrInvalidSettings, s.StartingAge, MinStartingAge, MaxStartingAge)
	}
	if !s.Difficulty.AllowsTrait() && s.Trait != TraitNone {
		return fmt.Errorf("%w: difficulty %s does not allow trait %s", ErrInvalidSettings, s.Difficulty, s.Trait)
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
