package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// InventoryUpdates lists item names gained and lost during a turn.
type InventoryUpdates struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// AchievementProposal is an achievement suggested by the narrator.
type AchievementProposal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NarrativeDelta is the structured outcome of one narrated turn.
type NarrativeDelta struct {
	StoryText        string               `json:"story_text"`
	Choices          []string             `json:"choices"`
	TimePassedDays   int                  `json:"time_passed_days"`
	HealthChange     int                  `json:"health_change"`
	WealthChange     int                  `json:"wealth_change,omitempty"`
	InventoryUpdates *InventoryUpdates    `json:"inventory_updates,omitempty"`
	NewAchievement   *AchievementProposal `json:"new_achievement,omitempty"`
}

const (
	// MaxTimePassedDays bounds a single time step to one long lifetime.
	MaxTimePassedDays = 150 * DaysPerYear
	// MaxStatChange bounds health and wealth changes.
	MaxStatChange = math.MaxInt32
)

// wireDelta mirrors the generator's JSON so that required fields can be
// told apart from zero values.
type wireDelta struct {
	StoryText        *string              `json:"story_text"`
	Choices          *[]string            `json:"choices"`
	TimePassedDays   *float64             `json:"time_passed_days"`
	HealthChange     *float64             `json:"health_change"`
	WealthChange     *float64             `json:"wealth_change"`
	InventoryUpdates *InventoryUpdates    `json:"inventory_updates"`
	NewAchievement   *AchievementProposal `json:"new_achievement"`
}

// ParseDelta decodes a generator response. Missing required fields, a
// non-list choices value, a negative time step and numbers out of range all
// yield ErrInvalidDelta.
func ParseDelta(data []byte) (NarrativeDelta, error) {
	var w wireDelta
	if err := json.Unmarshal(data, &w); err != nil {
		return NarrativeDelta{}, fmt.Errorf("%w: %v", ErrInvalidDelta, err)
	}
	if w.StoryText == nil {
		return NarrativeDelta{}, fmt.Errorf("%w: story_text is missing", ErrInvalidDelta)
	}
	if w.Choices == nil {
		return NarrativeDelta{}, fmt.Errorf("%w: choices is missing", ErrInvalidDelta)
	}
	if w.TimePassedDays == nil {
		return NarrativeDelta{}, fmt.Errorf("%w: time_passed_days is missing", ErrInvalidDelta)
	}
	if w.HealthChange == nil {
		return NarrativeDelta{}, fmt.Errorf("%w: health_change is missing", ErrInvalidDelta)
	}

	timePassed, err := roundInt("time_passed_days", *w.TimePassedDays, MaxTimePassedDays)
	if err != nil {
		return NarrativeDelta{}, err
	}
	health, err := roundInt("health_change", *w.HealthChange, MaxStatChange)
	if err != nil {
		return NarrativeDelta{}, err
	}
	d := NarrativeDelta{
		StoryText:        *w.StoryText,
		Choices:          *w.Choices,
		TimePassedDays:   timePassed,
		HealthChange:     health,
		InventoryUpdates: w.InventoryUpdates,
		NewAchievement:   w.NewAchievement,
	}
	if w.WealthChange != nil {
		if d.WealthChange, err = roundInt("wealth_change", *w.WealthChange, MaxStatChange); err != nil {
			return NarrativeDelta{}, err
		}
	}
	// an untitled achievement cannot be deduplicated, so it is dropped
	if d.NewAchievement != nil && strings.TrimSpace(d.NewAchievement.Title) == "" {
		d.NewAchievement = nil
	}
	if err := d.Validate(); err != nil {
		return NarrativeDelta{}, err
	}
	return d, nil
}

// Validate checks the rules a delta must satisfy before it can be applied.
func (d NarrativeDelta) Validate() error {
	if strings.TrimSpace(d.StoryText) == "" {
		return fmt.Errorf("%w: story_text is empty", ErrInvalidDelta)
	}
	if d.TimePassedDays < 0 {
		return fmt.Errorf("%w: time_passed_days is negative (%d)", ErrInvalidDelta, d.TimePassedDays)
	}
	if d.TimePassedDays > MaxTimePassedDays {
		return fmt.Errorf("%w: time_passed_days %d exceeds %d", ErrInvalidDelta, d.TimePassedDays, MaxTimePassedDays)
	}
	if !withinStatChange(d.HealthChange) || !withinStatChange(d.WealthChange) {
		return fmt.Errorf("%w: stat change out of range", ErrInvalidDelta)
	}
	return nil
}

// roundInt rounds a JSON number to the nearest int, rejecting magnitudes
// above limit before the conversion can wrap.
func roundInt(field string, v float64, limit int) (int, error) {
	r := math.Round(v)
	if math.IsNaN(r) || math.Abs(r) > float64(limit) {
		return 0, fmt.Errorf("%w: %s %g out of range", ErrInvalidDelta, field, v)
	}
	return int(r), nil
}

func withinStatChange(v int) bool {
	return v >= -MaxStatChange && v <= MaxStatChange
}

// Applier turns a narrative delta into the next stats. It performs no I/O;
// the only outside input is the id source for new achievements.
type Applier struct {
	NewID func() string
}

// NewApplier returns an Applier that tags achievements with time-ordered UUIDs.
func NewApplier() *Applier {
	return &Applier{NewID: newAchievementID}
}

func newAchievementID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Apply returns the stats after d, plus the achievement it unlocked if any.
// On error the input stats are untouched and must be kept.
func (a *Applier) Apply(current CharacterStats, d NarrativeDelta) (CharacterStats, *Achievement, error) {
	if err := d.Validate(); err != nil {
		return current, nil, err
	}

	next, err := ApplyTimePassed(current.Clone(), d.TimePassedDays)
	if err != nil {
		return current, nil, err
	}
	next = ApplyHealthChange(next, d.HealthChange)
	next = ApplyWealthChange(next, d.WealthChange)
	if u := d.InventoryUpdates; u != nil {
		next = ApplyInventoryUpdate(next, u.Add, u.Remove)
	}

	var unlocked *Achievement
	if p := d.NewAchievement; p != nil && p.Title != "" {
		newID := a.NewID
		if newID == nil {
			newID = newAchievementID
		}
		if !next.HasAchievement(p.Title) {
			next, unlocked = TryAddAchievement(next, newID(), p.Title, p.Description)
		}
	}
	return next, unlocked, nil
}
