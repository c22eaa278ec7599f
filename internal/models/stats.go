package models

import (
	"fmt"
	"math"
)

const (
	MaxHealth    = 100
	DaysPerYear  = 365
	startingGold = 50
)

// InitialStats derives the opening stats for a new character.
func InitialStats(s GameSettings) CharacterStats {
	stats := CharacterStats{
		AgeYears:     s.StartingAge,
		DaysLived:    s.StartingAge * DaysPerYear,
		Health:       MaxHealth,
		Inventory:    []string{},
		Achievements: []Achievement{},
	}
	if s.StartingAge > 10 {
		stats.Wealth = startingGold
	}
	return stats
}

// ApplyTimePassed advances the character's life by days and recomputes the age.
func ApplyTimePassed(stats CharacterStats, days int) (CharacterStats, error) {
	if days < 0 {
		return stats, fmt.Errorf("%w: time passed cannot be negative (%d days)", ErrInvalidDelta, days)
	}
	stats.DaysLived = addSaturating(stats.DaysLived, days)
	stats.AgeYears = stats.DaysLived / DaysPerYear
	return stats, nil
}

// ApplyHealthChange adds delta to health, clamped to [0, MaxHealth].
func ApplyHealthChange(stats CharacterStats, delta int) CharacterStats {
	stats.Health = min(MaxHealth, max(0, addSaturating(stats.Health, delta)))
	return stats
}

// ApplyWealthChange adds delta to wealth, never going below zero.
func ApplyWealthChange(stats CharacterStats, delta int) CharacterStats {
	stats.Wealth = max(0, addSaturating(stats.Wealth, delta))
	return stats
}

// ApplyInventoryUpdate appends add in order, then drops every entry whose
// name appears in remove. Removal runs after addition, so an item named in
// both lists does not survive.
func ApplyInventoryUpdate(stats CharacterStats, add, remove []string) CharacterStats {
	inventory := make([]string, 0, len(stats.Inventory)+len(add))
	inventory = append(inventory, stats.Inventory...)
	inventory = append(inventory, add...)

	if len(remove) > 0 {
		drop := make(map[string]struct{}, len(remove))
		for _, name := range remove {
			drop[name] = struct{}{}
		}
		kept := inventory[:0]
		for _, item := range inventory {
			if _, ok := drop[item]; !ok {
				kept = append(kept, item)
			}
		}
		inventory = kept
	}

	stats.Inventory = inventory
	return stats
}

// TryAddAchievement appends a new achievement unless one with the same
// title is already held. It returns the added achievement, or nil when
// nothing changed.
func TryAddAchievement(stats CharacterStats, id, title, description string) (CharacterStats, *Achievement) {
	if stats.HasAchievement(title) {
		return stats, nil
	}
	ach := Achievement{ID: id, Title: title, Description: description}
	achievements := make([]Achievement, 0, len(stats.Achievements)+1)
	achievements = append(achievements, stats.Achievements...)
	stats.Achievements = append(achievements, ach)
	return stats, &ach
}

// HasAchievement reports whether an achievement with this exact title is held.
func (c CharacterStats) HasAchievement(title string) bool {
	for _, a := range c.Achievements {
		if a.Title == title {
			return true
		}
	}
	return false
}

// addSaturating returns a+b, pinned to the int range instead of wrapping.
func addSaturating(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}
