package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelta(t *testing.T) {
	d, err := ParseDelta([]byte(`{
		"story_text": "The **market** is loud.",
		"choices": ["buy bread", "haggle", "leave"],
		"time_passed_days": 2,
		"health_change": -10,
		"wealth_change": -5.4,
		"inventory_updates": {"add": ["bread"]},
		"new_achievement": null
	}`))
	require.NoError(t, err)
	assert.Equal(t, "The **market** is loud.", d.StoryText)
	assert.Len(t, d.Choices, 3)
	assert.Equal(t, 2, d.TimePassedDays)
	assert.Equal(t, -10, d.HealthChange)
	assert.Equal(t, -5, d.WealthChange)
	assert.Equal(t, []string{"bread"}, d.InventoryUpdates.Add)
	assert.Nil(t, d.NewAchievement)
}

func TestParseDeltaOptionalFieldsAbsent(t *testing.T) {
	d, err := ParseDelta([]byte(`{"story_text":"quiet","choices":[],"time_passed_days":0,"health_change":0}`))
	require.NoError(t, err)
	assert.Zero(t, d.WealthChange)
	assert.Nil(t, d.InventoryUpdates)
	assert.Empty(t, d.Choices)
}

func TestParseDeltaMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":           `story`,
		"missing story":      `{"choices":[],"time_passed_days":0,"health_change":0}`,
		"empty story":        `{"story_text":"  ","choices":[],"time_passed_days":0,"health_change":0}`,
		"choices not a list": `{"story_text":"x","choices":"go north","time_passed_days":0,"health_change":0}`,
		"missing choices":    `{"story_text":"x","time_passed_days":0,"health_change":0}`,
		"missing time":       `{"story_text":"x","choices":[],"health_change":0}`,
		"negative time":      `{"story_text":"x","choices":[],"time_passed_days":-3,"health_change":0}`,
		"missing health":     `{"story_text":"x","choices":[],"time_passed_days":1}`,
		"huge health":        `{"story_text":"x","choices":[],"time_passed_days":1,"health_change":1e19}`,
		"huge loss":          `{"story_text":"x","choices":[],"time_passed_days":1,"health_change":-1e19}`,
		"huge wealth":        `{"story_text":"x","choices":[],"time_passed_days":1,"health_change":0,"wealth_change":1e19}`,
		"huge time":          `{"story_text":"x","choices":[],"time_passed_days":5e18,"health_change":0}`,
		"time over lifetime": `{"story_text":"x","choices":[],"time_passed_days":54751,"health_change":0}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDelta([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidDelta)
		})
	}
}

func TestParseDeltaAcceptsBounds(t *testing.T) {
	d, err := ParseDelta([]byte(`{"story_text":"x","choices":[],"time_passed_days":54750,"health_change":-2147483647,"wealth_change":2147483647}`))
	require.NoError(t, err)
	assert.Equal(t, MaxTimePassedDays, d.TimePassedDays)
	assert.Equal(t, -MaxStatChange, d.HealthChange)
	assert.Equal(t, MaxStatChange, d.WealthChange)
}

func TestApplierRejectsOutOfRangeDelta(t *testing.T) {
	start := CharacterStats{DaysLived: 10, Health: 50, Wealth: 50}
	for _, d := range []NarrativeDelta{
		{StoryText: "x", HealthChange: math.MaxInt},
		{StoryText: "x", WealthChange: math.MinInt},
		{StoryText: "x", TimePassedDays: math.MaxInt},
	} {
		next, unlocked, err := fixedApplier().Apply(start, d)
		assert.ErrorIs(t, err, ErrInvalidDelta)
		assert.Nil(t, unlocked)
		assert.Equal(t, start, next)
	}
}

func TestParseDeltaDropsUntitledAchievement(t *testing.T) {
	d, err := ParseDelta([]byte(`{"story_text":"x","choices":[],"time_passed_days":1,"health_change":0,"new_achievement":{"title":" ","description":"d"}}`))
	require.NoError(t, err)
	assert.Nil(t, d.NewAchievement)
}

func fixedApplier() *Applier {
	return &Applier{NewID: func() string { return "ach-1" }}
}

func TestApplierApply(t *testing.T) {
	current := InitialStats(validSettings())
	d := NarrativeDelta{
		StoryText:        "You bargain hard.",
		Choices:          []string{"a", "b", "c"},
		TimePassedDays:   2,
		HealthChange:     -10,
		WealthChange:     -5,
		InventoryUpdates: &InventoryUpdates{Add: []string{"lamp"}},
		NewAchievement:   &AchievementProposal{Title: "Trader", Description: "First deal"},
	}

	next, unlocked, err := fixedApplier().Apply(current, d)
	require.NoError(t, err)
	assert.Equal(t, 90, next.Health)
	assert.Equal(t, 45, next.Wealth)
	assert.Equal(t, 5477, next.DaysLived)
	assert.Equal(t, 15, next.AgeYears)
	assert.Equal(t, []string{"lamp"}, next.Inventory)
	require.NotNil(t, unlocked)
	assert.Equal(t, Achievement{ID: "ach-1", Title: "Trader", Description: "First deal"}, *unlocked)

	// input snapshot is untouched
	assert.Equal(t, 100, current.Health)
	assert.Empty(t, current.Inventory)

	again, unlocked, err := fixedApplier().Apply(next, d)
	require.NoError(t, err)
	assert.Nil(t, unlocked)
	assert.Len(t, again.Achievements, 1)
}

func TestApplierRejectsInvalidDelta(t *testing.T) {
	current := CharacterStats{Health: 40, Wealth: 3, DaysLived: 400, AgeYears: 1}
	next, unlocked, err := fixedApplier().Apply(current, NarrativeDelta{StoryText: "x", TimePassedDays: -1, HealthChange: -50})
	assert.ErrorIs(t, err, ErrInvalidDelta)
	assert.Nil(t, unlocked)
	assert.Equal(t, current, next)
}

func TestNewApplierGeneratesDistinctIDs(t *testing.T) {
	a := NewApplier()
	assert.NotEqual(t, a.NewID(), a.NewID())
}
