package engine

import (
	"github.com/tatianab/life-narrator/internal/i18n"
	"github.com/tatianab/life-narrator/internal/models"
	"golang.org/x/text/language"
)

// FallbackDelta is committed when the narrator cannot produce a usable
// turn. It changes nothing and offers a single retry choice.
func FallbackDelta(lang language.Tag) models.NarrativeDelta {
	return models.NarrativeDelta{
		StoryText: i18n.Text(lang, i18n.KeyFateFailed),
		Choices:   []string{i18n.Text(lang, i18n.KeyTryAgain)},
	}
}
