package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	assert.Equal(t, language.Arabic, Match("ar"))
	assert.Equal(t, language.Turkish, Match("tr-TR"))
	assert.Equal(t, language.English, Match("en-GB"))
	assert.Equal(t, language.Arabic, Match(""))
	assert.Equal(t, language.Arabic, Match("!!"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "Tekrar dene", Text(language.Turkish, KeyTryAgain))
	assert.Equal(t, "حاول مرة أخرى", Text(language.Arabic, KeyTryAgain))
	assert.Equal(t, "Try again", Text(language.English, KeyTryAgain))
	assert.Contains(t, Text(language.Turkish, KeyFateFailed), "Kader")
}

func TestName(t *testing.T) {
	assert.Equal(t, "Turkish", Name(language.Turkish))
	assert.Equal(t, "Arabic", Name(language.Arabic))
}
