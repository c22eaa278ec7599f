// Package i18n holds the narrator languages and the few strings the turn
// engine itself has to produce in the player's language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyFateFailed = "fate.connection_failed"
	KeyTryAgain   = "fate.try_again"
)

// Supported lists the narrator languages; the first entry is the default.
var Supported = []language.Tag{language.Arabic, language.Turkish, language.English}

var (
	matcher = language.NewMatcher(Supported)
	texts   = mustBuildCatalog()
)

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	entries := map[language.Tag]map[string]string{
		language.Arabic: {
			KeyFateFailed: "حدث خطأ في الاتصال بالقدر... (يرجى المحاولة مرة أخرى)",
			KeyTryAgain:   "حاول مرة أخرى",
		},
		language.Turkish: {
			KeyFateFailed: "Kaderle bağlantı hatası... (Lütfen tekrar deneyin)",
			KeyTryAgain:   "Tekrar dene",
		},
		language.English: {
			KeyFateFailed: "The connection to fate failed... (please try again)",
			KeyTryAgain:   "Try again",
		},
	}
	for tag, msgs := range entries {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Match negotiates the closest supported language for a BCP 47 string.
// Unparseable input falls back to the default language.
func Match(tag string) language.Tag {
	requested, _, err := language.ParseAcceptLanguage(tag)
	if err != nil || len(requested) == 0 {
		return Supported[0]
	}
	_, index, _ := matcher.Match(requested...)
	return Supported[index]
}

// Text returns the localized string for key.
func Text(tag language.Tag, key string) string {
	return message.NewPrinter(Match(tag.String()), message.Catalog(texts)).Sprintf(key)
}

// Name returns the English name of the language, e.g. "Turkish".
func Name(tag language.Tag) string {
	return display.English.Tags().Name(Match(tag.String()))
}
