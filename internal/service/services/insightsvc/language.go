package insightsvc

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	supportedLanguages = []language.Tag{
		language.English,
		language.Hindi,
		language.Urdu,
		language.Tamil,
		language.Punjabi,
		language.Gujarati,
		language.Kannada,
	}
	languageMatcher = language.NewMatcher(supportedLanguages)
)

// LanguageName returns the English name of the language insights should be
// written in. Unsupported codes fall back to English.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return display.English.Languages().Name(language.English)
	}

	_, index, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		index = 0
	}

	return display.English.Languages().Name(supportedLanguages[index])
}
