package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language pairs a normalized BCP 47 code with its English display name.
// Prompts identify languages by name ("German"), catalogs by code ("de").
type Language struct {
	Code string
	Name string
}

// Resolve parses a language code from the command line or a catalog and
// returns its canonical form. Region and script subtags are preserved, so
// "zh-Hans" and "pt-BR" resolve distinctly.
func Resolve(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Language{}, fmt.Errorf("language code is empty")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Language{}, fmt.Errorf("unrecognized language code %q: %w", code, err)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		name = code
	}
	return Language{Code: tag.String(), Name: name}, nil
}

// Name returns the English display name for a code, falling back to the raw
// code when it cannot be parsed. Used for log output where failing would be
// worse than an ugly label.
func Name(code string) string {
	lang, err := Resolve(code)
	if err != nil {
		return code
	}
	return lang.Name
}
