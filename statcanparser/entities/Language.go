package entities

import (
	"fmt"
	"strings"
)

// Language selects which localized edition of a table is requested.
// The zero value behaves as English.
type Language string

const (
	English Language = "eng"
	French  Language = "fra"
)

// Code returns the provider's language code used in download URLs and cache paths.
func (l Language) Code() string {
	if l == French {
		return "fra"
	}
	return "eng"
}

// Delimiter returns the CSV field delimiter Statistics Canada uses for this
// language variant. French tables are published with semicolons.
func (l Language) Delimiter() rune {
	if l == French {
		return ';'
	}
	return ','
}

// ParseLanguage converts user or config input into a Language.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "eng", "en", "english":
		return English, nil
	case "fra", "fr", "french", "français", "francais":
		return French, nil
	}
	return English, fmt.Errorf("unknown language %q, expected eng or fra", s)
}
