// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Occurrence records one source location where a message was extracted.
type Occurrence struct {
	// File is the path of the source file, relative to the project root.
	File string `json:"file" yaml:"file"`

	// Line is the 1-based line number of the marker.
	Line int `json:"line" yaml:"line"`
}

// Message is one translatable string found by extraction.
type Message struct {
	// ID is the singular message text, used as the message identifier.
	ID string `json:"id" yaml:"id"`

	// Plural is the plural form for plural-aware markers, empty otherwise.
	Plural string `json:"plural,omitempty" yaml:"plural,omitempty"`

	// Occurrences lists every source location of the message, in
	// extraction order.
	Occurrences []Occurrence `json:"occurrences" yaml:"occurrences"`
}

// TranslationState classifies a catalog entry for statistics.
type TranslationState string

const (
	StateTranslated   TranslationState = "translated"
	StateFuzzy        TranslationState = "fuzzy"
	StateUntranslated TranslationState = "untranslated"
)

// LocaleStats summarizes the translation state of one per-language catalog.
type LocaleStats struct {
	// Locale is the language tag of the catalog (e.g. "es", "pt-BR").
	Locale string `json:"locale" yaml:"locale"`

	Translated   int `json:"translated" yaml:"translated"`
	Fuzzy        int `json:"fuzzy" yaml:"fuzzy"`
	Untranslated int `json:"untranslated" yaml:"untranslated"`
}

// Total returns the number of entries in the catalog.
func (s LocaleStats) Total() int {
	return s.Translated + s.Fuzzy + s.Untranslated
}
