package faq

import "strings"

// Lang is a language tag. Only the canonical tag and the supported targets
// below are valid keys for stored translations.
type Lang string

const (
	LangEN Lang = "en" // canonical source language

	LangHI Lang = "hi"
	LangBN Lang = "bn"
	LangTA Lang = "ta"
	LangTE Lang = "te"
	LangMR Lang = "mr"
	LangFR Lang = "fr"
	LangES Lang = "es"
	LangAR Lang = "ar"
	LangJA Lang = "ja"
)

var supported = []Lang{LangHI, LangBN, LangTA, LangTE, LangMR, LangFR, LangES, LangAR, LangJA}

var languageNames = map[Lang]string{
	LangEN: "English",
	LangHI: "Hindi",
	LangBN: "Bengali",
	LangTA: "Tamil",
	LangTE: "Telugu",
	LangMR: "Marathi",
	LangFR: "French",
	LangES: "Spanish",
	LangAR: "Arabic",
	LangJA: "Japanese",
}

// SupportedLanguages returns the translation targets in their fixed order.
func SupportedLanguages() []Lang {
	out := make([]Lang, len(supported))
	copy(out, supported)
	return out
}

// AllLanguages returns the canonical tag followed by every target.
func AllLanguages() []Lang {
	return append([]Lang{LangEN}, supported...)
}

// IsSupported reports whether l is a translation target (en is not).
func IsSupported(l Lang) bool {
	for _, s := range supported {
		if s == l {
			return true
		}
	}
	return false
}

// ParseLang normalises a raw tag. Empty or unknown tags resolve to LangEN
// with ok=false.
func ParseLang(raw string) (Lang, bool) {
	l := Lang(strings.ToLower(strings.TrimSpace(raw)))
	if l == LangEN {
		return LangEN, true
	}
	if IsSupported(l) {
		return l, true
	}
	return LangEN, false
}

// Name returns the English name of the language, or the tag itself.
func (l Lang) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return string(l)
}

func (l Lang) String() string { return string(l) }
