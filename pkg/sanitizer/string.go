package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func NormalizeName(name string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(name)
}

func NormalizeCity(city string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(city)
}

func NormalizeAddress(address string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(address)
}

// NormalizeText trims free text and drops control characters but keeps line
// breaks, for descriptions and special requests.
func NormalizeText(text string) string {
	return Pipeline{stripControl, strings.TrimSpace}.Apply(text)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}
