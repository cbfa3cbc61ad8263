// Package catalog holds presentation metadata for the known plans.
package catalog

import (
	"strings"
	"unicode/utf8"
)

const (
	PlanHome            = "Plan en Casa"
	PlanHomeAndClinic   = "Plan en Casa y Clínica"
	PlanHomeWithCheckup = "Plan en Casa + Chequeo"
)

// highlights lists, per plan name, the phrase to emphasise in each description
// line. Index i applies to description line i.
var highlights = map[string][]string{
	PlanHome: {
		"Médico general a domicilio",
		"Videoconsulta",
		"Indemnización",
	},
	PlanHomeAndClinic: {
		"Consultas en clínica",
		"Medicinas y exámenes",
		"más de 200 clínicas del país.",
	},
	PlanHomeWithCheckup: {
		"Un Chequeo preventivo general",
		"Vacunas",
		"Incluye todos los beneficios del Plan en Casa.",
	},
}

// Segments splits a text around its highlighted phrase.
// When HasBold is false, Before holds the whole text.
type Segments struct {
	Before  string `json:"before"`
	Bold    string `json:"bold,omitempty"`
	After   string `json:"after,omitempty"`
	HasBold bool   `json:"has_bold"`
}

// Highlight finds the first case-insensitive occurrence of bold in text.
// The returned Bold keeps the casing of text.
func Highlight(text, bold string) Segments {
	if strings.TrimSpace(bold) == "" {
		return Segments{Before: text}
	}
	for i := range text {
		if end, ok := foldPrefix(text[i:], bold); ok {
			return Segments{
				Before:  text[:i],
				Bold:    text[i : i+end],
				After:   text[i+end:],
				HasBold: true,
			}
		}
	}
	return Segments{Before: text}
}

// foldPrefix reports whether s starts with prefix under Unicode case folding
// and returns the byte length of the matched part of s.
func foldPrefix(s, prefix string) (int, bool) {
	n := 0
	for prefix != "" {
		if s == "" {
			return 0, false
		}
		r1, w1 := utf8.DecodeRuneInString(s)
		r2, w2 := utf8.DecodeRuneInString(prefix)
		if !strings.EqualFold(string(r1), string(r2)) {
			return 0, false
		}
		s, prefix = s[w1:], prefix[w2:]
		n += w1
	}
	return n, true
}

// PlanHighlights returns the highlight phrases configured for a plan name.
func PlanHighlights(planName string) []string {
	return append([]string(nil), highlights[planName]...)
}

// Describe highlights each description line of a plan with its configured phrase.
// Lines without a configured phrase come back unhighlighted.
func Describe(planName string, description []string) []Segments {
	phrases := PlanHighlights(planName)
	out := make([]Segments, len(description))
	for i, line := range description {
		var phrase string
		if i < len(phrases) {
			phrase = phrases[i]
		}
		out[i] = Highlight(line, phrase)
	}
	return out
}
