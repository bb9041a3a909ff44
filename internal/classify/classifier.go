// Package classify maps free-form respondent text (typed or transcribed)
// onto the canonical option set of a question. It is a pure function:
// no state, no randomness, same input always yields the same output.
package classify

import (
	"strings"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// semanticClass groups paraphrase keywords with the marker words that
// identify which option the class maps onto.
type semanticClass struct {
	keywords []string
	markers  []string
}

// Evaluation order matters: negative first, so "no me gustó" never falls
// into the affirmative bucket via an embedded positive word.
var semanticClasses = []semanticClass{
	{ // negative
		keywords: []string{"no", "nunca", "jamas", "malo", "mala", "para nada", "no me gusto", "negativo"},
		markers:  []string{"no", "mala", "nunca", "nada"},
	},
	{ // intermediate
		keywords: []string{"a veces", "ocasionalmente", "mas o menos", "regular", "quizas", "tal vez", "depende", "intermedio"},
		markers:  []string{"ocasional", "a veces", "regular", "quizas"},
	},
	{ // affirmative
		keywords: []string{"si", "claro", "por supuesto", "excelente", "genial", "perfecto", "bueno", "buena", "frecuentemente", "siempre", "positivo"},
		markers:  []string{"si", "buena", "frecuentemente", "muy probable", "diariamente"},
	},
}

// Per-level vocabularies for 5-level scale questions, worst to best.
// The sets are disjoint by construction so a first-match scan cannot tie.
var scaleVocab = [5][]string{
	{"nada", "ninguno", "ninguna", "minimo"},
	{"poco", "poca", "bajo", "limitado"},
	{"moderado", "moderada", "regular", "normal"},
	{"mucho", "mucha", "alto", "bastante"},
	{"extremo", "extrema", "maximo", "completo"},
}

var scaleNumberWords = [5][]string{
	{"1", "uno", "una", "primero", "primera"},
	{"2", "dos", "segundo", "segunda"},
	{"3", "tres", "tercero", "tercera"},
	{"4", "cuatro", "cuarto", "cuarta"},
	{"5", "cinco", "quinto", "quinta"},
}

// Classify normalizes raw input against a question definition. For open
// questions it returns the trimmed text. For closed questions it returns
// the canonical option and ok=true, or ok=false when no rule matched
// (the unparsed outcome — the caller re-asks instead of storing free text
// into a closed field).
func Classify(raw string, q *model.Question) (string, bool) {
	switch q.Kind {
	case model.KindOpen:
		return strings.TrimSpace(raw), true
	case model.KindScale:
		return classifyScale(raw, q)
	case model.KindButtons, model.KindList:
		return classifyChoice(raw, q)
	}
	return "", false
}

func classifyChoice(raw string, q *model.Question) (string, bool) {
	folded := catalog.Fold(raw)
	if folded == "" {
		return "", false
	}

	// (a) exact match, ignoring case and accents
	for _, opt := range q.Options {
		if folded == catalog.Fold(opt) {
			return opt, true
		}
	}

	// (b) substring in either direction
	for _, opt := range q.Options {
		fopt := catalog.Fold(opt)
		if strings.Contains(folded, fopt) {
			return opt, true
		}
		if len(folded) >= 3 && strings.Contains(fopt, folded) {
			return opt, true
		}
	}

	// (c) semantic keyword sets mapped onto the option carrying the
	// corresponding marker word
	tokens := tokenize(folded)
	for _, class := range semanticClasses {
		if !matchesKeywords(folded, tokens, class.keywords) {
			continue
		}
		if opt, ok := optionForMarkers(q.Options, class.markers); ok {
			return opt, true
		}
	}

	return "", false
}

func classifyScale(raw string, q *model.Question) (string, bool) {
	folded := catalog.Fold(raw)
	tokens := tokenize(folded)
	if len(tokens) == 0 {
		return "", false
	}

	// (a) literal digit or number word
	for level := 0; level < 5; level++ {
		for _, w := range scaleNumberWords[level] {
			if hasToken(tokens, w) {
				return q.Options[level], true
			}
		}
	}

	// (b) fixed per-level vocabulary
	for level := 0; level < 5; level++ {
		for _, w := range scaleVocab[level] {
			if hasToken(tokens, w) {
				return q.Options[level], true
			}
		}
	}

	// (c) token overlap with the descriptive part of the option label,
	// i.e. the words after the "N - " separator
	for level, opt := range q.Options {
		label := opt
		if _, rest, found := strings.Cut(opt, "-"); found {
			label = rest
		}
		for _, w := range tokenize(catalog.Fold(label)) {
			if hasToken(tokens, w) {
				return q.Options[level], true
			}
		}
	}

	return "", false
}

// matchesKeywords checks single-word keywords against whole tokens and
// multi-word keywords as substrings, so "si" cannot fire inside
// "ocasionalmente".
func matchesKeywords(folded string, tokens []string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(folded, kw) {
				return true
			}
		} else if hasToken(tokens, kw) {
			return true
		}
	}
	return false
}

// optionForMarkers returns the first option containing a marker word.
// Short markers ("sí", "no") must appear as whole tokens; longer ones may
// match inside a word so "ocasional" finds "Ocasionalmente". Options that
// carry a negation are skipped for non-negative markers, which keeps
// "Muy probable" apart from "No muy probable".
func optionForMarkers(options []string, markers []string) (string, bool) {
	for _, marker := range markers {
		for _, opt := range options {
			fopt := catalog.Fold(opt)
			optTokens := tokenize(fopt)
			if len(marker) <= 2 {
				if !hasToken(optTokens, marker) {
					continue
				}
			} else if !strings.Contains(fopt, marker) {
				continue
			}
			if marker != "no" && hasToken(optTokens, "no") {
				continue
			}
			return opt, true
		}
	}
	return "", false
}

func tokenize(folded string) []string {
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

func hasToken(tokens []string, w string) bool {
	for _, t := range tokens {
		if t == w {
			return true
		}
	}
	return false
}
