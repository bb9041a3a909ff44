// Package catalog holds the ordered, versioned question definitions a
// survey runs against. Catalogs are validated once at load time so a
// malformed definition fails at startup, not mid-conversation.
package catalog

import (
	"fmt"
	"strings"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

const (
	maxButtonOptions = 3
	maxListOptions   = 10
	scaleLevels      = 5
)

// Catalog is an immutable, validated, ordered question list.
type Catalog struct {
	version   string
	questions []model.Question
}

// New validates the question list and returns a catalog. Ids must be dense
// and contiguous from 1, target fields unique, and option counts must fit
// the question kind.
func New(version string, questions []model.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog %q: no questions", version)
	}
	fields := make(map[string]bool)
	for i, q := range questions {
		if q.ID != i+1 {
			return nil, fmt.Errorf("catalog %q: question at position %d has id %d, want %d", version, i, q.ID, i+1)
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("catalog %q: question %d has empty prompt", version, q.ID)
		}
		if strings.TrimSpace(q.TargetField) == "" {
			return nil, fmt.Errorf("catalog %q: question %d has empty target field", version, q.ID)
		}
		if fields[q.TargetField] {
			return nil, fmt.Errorf("catalog %q: duplicate target field %q", version, q.TargetField)
		}
		fields[q.TargetField] = true

		if err := validateKind(&q); err != nil {
			return nil, fmt.Errorf("catalog %q: question %d: %w", version, q.ID, err)
		}

		if fu := q.FollowUp; fu != nil {
			if !q.IsClosed() {
				return nil, fmt.Errorf("catalog %q: question %d: follow-up on open question", version, q.ID)
			}
			if !containsOption(q.Options, fu.Trigger) {
				return nil, fmt.Errorf("catalog %q: question %d: follow-up trigger %q is not an option", version, q.ID, fu.Trigger)
			}
			if strings.TrimSpace(fu.TargetField) == "" || strings.TrimSpace(fu.Prompt) == "" {
				return nil, fmt.Errorf("catalog %q: question %d: incomplete follow-up", version, q.ID)
			}
			if fields[fu.TargetField] {
				return nil, fmt.Errorf("catalog %q: duplicate target field %q", version, fu.TargetField)
			}
			fields[fu.TargetField] = true
		}
	}
	return &Catalog{version: version, questions: questions}, nil
}

func validateKind(q *model.Question) error {
	switch q.Kind {
	case model.KindOpen:
		if len(q.Options) != 0 {
			return fmt.Errorf("open question carries %d options", len(q.Options))
		}
	case model.KindButtons:
		if len(q.Options) < 2 || len(q.Options) > maxButtonOptions {
			return fmt.Errorf("buttons question has %d options, want 2..%d", len(q.Options), maxButtonOptions)
		}
	case model.KindList:
		if len(q.Options) < 2 || len(q.Options) > maxListOptions {
			return fmt.Errorf("list question has %d options, want 2..%d", len(q.Options), maxListOptions)
		}
	case model.KindScale:
		if len(q.Options) != scaleLevels {
			return fmt.Errorf("scale question has %d options, want %d", len(q.Options), scaleLevels)
		}
	default:
		return fmt.Errorf("unknown kind %q", q.Kind)
	}
	return nil
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// Load returns the catalog registered under the given version name.
func Load(version string) (*Catalog, error) {
	switch version {
	case VersionElderly, "":
		return New(VersionElderly, elderlyQuestions())
	case VersionFeedback:
		return New(VersionFeedback, feedbackQuestions())
	default:
		return nil, fmt.Errorf("unknown catalog version %q", version)
	}
}

// Version returns the catalog's version name.
func (c *Catalog) Version() string { return c.version }

// Len returns the number of base questions (follow-ups excluded).
func (c *Catalog) Len() int { return len(c.questions) }

// Question returns the question for a 1-based step index.
func (c *Catalog) Question(step int) (*model.Question, bool) {
	if step < 1 || step > len(c.questions) {
		return nil, false
	}
	return &c.questions[step-1], true
}

// Questions returns the full ordered list.
func (c *Catalog) Questions() []model.Question { return c.questions }

// Phrases a respondent can send to begin the survey.
var startPhrases = []string{
	"quiero participar en la encuesta",
	"participar en la encuesta",
	"encuesta",
	"quiero comenzar",
	"comenzar encuesta",
	"empezar",
	"iniciar",
}

// IsStartPhrase reports whether the text is one of the recognized phrases
// that begin a survey. Matching ignores case, accents and surrounding
// whitespace.
func IsStartPhrase(text string) bool {
	folded := Fold(text)
	for _, p := range startPhrases {
		if folded == Fold(p) {
			return true
		}
	}
	return false
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u",
	"ñ", "n", "Ñ", "n",
)

// Fold lowercases, strips Spanish accents and trims whitespace so that
// "Sí" and "si" compare equal.
func Fold(s string) string {
	return strings.ToLower(accentFolder.Replace(strings.TrimSpace(s)))
}
