package model

// QuestionKind defines how a question is asked and how answers are parsed
type QuestionKind string

const (
	KindOpen    QuestionKind = "open"      // Free text, stored verbatim
	KindButtons QuestionKind = "buttons"   // Single choice, max 3 quick-reply buttons
	KindList    QuestionKind = "list"      // Single choice, max 10 list rows
	KindScale   QuestionKind = "scale_1_5" // 5 ordered levels, worst to best
)

// FollowUpRule declares an optional extra question that is inserted only
// when the stored canonical answer for the parent question equals Trigger.
type FollowUpRule struct {
	Trigger     string `json:"trigger"`
	Prompt      string `json:"prompt"`
	TargetField string `json:"targetField"`
}

// Question is one step of a survey catalog. ID doubles as the step index:
// ids are dense and contiguous starting at 1.
type Question struct {
	ID          int           `json:"id"`
	Prompt      string        `json:"prompt"`
	Kind        QuestionKind  `json:"kind"`
	Options     []string      `json:"options,omitempty"`
	TargetField string        `json:"targetField"`
	FollowUp    *FollowUpRule `json:"followUp,omitempty"`
}

// IsClosed reports whether the question only accepts a canonical option.
func (q *Question) IsClosed() bool {
	return q.Kind == KindButtons || q.Kind == KindList || q.Kind == KindScale
}
