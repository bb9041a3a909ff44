package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	// SessionArchived marks a finished run cleared by an operator reset so
	// the respondent can start over. Archived runs keep their answers.
	SessionArchived SessionStatus = "archived"
)

// SurveySession is one respondent's run through the question catalog.
// At most one active session may exist per respondent; the store enforces
// this with a partial unique index.
type SurveySession struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	RespondentID string            `json:"respondentId" bson:"respondentId"`
	Catalog      string            `json:"catalog" bson:"catalog"`
	Status       SessionStatus     `json:"status" bson:"status"`
	CurrentStep  int               `json:"currentStep" bson:"currentStep"`
	Answers      map[string]string `json:"answers" bson:"answers"`

	// Follow-up state: when InFollowUp is set the next inbound answer is
	// stored against the follow-up of question FollowUpOf instead of
	// advancing past it.
	InFollowUp bool `json:"inFollowUp,omitempty" bson:"inFollowUp"`
	FollowUpOf int  `json:"followUpOf,omitempty" bson:"followUpOf"`

	FinalSentiment string `json:"finalSentiment,omitempty" bson:"finalSentiment,omitempty"`
	FinalSummary   string `json:"finalSummary,omitempty" bson:"finalSummary,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Answer returns the stored value for a target field, if any.
func (s *SurveySession) Answer(field string) (string, bool) {
	if s.Answers == nil {
		return "", false
	}
	v, ok := s.Answers[field]
	return v, ok
}
