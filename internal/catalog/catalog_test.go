package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

func TestLoadElderlyCatalog(t *testing.T) {
	cat, err := Load(VersionElderly)
	require.NoError(t, err)

	assert.Equal(t, VersionElderly, cat.Version())
	assert.Equal(t, 27, cat.Len())

	q, ok := cat.Question(1)
	require.True(t, ok)
	assert.Equal(t, model.KindOpen, q.Kind)
	assert.Equal(t, "q1_actividades_productivas", q.TargetField)
}

func TestLoadDefaultsToElderly(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, VersionElderly, cat.Version())
}

func TestLoadFeedbackCatalog(t *testing.T) {
	cat, err := Load(VersionFeedback)
	require.NoError(t, err)
	assert.Equal(t, 5, cat.Len())
}

func TestLoadUnknownVersion(t *testing.T) {
	_, err := Load("does-not-exist")
	assert.Error(t, err)
}

func TestElderlyLonelinessFollowUp(t *testing.T) {
	cat, err := Load(VersionElderly)
	require.NoError(t, err)

	q, ok := cat.Question(13)
	require.True(t, ok)
	require.NotNil(t, q.FollowUp)
	assert.Contains(t, q.Options, q.FollowUp.Trigger)
	assert.Equal(t, "q13b_circunstancias_soledad", q.FollowUp.TargetField)
}

func TestQuestionStepBounds(t *testing.T) {
	cat, err := Load(VersionElderly)
	require.NoError(t, err)

	_, ok := cat.Question(0)
	assert.False(t, ok)
	_, ok = cat.Question(cat.Len() + 1)
	assert.False(t, ok)
	_, ok = cat.Question(cat.Len())
	assert.True(t, ok)
}

func TestNewRejectsMalformedCatalogs(t *testing.T) {
	open := func(id int, field string) model.Question {
		return model.Question{ID: id, Prompt: "p", Kind: model.KindOpen, TargetField: field}
	}

	tests := []struct {
		name      string
		questions []model.Question
	}{
		{"empty", nil},
		{"non dense ids", []model.Question{open(1, "a"), open(3, "b")}},
		{"duplicate target field", []model.Question{open(1, "a"), open(2, "a")}},
		{"empty prompt", []model.Question{{ID: 1, Kind: model.KindOpen, TargetField: "a"}}},
		{"open with options", []model.Question{{
			ID: 1, Prompt: "p", Kind: model.KindOpen, TargetField: "a", Options: []string{"x"},
		}}},
		{"too many buttons", []model.Question{{
			ID: 1, Prompt: "p", Kind: model.KindButtons, TargetField: "a",
			Options: []string{"a", "b", "c", "d"},
		}}},
		{"single button", []model.Question{{
			ID: 1, Prompt: "p", Kind: model.KindButtons, TargetField: "a",
			Options: []string{"a"},
		}}},
		{"scale without five levels", []model.Question{{
			ID: 1, Prompt: "p", Kind: model.KindScale, TargetField: "a",
			Options: []string{"1", "2", "3", "4"},
		}}},
		{"unknown kind", []model.Question{{
			ID: 1, Prompt: "p", Kind: "mystery", TargetField: "a",
		}}},
		{"follow-up on open question", []model.Question{{
			ID: 1, Prompt: "p", Kind: model.KindOpen, TargetField: "a",
			FollowUp: &model.FollowUpRule{Trigger: "x", Prompt: "p", TargetField: "b"},
		}}},
		{"follow-up trigger not an option", []model.Question{{
			ID: 1, Prompt: "p", Kind: model.KindButtons, TargetField: "a",
			Options:  []string{"Sí", "No"},
			FollowUp: &model.FollowUpRule{Trigger: "Quizás", Prompt: "p", TargetField: "b"},
		}}},
		{"follow-up duplicate target field", []model.Question{{
			ID: 1, Prompt: "p", Kind: model.KindButtons, TargetField: "a",
			Options:  []string{"Sí", "No"},
			FollowUp: &model.FollowUpRule{Trigger: "Sí", Prompt: "p", TargetField: "a"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", tt.questions)
			assert.Error(t, err)
		})
	}
}

func TestIsStartPhrase(t *testing.T) {
	assert.True(t, IsStartPhrase("encuesta"))
	assert.True(t, IsStartPhrase("ENCUESTA"))
	assert.True(t, IsStartPhrase("  Quiero participar en la encuesta "))
	assert.True(t, IsStartPhrase("empezar"))

	assert.False(t, IsStartPhrase("hola"))
	assert.False(t, IsStartPhrase("quiero una encuesta de salud"))
	assert.False(t, IsStartPhrase(""))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "si", Fold("  Sí "))
	assert.Equal(t, "ocasionalmente", Fold("OCASIONALMENTE"))
	assert.Equal(t, "manana", Fold("Mañana"))
	assert.Equal(t, "que", Fold("Qué"))
}
