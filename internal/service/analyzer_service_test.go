package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// scriptedGenerator returns its responses in order, one per call.
type scriptedGenerator struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	i := g.calls
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", fmt.Errorf("unexpected call %d", i)
}

func completedSession(t *testing.T, cat *catalog.Catalog) *model.SurveySession {
	t.Helper()
	answers := map[string]string{}
	for _, q := range cat.Questions() {
		answers[q.TargetField] = "respuesta de " + q.TargetField
	}
	return &model.SurveySession{
		ID:           "session-1",
		RespondentID: respondent,
		Catalog:      cat.Version(),
		Status:       model.SessionCompleted,
		CurrentStep:  cat.Len() + 1,
		Answers:      answers,
	}
}

func newAnalyzerFixture(t *testing.T, gen *scriptedGenerator) (*AnalyzerService, *memSessionRepo, *model.SurveySession, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Load(catalog.VersionFeedback)
	require.NoError(t, err)

	repo := newMemSessionRepo()
	session := completedSession(t, cat)
	repo.sessions[session.ID] = session

	svc := NewAnalyzerService(repo, gen)
	svc.sleep = func(time.Duration) {}
	return svc, repo, session, cat
}

func TestAnalyzePositiveSkipsSummary(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"Positivo"}}
	svc, repo, session, cat := newAnalyzerFixture(t, gen)

	require.NoError(t, svc.Analyze(context.Background(), session, cat))

	assert.Equal(t, 1, gen.calls)
	stored := repo.sessions[session.ID]
	assert.Equal(t, "Positivo", stored.FinalSentiment)
	assert.Empty(t, stored.FinalSummary)
}

func TestAnalyzeNegativeGeneratesSummary(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"Negativo", "Se siente solo y sin apoyo."}}
	svc, repo, session, cat := newAnalyzerFixture(t, gen)

	require.NoError(t, svc.Analyze(context.Background(), session, cat))

	assert.Equal(t, 2, gen.calls)
	stored := repo.sessions[session.ID]
	assert.Equal(t, "Negativo", stored.FinalSentiment)
	assert.Equal(t, "Se siente solo y sin apoyo.", stored.FinalSummary)
}

func TestAnalyzeNeutralGeneratesSummary(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"Neutral", "Sin preocupaciones destacadas."}}
	svc, _, session, cat := newAnalyzerFixture(t, gen)

	require.NoError(t, svc.Analyze(context.Background(), session, cat))
	assert.Equal(t, 2, gen.calls)
}

// Labels outside the closed set are stored verbatim but branch as neutral,
// so a summary is still produced.
func TestAnalyzeUnknownSentimentBranchesNeutral(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"Ambivalente", "resumen"}}
	svc, repo, session, cat := newAnalyzerFixture(t, gen)

	require.NoError(t, svc.Analyze(context.Background(), session, cat))

	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, "Ambivalente", repo.sessions[session.ID].FinalSentiment)
}

func TestAnalyzeRetriesRateLimitWithBackoff(t *testing.T) {
	gen := &scriptedGenerator{
		responses: []string{"", "", "Positivo"},
		errs:      []error{model.ErrRateLimited, model.ErrRateLimited, nil},
	}
	svc, repo, session, cat := newAnalyzerFixture(t, gen)

	var waits []time.Duration
	svc.sleep = func(d time.Duration) { waits = append(waits, d) }

	require.NoError(t, svc.Analyze(context.Background(), session, cat))

	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, waits)
	assert.Equal(t, "Positivo", repo.sessions[session.ID].FinalSentiment)
}

func TestAnalyzeRateLimitExhaustsRetries(t *testing.T) {
	gen := &scriptedGenerator{
		errs: []error{model.ErrRateLimited, model.ErrRateLimited, model.ErrRateLimited},
	}
	svc, repo, session, cat := newAnalyzerFixture(t, gen)

	err := svc.Analyze(context.Background(), session, cat)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRateLimited)
	assert.Equal(t, 3, gen.calls)
	assert.Empty(t, repo.sessions[session.ID].FinalSentiment)
}

func TestAnalyzePermanentErrorDoesNotRetry(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{model.ErrPermanent}}
	svc, _, session, cat := newAnalyzerFixture(t, gen)

	err := svc.Analyze(context.Background(), session, cat)
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestAnalyzeSummaryFailureKeepsSentiment(t *testing.T) {
	gen := &scriptedGenerator{
		responses: []string{"Negativo", ""},
		errs:      []error{nil, model.ErrPermanent},
	}
	svc, repo, session, cat := newAnalyzerFixture(t, gen)

	require.NoError(t, svc.Analyze(context.Background(), session, cat))

	stored := repo.sessions[session.ID]
	assert.Equal(t, "Negativo", stored.FinalSentiment)
	assert.Empty(t, stored.FinalSummary)
}

func TestAnalyzeEmptyTranscriptFails(t *testing.T) {
	gen := &scriptedGenerator{}
	svc, _, _, cat := newAnalyzerFixture(t, gen)

	empty := &model.SurveySession{ID: "empty", Status: model.SessionCompleted}
	err := svc.Analyze(context.Background(), empty, cat)
	require.Error(t, err)
	assert.Equal(t, 0, gen.calls)
}

func TestTranscriptFollowsQuestionOrder(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"Positivo"}}
	svc, _, session, cat := newAnalyzerFixture(t, gen)

	require.NoError(t, svc.Analyze(context.Background(), session, cat))
	require.Len(t, gen.prompts, 1)

	prompt := gen.prompts[0]
	posReason := strings.Index(prompt, "respuesta de q2_reason")
	posDiscovery := strings.Index(prompt, "respuesta de q5_discovery")
	require.GreaterOrEqual(t, posReason, 0)
	require.GreaterOrEqual(t, posDiscovery, 0)
	assert.Less(t, posReason, posDiscovery)
}
