package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/repository"
)

// Sentiment categories the analysis call is constrained to. Anything else
// the model returns is stored verbatim but branches as neutral.
const (
	SentimentPositive = "Positivo"
	SentimentNegative = "Negativo"
	SentimentNeutral  = "Neutral"
)

const (
	analyzerMaxAttempts = 3
	analyzerBaseBackoff = 2 * time.Second
)

// AnalyzerService produces the per-respondent sentiment and summary once a
// survey completes. It runs inline in the worker that completed the
// session; its failure never reverts completion.
type AnalyzerService struct {
	repo      repository.SessionRepo
	generator TextGenerator

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// NewAnalyzerService creates the completion analyzer.
func NewAnalyzerService(repo repository.SessionRepo, generator TextGenerator) *AnalyzerService {
	return &AnalyzerService{repo: repo, generator: generator, sleep: time.Sleep}
}

// Analyze assembles the transcript, computes sentiment, and for any
// non-favorable result also produces a one-sentence summary. Results are
// persisted on the completed session; on terminal failure the analysis
// fields stay unset.
func (s *AnalyzerService) Analyze(ctx context.Context, session *model.SurveySession, cat *catalog.Catalog) error {
	transcript := buildTranscript(session, cat)
	if transcript == "" {
		return fmt.Errorf("session %s: empty transcript", session.ID)
	}

	log.Printf("[GEMINI] analyzing sentiment for session %s", session.ID)
	raw, err := s.generateWithRetry(ctx, sentimentPrompt(transcript))
	if err != nil {
		return fmt.Errorf("sentiment analysis for session %s: %w", session.ID, err)
	}
	sentiment := strings.TrimSpace(raw)
	log.Printf("[GEMINI] session %s sentiment: %s", session.ID, sentiment)

	summary := ""
	if branchSentiment(sentiment) != SentimentPositive {
		log.Printf("[GEMINI] generating summary for session %s", session.ID)
		raw, err := s.generateWithRetry(ctx, summaryPrompt(transcript))
		if err != nil {
			// Sentiment is still worth keeping; the summary stays empty.
			log.Printf("[GEMINI] summary failed for session %s: %v", session.ID, err)
		} else {
			summary = strings.TrimSpace(raw)
		}
	}

	return s.repo.SetAnalysis(ctx, session.ID, sentiment, summary)
}

// generateWithRetry retries only rate-limit errors, with exponential
// backoff starting at 2s and doubling per attempt. Any other error aborts
// immediately.
func (s *AnalyzerService) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	wait := analyzerBaseBackoff
	var lastErr error
	for attempt := 0; attempt < analyzerMaxAttempts; attempt++ {
		text, err := s.generator.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, model.ErrRateLimited) {
			return "", err
		}
		lastErr = err
		log.Printf("[GEMINI] rate limited, retrying in %s", wait)
		s.sleep(wait)
		wait *= 2
	}
	return "", fmt.Errorf("retries exhausted: %w", lastErr)
}

// branchSentiment maps the raw model output onto the closed category set:
// unrecognized labels branch as neutral.
func branchSentiment(raw string) string {
	switch strings.TrimSpace(raw) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// buildTranscript concatenates the collected answers in question order,
// follow-up answers right after their parent.
func buildTranscript(session *model.SurveySession, cat *catalog.Catalog) string {
	var sb strings.Builder
	for _, q := range cat.Questions() {
		if v, ok := session.Answer(q.TargetField); ok && v != "" {
			fmt.Fprintf(&sb, "- %s\n", v)
		}
		if q.FollowUp != nil {
			if v, ok := session.Answer(q.FollowUp.TargetField); ok && v != "" {
				fmt.Fprintf(&sb, "- %s\n", v)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func sentimentPrompt(transcript string) string {
	return fmt.Sprintf(`Analiza el sentimiento general de las siguientes respuestas de una encuesta. Responde únicamente con 'Positivo', 'Negativo' o 'Neutral'.

Respuestas:
%s`, transcript)
}

func summaryPrompt(transcript string) string {
	return fmt.Sprintf(`De las siguientes respuestas de encuesta, resume en una sola frase concisa y accionable la preocupación principal del encuestado.

Respuestas:
%s`, transcript)
}
