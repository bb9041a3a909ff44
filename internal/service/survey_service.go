package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/cache"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/classify"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/repository"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/transcribe"
)

// Respondent-facing copy. Internal failures are never shown verbatim; the
// respondent is always redirected to a retry action.
const (
	msgWelcome = "👋 ¡Hola! Para participar en la encuesta escriba *encuesta* o *quiero comenzar*."
	msgRetry   = "🤔 No logré entender su respuesta.\n\nPor favor intente de nuevo seleccionando una de las opciones."
	msgClosing = "🙏 ¡Muchas gracias por completar la encuesta! Sus respuestas son muy valiosas para nosotros."
	msgDone    = "✅ Usted ya completó la encuesta. ¡Gracias por su participación!"
	msgAskText = "🎤 No pude entender el audio. ¿Podría escribir su respuesta por texto, por favor?"
)

// Analyzer is the completion analysis step invoked inline when a session
// reaches the last question.
type Analyzer interface {
	Analyze(ctx context.Context, session *model.SurveySession, cat *catalog.Catalog) error
}

// SurveyService drives one respondent through the catalog: start, advance
// or reject on each inbound event, and hand off to the analyzer on
// completion. It owns every session transition; nothing else mutates
// survey state.
type SurveyService struct {
	repo      repository.SessionRepo
	cat       *catalog.Catalog
	deliverer Deliverer
	analyzer  Analyzer

	// Audio ingestion collaborators; all optional, a missing stage
	// degrades to asking for a typed answer.
	media transcribe.MediaFetcher
	audio AudioPipeline
	stt   transcribe.Transcriber

	dedupe       cache.DedupeGuard
	sessionCache cache.SessionCache
}

// NewSurveyService creates the step engine.
func NewSurveyService(
	repo repository.SessionRepo,
	cat *catalog.Catalog,
	deliverer Deliverer,
	analyzer Analyzer,
) *SurveyService {
	return &SurveyService{
		repo:      repo,
		cat:       cat,
		deliverer: deliverer,
		analyzer:  analyzer,
	}
}

// SetAudioPipeline wires the voice note path: media download, enhancement
// and transcription.
func (s *SurveyService) SetAudioPipeline(media transcribe.MediaFetcher, audio AudioPipeline, stt transcribe.Transcriber) {
	s.media = media
	s.audio = audio
	s.stt = stt
}

// SetDedupeGuard wires duplicate-delivery detection.
func (s *SurveyService) SetDedupeGuard(guard cache.DedupeGuard) {
	s.dedupe = guard
}

// SetSessionCache wires the snapshot cache refreshed after mutations.
func (s *SurveyService) SetSessionCache(c cache.SessionCache) {
	s.sessionCache = c
}

// HandleEvent processes one inbound event to completion. Duplicate
// deliveries are skipped via the dedupe guard; a write conflict with a
// concurrent worker is resolved by replaying the whole event once from a
// fresh read of the session.
func (s *SurveyService) HandleEvent(ctx context.Context, ev *model.InboundEvent) error {
	if s.dedupe != nil && ev.EventID != "" {
		seen, err := s.dedupe.Seen(ctx, ev.EventID)
		if err != nil {
			return fmt.Errorf("dedupe check: %w", err)
		}
		if seen {
			log.Printf("[ENGINE] duplicate event %s from %s, skipping", ev.EventID, ev.RespondentID)
			return nil
		}
	}

	err := s.process(ctx, ev)
	if errors.Is(err, model.ErrConflict) {
		log.Printf("[ENGINE] conflict handling event %s for %s, replaying", ev.EventID, ev.RespondentID)
		err = s.process(ctx, ev)
	}
	if err != nil {
		return err
	}

	// Recorded only after the event fully applied: a crash mid-event must
	// let the redelivered copy be processed, not skipped.
	if s.dedupe != nil && ev.EventID != "" {
		if err := s.dedupe.MarkSeen(ctx, ev.EventID); err != nil {
			log.Printf("[ENGINE] dedupe record failed for event %s: %v", ev.EventID, err)
		}
	}
	return nil
}

func (s *SurveyService) process(ctx context.Context, ev *model.InboundEvent) error {
	text, ok, err := s.resolveText(ctx, ev)
	if err != nil {
		return err
	}
	if !ok {
		// Audio could not be turned into text; respondent was redirected.
		return nil
	}

	session, err := s.repo.FindActive(ctx, ev.RespondentID)
	if err != nil {
		return fmt.Errorf("find active session: %w", err)
	}
	if session == nil {
		return s.handleNoActiveSession(ctx, ev.RespondentID, text)
	}
	return s.handleAnswer(ctx, session, text)
}

// resolveText normalizes the event content into plain text. Audio runs
// through enhancement and transcription first; a transcript is then
// indistinguishable from typed input.
func (s *SurveyService) resolveText(ctx context.Context, ev *model.InboundEvent) (string, bool, error) {
	if ev.Kind != model.EventAudio {
		return ev.Content, true, nil
	}
	if s.media == nil || s.stt == nil {
		return "", false, s.send(ctx, ev.RespondentID, model.TextMessage(msgAskText))
	}

	raw, err := s.media.Fetch(ctx, ev.MediaID)
	if err != nil {
		log.Printf("[AUDIO] media fetch failed for %s: %v", ev.RespondentID, err)
		return "", false, s.send(ctx, ev.RespondentID, model.TextMessage(msgAskText))
	}

	wav := raw
	if s.audio != nil {
		enhanced, quality, err := s.audio.Enhance(ctx, raw)
		if err != nil {
			log.Printf("[AUDIO] enhancement failed for %s: %v", ev.RespondentID, err)
		} else {
			wav = enhanced
			log.Printf("[AUDIO] %s: %s", ev.RespondentID, quality.Recommendation)
		}
	}

	transcript, err := s.stt.Transcribe(ctx, wav)
	if err != nil {
		log.Printf("[STT] transcription failed for %s: %v", ev.RespondentID, err)
		return "", false, s.send(ctx, ev.RespondentID, model.TextMessage(msgAskText))
	}
	if transcript == "" {
		return "", false, s.send(ctx, ev.RespondentID, model.TextMessage(msgAskText))
	}
	return transcript, true, nil
}

// handleNoActiveSession covers the NoSession and Completed states: a start
// phrase opens a fresh session, a completed respondent gets the completed
// notice, anything else gets the welcome prompt. No state is created for
// non-start text.
func (s *SurveyService) handleNoActiveSession(ctx context.Context, respondentID, text string) error {
	latest, err := s.repo.FindLatest(ctx, respondentID)
	if err != nil {
		return fmt.Errorf("find latest session: %w", err)
	}
	if latest != nil && latest.Status == model.SessionCompleted {
		return s.send(ctx, respondentID, model.TextMessage(msgDone))
	}

	if !catalog.IsStartPhrase(text) {
		return s.send(ctx, respondentID, model.TextMessage(msgWelcome))
	}

	session := &model.SurveySession{
		RespondentID: respondentID,
		Catalog:      s.cat.Version(),
		Status:       model.SessionActive,
		CurrentStep:  1,
		Answers:      map[string]string{},
	}
	if err := s.repo.Create(ctx, session); err != nil {
		// Duplicate start under concurrent delivery: the guard on the
		// unique active index surfaces as a conflict and the replay will
		// find the session already created.
		return err
	}
	s.refreshSnapshot(ctx, session)
	log.Printf("[ENGINE] session %s started for %s (catalog %s)", session.ID, respondentID, s.cat.Version())

	q, _ := s.cat.Question(1)
	return s.sendQuestion(ctx, respondentID, q)
}

// handleAnswer runs the Active(step) transitions.
func (s *SurveyService) handleAnswer(ctx context.Context, session *model.SurveySession, text string) error {
	q, ok := s.cat.Question(session.CurrentStep)
	if !ok {
		return fmt.Errorf("session %s: step %d outside catalog %s", session.ID, session.CurrentStep, s.cat.Version())
	}

	// A start phrase mid-survey (e.g. a racing duplicate start, or a
	// respondent asking to resume) re-sends the pending question instead
	// of being stored as an answer.
	if catalog.IsStartPhrase(text) {
		return s.sendQuestion(ctx, session.RespondentID, q)
	}

	if session.InFollowUp {
		return s.handleFollowUpAnswer(ctx, session, q, text)
	}

	value, parsed := classify.Classify(text, q)
	if !parsed {
		// Unparsed closed answer: re-ask, no step advance.
		if err := s.send(ctx, session.RespondentID, model.TextMessage(msgRetry)); err != nil {
			return err
		}
		return s.sendQuestion(ctx, session.RespondentID, q)
	}

	// Trigger answers divert into the declared follow-up before the
	// cursor moves past this step.
	if q.FollowUp != nil && value == q.FollowUp.Trigger {
		err := s.repo.ApplyAnswer(ctx, session.ID, session.CurrentStep, false, repository.AnswerUpdate{
			Field:      q.TargetField,
			Value:      value,
			NextStep:   session.CurrentStep,
			InFollowUp: true,
			FollowUpOf: q.ID,
		})
		if err != nil {
			return err
		}
		s.refreshSnapshotByID(ctx, session.ID)
		return s.send(ctx, session.RespondentID, model.TextMessage(q.FollowUp.Prompt))
	}

	return s.advance(ctx, session, repository.AnswerUpdate{
		Field: q.TargetField,
		Value: value,
	})
}

// handleFollowUpAnswer stores the free-text follow-up answer and resumes
// the normal step sequence.
func (s *SurveyService) handleFollowUpAnswer(ctx context.Context, session *model.SurveySession, q *model.Question, text string) error {
	fu := q.FollowUp
	if fu == nil || session.FollowUpOf != q.ID {
		// Stale follow-up state, e.g. after an operator jump; fall back
		// to re-asking the current question.
		return s.sendQuestion(ctx, session.RespondentID, q)
	}

	value, _ := classify.Classify(text, &model.Question{Kind: model.KindOpen})
	upd := repository.AnswerUpdate{
		Field: fu.TargetField,
		Value: value,
	}
	return s.advanceFrom(ctx, session, true, upd)
}

func (s *SurveyService) advance(ctx context.Context, session *model.SurveySession, upd repository.AnswerUpdate) error {
	return s.advanceFrom(ctx, session, false, upd)
}

// advanceFrom commits the answer plus the step increment atomically, then
// either asks the next question or completes the session and runs the
// analyzer inline.
func (s *SurveyService) advanceFrom(ctx context.Context, session *model.SurveySession, fromFollowUp bool, upd repository.AnswerUpdate) error {
	next := session.CurrentStep + 1
	complete := next > s.cat.Len()

	upd.NextStep = next
	upd.InFollowUp = false
	upd.FollowUpOf = 0
	upd.Complete = complete

	if err := s.repo.ApplyAnswer(ctx, session.ID, session.CurrentStep, fromFollowUp, upd); err != nil {
		return err
	}
	s.refreshSnapshotByID(ctx, session.ID)

	if !complete {
		q, _ := s.cat.Question(next)
		return s.sendQuestion(ctx, session.RespondentID, q)
	}

	log.Printf("[ENGINE] session %s completed for %s", session.ID, session.RespondentID)
	if err := s.send(ctx, session.RespondentID, model.TextMessage(msgClosing)); err != nil {
		log.Printf("[ENGINE] closing message failed for %s: %v", session.RespondentID, err)
	}

	// Inline, not scheduled: a crash before this leaves the session
	// completed with empty analysis instead of stuck active.
	completed, err := s.repo.GetByID(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("reload completed session %s: %w", session.ID, err)
	}
	if completed == nil {
		return fmt.Errorf("reload completed session %s: not found", session.ID)
	}
	if err := s.analyzer.Analyze(ctx, completed, s.cat); err != nil {
		log.Printf("[ENGINE] analysis failed for session %s: %v", session.ID, err)
	}
	s.refreshSnapshotByID(ctx, session.ID)
	return nil
}

// sendQuestion renders the question per its kind: plain text for open,
// quick-reply buttons for short choices, a list picker for long choices
// and scales.
func (s *SurveyService) sendQuestion(ctx context.Context, respondentID string, q *model.Question) error {
	var msg model.OutboundMessage
	switch q.Kind {
	case model.KindButtons:
		msg = model.ButtonsMessage(q.Prompt, q.Options)
	case model.KindList, model.KindScale:
		msg = model.ListMessage("Encuesta", q.Prompt, q.Options)
	default:
		msg = model.TextMessage(q.Prompt)
	}
	return s.send(ctx, respondentID, msg)
}

func (s *SurveyService) send(ctx context.Context, respondentID string, msg model.OutboundMessage) error {
	if err := s.deliverer.Send(ctx, respondentID, msg); err != nil {
		// Delivery failures are logged, not propagated: the session state
		// is already consistent and a replay would double-apply answers.
		log.Printf("[SEND] delivery to %s failed: %v", respondentID, err)
	}
	return nil
}

func (s *SurveyService) refreshSnapshot(ctx context.Context, session *model.SurveySession) {
	if s.sessionCache == nil {
		return
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("[CACHE] snapshot refresh failed for %s: %v", session.RespondentID, err)
	}
}

func (s *SurveyService) refreshSnapshotByID(ctx context.Context, sessionID string) {
	if s.sessionCache == nil {
		return
	}
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil || session == nil {
		return
	}
	s.refreshSnapshot(ctx, session)
}
