package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// AnswerUpdate is one accepted answer applied together with the step
// transition it causes. Field/Value and the new cursor state are committed
// in a single document update so a crash can never persist an answer
// against a step that will be re-asked.
type AnswerUpdate struct {
	Field      string
	Value      string
	NextStep   int
	InFollowUp bool
	FollowUpOf int
	Complete   bool
}

// SessionRepo is the only component that touches survey session storage.
type SessionRepo interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, session *model.SurveySession) error
	GetByID(ctx context.Context, id string) (*model.SurveySession, error)
	FindActive(ctx context.Context, respondentID string) (*model.SurveySession, error)
	FindLatest(ctx context.Context, respondentID string) (*model.SurveySession, error)
	ApplyAnswer(ctx context.Context, sessionID string, fromStep int, fromFollowUp bool, upd AnswerUpdate) error
	SetAnalysis(ctx context.Context, sessionID, sentiment, summary string) error
	ResetActive(ctx context.Context, respondentID string) error
	JumpToStep(ctx context.Context, respondentID string, step int) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a session repository on the given database.
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{collection: db.Collection("survey_sessions")}
}

// EnsureIndexes creates the partial unique index that enforces at most one
// active session per respondent, plus a lookup index for admin queries.
func (r *sessionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "respondentId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.SessionActive}),
		},
		{
			Keys: bson.D{{Key: "respondentId", Value: 1}, {Key: "updatedAt", Value: -1}},
		},
	})
	return err
}

func (r *sessionRepo) Create(ctx context.Context, session *model.SurveySession) error {
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	if session.Answers == nil {
		session.Answers = map[string]string{}
	}

	_, err := r.collection.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		// Another worker created the active session first.
		return fmt.Errorf("create session for %s: %w", session.RespondentID, model.ErrConflict)
	}
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.SurveySession, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

func (r *sessionRepo) FindActive(ctx context.Context, respondentID string) (*model.SurveySession, error) {
	return r.findOne(ctx, bson.M{
		"respondentId": respondentID,
		"status":       model.SessionActive,
	}, nil)
}

// FindLatest returns the most recently touched session regardless of
// status; the admin status call uses it to show completed runs too.
func (r *sessionRepo) FindLatest(ctx context.Context, respondentID string) (*model.SurveySession, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return r.findOne(ctx, bson.M{"respondentId": respondentID}, opts)
}

func (r *sessionRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*model.SurveySession, error) {
	if opts == nil {
		opts = options.FindOne()
	}
	var session model.SurveySession
	err := r.collection.FindOne(ctx, filter, opts).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ApplyAnswer commits one answer and its step transition atomically. The
// filter carries the step cursor the caller read, so a concurrent writer
// that advanced the session first makes this a no-match and the caller
// gets ErrConflict instead of silently overwriting.
func (r *sessionRepo) ApplyAnswer(ctx context.Context, sessionID string, fromStep int, fromFollowUp bool, upd AnswerUpdate) error {
	set := bson.M{
		"answers." + upd.Field: upd.Value,
		"currentStep":          upd.NextStep,
		"inFollowUp":           upd.InFollowUp,
		"followUpOf":           upd.FollowUpOf,
		"updatedAt":            time.Now().UTC(),
	}
	if upd.Complete {
		set["status"] = model.SessionCompleted
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{
		"_id":         sessionID,
		"status":      model.SessionActive,
		"currentStep": fromStep,
		"inFollowUp":  fromFollowUp,
	}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("apply answer to session %s at step %d: %w", sessionID, fromStep, model.ErrConflict)
	}
	return nil
}

// SetAnalysis stores the completion analysis. It never touches status:
// analysis failure or success must not affect completion.
func (r *sessionRepo) SetAnalysis(ctx context.Context, sessionID, sentiment, summary string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": sessionID}, bson.M{"$set": bson.M{
		"finalSentiment": sentiment,
		"finalSummary":   summary,
		"updatedAt":      time.Now().UTC(),
	}})
	return err
}

// ResetActive clears the respondent's session state so a fresh run can
// start: an active session is deleted outright; with no active session any
// completed runs are archived instead, which re-opens the start-phrase
// path while keeping the collected answers. Operator-only.
func (r *sessionRepo) ResetActive(ctx context.Context, respondentID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{
		"respondentId": respondentID,
		"status":       model.SessionActive,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount > 0 {
		return nil
	}

	upd, err := r.collection.UpdateMany(ctx, bson.M{
		"respondentId": respondentID,
		"status":       model.SessionCompleted,
	}, bson.M{"$set": bson.M{
		"status":    model.SessionArchived,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if upd.ModifiedCount == 0 {
		return model.ErrNoActiveSession
	}
	return nil
}

// JumpToStep rewinds or forwards the active session's cursor. Range
// validation happens in the admin handler; here only existence matters.
func (r *sessionRepo) JumpToStep(ctx context.Context, respondentID string, step int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{
		"respondentId": respondentID,
		"status":       model.SessionActive,
	}, bson.M{"$set": bson.M{
		"currentStep": step,
		"inFollowUp":  false,
		"followUpOf":  0,
		"updatedAt":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNoActiveSession
	}
	return nil
}
