package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/scoring"
	"github.com/abhisek/scholarprep/internal/store"
)

// snapshotVersion is bumped whenever savedSession changes incompatibly.
const snapshotVersion = 1

// persistTimeout bounds each store write so a locked database cannot stall
// the event loop for long.
const persistTimeout = 5 * time.Second

type savedSession struct {
	SessionID  string           `json:"session_id"`
	Profile    *Profile         `json:"profile"`
	Roadmap    *content.Roadmap `json:"roadmap"`
	Answers    []scoring.Answer `json:"answers"`
	Errors     []scoring.Answer `json:"errors"`
	Mastery    int              `json:"mastery"`
	Completion int              `json:"completion"`
}

// record runs fn against the event writer, if any. Failures are logged and
// otherwise ignored.
func (m *Machine) record(ctx context.Context, what string, fn func(context.Context) error) {
	if m.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		m.logger.Warn("failed to record "+what, zap.Error(err))
	}
}

func (m *Machine) recordTask(ctx context.Context, action string, a *ActiveTask, questions, errs int) {
	m.record(ctx, "task event", func(ctx context.Context) error {
		return m.events.AppendTaskEvent(ctx, store.TaskEventData{
			SessionID:  m.sessionID,
			TaskID:     a.ID,
			Action:     action,
			TaskType:   string(a.Task.TaskType),
			TopicID:    a.Task.TopicID,
			Subject:    a.Task.Subject,
			Questions:  questions,
			Errors:     errs,
			Mastery:    m.mastery,
			Completion: m.completion,
		})
	})
}

func answerEvents(sessionID, taskID string, answers []scoring.Answer) []store.AnswerEventData {
	out := make([]store.AnswerEventData, len(answers))
	for i, a := range answers {
		out[i] = store.AnswerEventData{
			SessionID:         sessionID,
			TaskID:            taskID,
			Subject:           a.Subject,
			TopicID:           a.Question.TopicID,
			CognitiveCategory: a.Question.CognitiveCategory,
			QuestionType:      string(a.Question.Type),
			QuestionText:      a.Question.Text,
			Options:           a.Question.Options,
			CorrectAnswer:     a.Question.CorrectAnswer,
			Explanation:       a.Question.Explanation,
			LearnerAnswer:     a.UserAnswer,
			Correct:           a.Correct,
			TimeMs:            int64(a.TimeTakenSeconds * 1000),
		}
	}
	return out
}

// AnswersFromEvents rebuilds graded answers from stored answer events. MCQ
// questions get their options back; short answers have none.
func AnswersFromEvents(events []store.AnswerEvent) []scoring.Answer {
	out := make([]scoring.Answer, len(events))
	for i, e := range events {
		q := content.Question{
			Text:              e.QuestionText,
			Type:              content.QuestionType(e.QuestionType),
			Options:           e.Options,
			CorrectAnswer:     e.CorrectAnswer,
			Explanation:       e.Explanation,
			TopicID:           e.TopicID,
			CognitiveCategory: e.CognitiveCategory,
		}
		out[i] = scoring.Answer{
			Question:         q,
			UserAnswer:       e.LearnerAnswer,
			Correct:          e.Correct,
			Subject:          e.Subject,
			TimeTakenSeconds: float64(e.TimeMs) / 1000,
		}
	}
	return out
}

// Snapshot encodes the resumable part of the session. The active task is
// not included.
func (m *Machine) Snapshot() (store.SnapshotData, error) {
	b, err := json.Marshal(savedSession{
		SessionID:  m.sessionID,
		Profile:    m.profile,
		Roadmap:    m.roadmap,
		Answers:    m.answers,
		Errors:     m.errors,
		Mastery:    m.mastery,
		Completion: m.completion,
	})
	if err != nil {
		return store.SnapshotData{}, fmt.Errorf("encode session: %w", err)
	}
	return store.SnapshotData{Version: snapshotVersion, Session: b}, nil
}

// Restore resumes a saved session on the dashboard. It is only valid before
// onboarding has started.
func (m *Machine) Restore(data store.SnapshotData) error {
	const op = "restore"
	if m.state != StateOnboarding || m.pending != nil {
		return invalid(op, "session already started")
	}
	if data.Version != snapshotVersion {
		return invalid(op, "unsupported snapshot version %d", data.Version)
	}

	var s savedSession
	if err := json.Unmarshal(data.Session, &s); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if s.Profile == nil || s.Roadmap == nil || len(s.Roadmap.Schedule) == 0 {
		return invalid(op, "snapshot has no roadmap")
	}
	// The database is a plain file; hold restored state to the live rules.
	if err := s.Profile.normalize(op); err != nil {
		return err
	}
	if err := s.Roadmap.Validate(); err != nil {
		return invalid(op, "snapshot roadmap: %v", err)
	}

	if s.SessionID != "" {
		m.sessionID = s.SessionID
		m.logger = m.logger.With(zap.String("restored_session_id", s.SessionID))
	}
	m.profile = s.Profile
	m.roadmap = s.Roadmap
	m.answers = s.Answers
	m.errors = s.Errors
	m.mastery = scoring.ClampScore(s.Mastery)
	m.completion = scoring.ClampScore(s.Completion)
	m.epoch++
	m.transition(StateDashboard)
	m.observeScores()
	return nil
}

// Resume restores the latest saved snapshot, if there is one. It reports
// whether a session was restored.
func (m *Machine) Resume(ctx context.Context) (bool, error) {
	if m.snapshots == nil {
		return false, nil
	}
	snap, err := m.snapshots.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	if err := m.Restore(snap.Data); err != nil {
		return false, err
	}
	m.logger.Info("session resumed", zap.Int64("snapshot_sequence", snap.Sequence))
	return true, nil
}

func (m *Machine) saveSnapshot(ctx context.Context) {
	if m.snapshots == nil {
		return
	}
	data, err := m.Snapshot()
	if err != nil {
		m.logger.Warn("failed to encode snapshot", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := m.snapshots.Save(ctx, &store.Snapshot{Data: data}); err != nil {
		m.logger.Warn("failed to save snapshot", zap.Error(err))
		return
	}
	if err := m.snapshots.Prune(ctx, m.opts.SnapshotsKept); err != nil {
		m.logger.Warn("failed to prune snapshots", zap.Error(err))
	}
}
