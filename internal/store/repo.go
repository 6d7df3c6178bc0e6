package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotData captures the persisted learner state at a point in time.
// Session is opaque to the store; the session package owns its encoding.
type SnapshotData struct {
	Version int             `json:"version"`
	Session json.RawMessage `json:"session,omitempty"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// ModelUsage aggregates token usage per model, for cost estimates.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// AnswerEventData is one answered exam question.
type AnswerEventData struct {
	SessionID         string
	TaskID            string
	Subject           string
	TopicID           string
	CognitiveCategory string
	QuestionType      string
	QuestionText      string
	Options           []string // MCQ only
	CorrectAnswer     string
	Explanation       string
	LearnerAnswer     string
	Correct           bool
	TimeMs            int64
}

// AnswerEvent is a stored answer.
type AnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// Task lifecycle actions recorded in task_events.
const (
	TaskStarted   = "started"
	TaskFinished  = "finished"
	TaskAbandoned = "abandoned"
)

// TaskEventData records a task lifecycle step. Mastery and Completion are
// the values after the step.
type TaskEventData struct {
	SessionID  string
	TaskID     string
	Action     string
	TaskType   string
	TopicID    string
	Subject    string
	Questions  int
	Errors     int
	Mastery    int
	Completion int
}

// TaskEvent is a stored task lifecycle step.
type TaskEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	TaskEventData
}

// RoadmapEventData records a generated roadmap.
type RoadmapEventData struct {
	SessionID  string
	Subjects   string
	TargetDate string
	Weeks      int
	Tasks      int
	Roadmap    any
}

// LessonEventData records a generated lesson.
type LessonEventData struct {
	SessionID     string
	TaskID        string
	TopicID       string
	Remedial      bool
	ContentLength int
}

// EventWriter appends domain events.
type EventWriter interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	AppendAnswerEvents(ctx context.Context, data []AnswerEventData) error
	AppendTaskEvent(ctx context.Context, data TaskEventData) error
	AppendRoadmapEvent(ctx context.Context, data RoadmapEventData) error
	AppendLessonEvent(ctx context.Context, data LessonEventData) error
}

// EventReader queries recorded events.
type EventReader interface {
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns nil when no event has the id.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)
	QueryTaskEvents(ctx context.Context, opts QueryOpts) ([]TaskEvent, error)
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	EventWriter
	EventReader
}
