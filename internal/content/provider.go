// Package content generates roadmaps, lessons and exam questions through an
// LLM provider.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/scholarprep/internal/llm"
)

// Purpose labels attached to every provider call.
const (
	PurposeRoadmap   = "roadmap"
	PurposeLesson    = "lesson"
	PurposeQuestions = "questions"
)

// Provider is the content source the session and runners depend on.
type Provider interface {
	GenerateRoadmap(ctx context.Context, subjects [2]string, targetDate, weaknesses string) (*Roadmap, error)
	GenerateLesson(ctx context.Context, topicID, contextualError string) (*Lesson, error)
	GenerateQuestions(ctx context.Context, subject, topicID string, difficulty, count int) ([]Question, error)
}

// Options tunes LLMProvider.
type Options struct {
	RoadmapWeeks int

	RoadmapMaxTokens   int
	LessonMaxTokens    int
	QuestionsMaxTokens int
	Temperature        float64
}

// DefaultOptions returns the standard generation settings.
func DefaultOptions() Options {
	return Options{
		RoadmapWeeks:       8,
		RoadmapMaxTokens:   8192,
		LessonMaxTokens:    4096,
		QuestionsMaxTokens: 4096,
		Temperature:        0.7,
	}
}

// LLMProvider implements Provider on top of an llm.Provider.
type LLMProvider struct {
	llm     llm.Provider
	history HistoricalData
	opts    Options
	logger  *zap.Logger
}

// NewLLMProvider wires a content provider. history and logger may be nil.
func NewLLMProvider(p llm.Provider, history HistoricalData, opts Options, logger *zap.Logger) *LLMProvider {
	if history == nil {
		history = StaticHistory{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RoadmapWeeks < 1 {
		opts.RoadmapWeeks = DefaultOptions().RoadmapWeeks
	}
	return &LLMProvider{llm: p, history: history, opts: opts, logger: logger.Named("content")}
}

func (p *LLMProvider) GenerateRoadmap(ctx context.Context, subjects [2]string, targetDate, weaknesses string) (*Roadmap, error) {
	if strings.TrimSpace(subjects[0]) == "" || strings.TrimSpace(subjects[1]) == "" {
		return nil, genErr(PurposeRoadmap, fmt.Errorf("%w: two subjects are required", ErrInvalidArgument))
	}

	analysis, err := p.history.PastExamAnalysis(ctx, subjects)
	if err != nil {
		return nil, genErr(PurposeRoadmap, fmt.Errorf("past exam analysis: %w", err))
	}

	req := llm.Request{
		System: roadmapSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRoadmapMessage(subjects, targetDate, weaknesses, p.opts.RoadmapWeeks, analysis)},
		},
		Schema:      RoadmapSchema,
		MaxTokens:   p.opts.RoadmapMaxTokens,
		Temperature: p.opts.Temperature,
	}

	resp, err := p.llm.Generate(llm.WithPurpose(ctx, PurposeRoadmap), req)
	if err != nil {
		return nil, genErr(PurposeRoadmap, err)
	}

	var r Roadmap
	if err := json.Unmarshal(resp.Content, &r); err != nil {
		return nil, genErr(PurposeRoadmap, fmt.Errorf("parse response: %w", err))
	}
	if err := r.Validate(); err != nil {
		return nil, genErr(PurposeRoadmap, err)
	}

	p.logger.Info("roadmap generated",
		zap.Strings("subjects", subjects[:]),
		zap.Int("weeks", len(r.Schedule)),
		zap.Int("tasks", r.TaskCount()),
	)
	return &r, nil
}

func (p *LLMProvider) GenerateLesson(ctx context.Context, topicID, contextualError string) (*Lesson, error) {
	if strings.TrimSpace(topicID) == "" {
		return nil, genErr(PurposeLesson, fmt.Errorf("%w: topic is required", ErrInvalidArgument))
	}

	req := llm.Request{
		System: lessonSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLessonMessage(topicID, contextualError)},
		},
		MaxTokens:   p.opts.LessonMaxTokens,
		Temperature: p.opts.Temperature,
	}

	resp, err := p.llm.Generate(llm.WithPurpose(ctx, PurposeLesson), req)
	if err != nil {
		return nil, genErr(PurposeLesson, err)
	}

	var text string
	if err := json.Unmarshal(resp.Content, &text); err != nil {
		return nil, genErr(PurposeLesson, fmt.Errorf("parse response: %w", err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, genErr(PurposeLesson, ErrEmptyResult)
	}

	return &Lesson{TopicID: topicID, Content: text}, nil
}

type questionsOutput struct {
	Questions []Question `json:"questions"`
}

func (p *LLMProvider) GenerateQuestions(ctx context.Context, subject, topicID string, difficulty, count int) ([]Question, error) {
	switch {
	case strings.TrimSpace(topicID) == "":
		return nil, genErr(PurposeQuestions, fmt.Errorf("%w: topic is required", ErrInvalidArgument))
	case difficulty < 1 || difficulty > 10:
		return nil, genErr(PurposeQuestions, fmt.Errorf("%w: difficulty %d outside 1-10", ErrInvalidArgument, difficulty))
	case count < 1:
		return nil, genErr(PurposeQuestions, fmt.Errorf("%w: count %d", ErrInvalidArgument, count))
	}

	req := llm.Request{
		System: questionsSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionsMessage(subject, topicID, difficulty, count)},
		},
		Schema:      QuestionsSchema,
		MaxTokens:   p.opts.QuestionsMaxTokens,
		Temperature: p.opts.Temperature,
	}

	resp, err := p.llm.Generate(llm.WithPurpose(ctx, PurposeQuestions), req)
	if err != nil {
		return nil, genErr(PurposeQuestions, err)
	}

	var out questionsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, genErr(PurposeQuestions, fmt.Errorf("parse response: %w", err))
	}

	questions := make([]Question, 0, len(out.Questions))
	for i, raw := range out.Questions {
		q, reason := normalizeQuestion(raw, topicID)
		if reason != "" {
			p.logger.Warn("dropping generated question",
				zap.String("topic", topicID),
				zap.Int("index", i),
				zap.String("reason", reason),
			)
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, genErr(PurposeQuestions, ErrEmptyResult)
	}

	return questions, nil
}
