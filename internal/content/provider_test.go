package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/scholarprep/internal/llm"
)

const roadmapFixture = `{
  "startDate": "2025-04-01",
  "endDate": "2025-05-27",
  "schedule": [
    {"week": 1, "theme": "Foundations", "tasks": [
      {"day": "Monday", "topic_id": "english_grammar_tenses", "task_type": "lesson", "subject": "English", "description": "Review verb tenses"},
      {"day": "Tuesday", "topic_id": "math_linear_equations", "task_type": "practice", "subject": "Mathematics", "description": "Solve linear equations"}
    ]},
    {"week": 2, "theme": "Building up", "tasks": [
      {"day": "Monday", "topic_id": "english_literary_devices", "task_type": "lesson", "subject": "English", "description": "Metaphor and simile"}
    ]}
  ]
}`

func mockContent(s string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(s)}
}

func TestGenerateRoadmap(t *testing.T) {
	mock := llm.NewMockProvider(mockContent(roadmapFixture))
	p := NewLLMProvider(mock, nil, DefaultOptions(), nil)

	r, err := p.GenerateRoadmap(context.Background(), [2]string{"English", "Mathematics"}, "2025-06-01", "essay structure")
	require.NoError(t, err)

	assert.Equal(t, "2025-04-01", r.StartDate)
	require.Len(t, r.Schedule, 2)
	assert.Equal(t, 3, r.TaskCount())
	assert.Equal(t, TaskPractice, r.Schedule[0].Tasks[1].TaskType)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, RoadmapSchema, req.Schema)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Subjects: English & Mathematics")
	assert.Contains(t, msg, "Target Exam Date: 2025-06-01")
	assert.Contains(t, msg, "User-reported weaknesses: essay structure")
	assert.Contains(t, msg, `"topic":"Algebraic Equations"`)
	assert.Contains(t, msg, "8-week")
}

func TestGenerateRoadmapOmitsBlankWeaknesses(t *testing.T) {
	mock := llm.NewMockProvider(mockContent(roadmapFixture))
	p := NewLLMProvider(mock, nil, Options{RoadmapWeeks: 4}, nil)

	_, err := p.GenerateRoadmap(context.Background(), [2]string{"History", "Biology"}, "2025-06-01", "  ")
	require.NoError(t, err)
	assert.NotContains(t, mock.Calls[0].Messages[0].Content, "weaknesses")
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "4-week")
}

func TestGenerateRoadmapFailures(t *testing.T) {
	tests := []struct {
		name    string
		resp    llm.MockResponse
		wantErr error
	}{
		{
			name:    "provider down",
			resp:    llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp")}},
			wantErr: nil,
		},
		{
			name:    "empty schedule",
			resp:    mockContent(`{"startDate":"a","endDate":"b","schedule":[]}`),
			wantErr: nil,
		},
		{
			name: "duplicate week",
			resp: mockContent(`{"startDate":"a","endDate":"b","schedule":[
				{"week":1,"theme":"x","tasks":[]},
				{"week":1,"theme":"y","tasks":[]}]}`),
			wantErr: ErrMalformed,
		},
		{
			name: "blank topic",
			resp: mockContent(`{"startDate":"a","endDate":"b","schedule":[
				{"week":1,"theme":"x","tasks":[{"day":"Mon","topic_id":" ","task_type":"lesson","subject":"English","description":"d"}]}]}`),
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewLLMProvider(llm.NewMockProvider(tt.resp), nil, DefaultOptions(), nil)
			r, err := p.GenerateRoadmap(context.Background(), [2]string{"English", "Mathematics"}, "2025-06-01", "")
			assert.Nil(t, r)

			var gerr *GenerationError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, PurposeRoadmap, gerr.Op)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateRoadmapRequiresSubjects(t *testing.T) {
	mock := llm.NewMockProvider()
	p := NewLLMProvider(mock, nil, DefaultOptions(), nil)

	_, err := p.GenerateRoadmap(context.Background(), [2]string{"English", ""}, "2025-06-01", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, mock.CallCount())
}

type failingHistory struct{}

func (failingHistory) PastExamAnalysis(context.Context, [2]string) (*ExamAnalysis, error) {
	return nil, errors.New("archive offline")
}

func TestGenerateRoadmapHistoryFailure(t *testing.T) {
	mock := llm.NewMockProvider(mockContent(roadmapFixture))
	p := NewLLMProvider(mock, failingHistory{}, DefaultOptions(), nil)

	_, err := p.GenerateRoadmap(context.Background(), [2]string{"English", "Mathematics"}, "2025-06-01", "")
	assert.ErrorContains(t, err, "archive offline")
	assert.Zero(t, mock.CallCount())
}

func TestGenerateLesson(t *testing.T) {
	mock := llm.NewMockProvider(mockContent(`"# Verb tenses\n\nThe present perfect..."`))
	p := NewLLMProvider(mock, nil, DefaultOptions(), nil)

	lesson, err := p.GenerateLesson(context.Background(), "english_grammar_tenses", `My incorrect answer was "went".`)
	require.NoError(t, err)

	assert.Equal(t, "english_grammar_tenses", lesson.TopicID)
	assert.Contains(t, lesson.Content, "# Verb tenses")
	assert.Nil(t, mock.Calls[0].Schema)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, `Specific mistake made by the learner: My incorrect answer was "went".`)
}

func TestGenerateLessonEmpty(t *testing.T) {
	p := NewLLMProvider(llm.NewMockProvider(mockContent(`"   "`)), nil, DefaultOptions(), nil)

	_, err := p.GenerateLesson(context.Background(), "topic", "")
	assert.ErrorIs(t, err, ErrEmptyResult)
}

const questionsFixture = `{"questions": [
  {"question_text": "Capital of France?", "type": "MCQ", "options": ["Paris", "Rome", "Madrid", "Lisbon"],
   "correct_answer": "Paris", "correct_answer_explanation": "Paris is the capital.", "cognitive_category": "Recall"},
  {"question_text": "Past tense of 'go'?", "type": "Short Answer", "options": ["ignored"],
   "correct_answer": "went", "correct_answer_explanation": "Irregular verb.", "cognitive_category": "Application"},
  {"question_text": "Broken", "type": "MCQ", "options": ["A", "B"],
   "correct_answer": "C", "correct_answer_explanation": "", "cognitive_category": ""},
  {"question_text": "", "type": "Short Answer", "options": [],
   "correct_answer": "x", "correct_answer_explanation": "", "cognitive_category": ""}
]}`

func TestGenerateQuestions(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mock := llm.NewMockProvider(mockContent(questionsFixture))
	p := NewLLMProvider(mock, nil, DefaultOptions(), zap.New(core))

	qs, err := p.GenerateQuestions(context.Background(), "English", "english_basics", 6, 5)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	for _, q := range qs {
		assert.Equal(t, "english_basics", q.TopicID)
	}
	assert.Equal(t, MCQ, qs[0].Type)
	assert.Len(t, qs[0].Options, 4)
	assert.Equal(t, ShortAnswer, qs[1].Type)
	assert.Nil(t, qs[1].Options)
	assert.Equal(t, "Application", qs[1].CognitiveCategory)

	assert.Equal(t, 2, logs.FilterMessage("dropping generated question").Len())

	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Subject: English")
	assert.Contains(t, msg, "Difficulty Level (1-10): 6")
	assert.Contains(t, msg, "Number of Questions to Generate: 5")
}

func TestGenerateQuestionsEmpty(t *testing.T) {
	p := NewLLMProvider(llm.NewMockProvider(mockContent(`{"questions": []}`)), nil, DefaultOptions(), nil)

	_, err := p.GenerateQuestions(context.Background(), "English", "t", 6, 5)
	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, PurposeQuestions, gerr.Op)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestGenerateQuestionsArguments(t *testing.T) {
	tests := []struct {
		name       string
		topic      string
		difficulty int
		count      int
	}{
		{"blank topic", "", 5, 5},
		{"difficulty low", "t", 0, 5},
		{"difficulty high", "t", 11, 5},
		{"zero count", "t", 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			p := NewLLMProvider(mock, nil, DefaultOptions(), nil)
			_, err := p.GenerateQuestions(context.Background(), "English", tt.topic, tt.difficulty, tt.count)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Zero(t, mock.CallCount())
		})
	}
}

func TestPurposeLabels(t *testing.T) {
	var purposes []string
	rec := recorder{next: llm.NewMockProvider(
		mockContent(roadmapFixture),
		mockContent(`"lesson"`),
		mockContent(questionsFixture),
	), seen: &purposes}
	p := NewLLMProvider(rec, nil, DefaultOptions(), nil)
	ctx := context.Background()

	_, err := p.GenerateRoadmap(ctx, [2]string{"English", "Mathematics"}, "2025-06-01", "")
	require.NoError(t, err)
	_, err = p.GenerateLesson(ctx, "t", "")
	require.NoError(t, err)
	_, err = p.GenerateQuestions(ctx, "English", "t", 6, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{PurposeRoadmap, PurposeLesson, PurposeQuestions}, purposes)
}

type recorder struct {
	next llm.Provider
	seen *[]string
}

func (r recorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*r.seen = append(*r.seen, llm.PurposeFrom(ctx))
	return r.next.Generate(ctx, req)
}

func (r recorder) ModelID() string { return r.next.ModelID() }

func TestStaticHistory(t *testing.T) {
	a, err := StaticHistory{}.PastExamAnalysis(context.Background(), [2]string{"English", "Physics"})
	require.NoError(t, err)
	assert.Equal(t, [2]string{"English", "Physics"}, a.Subjects)
	require.Len(t, a.HistoricalData, 4)
	assert.Equal(t, TopicStat{Topic: "Algebraic Equations", Frequency: 0.92, AvgDifficulty: 8.1}, a.HistoricalData[2])
}
