package content

import "context"

// HistoricalData looks up past-exam statistics for a subject pair. The
// result only feeds the roadmap prompt.
type HistoricalData interface {
	PastExamAnalysis(ctx context.Context, subjects [2]string) (*ExamAnalysis, error)
}

// StaticHistory serves a fixed table regardless of the subjects asked for.
type StaticHistory struct{}

var staticTopics = []TopicStat{
	{Topic: "Tense structure", Frequency: 0.85, AvgDifficulty: 7.2},
	{Topic: "Literary Devices", Frequency: 0.78, AvgDifficulty: 6.5},
	{Topic: "Algebraic Equations", Frequency: 0.92, AvgDifficulty: 8.1},
	{Topic: "Verb Conjugation", Frequency: 0.88, AvgDifficulty: 7.5},
}

func (StaticHistory) PastExamAnalysis(_ context.Context, subjects [2]string) (*ExamAnalysis, error) {
	rows := make([]TopicStat, len(staticTopics))
	copy(rows, staticTopics)
	return &ExamAnalysis{Subjects: subjects, HistoricalData: rows}, nil
}
