// Package scoring grades answers and derives the learner's statistics from
// answer history. Every function is pure; nothing is cached between calls.
package scoring

import (
	"sort"
	"strings"

	"github.com/abhisek/scholarprep/internal/content"
)

const (
	InitialMastery    = 70
	InitialCompletion = 10

	// TaskReward is added to mastery for every finished task, before the
	// per-error penalty.
	TaskReward     = 5
	CompletionStep = 5

	DefaultCategory = "Uncategorized"

	// TopErrorsShown is how many recurring errors the insights view lists.
	TopErrorsShown = 5
)

// Answer is one graded response. An answer with Correct false is also an
// error record; Subject is the subject of the task the question came from.
type Answer struct {
	Question         content.Question `json:"question"`
	UserAnswer       string           `json:"user_answer"`
	Correct          bool             `json:"is_correct"`
	Subject          string           `json:"subject"`
	TimeTakenSeconds float64          `json:"time_taken_seconds"`
}

// IsCorrect compares a submitted answer with the expected one, ignoring case
// and surrounding whitespace. Anything else, punctuation included, counts.
func IsCorrect(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// Errors returns the incorrect answers, in order.
func Errors(answers []Answer) []Answer {
	var out []Answer
	for _, a := range answers {
		if !a.Correct {
			out = append(out, a)
		}
	}
	return out
}

// MergeMastery applies a finished task to the mastery score.
func MergeMastery(current, newErrors int) int {
	return ClampScore(current + TaskReward - newErrors)
}

// MergeCompletion advances the completion percentage by step.
func MergeCompletion(current, step int) int {
	return ClampScore(current + step)
}

// ClampScore keeps a mastery or completion percentage within 0..100.
func ClampScore(v int) int {
	return max(0, min(100, v))
}

// ErrorCount is how often a topic appears in the error history.
type ErrorCount struct {
	TopicID string
	Count   int
}

// RecurringErrorCounts groups errors by topic, most frequent first. Topics
// with equal counts keep the order in which they first appeared.
func RecurringErrorCounts(errors []Answer) []ErrorCount {
	index := make(map[string]int)
	var counts []ErrorCount
	for _, e := range errors {
		id := e.Question.TopicID
		if i, ok := index[id]; ok {
			counts[i].Count++
			continue
		}
		index[id] = len(counts)
		counts = append(counts, ErrorCount{TopicID: id, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopRecurringErrors returns at most n entries of RecurringErrorCounts.
func TopRecurringErrors(errors []Answer, n int) []ErrorCount {
	counts := RecurringErrorCounts(errors)
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// CategoryStat tallies answers for one cognitive category.
type CategoryStat struct {
	Category string
	Correct  int
	Total    int
}

// Accuracy is the percentage of correct answers, 0 for an empty category.
func (c CategoryStat) Accuracy() float64 {
	return percent(c.Correct, c.Total)
}

// CognitiveBreakdown tallies answers per cognitive category in first-seen
// order. Categories without answers are absent.
func CognitiveBreakdown(answers []Answer) []CategoryStat {
	index := make(map[string]int)
	var stats []CategoryStat
	for _, a := range answers {
		cat := strings.TrimSpace(a.Question.CognitiveCategory)
		if cat == "" {
			cat = DefaultCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(stats)
			index[cat] = i
			stats = append(stats, CategoryStat{Category: cat})
		}
		stats[i].Total++
		if a.Correct {
			stats[i].Correct++
		}
	}
	return stats
}

// Pacing holds mean seconds per answer.
type Pacing struct {
	Overall   float64
	Correct   float64
	Incorrect float64
}

// PacingStats averages answer times overall and split by correctness. An
// empty split averages to 0.
func PacingStats(answers []Answer) Pacing {
	var all, right, wrong mean
	for _, a := range answers {
		all.add(a.TimeTakenSeconds)
		if a.Correct {
			right.add(a.TimeTakenSeconds)
		} else {
			wrong.add(a.TimeTakenSeconds)
		}
	}
	return Pacing{Overall: all.value(), Correct: right.value(), Incorrect: wrong.value()}
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// Accuracy is the overall percentage of correct answers, 0 when empty.
func Accuracy(answers []Answer) float64 {
	correct := 0
	for _, a := range answers {
		if a.Correct {
			correct++
		}
	}
	return percent(correct, len(answers))
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Insights is everything the insights view shows.
type Insights struct {
	TotalAnswers int
	TotalErrors  int
	Accuracy     float64
	TopErrors    []ErrorCount
	Pacing       Pacing
	Categories   []CategoryStat
}

// Empty reports whether there is no history to analyse.
func (in Insights) Empty() bool {
	return in.TotalAnswers == 0 && in.TotalErrors == 0
}

// ComputeInsights recomputes all statistics from the full history.
func ComputeInsights(answers, errors []Answer) Insights {
	return Insights{
		TotalAnswers: len(answers),
		TotalErrors:  len(errors),
		Accuracy:     Accuracy(answers),
		TopErrors:    TopRecurringErrors(errors, TopErrorsShown),
		Pacing:       PacingStats(answers),
		Categories:   CognitiveBreakdown(answers),
	}
}

// TopicLabel turns a topic id like "english_grammar_tenses" into display
// text.
func TopicLabel(topicID string) string {
	return strings.ReplaceAll(topicID, "_", " ")
}
