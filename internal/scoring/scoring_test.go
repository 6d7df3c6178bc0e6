package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/scholarprep/internal/content"
)

func answer(topic, category string, correct bool, secs float64) Answer {
	return Answer{
		Question:         content.Question{TopicID: topic, CognitiveCategory: category},
		Correct:          correct,
		TimeTakenSeconds: secs,
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		submitted string
		want      bool
	}{
		{"Paris", true},
		{" paris ", true},
		{"PARIS", true},
		{"\tParis\n", true},
		{"Paris.", false},
		{"Pari s", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCorrect(tt.submitted, "Paris"), "submitted %q", tt.submitted)
	}
}

func TestMergeMastery(t *testing.T) {
	tests := []struct {
		current, errors, want int
	}{
		{70, 2, 73},
		{98, 0, 100},
		{2, 10, 0},
		{70, 1, 74},
		{100, 5, 100},
		{0, 0, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MergeMastery(tt.current, tt.errors), "MergeMastery(%d, %d)", tt.current, tt.errors)
	}
}

func TestMergeCompletion(t *testing.T) {
	assert.Equal(t, 100, MergeCompletion(98, CompletionStep))
	assert.Equal(t, 15, MergeCompletion(10, CompletionStep))
	assert.Equal(t, 100, MergeCompletion(100, CompletionStep))
	assert.Equal(t, 0, MergeCompletion(3, -10))
}

func TestMergeStaysInRange(t *testing.T) {
	for current := -5; current <= 105; current++ {
		for errs := 0; errs <= 20; errs++ {
			m := MergeMastery(current, errs)
			assert.True(t, m >= 0 && m <= 100, "MergeMastery(%d, %d) = %d", current, errs, m)
		}
		c := MergeCompletion(current, CompletionStep)
		assert.True(t, c >= 0 && c <= 100, "MergeCompletion(%d) = %d", current, c)
	}
}

func TestRecurringErrorCounts(t *testing.T) {
	errs := []Answer{
		answer("a", "", false, 1),
		answer("a", "", false, 1),
		answer("b", "", false, 1),
		answer("a", "", false, 1),
		answer("b", "", false, 1),
	}
	assert.Equal(t, []ErrorCount{{"a", 3}, {"b", 2}}, RecurringErrorCounts(errs))
}

func TestRecurringErrorCountsStableTies(t *testing.T) {
	errs := []Answer{
		answer("c", "", false, 1),
		answer("a", "", false, 1),
		answer("b", "", false, 1),
		answer("a", "", false, 1),
		answer("c", "", false, 1),
	}
	assert.Equal(t, []ErrorCount{{"c", 2}, {"a", 2}, {"b", 1}}, RecurringErrorCounts(errs))
	assert.Empty(t, RecurringErrorCounts(nil))
}

func TestTopRecurringErrors(t *testing.T) {
	var errs []Answer
	for _, topic := range []string{"a", "b", "c", "d", "e", "f", "f"} {
		errs = append(errs, answer(topic, "", false, 1))
	}
	top := TopRecurringErrors(errs, TopErrorsShown)
	assert.Len(t, top, 5)
	assert.Equal(t, ErrorCount{"f", 2}, top[0])
	assert.Len(t, TopRecurringErrors(errs[:2], 5), 2)
}

func TestCognitiveBreakdown(t *testing.T) {
	answers := []Answer{
		answer("t", "Recall", true, 1),
		answer("t", "Analysis", false, 1),
		answer("t", "Recall", false, 1),
		answer("t", "", true, 1),
		answer("t", "Recall", true, 1),
	}
	got := CognitiveBreakdown(answers)
	assert.Equal(t, []CategoryStat{
		{Category: "Recall", Correct: 2, Total: 3},
		{Category: "Analysis", Correct: 0, Total: 1},
		{Category: DefaultCategory, Correct: 1, Total: 1},
	}, got)
	assert.InDelta(t, 66.67, got[0].Accuracy(), 0.01)
	assert.Zero(t, got[1].Accuracy())
}

func TestCognitiveBreakdownEmpty(t *testing.T) {
	assert.Empty(t, CognitiveBreakdown(nil))
	assert.Zero(t, CategoryStat{Category: "Recall"}.Accuracy())
}

func TestPacingStats(t *testing.T) {
	answers := []Answer{
		answer("t", "", true, 4),
		answer("t", "", true, 6),
		answer("t", "", false, 11),
	}
	p := PacingStats(answers)
	assert.InDelta(t, 7.0, p.Overall, 1e-9)
	assert.InDelta(t, 5.0, p.Correct, 1e-9)
	assert.InDelta(t, 11.0, p.Incorrect, 1e-9)

	assert.Equal(t, Pacing{}, PacingStats(nil))
	onlyRight := PacingStats(answers[:2])
	assert.Zero(t, onlyRight.Incorrect)
}

func TestAccuracy(t *testing.T) {
	assert.Zero(t, Accuracy(nil))
	assert.InDelta(t, 50.0, Accuracy([]Answer{answer("t", "", true, 1), answer("t", "", false, 1)}), 1e-9)
}

func TestAggregatesIgnoreOrder(t *testing.T) {
	answers := []Answer{
		answer("a", "Recall", true, 3),
		answer("b", "Analysis", false, 9),
		answer("a", "Recall", false, 2),
	}
	reversed := []Answer{answers[2], answers[1], answers[0]}

	assert.Equal(t, PacingStats(answers), PacingStats(reversed))
	assert.Equal(t, Accuracy(answers), Accuracy(reversed))
	assert.ElementsMatch(t, CognitiveBreakdown(answers), CognitiveBreakdown(reversed))
}

func TestComputeInsights(t *testing.T) {
	answers := []Answer{
		answer("a", "Recall", true, 3),
		answer("b", "Analysis", false, 9),
	}
	in := ComputeInsights(answers, Errors(answers))

	assert.False(t, in.Empty())
	assert.Equal(t, 2, in.TotalAnswers)
	assert.Equal(t, 1, in.TotalErrors)
	assert.Equal(t, []ErrorCount{{"b", 1}}, in.TopErrors)
	assert.InDelta(t, 50.0, in.Accuracy, 1e-9)
	assert.Len(t, in.Categories, 2)

	assert.True(t, ComputeInsights(nil, nil).Empty())
}

func TestTopicLabel(t *testing.T) {
	assert.Equal(t, "english grammar tenses", TopicLabel("english_grammar_tenses"))
	assert.Equal(t, "Algebra", TopicLabel("Algebra"))
}
