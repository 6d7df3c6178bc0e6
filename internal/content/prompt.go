package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

const roadmapSystemPrompt = `Act as a seasoned college counselor and data analyst. Based on the learner's selected subjects and historical exam patterns, create a multi-week study roadmap that prioritizes topics by their frequency in past exams and by the learner's reported or inferred weaknesses.

Rules:
- Interleave both subjects throughout the schedule; do not dedicate whole weeks to one subject.
- Number the weeks from 1 without gaps or repeats.
- Every task is either a "lesson" (new material) or a "practice" (exam questions).
- topic_id is a concise snake_case identifier, unique per topic, e.g. "english_grammar_tenses".
- The subject of every task is one of the two selected subjects, spelled exactly as given.`

const lessonSystemPrompt = `Act as a subject matter expert. Generate concise lesson material, tutorials, or deep-dive explanations tailored to the specific knowledge gap identified. Keep the tone encouraging and academic.

The output must be Markdown. Include an introductory summary, the core lesson, and example problems. Return only the lesson, with no preamble.`

const questionsSystemPrompt = `Generate high-quality, simulated entrance exam questions (multiple choice and open-ended) that match the style, difficulty, and format of standard college entrance exams.

Rules:
- For MCQ, provide exactly 4 options; the correct answer must be the exact text of one option.
- For Short Answer, leave options empty and keep the correct answer to a word or short phrase, since answers are compared literally.
- Always include a detailed explanation of why the answer is correct.
- Label each question with the cognitive skill it exercises.`

func buildRoadmapMessage(subjects [2]string, targetDate, weaknesses string, weeks int, analysis *ExamAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subjects: %s & %s\n", subjects[0], subjects[1])
	fmt.Fprintf(&b, "Target Exam Date: %s\n", targetDate)
	if w := strings.TrimSpace(weaknesses); w != "" {
		fmt.Fprintf(&b, "User-reported weaknesses: %s\n", w)
	}
	if analysis != nil && len(analysis.HistoricalData) > 0 {
		data, err := json.Marshal(analysis.HistoricalData)
		if err == nil {
			fmt.Fprintf(&b, "Historical Data: %s\n", data)
		}
	}
	fmt.Fprintf(&b, "\nGenerate a %d-week study roadmap.", weeks)

	return b.String()
}

func buildLessonMessage(topicID, contextualError string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topicID)
	if c := strings.TrimSpace(contextualError); c != "" {
		fmt.Fprintf(&b, "Specific mistake made by the learner: %s\n", c)
	}
	b.WriteString("\nPlease generate the lesson content.")
	return b.String()
}

func buildQuestionsMessage(subject, topicID string, difficulty, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Topic: %s\n", topicID)
	fmt.Fprintf(&b, "Difficulty Level (1-10): %d\n", difficulty)
	fmt.Fprintf(&b, "Number of Questions to Generate: %d", count)
	return b.String()
}
