package content

// TaskType tells the session which runner a DailyTask opens.
type TaskType string

const (
	TaskLesson   TaskType = "lesson"
	TaskPractice TaskType = "practice"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	return t == TaskLesson || t == TaskPractice
}

// DailyTask is one entry of a weekly schedule.
type DailyTask struct {
	Day         string   `json:"day"`
	TopicID     string   `json:"topic_id"`
	TaskType    TaskType `json:"task_type"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
}

// WeeklySchedule groups the tasks of one roadmap week.
type WeeklySchedule struct {
	Week  int         `json:"week"`
	Theme string      `json:"theme"`
	Tasks []DailyTask `json:"tasks"`
}

// Roadmap is the multi-week study plan produced at onboarding.
type Roadmap struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Schedule  []WeeklySchedule `json:"schedule"`
}

// TaskCount returns the number of tasks across all weeks.
func (r *Roadmap) TaskCount() int {
	n := 0
	for _, w := range r.Schedule {
		n += len(w.Tasks)
	}
	return n
}

// QuestionType is the answer format of a question.
type QuestionType string

const (
	MCQ         QuestionType = "MCQ"
	ShortAnswer QuestionType = "Short Answer"
)

// Question is a single exam item. Options is set iff Type is MCQ.
type Question struct {
	Text              string       `json:"question_text"`
	Type              QuestionType `json:"type"`
	Options           []string     `json:"options,omitempty"`
	CorrectAnswer     string       `json:"correct_answer"`
	Explanation       string       `json:"correct_answer_explanation"`
	TopicID           string       `json:"topic_id"`
	CognitiveCategory string       `json:"cognitive_category,omitempty"`
}

// Lesson is generated markdown for one topic.
type Lesson struct {
	TopicID string `json:"topicId"`
	Content string `json:"content"`
}

// TopicStat is one row of historical exam analysis.
type TopicStat struct {
	Topic         string  `json:"topic"`
	Frequency     float64 `json:"frequency"`
	AvgDifficulty float64 `json:"avg_difficulty"`
}

// ExamAnalysis is what past exams say about a subject pair.
type ExamAnalysis struct {
	Subjects       [2]string   `json:"subjects"`
	HistoricalData []TopicStat `json:"historical_data"`
}

// Subjects lists the subjects offered at onboarding.
var Subjects = []string{
	"English",
	"Portuguese",
	"Mathematics",
	"History",
	"Geography",
	"Physics",
	"Chemistry",
	"Biology",
	"Philosophy",
	"Sociology",
}
