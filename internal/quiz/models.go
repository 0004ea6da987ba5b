package quiz

// Question types as stored in the catalog.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeTrueFalse      = "true-false"
	TypeShortAnswer    = "short-answer"
)

type Question struct {
	ID     string `json:"id"`
	Prompt string `json:"question"`
	Type   string `json:"type"` // multiple-choice, true-false, short-answer

	Options []string `json:"options,omitempty"`

	// CorrectAnswers set (order-irrelevant) wins over CorrectAnswer when non-empty.
	CorrectAnswer  string   `json:"correct_answer,omitempty"`
	CorrectAnswers []string `json:"correct_answers,omitempty"`

	Explanation string `json:"explanation,omitempty"`
	Points      int    `json:"points"`
}

type Quiz struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Questions    []Question `json:"questions"`
	PassingScore int        `json:"passing_score"` // percent, 0-100
	TimeLimit    int        `json:"time_limit,omitempty"` // minutes; 0 = no limit
	AllowRetake  bool       `json:"allow_retake"`
	ShowAnswers  bool       `json:"show_correct_answers"`
}

// Answer is a learner's response to one question: a single value, or a
// multi-select list when IsMulti is set.
type Answer struct {
	Single  string   `json:"single,omitempty"`
	Multi   []string `json:"multi,omitempty"`
	IsMulti bool     `json:"is_multi,omitempty"`
}

// Result is the outcome of a submitted attempt.
type Result struct {
	Score       int     `json:"score"`
	TotalPoints int     `json:"total_points"`
	Passed      bool    `json:"passed"`
	ElapsedSec  float64 `json:"elapsed_sec"`
}
