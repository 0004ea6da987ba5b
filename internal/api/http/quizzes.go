package http

import (
	"encoding/json"

	nethttp "net/http"

	"github.com/formatech/coursegate/internal/player"
	"github.com/formatech/coursegate/internal/quiz"
)

type quizView struct {
	State     quiz.State             `json:"state"`
	Quiz      *quiz.Quiz             `json:"quiz,omitempty"`
	Answers   map[string]quiz.Answer `json:"answers,omitempty"`
	Remaining int                    `json:"remaining_sec,omitempty"`
	Result    *quiz.Result           `json:"result,omitempty"`
	Review    map[string]bool        `json:"review,omitempty"`
}

// snapshotQuiz strips correct answers from the active view; they come back in
// the review map after submit, and only when the quiz allows it.
func snapshotQuiz(e *quiz.Engine) quizView {
	v := quizView{State: e.State()}
	q := e.Quiz()
	if q == nil {
		return v
	}
	answers := e.Answers()
	switch v.State {
	case quiz.StateActive:
		redacted := *q
		redacted.Questions = make([]quiz.Question, len(q.Questions))
		for i, qq := range q.Questions {
			qq.CorrectAnswer = ""
			qq.CorrectAnswers = nil
			qq.Explanation = ""
			redacted.Questions[i] = qq
		}
		v.Quiz = &redacted
		v.Answers = answers
		v.Remaining = e.Remaining()
	case quiz.StateSubmitted:
		res := e.Result()
		v.Result = &res
		v.Answers = answers
		if q.ShowAnswers {
			v.Quiz = q
			v.Review = map[string]bool{}
			for _, qq := range q.Questions {
				v.Review[qq.ID] = quiz.Correct(qq, answers[qq.ID])
			}
		}
	}
	return v
}

func StartQuizHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		s.StartQuiz()
		if s.Quiz.State() != quiz.StateActive {
			nethttp.Error(w, "no quiz on current module", nethttp.StatusConflict)
			return
		}
		writeJSON(w, nethttp.StatusOK, snapshotQuiz(s.Quiz))
	}
}

func GetQuizHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		writeJSON(w, nethttp.StatusOK, snapshotQuiz(s.Quiz))
	}
}

// AnswerHandler records a single-value answer, or toggles a multi-select
// option when "option" is set instead of "value".
func AnswerHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		var req struct {
			QuestionID string  `json:"question_id"`
			Value      *string `json:"value,omitempty"`
			Option     *string `json:"option,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		switch {
		case req.Option != nil:
			s.Quiz.ToggleOption(req.QuestionID, *req.Option)
		case req.Value != nil:
			s.Quiz.SelectAnswer(req.QuestionID, *req.Value)
		default:
			nethttp.Error(w, "value or option required", nethttp.StatusBadRequest)
			return
		}
		writeJSON(w, nethttp.StatusOK, snapshotQuiz(s.Quiz))
	}
}

func SubmitQuizHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		if s.Quiz.State() != quiz.StateActive {
			nethttp.Error(w, "no active quiz", nethttp.StatusConflict)
			return
		}
		if !s.Quiz.CanSubmit() {
			nethttp.Error(w, "unanswered questions remain", nethttp.StatusUnprocessableEntity)
			return
		}
		s.Quiz.Submit()
		writeJSON(w, nethttp.StatusOK, snapshotQuiz(s.Quiz))
	}
}

func RetakeQuizHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		s.Quiz.Retake()
		if s.Quiz.State() != quiz.StateActive {
			nethttp.Error(w, "retake not allowed", nethttp.StatusConflict)
			return
		}
		writeJSON(w, nethttp.StatusOK, snapshotQuiz(s.Quiz))
	}
}

func ExitQuizHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		s.Quiz.Exit()
		writeJSON(w, nethttp.StatusOK, snapshotQuiz(s.Quiz))
	}
}
