package quiz

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateSubmitted State = "submitted"
)

// Engine runs one quiz for one viewer: answer collection, the countdown, and
// scoring. All methods are safe for the handler goroutines plus the countdown
// goroutine.
type Engine struct {
	mu sync.Mutex

	state   State
	quiz    *Quiz
	answers map[string]Answer

	startedAt time.Time
	remaining int // seconds; meaningful only while a limit is running
	stop      chan struct{}

	result Result

	now  func() time.Time
	tick time.Duration
}

func NewEngine() *Engine {
	return &Engine{state: StateIdle, now: time.Now, tick: time.Second}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Quiz() *Quiz {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz
}

// Start begins an attempt. No-op when q is nil or an attempt is already active.
func (e *Engine) Start(q *Quiz) {
	if q == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateActive {
		return
	}
	e.stopTimerLocked()
	e.quiz = q
	e.state = StateActive
	e.answers = map[string]Answer{}
	e.result = Result{}
	e.startedAt = e.now()
	if q.TimeLimit > 0 {
		e.remaining = q.TimeLimit * 60
		e.stop = make(chan struct{})
		go e.countdown(e.stop)
	}
}

func (e *Engine) countdown(stop chan struct{}) {
	t := time.NewTicker(e.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			e.mu.Lock()
			if e.state != StateActive {
				e.mu.Unlock()
				return
			}
			if e.remaining > 0 {
				e.remaining--
				e.mu.Unlock()
				continue
			}
			e.mu.Unlock()
			// Time is up: same path as a manual submit.
			e.Submit()
			return
		}
	}
}

// Remaining reports the countdown in seconds, 0 when no limit is running.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// SelectAnswer records a single-value answer.
func (e *Engine) SelectAnswer(questionID, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive {
		return
	}
	e.answers[questionID] = Answer{Single: value}
}

// ToggleOption adds the option to a multi-select answer, or removes it when
// already present. Order of the remaining options is preserved.
func (e *Engine) ToggleOption(questionID, option string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive {
		return
	}
	a := e.answers[questionID]
	a.IsMulti = true
	idx := -1
	for i, v := range a.Multi {
		if v == option {
			idx = i
			break
		}
	}
	if idx >= 0 {
		a.Multi = append(a.Multi[:idx], a.Multi[idx+1:]...)
	} else {
		a.Multi = append(a.Multi, option)
	}
	e.answers[questionID] = a
}

func (e *Engine) Answers() map[string]Answer {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]Answer, len(e.answers))
	for k, v := range e.answers {
		out[k] = v
	}
	return out
}

// CanSubmit reports whether every question carries a non-empty answer.
func (e *Engine) CanSubmit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive || e.quiz == nil {
		return false
	}
	for _, q := range e.quiz.Questions {
		a, ok := e.answers[q.ID]
		if !ok {
			return false
		}
		if a.IsMulti {
			if len(a.Multi) == 0 {
				return false
			}
		} else if strings.TrimSpace(a.Single) == "" {
			return false
		}
	}
	return true
}

// Submit grades the attempt and freezes it. Calling it again (manual submit
// racing the countdown, or vice versa) returns the already-computed result.
func (e *Engine) Submit() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive || e.quiz == nil {
		return e.result
	}
	e.stopTimerLocked()

	score, total := 0, 0
	for _, q := range e.quiz.Questions {
		total += q.Points
		if Correct(q, e.answers[q.ID]) {
			score += q.Points
		}
	}
	passed := true
	if total > 0 {
		passed = 100*score/total >= e.quiz.PassingScore
	}
	e.result = Result{
		Score:       score,
		TotalPoints: total,
		Passed:      passed,
		ElapsedSec:  e.now().Sub(e.startedAt).Seconds(),
	}
	e.state = StateSubmitted
	return e.result
}

func (e *Engine) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Retake restarts the same quiz when it allows retakes.
func (e *Engine) Retake() {
	e.mu.Lock()
	q := e.quiz
	allowed := e.state == StateSubmitted && q != nil && q.AllowRetake
	if allowed {
		e.state = StateIdle
	}
	e.mu.Unlock()
	if allowed {
		e.Start(q)
	}
}

// Exit abandons the attempt without scoring and clears all transient state.
func (e *Engine) Exit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	e.state = StateIdle
	e.quiz = nil
	e.answers = nil
	e.result = Result{}
}

func (e *Engine) stopTimerLocked() {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	e.remaining = 0
}

// Correct grades one question. A set of correct answers compares
// order-independently; short-answer compares trimmed and case-insensitive;
// every other single-answer type compares by exact string equality.
func Correct(q Question, a Answer) bool {
	if len(q.CorrectAnswers) > 0 {
		if !a.IsMulti {
			return false
		}
		return equalStringSets(a.Multi, q.CorrectAnswers)
	}
	if q.Type == TypeShortAnswer {
		return strings.EqualFold(strings.TrimSpace(a.Single), strings.TrimSpace(q.CorrectAnswer))
	}
	return a.Single == q.CorrectAnswer
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
