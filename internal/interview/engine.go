package interview

import (
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mkarpov/interview-runner/internal/questions"
	"github.com/mkarpov/interview-runner/internal/scoring"
)

// noAnswer is recorded in the scored detail when a question timed out with
// an empty answer buffer.
const noAnswer = "No answer provided."

// ErrSessionInProgress is returned by Start while another interview is
// still running; the caller must discard it explicitly first.
var ErrSessionInProgress = errors.New("an interview is already in progress")

// Engine is the session state machine. All mutations are serialized behind
// one mutex so a timer-driven auto-advance and a manual advance can never
// both fire for the same question.
type Engine struct {
	mu         sync.Mutex
	now        func() time.Time
	logger     *zap.Logger
	session    *Session
	candidates []*Candidate
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		now:    time.Now,
		logger: logger,
	}
}

// Start validates the input, creates the candidate record and the session.
// Nothing is mutated on a validation failure.
func (e *Engine) Start(info CandidateInfo, qs []questions.Question) (*Session, error) {
	if err := ValidateCandidateInfo(info); err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, &InvalidInputError{Field: "questions", Reason: "question list must not be empty"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil && e.session.Status == StatusInProgress {
		return nil, ErrSessionInProgress
	}

	now := e.now()
	candidate := &Candidate{
		ID:    newCandidateID(now),
		Name:  info.Name,
		Email: info.Email,
		Phone: info.Phone,
	}
	e.candidates = append(e.candidates, candidate)

	owned := make([]questions.Question, len(qs))
	copy(owned, qs)

	e.session = &Session{
		CandidateID:          candidate.ID,
		Status:               StatusInProgress,
		Questions:            owned,
		CurrentQuestionIndex: 0,
		Answers:              make([]string, len(owned)),
		Timer:                owned[0].Time,
		StartTime:            now,
	}

	e.logger.Info("interview started",
		zap.String("candidate_id", candidate.ID),
		zap.Int("questions", len(owned)),
	)

	return e.snapshotLocked(), nil
}

// RecordAnswer overwrites the answer buffer for the current question. It is
// a defensive no-op when no session is in progress.
func (e *Engine) RecordAnswer(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Status != StatusInProgress {
		return
	}

	e.session.Answers[e.session.CurrentQuestionIndex] = text
}

// Tick decrements the countdown by one second, floored at zero, and
// returns the remaining time. It is driven by an external one-second clock.
func (e *Engine) Tick() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Status != StatusInProgress {
		return 0
	}

	if e.session.Timer > 0 {
		e.session.Timer--
	}

	return e.session.Timer
}

// Advance moves to the next question, or completes the interview when the
// cursor is on the last one. Manual submission and timer expiry both call
// this same operation, which is what guarantees at-most-once advancement
// per question. It reports whether the session completed.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Status != StatusInProgress {
		return false
	}

	last := len(e.session.Questions) - 1
	if e.session.CurrentQuestionIndex >= last {
		e.completeLocked()
		return true
	}

	e.session.CurrentQuestionIndex++
	e.session.Timer = e.session.Questions[e.session.CurrentQuestionIndex].Time

	e.logger.Debug("advanced to next question",
		zap.String("candidate_id", e.session.CandidateID),
		zap.Int("question_index", e.session.CurrentQuestionIndex),
		zap.Int("timer", e.session.Timer),
	)

	return false
}

// completeLocked scores the full answer sheet once and fills the terminal
// candidate record fields. Only reachable once per session: Advance refuses
// to run after the status flips to completed.
func (e *Engine) completeLocked() {
	session := e.session

	answers := make([]scoring.Answer, 0, len(session.Questions))
	for i, q := range session.Questions {
		answer := session.Answers[i]
		if answer == "" {
			answer = noAnswer
		}
		answers = append(answers, scoring.Answer{
			Question:   q.Text,
			Answer:     answer,
			Difficulty: q.Difficulty,
		})
	}

	result := scoring.Evaluate(answers)

	now := e.now()
	duration := int(math.Round(now.Sub(session.StartTime).Seconds()))
	if duration < 1 {
		duration = 1
	}

	if candidate := e.findCandidateLocked(session.CandidateID); candidate != nil {
		candidate.Score = result.FinalScore
		candidate.Summary = result.Summary
		candidate.Answers = result.Detailed
		candidate.CompletedAt = &now
		candidate.Duration = duration
	}

	session.Status = StatusCompleted

	e.logger.Info("interview completed",
		zap.String("candidate_id", session.CandidateID),
		zap.Int("score", result.FinalScore),
		zap.Int("duration_seconds", duration),
	)
}

// Resume gives the candidate a fresh full time window on the question they
// were on. The cursor and recorded answers are untouched.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Status != StatusInProgress {
		return
	}

	e.session.Timer = e.session.Questions[e.session.CurrentQuestionIndex].Time

	e.logger.Info("session resumed",
		zap.String("candidate_id", e.session.CandidateID),
		zap.Int("question_index", e.session.CurrentQuestionIndex),
		zap.Int("timer", e.session.Timer),
	)
}

// Discard clears the active session. Finalized candidate records are kept.
func (e *Engine) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		e.logger.Info("session discarded", zap.String("candidate_id", e.session.CandidateID))
	}
	e.session = nil
}

// Restore installs persisted state. An in-progress session without
// questions is corrupt and must be discarded by the reconciler before it
// gets here.
func (e *Engine) Restore(session *Session, candidates []*Candidate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if session != nil && session.Status == StatusInProgress && len(session.Questions) == 0 {
		return errors.New("refusing to restore in-progress session without questions")
	}

	if session != nil && len(session.Answers) != len(session.Questions) {
		answers := make([]string, len(session.Questions))
		copy(answers, session.Answers)
		session.Answers = answers
	}

	e.session = session
	e.candidates = candidates
	return nil
}

// Session returns a copy of the active session, or nil when absent.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// CurrentQuestion returns the question under the cursor while in progress.
func (e *Engine) CurrentQuestion() (questions.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Status != StatusInProgress {
		return questions.Question{}, false
	}

	return e.session.Questions[e.session.CurrentQuestionIndex], true
}

// Candidates returns the history in insertion order.
func (e *Engine) Candidates() []*Candidate {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Candidate, len(e.candidates))
	copy(out, e.candidates)
	return out
}

// FindCandidate returns the record with the given ID, or nil.
func (e *Engine) FindCandidate(id string) *Candidate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findCandidateLocked(id)
}

func (e *Engine) findCandidateLocked(id string) *Candidate {
	for _, candidate := range e.candidates {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

func (e *Engine) snapshotLocked() *Session {
	if e.session == nil {
		return nil
	}

	copied := *e.session
	copied.Questions = append([]questions.Question(nil), e.session.Questions...)
	copied.Answers = append([]string(nil), e.session.Answers...)
	return &copied
}
