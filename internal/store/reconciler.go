package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/mkarpov/interview-runner/internal/interview"
)

// freshSessionWindow separates a session created by this process from one
// the candidate is returning to after an interruption.
const freshSessionWindow = 5 * time.Second

// Decision is the reconciler's verdict on persisted state.
type Decision int

const (
	// DecisionNone means there is nothing to reconcile: no session, a
	// completed one, or a session too fresh to count as "returned-to".
	DecisionNone Decision = iota
	// DecisionOffer means a healthy in-progress session exists and the
	// caller must offer the resume-or-discard choice.
	DecisionOffer
	// DecisionDiscarded means corrupt state was found and silently removed.
	DecisionDiscarded
)

// Reconciler inspects persisted state on (re)attachment and decides whether
// continuation may be offered. The offer is made at most once per session
// lifetime.
type Reconciler struct {
	logger  *zap.Logger
	now     func() time.Time
	offered bool
}

func NewReconciler(logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		logger: logger,
		now:    time.Now,
	}
}

// Inspect examines the state and returns the verdict. Corrupt sessions
// (in-progress without questions) are removed from the state in place and
// never surfaced as an error to the caller.
func (r *Reconciler) Inspect(state *State) Decision {
	if state == nil || state.Session == nil {
		return DecisionNone
	}

	session := state.Session
	if session.Status != interview.StatusInProgress {
		return DecisionNone
	}

	if len(session.Questions) == 0 {
		r.logger.Warn("discarding corrupt in-progress session",
			zap.String("candidate_id", session.CandidateID),
			zap.String("reason", "no questions"),
		)
		state.Session = nil
		return DecisionDiscarded
	}

	if r.offered {
		return DecisionNone
	}

	if startedAt, ok := interview.StartedAt(session.CandidateID); ok {
		if r.now().Sub(startedAt) < freshSessionWindow {
			return DecisionNone
		}
	}

	r.offered = true

	r.logger.Info("found resumable session",
		zap.String("candidate_id", session.CandidateID),
		zap.Int("question_index", session.CurrentQuestionIndex),
		zap.Int("questions", len(session.Questions)),
	)

	return DecisionOffer
}
