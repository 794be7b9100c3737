// Package interview owns the single active interview session: stage
// transitions, the question cursor, the per-question countdown and the
// append-only candidate history.
package interview

import (
	"fmt"
	"time"

	"github.com/mkarpov/interview-runner/internal/questions"
	"github.com/mkarpov/interview-runner/internal/scoring"
)

// Status is the two-state session stage. Absence of a session represents
// "not started".
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// CandidateInfo is the validated identity input for a new interview.
type CandidateInfo struct {
	Name  string
	Email string
	Phone string
}

// Candidate is the historical record of one interview. It is created at
// session start and mutated exactly once, at completion.
type Candidate struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Phone       string                `json:"phone"`
	Score       int                   `json:"score"`
	Summary     string                `json:"summary"`
	Answers     []scoring.AnswerScore `json:"answers"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	Duration    int                   `json:"duration"`
}

// Session is the single active interview instance. Questions are fixed at
// creation and never mutated afterward.
type Session struct {
	CandidateID          string               `json:"candidate_id"`
	Status               Status               `json:"status"`
	Questions            []questions.Question `json:"questions"`
	CurrentQuestionIndex int                  `json:"current_question_index"`
	Answers              []string             `json:"answers"`
	Timer                int                  `json:"timer"`
	StartTime            time.Time            `json:"start_time"`
}

// StartedAt extracts the creation timestamp encoded in a candidate ID of
// the form cand_<unix-ms>. The boolean is false for malformed IDs.
func StartedAt(candidateID string) (time.Time, bool) {
	var ms int64
	if _, err := fmt.Sscanf(candidateID, "cand_%d", &ms); err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func newCandidateID(now time.Time) string {
	return fmt.Sprintf("cand_%d", now.UnixMilli())
}
