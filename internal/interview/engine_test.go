package interview

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mkarpov/interview-runner/internal/questions"
)

func testQuestions() []questions.Question {
	return []questions.Question{
		{Text: "q1", Difficulty: questions.Easy, Time: 120, Category: "Technical Skills"},
		{Text: "q2", Difficulty: questions.Medium, Time: 180, Category: "Problem Solving"},
		{Text: "q3", Difficulty: questions.Hard, Time: 240, Category: "System Design"},
	}
}

func validInfo() CandidateInfo {
	return CandidateInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "+7 999 123-45-67"}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e := NewEngine(zap.NewNop())
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	return e
}

func TestStartCreatesSessionAndCandidate(t *testing.T) {
	e := newTestEngine(t)

	session, err := e.Start(validInfo(), testQuestions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Status != StatusInProgress {
		t.Fatalf("expected in-progress, got %s", session.Status)
	}
	if session.CurrentQuestionIndex != 0 {
		t.Fatalf("expected cursor 0, got %d", session.CurrentQuestionIndex)
	}
	if session.Timer != 120 {
		t.Fatalf("expected timer from first question, got %d", session.Timer)
	}
	if len(session.Answers) != 3 {
		t.Fatalf("expected 3 empty answer slots, got %d", len(session.Answers))
	}

	candidates := e.Candidates()
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate record, got %d", len(candidates))
	}
	if candidates[0].Score != 0 || candidates[0].Summary != "" || candidates[0].CompletedAt != nil {
		t.Fatalf("terminal fields must stay unset at start: %+v", candidates[0])
	}
}

func TestStartRejectsInvalidInputWithoutMutation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info CandidateInfo
		qs   []questions.Question
	}{
		{name: "short name", info: CandidateInfo{Name: "J", Email: "j@example.com", Phone: "+79991234567"}, qs: testQuestions()},
		{name: "bad email", info: CandidateInfo{Name: "Jane", Email: "not-an-email", Phone: "+79991234567"}, qs: testQuestions()},
		{name: "bad phone", info: CandidateInfo{Name: "Jane", Email: "j@example.com", Phone: "12"}, qs: testQuestions()},
		{name: "empty questions", info: CandidateInfo{Name: "Jane", Email: "j@example.com", Phone: "+79991234567"}, qs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewEngine(zap.NewNop())
			_, err := e.Start(tt.info, tt.qs)

			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}

			if e.Session() != nil {
				t.Fatal("session must not be created on validation failure")
			}
			if len(e.Candidates()) != 0 {
				t.Fatal("candidate record must not be created on validation failure")
			}
		})
	}
}

func TestStartRefusesWhileInProgress(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Start(validInfo(), testQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.Start(validInfo(), testQuestions()); !errors.Is(err, ErrSessionInProgress) {
		t.Fatalf("expected ErrSessionInProgress, got %v", err)
	}
}

func TestAdvanceDrivesSessionToCompletionExactlyOnce(t *testing.T) {
	e := newTestEngine(t)

	qs := testQuestions()
	if _, err := e.Start(validInfo(), qs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < len(qs)-1; i++ {
		if completed := e.Advance(); completed {
			t.Fatalf("advance %d must not complete", i)
		}
	}

	if completed := e.Advance(); !completed {
		t.Fatal("final advance must complete the session")
	}

	session := e.Session()
	if session.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}

	// Further operations are no-ops.
	if completed := e.Advance(); completed {
		t.Fatal("advance after completion must be a no-op")
	}
	if remaining := e.Tick(); remaining != 0 {
		t.Fatalf("tick after completion must be a no-op, got %d", remaining)
	}

	candidate := e.FindCandidate(session.CandidateID)
	if candidate == nil {
		t.Fatal("candidate record missing")
	}
	if candidate.CompletedAt == nil {
		t.Fatal("completedAt must be stamped")
	}
	if len(candidate.Answers) != len(qs) {
		t.Fatalf("expected %d scored answers, got %d", len(qs), len(candidate.Answers))
	}
}

func TestAdvanceResetsTimerToNextQuestionBudget(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Start(validInfo(), testQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.Tick()
	e.Tick()

	if completed := e.Advance(); completed {
		t.Fatal("unexpected completion")
	}

	session := e.Session()
	if session.CurrentQuestionIndex != 1 {
		t.Fatalf("expected cursor 1, got %d", session.CurrentQuestionIndex)
	}
	if session.Timer != 180 {
		t.Fatalf("expected timer reset to 180, got %d", session.Timer)
	}
}

func TestTickNeverDrivesTimerBelowZero(t *testing.T) {
	e := newTestEngine(t)

	qs := []questions.Question{
		{Text: "q1", Difficulty: questions.Easy, Time: 2, Category: "Technical Skills"},
	}
	if _, err := e.Start(validInfo(), qs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if remaining := e.Tick(); remaining != 1 {
		t.Fatalf("expected 1, got %d", remaining)
	}
	if remaining := e.Tick(); remaining != 0 {
		t.Fatalf("expected 0, got %d", remaining)
	}
	if remaining := e.Tick(); remaining != 0 {
		t.Fatalf("timer must floor at 0, got %d", remaining)
	}
}

func TestRecordAnswerIsDefensiveWithoutSession(t *testing.T) {
	e := newTestEngine(t)

	// Must not panic.
	e.RecordAnswer("orphan answer")

	if e.Session() != nil {
		t.Fatal("no session expected")
	}
}

func TestRecordAnswerOverwritesCurrentBuffer(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Start(validInfo(), testQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.RecordAnswer("first draft")
	e.RecordAnswer("final answer")

	session := e.Session()
	if session.Answers[0] != "final answer" {
		t.Fatalf("expected overwrite, got %q", session.Answers[0])
	}
}

func TestResumeRestoresFullBudgetOnly(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Start(validInfo(), testQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.RecordAnswer("keep me")
	e.Advance()
	e.Tick()
	e.Tick()
	e.Tick()

	before := e.Session()
	if before.Timer != 177 {
		t.Fatalf("fixture expects timer 177, got %d", before.Timer)
	}

	e.Resume()

	after := e.Session()
	if after.Timer != 180 {
		t.Fatalf("expected full budget 180, got %d", after.Timer)
	}
	if after.CurrentQuestionIndex != before.CurrentQuestionIndex {
		t.Fatal("resume must not move the cursor")
	}
	if after.Answers[0] != "keep me" {
		t.Fatal("resume must not touch recorded answers")
	}
}

func TestCompletionScoresWithNoAnswerDefault(t *testing.T) {
	e := newTestEngine(t)

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	current := start
	e.now = func() time.Time { return current }

	if _, err := e.Start(validInfo(), testQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.RecordAnswer("React components use hooks to manage state and props across renders in the frontend.")

	current = start.Add(95 * time.Second)

	e.Advance()
	e.Advance()
	e.Advance()

	session := e.Session()
	candidate := e.FindCandidate(session.CandidateID)

	if candidate.Answers[1].Answer != "No answer provided." {
		t.Fatalf("expected default answer text, got %q", candidate.Answers[1].Answer)
	}
	if candidate.Answers[1].Score != 1 {
		t.Fatalf("non-empty default text scores the bottom rung, got %d", candidate.Answers[1].Score)
	}
	if candidate.Duration != 95 {
		t.Fatalf("expected duration 95s, got %d", candidate.Duration)
	}
	if candidate.Score < 0 || candidate.Score > 100 {
		t.Fatalf("aggregate out of range: %d", candidate.Score)
	}
}

func TestCompletionDurationFlooredAtOneSecond(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Start(validInfo(), testQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.Advance()
	e.Advance()
	e.Advance()

	candidate := e.Candidates()[0]
	if candidate.Duration != 1 {
		t.Fatalf("expected duration floor of 1 second, got %d", candidate.Duration)
	}
}

func TestDiscardKeepsFinalizedRecords(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Start(validInfo(), testQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.Advance()
	e.Advance()
	e.Advance()
	e.Discard()

	if e.Session() != nil {
		t.Fatal("expected absent session after discard")
	}
	if len(e.Candidates()) != 1 {
		t.Fatal("discard must not touch candidate history")
	}
}

func TestRestoreRejectsCorruptSession(t *testing.T) {
	e := newTestEngine(t)

	corrupt := &Session{
		CandidateID: "cand_1700000000000",
		Status:      StatusInProgress,
	}

	if err := e.Restore(corrupt, nil); err == nil {
		t.Fatal("expected corrupt session to be rejected")
	}
}

func TestRestoreRepairsAnswerLength(t *testing.T) {
	e := newTestEngine(t)

	session := &Session{
		CandidateID: "cand_1700000000000",
		Status:      StatusInProgress,
		Questions:   testQuestions(),
		Answers:     []string{"only one"},
		Timer:       10,
		StartTime:   time.Now(),
	}

	if err := e.Restore(session, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored := e.Session()
	if len(restored.Answers) != 3 {
		t.Fatalf("expected padded answers, got %d", len(restored.Answers))
	}
	if restored.Answers[0] != "only one" {
		t.Fatalf("expected existing answer preserved, got %q", restored.Answers[0])
	}
}

func TestStartedAt(t *testing.T) {
	ts, ok := StartedAt("cand_1700000000000")
	if !ok {
		t.Fatal("expected parseable candidate id")
	}
	if ts.UnixMilli() != 1700000000000 {
		t.Fatalf("unexpected timestamp: %d", ts.UnixMilli())
	}

	if _, ok := StartedAt("garbage"); ok {
		t.Fatal("expected malformed id to be rejected")
	}
}
