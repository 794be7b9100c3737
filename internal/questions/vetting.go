package questions

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// VettingStep is a single check applied to a freshly decoded question list
// before it is handed to the session engine.
type VettingStep interface {
	Name() string
	Apply(qs []Question) ([]Question, error)
}

// Vet runs the default vetting pipeline. Any failure is permanent: a
// malformed list is rejected, never repaired into a shorter interview.
func Vet(logger *zap.Logger, qs []Question) ([]Question, error) {
	return RunVetting(logger, qs, DefaultVetting()...)
}

// RunVetting executes the supplied steps sequentially.
func RunVetting(logger *zap.Logger, qs []Question, steps ...VettingStep) ([]Question, error) {
	for _, step := range steps {
		next, err := step.Apply(qs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if logger != nil {
			logger.Debug("vetting step passed",
				zap.String("name", step.Name()),
				zap.Int("questions", len(next)),
			)
		}

		qs = next
	}

	return qs, nil
}

// DefaultVetting returns the steps applied to every generated list.
func DefaultVetting() []VettingStep {
	return []VettingStep{
		&schemaStep{},
		&countStep{expected: InterviewLength},
		&distributionStep{easy: EasyCount, medium: MediumCount, hard: HardCount},
		&budgetStep{},
	}
}

// schemaStep rejects questions with missing fields or unknown difficulties.
type schemaStep struct{}

func (s *schemaStep) Name() string { return "schema" }

func (s *schemaStep) Apply(qs []Question) ([]Question, error) {
	for i := range qs {
		difficulty, err := ParseDifficulty(string(qs[i].Difficulty))
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		qs[i].Difficulty = difficulty

		if strings.TrimSpace(qs[i].Text) == "" {
			return nil, fmt.Errorf("question %d: text is required", i)
		}
		if strings.TrimSpace(qs[i].Category) == "" {
			return nil, fmt.Errorf("question %d: category is required", i)
		}
		if qs[i].Time < 0 {
			return nil, fmt.Errorf("question %d: negative time budget", i)
		}
	}
	return qs, nil
}

type countStep struct {
	expected int
}

func (s *countStep) Name() string { return "count" }

func (s *countStep) Apply(qs []Question) ([]Question, error) {
	if len(qs) != s.expected {
		return nil, fmt.Errorf("expected %d questions, got %d", s.expected, len(qs))
	}
	return qs, nil
}

type distributionStep struct {
	easy, medium, hard int
}

func (s *distributionStep) Name() string { return "distribution" }

func (s *distributionStep) Apply(qs []Question) ([]Question, error) {
	counts := map[Difficulty]int{}
	for _, q := range qs {
		counts[q.Difficulty]++
	}

	if counts[Easy] != s.easy || counts[Medium] != s.medium || counts[Hard] != s.hard {
		return nil, fmt.Errorf("expected %d/%d/%d easy/medium/hard, got %d/%d/%d",
			s.easy, s.medium, s.hard, counts[Easy], counts[Medium], counts[Hard])
	}
	return qs, nil
}

// budgetStep normalizes a missing or off-tier time value to the tier budget.
type budgetStep struct{}

func (s *budgetStep) Name() string { return "budget" }

func (s *budgetStep) Apply(qs []Question) ([]Question, error) {
	for i := range qs {
		if qs[i].Time != qs[i].Difficulty.TimeBudget() {
			qs[i].Time = qs[i].Difficulty.TimeBudget()
		}
	}
	return qs, nil
}
