// Package questions supplies the ordered question list an interview runs
// over, either from the curated built-in bank or from an AI question
// generation call.
package questions

import (
	"context"
	"fmt"
	"strings"
)

// Difficulty classifies a question and drives both its time budget and the
// scoring thresholds applied to its answer.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

const (
	// InterviewLength is the fixed number of questions per interview.
	InterviewLength = 7

	EasyCount   = 2
	MediumCount = 3
	HardCount   = 2

	MinJobDescriptionLen = 50
	MaxJobDescriptionLen = 5000
)

// TimeBudget returns the per-question countdown in seconds for the tier.
func (d Difficulty) TimeBudget() int {
	switch d {
	case Easy:
		return 120
	case Medium:
		return 180
	case Hard:
		return 240
	default:
		return 0
	}
}

func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// ParseDifficulty normalizes a raw difficulty value.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return "", fmt.Errorf("unknown difficulty: %q", raw)
	}
}

// Question is immutable once generated and owned by a session for its
// lifetime.
type Question struct {
	Text       string     `json:"text" mapstructure:"text"`
	Difficulty Difficulty `json:"difficulty" mapstructure:"difficulty"`
	Time       int        `json:"time" mapstructure:"time"`
	Category   string     `json:"category" mapstructure:"category"`
}

// Source produces the ordered question list for one interview.
type Source interface {
	Generate(ctx context.Context, jobDescription string) ([]Question, error)
}

// ValidateJobDescription checks the length bounds for the question
// generation input.
func ValidateJobDescription(jd string) error {
	trimmed := strings.TrimSpace(jd)
	if len(trimmed) < MinJobDescriptionLen {
		return fmt.Errorf("job description must be at least %d characters long", MinJobDescriptionLen)
	}
	if len(jd) > MaxJobDescriptionLen {
		return fmt.Errorf("job description must be less than %d characters", MaxJobDescriptionLen)
	}
	return nil
}
