// Package scoring turns a completed answer sheet into a 0-100 score and a
// reviewer-facing summary. It is a pure function of its input: no
// randomness, no clock, no upstream calls.
package scoring

import (
	"math"
	"strings"

	"github.com/mkarpov/interview-runner/internal/questions"
)

// Answer pairs a question with the candidate's recorded answer.
type Answer struct {
	Question   string
	Answer     string
	Difficulty questions.Difficulty
}

// AnswerScore is the per-answer detail kept on the candidate record.
type AnswerScore struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    int    `json:"score"`
}

// Result is the aggregate outcome of one interview.
type Result struct {
	FinalScore int
	Summary    string
	Detailed   []AnswerScore
}

// technicalKeywords is the fixed vocabulary counted for the per-answer
// bonus. Matching is case-insensitive substring containment.
var technicalKeywords = []string{
	"react", "javascript", "typescript", "node", "async", "await", "promise",
	"component", "hook", "state", "props", "event", "closure", "scope",
	"const", "let", "var", "hoisting", "lifecycle", "redux", "express",
	"middleware", "api", "database", "frontend", "backend", "framework",
}

// wordCountLadder holds the base score thresholds for one difficulty tier,
// ordered from the highest word count down.
type wordCountLadder [3]struct {
	words int
	score int
}

var ladders = map[questions.Difficulty]wordCountLadder{
	questions.Easy:   {{15, 7}, {10, 5}, {5, 3}},
	questions.Medium: {{25, 7}, {15, 5}, {8, 3}},
	questions.Hard:   {{40, 7}, {25, 5}, {15, 3}},
}

// Evaluate scores every answer and aggregates the result. Identical input
// always yields an identical result.
func Evaluate(answers []Answer) Result {
	totalScore := 0
	detailed := make([]AnswerScore, 0, len(answers))

	for _, item := range answers {
		score := scoreAnswer(item)
		totalScore += score
		detailed = append(detailed, AnswerScore{
			Question: item.Question,
			Answer:   item.Answer,
			Score:    score,
		})
	}

	finalScore := 0
	if len(answers) > 0 {
		finalScore = int(math.Round(float64(totalScore) / float64(len(answers)*10) * 100))
	}

	return Result{
		FinalScore: finalScore,
		Summary:    summaryFor(finalScore),
		Detailed:   detailed,
	}
}

func scoreAnswer(item Answer) int {
	trimmed := strings.TrimSpace(item.Answer)
	if trimmed == "" {
		return 0
	}

	base := baseScore(item.Difficulty, wordCount(trimmed))
	bonus := keywordBonus(item.Answer)

	return min(10, base+bonus)
}

func wordCount(trimmed string) int {
	return len(strings.Fields(trimmed))
}

func baseScore(difficulty questions.Difficulty, words int) int {
	ladder, ok := ladders[difficulty]
	if !ok {
		ladder = ladders[questions.Medium]
	}

	for _, rung := range ladder {
		if words >= rung.words {
			return rung.score
		}
	}
	return 1
}

func keywordBonus(answer string) int {
	lower := strings.ToLower(answer)

	matches := 0
	for _, keyword := range technicalKeywords {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}

	return min(3, matches/2)
}

func summaryFor(finalScore int) string {
	switch {
	case finalScore >= 85:
		return "Outstanding performance! Demonstrates exceptional understanding with comprehensive, well-structured answers and excellent technical depth."
	case finalScore >= 70:
		return "Strong candidate with solid knowledge. Shows good understanding of fundamentals with adequate technical explanations."
	case finalScore >= 55:
		return "Decent foundation. Demonstrates basic understanding but needs improvement in providing detailed explanations."
	case finalScore >= 35:
		return "Below expectations. Shows limited understanding of concepts. Requires significant learning and practice."
	default:
		return "Needs substantial development. Very limited knowledge of fundamentals. Not ready for the position."
	}
}
