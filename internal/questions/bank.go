package questions

import (
	"context"
	"math/rand"
	"time"
)

// easyPool, mediumPool and hardPool hold the curated full-stack question
// bank used when no AI provider is configured.
var easyPool = []Question{
	{Text: "What is the difference between let, const and var in JavaScript?", Difficulty: Easy, Category: "Technical Skills"},
	{Text: "What are React components and how do props differ from state?", Difficulty: Easy, Category: "Technical Skills"},
	{Text: "Explain what a REST API is and name the common HTTP methods.", Difficulty: Easy, Category: "Domain Knowledge"},
	{Text: "What does the async keyword do in JavaScript and when would you use it?", Difficulty: Easy, Category: "Technical Skills"},
	{Text: "Describe the role of package.json in a Node project.", Difficulty: Easy, Category: "Domain Knowledge"},
	{Text: "What is the virtual DOM and why does React use one?", Difficulty: Easy, Category: "Technical Skills"},
}

var mediumPool = []Question{
	{Text: "Explain how closures work in JavaScript and give a practical use case.", Difficulty: Medium, Category: "Problem Solving"},
	{Text: "How does the useEffect hook work, and what are its common pitfalls?", Difficulty: Medium, Category: "Technical Skills"},
	{Text: "Walk through how you would debug a slow API endpoint in an Express backend.", Difficulty: Medium, Category: "Problem Solving"},
	{Text: "Describe a time you disagreed with a teammate about a technical decision. How was it resolved?", Difficulty: Medium, Category: "Behavioral"},
	{Text: "Compare SQL and NoSQL databases. When would you pick one over the other?", Difficulty: Medium, Category: "Domain Knowledge"},
	{Text: "What is middleware in Express, and how does the request lifecycle flow through it?", Difficulty: Medium, Category: "Technical Skills"},
	{Text: "How do promises differ from async/await, and how do you handle errors with each?", Difficulty: Medium, Category: "Technical Skills"},
	{Text: "Tell me about a project where requirements changed late. How did you adapt?", Difficulty: Medium, Category: "Experience"},
}

var hardPool = []Question{
	{Text: "Design a state management approach for a large React application. Justify your choices against Redux and alternatives.", Difficulty: Hard, Category: "System Design"},
	{Text: "How would you design an API rate limiter for a public service? Cover storage, fairness and failure modes.", Difficulty: Hard, Category: "System Design"},
	{Text: "Explain event loop scheduling in Node.js: microtasks, macrotasks, and where await fits in.", Difficulty: Hard, Category: "Advanced Technical"},
	{Text: "Describe how you would migrate a monolithic backend to services without downtime.", Difficulty: Hard, Category: "System Design"},
	{Text: "How does JavaScript hoisting interact with the temporal dead zone? Illustrate with code behavior.", Difficulty: Hard, Category: "Advanced Technical"},
	{Text: "Design the frontend and backend contract for a collaborative editor. How do you resolve conflicting edits?", Difficulty: Hard, Category: "System Design"},
}

// Bank is a Source backed by the curated pools. Each interview draws a
// fresh random, non-repeating selection per difficulty tier.
type Bank struct {
	rand *rand.Rand
}

// NewBank creates a bank seeded from the current time.
func NewBank() *Bank {
	return NewBankWithSeed(time.Now().UnixNano())
}

// NewBankWithSeed creates a bank with a deterministic selection order.
func NewBankWithSeed(seed int64) *Bank {
	return &Bank{rand: rand.New(rand.NewSource(seed))}
}

// Generate returns 2 Easy, 3 Medium and 2 Hard questions in tier order.
// The job description is ignored; the bank is the offline fallback.
func (b *Bank) Generate(_ context.Context, _ string) ([]Question, error) {
	selected := make([]Question, 0, InterviewLength)
	selected = append(selected, b.pick(easyPool, EasyCount)...)
	selected = append(selected, b.pick(mediumPool, MediumCount)...)
	selected = append(selected, b.pick(hardPool, HardCount)...)

	for i := range selected {
		selected[i].Time = selected[i].Difficulty.TimeBudget()
	}

	return selected, nil
}

func (b *Bank) pick(pool []Question, n int) []Question {
	idx := b.rand.Perm(len(pool))

	picked := make([]Question, 0, n)
	for _, i := range idx[:n] {
		picked = append(picked, pool[i])
	}
	return picked
}
