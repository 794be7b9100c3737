package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mkarpov/interview-runner/internal/ai/gemini"
	"github.com/mkarpov/interview-runner/internal/interview"
	"github.com/mkarpov/interview-runner/internal/logger"
	"github.com/mkarpov/interview-runner/internal/questionapi"
	"github.com/mkarpov/interview-runner/internal/questions"
	"github.com/mkarpov/interview-runner/internal/resume"
	"github.com/mkarpov/interview-runner/internal/scheduler"
	"github.com/mkarpov/interview-runner/internal/secrets"
	"github.com/mkarpov/interview-runner/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptResumeSession = "Resume Current Session"
	PromptStartFresh    = "Start Fresh Interview"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Conduct a timed technical interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("source", "s", "", "question source: bank, gemini or question-api")
	runCmd.Flags().StringP("resume-file", "r", "", "plain-text resume used to pre-fill candidate details")

	viper.BindPFlag("source", runCmd.Flags().Lookup("source"))
	viper.BindPFlag("resume-file", runCmd.Flags().Lookup("resume-file"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the interview-runner", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	st := store.New(config.StateFile)
	state, err := st.Load()
	if err != nil {
		logger.Fatal("loading persisted state", zap.Error(err))
	}

	engine := interview.NewEngine(logger)

	resuming := false
	continuing := false
	switch store.NewReconciler(logger).Inspect(state) {
	case store.DecisionDiscarded:
		if err := st.Save(state); err != nil {
			logger.Fatal("saving state", zap.Error(err))
		}
	case store.DecisionOffer:
		choice := promptui.Select{
			Label: "Welcome back! An unfinished interview was found",
			Items: []string{PromptResumeSession, PromptStartFresh},
		}
		_, action, err := choice.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		resuming = action == PromptResumeSession
	case store.DecisionNone:
		// A healthy in-progress session too fresh for the offer belongs
		// to an interview that just started; it keeps running as is.
		continuing = continuesSilently(state)
	}

	if err := engine.Restore(state.Session, state.Candidates); err != nil {
		logger.Fatal("restoring persisted state", zap.Error(err))
	}

	switch {
	case resuming:
		engine.Resume()
	case continuing:
		logger.Info("continuing the active interview",
			zap.String("candidate_id", state.Session.CandidateID))
	default:
		engine.Discard()

		info, err := collectCandidateInfo(logger, config)
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		qs, err := generateQuestions(ctx, config, logger)
		if err != nil {
			logger.Fatal("preparing questions", zap.Error(err))
		}

		if _, err := engine.Start(info, qs); err != nil {
			logger.Fatal("starting the interview", zap.Error(err))
		}
	}

	persist(st, engine, logger)

	conduct(engine, st, logger)
}

// continuesSilently reports whether reconciliation left a healthy
// in-progress session behind without offering the resume choice. Such a
// session keeps running with its persisted timer instead of being dropped
// for a fresh start.
func continuesSilently(state *store.State) bool {
	return state != nil && state.Session != nil && state.Session.Status == interview.StatusInProgress
}

// collectCandidateInfo runs the intake prompts, pre-filled from a resume
// file when one is configured. Pre-filled values still pass validation.
func collectCandidateInfo(logger *zap.Logger, config *Config) (interview.CandidateInfo, error) {
	var prefill interview.CandidateInfo

	if config.ResumeFile != "" {
		extracted, err := resume.Extract(logger, config.ResumeFile)
		if err != nil {
			logger.Warn("skipping resume pre-fill", zap.Error(err))
		} else {
			prefill = extracted
		}
	}

	var info interview.CandidateInfo
	fields := []struct {
		label    string
		def      string
		validate promptui.ValidateFunc
		target   *string
	}{
		{"Full name", prefill.Name, interview.ValidateName, &info.Name},
		{"Email", prefill.Email, interview.ValidateEmail, &info.Email},
		{"Phone", prefill.Phone, interview.ValidatePhone, &info.Phone},
	}

	for _, field := range fields {
		prompt := promptui.Prompt{
			Label:    field.label,
			Default:  field.def,
			Validate: field.validate,
		}
		value, err := prompt.Run()
		if err != nil {
			return interview.CandidateInfo{}, err
		}
		*field.target = strings.TrimSpace(value)
	}

	return info, nil
}

// generateQuestions builds the configured source and produces the question
// list for one interview.
func generateQuestions(ctx context.Context, config *Config, log *zap.Logger) ([]questions.Question, error) {
	source := strings.TrimSpace(strings.ToLower(config.Source))

	if source == defaultSource {
		return questions.NewBank().Generate(ctx, "")
	}

	jdPrompt := promptui.Prompt{
		Label:    "Job description",
		Validate: questions.ValidateJobDescription,
	}
	jobDescription, err := jdPrompt.Run()
	if err != nil {
		return nil, err
	}

	switch source {
	case "gemini":
		src, err := newGeminiSource(ctx, config, log)
		if err != nil {
			return nil, err
		}
		return src.Generate(ctx, jobDescription)
	case "api", "question-api":
		if config.API == nil || strings.TrimSpace(config.API.URL) == "" {
			return nil, fmt.Errorf("question-api url is required under question-api.url")
		}
		client := questionapi.New(config.API.URL, config.Retry.toRetry(), logger.WithSourceFields(log, "question-api", ""))
		return client.Generate(ctx, jobDescription)
	default:
		return nil, fmt.Errorf("unsupported question source: %s", config.Source)
	}
}

func newGeminiSource(ctx context.Context, config *Config, log *zap.Logger) (questions.Source, error) {
	cfg := config.AI
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when the gemini source is selected")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	srcLogger := logger.WithSourceFields(log, "gemini", generator.Model())

	return questions.NewGenerator(generator, config.Retry.toRetry(), srcLogger, cfg.Gemini.MaxLogLength), nil
}

// conduct drives the question loop: one cancellable one-second clock per
// question, manual submit and timer expiry funneled into the same advance.
func conduct(engine *interview.Engine, st *store.Store, logger *zap.Logger) {
	clock := scheduler.New(scheduler.DefaultInterval)
	defer clock.Stop()

	lines := readLines(os.Stdin)

	for {
		question, ok := engine.CurrentQuestion()
		if !ok {
			return
		}

		session := engine.Session()
		fmt.Printf("\nQuestion %d of %d [%s, %d seconds]\n%s\n\nYour answer (press ENTER to submit):\n",
			session.CurrentQuestionIndex+1, len(session.Questions),
			question.Difficulty, session.Timer, question.Text)

		expired := make(chan struct{})
		var once sync.Once
		if err := clock.Start(func() {
			remaining := engine.Tick()
			switch remaining {
			case 30, 10:
				fmt.Printf("%d seconds remaining\n", remaining)
			case 0:
				once.Do(func() { close(expired) })
			}
		}); err != nil {
			logger.Fatal("starting the interview clock", zap.Error(err))
		}

		var completed bool
		select {
		case answer, open := <-lines:
			if !open {
				clock.Stop()
				logger.Info("exiting", zap.String("reason", "input closed"))
				persist(st, engine, logger)
				return
			}
			engine.RecordAnswer(answer)
			completed = engine.Advance()
		case <-expired:
			fmt.Println("\nTime is up, moving on.")
			completed = engine.Advance()
		}
		clock.Stop()

		persist(st, engine, logger)

		if completed {
			report(engine, logger)
			return
		}
	}
}

// readLines feeds trimmed stdin lines through a channel so a timed-out
// question never leaves the loop blocked on a read.
func readLines(r *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()
	return lines
}

func persist(st *store.Store, engine *interview.Engine, logger *zap.Logger) {
	state := &store.State{
		Session:    engine.Session(),
		Candidates: engine.Candidates(),
	}
	if err := st.Save(state); err != nil {
		logger.Error("saving state", zap.Error(err))
	}
}

// report prints the final score breakdown for the candidate that just
// finished.
func report(engine *interview.Engine, logger *zap.Logger) {
	session := engine.Session()
	if session == nil {
		return
	}

	candidate := engine.FindCandidate(session.CandidateID)
	if candidate == nil {
		logger.Error("completed candidate record not found", zap.String("candidate_id", session.CandidateID))
		return
	}

	fmt.Printf("\nInterview complete for %s\n", candidate.Name)
	fmt.Printf("Final score: %d/100\n", candidate.Score)
	fmt.Printf("Summary: %s\n", candidate.Summary)
	fmt.Printf("Duration: %s\n\n", formatDuration(candidate.Duration))

	for i, answer := range candidate.Answers {
		fmt.Printf("%d. [%d/10] %s\n", i+1, answer.Score, answer.Question)
	}
}

func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
