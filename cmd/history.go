package cmd

import (
	"fmt"
	"log"

	"github.com/mkarpov/interview-runner/internal/logger"
	"github.com/mkarpov/interview-runner/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print past candidate results",
	Run: func(_ *cobra.Command, _ []string) {
		history()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func history() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	state, err := store.New(config.StateFile).Load()
	if err != nil {
		logger.Fatal("loading persisted state", zap.Error(err))
	}

	if len(state.Candidates) == 0 {
		fmt.Println("No candidates interviewed yet.")
		return
	}

	for _, candidate := range state.Candidates {
		if candidate.CompletedAt == nil {
			fmt.Printf("%s  %-25s (not completed)\n", candidate.ID, candidate.Name)
			continue
		}
		fmt.Printf("%s  %-25s score %3d/100  %-8s  %s\n",
			candidate.ID, candidate.Name, candidate.Score,
			formatDuration(candidate.Duration), candidate.Summary)
	}
}
