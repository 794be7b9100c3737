package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/mkarpov/interview-runner/internal/retry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "interview-runner"

	defaultStateFile = "interview-state.json"
	defaultSource    = "bank"
)

type Config struct {
	StateFile  string             `mapstructure:"state-file"`
	Source     string             `mapstructure:"source"`
	ResumeFile string             `mapstructure:"resume-file"`
	Retry      *RetryConfig       `mapstructure:"retry"`
	AI         *AIConfig          `mapstructure:"ai"`
	API        *QuestionAPIConfig `mapstructure:"question-api"`
}

type RetryConfig struct {
	MaxRetries          int `mapstructure:"max-retries"`
	InitialDelaySeconds int `mapstructure:"initial-delay-seconds"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type QuestionAPIConfig struct {
	URL string `mapstructure:"url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interview-runner is a cli for conducting timed technical interviews in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-runner.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The cli is fully usable with built-in defaults, so a missing config
	// file is only fatal when one was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.StateFile == "" {
		config.StateFile = defaultStateFile
	}
	if config.Source == "" {
		config.Source = defaultSource
	}

	return config, nil
}

func (c *RetryConfig) toRetry() retry.Config {
	if c == nil {
		return retry.Config{}
	}
	return retry.Config{
		MaxRetries:   c.MaxRetries,
		InitialDelay: time.Duration(c.InitialDelaySeconds) * time.Second,
	}
}
