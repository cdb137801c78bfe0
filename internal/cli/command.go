package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabtester/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vocabtester",
		Short: "Japanese vocabulary quiz trainer",
		Long: `vocabtester quizzes you on Japanese vocabulary, first the kana reading
and then the English meaning of each word. Words you miss come back
sooner, and the words you missed longest ago come first in a new round.

Examples:
  vocabtester                        # Launch the quiz window (default)
  vocabtester --text --tag jlpt-n5   # Quiz in the terminal, one tag only
  vocabtester --add 勉強 --tag study   # Generate an entry with AI and store it
  vocabtester --batch words.txt      # Import words from a file`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

// StateDir is where the database and audio cache live by default.
func StateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "vocabtester")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	defaultDB := filepath.Join(StateDir(), "vocab.db")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vocabtester.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Local flags
	cmd.Flags().StringVar(&flags.DBPath, "db", defaultDB, "Path to the vocabulary database")
	cmd.Flags().StringVarP(&flags.Tag, "tag", "t", "", "Only quiz words with this tag (also the tag for --add and --batch)")
	cmd.Flags().BoolVar(&flags.TextMode, "text", false, "Run the quiz in the terminal instead of the window")
	cmd.Flags().BoolVar(&flags.ListTags, "list-tags", false, "List tags, most recently used first")
	cmd.Flags().StringVar(&flags.AddWord, "add", "", "Generate an entry for a kanji word with AI and store it")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Import words from file (one per line, optionally 'kanji = english')")
	cmd.Flags().Float64Var(&flags.BatchRate, "batch-rate", flags.BatchRate, "Maximum words per minute generated during --batch")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the database into a timestamped archive directory")
	cmd.Flags().BoolVar(&flags.Stats, "stats", false, "Print word and result counts")
	cmd.Flags().BoolVar(&flags.GenerateAnki, "anki", false, "Export all words as an Anki package (APKG format by default, use --anki-csv for CSV)")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Generate CSV instead of APKG when using --anki")
	cmd.Flags().BoolVar(&flags.AnkiAudio, "anki-audio", false, "Include sentence audio in the Anki export")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available models for the configured AI provider")

	// Word generation flags
	cmd.Flags().StringVar(&flags.AIProvider, "ai-provider", flags.AIProvider, "AI provider for word generation: gemini or openai")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for word generation")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for word generation")

	// Speech flags
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Speech provider: openai or espeak")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, coral, echo, nova, sage, shimmer, ...")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("db.path", cmd.Flags().Lookup("db"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("ai.provider", cmd.Flags().Lookup("ai-provider"))
	viper.BindPFlag("ai.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("ai.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio-provider"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
}

// InitConfig initializes viper configuration. A .env file in the working
// directory is loaded first so its keys act like environment variables.
func InitConfig(cfgFile string) {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vocabtester")
	}

	viper.SetDefault("audio.cache_dir", filepath.Join(StateDir(), "audio"))

	viper.SetEnvPrefix("VOCABTESTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies configured values into flags the user did not set on
// the command line. Bound flags already see config values through viper,
// but the Flags struct only holds what pflag parsed.
func ApplyConfig(cmd *cobra.Command, flags *Flags) {
	set := func(name, key string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return
		}
		if f := cmd.PersistentFlags().Lookup(name); f != nil && f.Changed {
			return
		}
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	set("db", "db.path", &flags.DBPath)
	set("log-level", "log.level", &flags.LogLevel)
	set("ai-provider", "ai.provider", &flags.AIProvider)
	set("gemini-model", "ai.gemini_model", &flags.GeminiModel)
	set("openai-model", "ai.openai_model", &flags.OpenAIModel)
	set("audio-provider", "audio.provider", &flags.AudioProvider)
	set("openai-voice", "audio.openai_voice", &flags.OpenAIVoice)
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("ai.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config.
// API_KEY is accepted for setups shared with other Gemini tools.
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("ai.gemini_key")
}

// GetAudioCacheDir returns where synthesized speech is kept.
func GetAudioCacheDir() string {
	if dir := viper.GetString("audio.cache_dir"); dir != "" {
		return dir
	}
	return filepath.Join(StateDir(), "audio")
}
