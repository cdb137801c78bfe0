package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	DBPath   string
	Tag      string
	LogLevel string

	// Modes
	TextMode   bool
	ListTags   bool
	AddWord    string
	BatchFile  string
	Archive    bool
	ListModels bool
	Stats      bool

	// Anki export
	GenerateAnki bool
	AnkiCSV      bool
	AnkiAudio    bool
	DeckName     string

	// Word generation
	AIProvider  string
	GeminiModel string
	OpenAIModel string
	BatchRate   float64 // words per minute

	// Speech
	AudioProvider string
	OpenAIVoice   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:      "info",
		DeckName:      "Japanese Vocabulary",
		AIProvider:    "gemini",
		GeminiModel:   "gemini-2.5-flash-lite",
		OpenAIModel:   "gpt-4o-mini",
		BatchRate:     20,
		AudioProvider: "openai",
		OpenAIVoice:   "nova",
	}
}
