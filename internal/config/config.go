package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress   string
	AssemblyAIKey string
	DeepgramKey   string
	DeepgramVoice string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	OutputDir string
}

// Load reads environment variables and returns Config with sane defaults.
// Missing speech keys are warnings, not errors: the session degrades to the
// console providers.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	assemblyAIKey := os.Getenv("ASSEMBLYAI_API_KEY")
	if assemblyAIKey == "" {
		log.Println("Warning: ASSEMBLYAI_API_KEY not set - voice capture disabled, using console input")
	}

	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	if deepgramKey == "" {
		log.Println("Warning: DEEPGRAM_API_KEY not set - speech output disabled, prompts print to console only")
	}
	voice := os.Getenv("DEEPGRAM_VOICE")
	if voice == "" {
		voice = "aura-2-thalia-en"
	}

	outputDir := os.Getenv("KYC_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "."
	}

	bucket := os.Getenv("SUPABASE_BUCKET")
	if bucket == "" {
		bucket = "kyc-sessions"
	}

	return Config{
		HTTPAddress:        addr,
		AssemblyAIKey:      assemblyAIKey,
		DeepgramKey:        deepgramKey,
		DeepgramVoice:      voice,
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:     bucket,
		OutputDir:          outputDir,
	}
}
