package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/config"
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/dialogue"
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/speech"
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/storage"
)

const sessionFile = "kyc_session.json"

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.Load()

	printInstructions()
	fmt.Print("Press Enter when you're ready to start...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

	in, out := buildProviders(cfg)
	ctrl := dialogue.NewController(in, out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("DECENTRO KYC VOICE VERIFICATION")
	fmt.Println(strings.Repeat("=", 50))

	rec, completed := ctrl.RunSession(ctx)

	doc, err := rec.JSON()
	if err != nil {
		log.Fatalf("marshal record: %v", err)
	}

	if completed {
		save(cfg, doc)
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("KYC SESSION DATA")
		fmt.Println(strings.Repeat("=", 50))
	} else {
		fmt.Println("\nKYC verification was not completed successfully.")
		fmt.Println("Partial data collected:")
	}
	fmt.Println(string(doc))
}

// buildProviders wires the speech backends, degrading to the console when a
// key is missing.
func buildProviders(cfg config.Config) (dialogue.SpeechInput, dialogue.SpeechOutput) {
	var in dialogue.SpeechInput
	if cfg.AssemblyAIKey != "" {
		in = speech.NewRecognizer(cfg.AssemblyAIKey, speech.NewMicSource())
	} else {
		in = speech.NewConsoleInput(nil)
	}

	var out dialogue.SpeechOutput
	if cfg.DeepgramKey != "" {
		out = speech.NewSpeaker(cfg.DeepgramKey, cfg.DeepgramVoice, speech.ExecPlayer{})
	} else {
		out = speech.ConsoleOutput{}
	}
	return in, out
}

// save writes the completed session document everywhere configured. Failures
// are reported and do not change the session outcome.
func save(cfg config.Config, doc []byte) {
	stores := []storage.Storage{storage.NewLocal(cfg.OutputDir)}
	if cfg.SupabaseURL != "" {
		sb, err := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
		if err != nil {
			log.Printf("supabase disabled: %v", err)
		} else {
			stores = append(stores, sb)
		}
	}
	for _, s := range stores {
		if err := s.Upload(sessionFile, "application/json", doc); err != nil {
			log.Printf("Error saving session: %v", err)
			continue
		}
	}
	fmt.Printf("\nKYC data saved to %s\n", sessionFile)
}

func printInstructions() {
	line := strings.Repeat("=", 50)
	fmt.Println("\n" + line)
	fmt.Println("SETUP INSTRUCTIONS")
	fmt.Println(line)
	fmt.Println("1. Make sure your microphone is working")
	fmt.Println("2. Speak clearly when you see [LISTENING]")
	fmt.Println("3. The bot will SPEAK to you - LISTEN for voice prompts")
	fmt.Println("4. Wait for the listening indicator before speaking")
	fmt.Println("5. Turn up your volume if you can't hear the bot")
	fmt.Println(line + "\n")
}
