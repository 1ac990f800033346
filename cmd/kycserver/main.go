package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/config"
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/storage"
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/telephony"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	dial := flag.String("dial", "", "place an outbound KYC call to this E.164 number and exit")
	baseURL := flag.String("base-url", "", "public base URL for Twilio webhooks (required with -dial)")
	flag.Parse()

	cfg := config.Load()

	if *dial != "" {
		if *baseURL == "" {
			log.Fatal("-base-url is required with -dial")
		}
		voiceURL := strings.TrimRight(*baseURL, "/") + "/twilio/voice"
		sid, err := telephony.Dial(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, *dial, voiceURL)
		if err != nil {
			log.Fatalf("dial: %v", err)
		}
		log.Printf("outbound KYC call created: %s", sid)
		return
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	gw := telephony.NewGateway(cfg.TwilioAuthToken, buildStorage(cfg))
	gw.Register(e)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}

func buildStorage(cfg config.Config) storage.Storage {
	if cfg.SupabaseURL != "" {
		sb, err := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
		if err == nil {
			return sb
		}
		log.Printf("supabase disabled, falling back to local storage: %v", err)
	}
	return storage.NewLocal(cfg.OutputDir)
}
