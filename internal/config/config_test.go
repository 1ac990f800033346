package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", "")
	os.Setenv("DEEPGRAM_VOICE", "")
	os.Setenv("KYC_OUTPUT_DIR", "")
	os.Setenv("SUPABASE_BUCKET", "")
	cfg := Load()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.DeepgramVoice == "" {
		t.Fatalf("expected default deepgram voice")
	}
	if cfg.OutputDir == "" {
		t.Fatalf("expected default output dir")
	}
	if cfg.SupabaseBucket == "" {
		t.Fatalf("expected default supabase bucket")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", ":9999")
	os.Setenv("KYC_OUTPUT_DIR", "/tmp/kyc")
	defer os.Unsetenv("HTTP_ADDRESS")
	defer os.Unsetenv("KYC_OUTPUT_DIR")
	cfg := Load()
	if cfg.HTTPAddress != ":9999" {
		t.Fatalf("expected :9999, got %s", cfg.HTTPAddress)
	}
	if cfg.OutputDir != "/tmp/kyc" {
		t.Fatalf("expected /tmp/kyc, got %s", cfg.OutputDir)
	}
}
