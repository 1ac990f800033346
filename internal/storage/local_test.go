package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocal_Upload(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(filepath.Join(dir, "sessions"))

	body := []byte(`{"name":"John Smith"}`)
	if err := l.Upload("kyc_session.json", "application/json", body); err != nil {
		t.Fatalf("upload: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "sessions", "kyc_session.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("content mismatch: %s", got)
	}
}

func TestNewLocal_DefaultsToCwd(t *testing.T) {
	if NewLocal("").Dir != "." {
		t.Fatalf("expected default dir to be cwd")
	}
}
