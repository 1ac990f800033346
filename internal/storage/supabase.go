package storage

import (
	"bytes"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// Supabase uploads session documents into a Supabase storage bucket.
type Supabase struct {
	client *supabase.Client
	bucket string
}

func NewSupabase(url, serviceRoleKey, bucket string) (*Supabase, error) {
	client, err := supabase.NewClient(url, serviceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create Supabase client: %w", err)
	}
	return &Supabase{client: client, bucket: bucket}, nil
}

func (s *Supabase) Upload(objectKey string, contentType string, body []byte) error {
	_ = contentType
	if _, err := s.client.Storage.UploadFile(s.bucket, objectKey, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to upload to Supabase: %w", err)
	}
	return nil
}
