package storage

// Storage abstracts where completed session documents are written.
type Storage interface {
	Upload(objectKey string, contentType string, body []byte) error
}
