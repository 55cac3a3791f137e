package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes where a job description came from.
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Platform  string `json:"platform,omitempty"`
	// Rendered is true when the text came from headless browser rendering.
	Rendered bool `json:"rendered,omitempty"`
}

// NewMetadata stamps content with the current time and its SHA-256 digest.
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
