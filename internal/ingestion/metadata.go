package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source records where posting fields came from
type Source string

const (
	// SourcePage means the field was read from page markup
	SourcePage Source = "page"
	// SourceModel means the field was filled by the extraction model
	SourceModel Source = "model"
	// SourceURL means the company was derived from the board URL
	SourceURL Source = "url"
	// SourceFile means the posting was read from a local file
	SourceFile Source = "file"
)

// Metadata describes an ingested job posting
type Metadata struct {
	URL           string `json:"url,omitempty"`
	Timestamp     string `json:"timestamp"` // RFC3339
	Hash          string `json:"hash"`      // SHA256 hex digest of the cleaned description
	Platform      string `json:"platform,omitempty"`
	TitleSource   Source `json:"title_source,omitempty"`
	CompanySource Source `json:"company_source,omitempty"`
}

// NewMetadata creates a Metadata stamped with the current time
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
