package reports

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// RawReport is one day's report payload as fetched from the AER. It lives for
// a single invocation: staged briefly, summarized, then deleted.
type RawReport struct {
	Dataset   Dataset
	Date      Date
	SourceURL string
	Body      []byte
}

// Checksum returns the hex SHA-256 of the payload, recorded as staging object
// metadata.
func (r RawReport) Checksum() string {
	sum := sha256.Sum256(r.Body)
	return hex.EncodeToString(sum[:])
}

// StagingKey is the deterministic staging object key for a (dataset, date)
// pair. Repeated runs for the same day overwrite rather than accumulate.
func StagingKey(dataset Dataset, date Date) string {
	return fmt.Sprintf("%04d/%02d/%02d/%s_%s.txt",
		date.Year, date.Month, date.Day, strings.ToLower(string(dataset)), date.Compact())
}
