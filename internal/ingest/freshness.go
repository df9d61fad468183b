package ingest

import (
	"log"
	"time"

	"StockPulse/internal/model"
)

// DefaultMaxAge is how long ingested data stays fresh.
const DefaultMaxAge = 24 * time.Hour

// MetadataReader is the read side of the sidecar record. A nil record with a
// nil error means no ingest has ever run.
type MetadataReader interface {
	ReadMetadata() (*model.IngestMetadata, error)
}

// Policy decides whether a bulk re-ingest is needed. The decision is global
// and binary: there is no per-symbol freshness.
type Policy struct {
	reader MetadataReader
	maxAge time.Duration
	now    func() time.Time
}

// NewPolicy creates a Policy with the given staleness threshold; maxAge <= 0
// selects DefaultMaxAge.
func NewPolicy(reader MetadataReader, maxAge time.Duration) *Policy {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Policy{reader: reader, maxAge: maxAge, now: time.Now}
}

// NeedsUpdate reports whether the stored data is stale. Missing or unreadable
// metadata counts as stale, so a cold start always ingests.
func (p *Policy) NeedsUpdate() bool {
	meta, err := p.reader.ReadMetadata()
	if err != nil {
		log.Printf("[WARN] freshness: read metadata: %v", err)
		return true
	}
	if meta == nil {
		return true
	}
	return p.now().Sub(meta.LastUpdate) > p.maxAge
}
