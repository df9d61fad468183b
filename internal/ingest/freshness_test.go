package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/model"
)

type stubMetadata struct {
	meta *model.IngestMetadata
	err  error
}

func (s *stubMetadata) ReadMetadata() (*model.IngestMetadata, error) { return s.meta, s.err }

func TestNeedsUpdateNoMetadata(t *testing.T) {
	pol := NewPolicy(&stubMetadata{}, DefaultMaxAge)
	assert.True(t, pol.NeedsUpdate())
}

func TestNeedsUpdateReadError(t *testing.T) {
	pol := NewPolicy(&stubMetadata{err: errors.New("disk gone")}, DefaultMaxAge)
	assert.True(t, pol.NeedsUpdate(), "unreadable metadata counts as stale")
}

func TestNeedsUpdateThreshold(t *testing.T) {
	ingested := time.Date(2026, 8, 28, 6, 30, 0, 0, time.UTC)
	pol := NewPolicy(&stubMetadata{meta: &model.IngestMetadata{LastUpdate: ingested}}, DefaultMaxAge)

	pol.now = func() time.Time { return ingested.Add(23 * time.Hour) }
	assert.False(t, pol.NeedsUpdate())

	pol.now = func() time.Time { return ingested.Add(24*time.Hour + time.Minute) }
	assert.True(t, pol.NeedsUpdate())
}

func TestNewPolicyDefaultsMaxAge(t *testing.T) {
	pol := NewPolicy(&stubMetadata{}, 0)
	assert.Equal(t, DefaultMaxAge, pol.maxAge)
}
