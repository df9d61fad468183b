package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorderRecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer r.Close()

	rec := &RunRecord{
		StartedAt:    time.Date(2026, 8, 29, 6, 30, 0, 0, time.UTC),
		SuccessCount: 13,
		ErrorCount:   2,
		RowsAppended: 390,
		TotalRows:    1170,
		Duration:     4 * time.Minute,
		Failures: []FailureRecord{
			{Symbol: "WIPRO.NS", Reason: "provider: all providers failed"},
			{Symbol: "JPM", Reason: "provider: retry budget exhausted"},
		},
	}
	require.NoError(t, r.RecordRun(rec))

	var count, errorCount int
	row := r.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(error_count), 0) FROM ingest_runs`)
	require.NoError(t, row.Scan(&count, &errorCount))
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, errorCount)

	var failures int
	row = r.db.QueryRow(`SELECT COUNT(*) FROM symbol_failures`)
	require.NoError(t, row.Scan(&failures))
	assert.Equal(t, 2, failures)
}

func TestSQLiteRecorderMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	r1, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r1.Close())

	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	assert.NoError(t, r2.Close())
}
