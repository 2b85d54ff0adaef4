package session

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestAnalysisQuery_OrdersByInsertion(t *testing.T) {
	assert.Contains(t, latestAnalysisQuery, "ORDER BY seq DESC")
	assert.NotContains(t, latestAnalysisQuery, "created_at DESC")
}

func TestMigration_AnalysesHaveSequence(t *testing.T) {
	up, err := os.ReadFile("../../migrations/000001_init.up.sql")
	require.NoError(t, err)

	schema := string(up)
	start := strings.Index(schema, "CREATE TABLE IF NOT EXISTS analyses")
	require.NotEqual(t, -1, start)
	assert.Contains(t, schema[start:], "seq BIGSERIAL")
}

func TestMemoryRepository_LatestAnalysisOnTimestampTie(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	subject := &Subject{ID: uuid.New(), Name: "Alex", Email: "a@example.com"}
	require.NoError(t, repo.CreateSubject(ctx, subject))
	sess := &Session{ID: uuid.New(), SubjectID: subject.ID, State: StateOpen}
	require.NoError(t, repo.CreateSession(ctx, sess))

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := &AnalysisRecord{ID: uuid.New(), SessionID: sess.ID, CreatedAt: at}
	second := &AnalysisRecord{ID: uuid.New(), SessionID: sess.ID, CreatedAt: at}
	require.NoError(t, repo.SaveAnalysis(ctx, first))
	require.NoError(t, repo.SaveAnalysis(ctx, second))

	latest, err := repo.LatestAnalysis(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}
