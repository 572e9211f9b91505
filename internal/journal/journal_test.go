package journal

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinwm/vibedevtools/internal/fs"
	"github.com/yinwm/vibedevtools/internal/status"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", DefaultFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestOpen_CreatesDirAndSchema(t *testing.T) {
	j := newTestJournal(t)
	assert.FileExists(t, j.Path())

	var mode string
	require.NoError(t, j.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	// Re-running migrations is harmless.
	require.NoError(t, j.migrate())
}

func TestOpen_DriverFailure(t *testing.T) {
	orig := openDB
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { openDB = orig })

	_, err := Open(filepath.Join(t.TempDir(), DefaultFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal: open database")
}

func TestHistory_NewestFirstAndFiltered(t *testing.T) {
	j := newTestJournal(t)

	events := []status.Event{
		{Kind: status.EventCreated, SessionID: "s1", Name: "pending-s1", Stage: status.StageGoal, OverallStatus: status.StatusInProgress, At: "2025-03-01T09:00:00.000Z"},
		{Kind: status.EventCreated, SessionID: "s2", Name: "other", Stage: status.StageGoal, OverallStatus: status.StatusInProgress, At: "2025-03-01T09:00:01.000Z"},
		{Kind: status.EventRenamed, SessionID: "s1", Name: "alpha", Stage: status.StageRequirements, OverallStatus: status.StatusInProgress, Detail: "pending-s1", At: "2025-03-01T09:00:02.000Z"},
		{Kind: status.EventArchived, SessionID: "s1", Name: "alpha", Stage: status.StageRequirements, OverallStatus: status.StatusArchived, At: "2025-03-01T09:00:03.000Z"},
	}
	for _, ev := range events {
		require.NoError(t, j.Record(ev))
	}

	got, err := j.History("s1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "archived", got[0].Kind)
	assert.Equal(t, "renamed", got[1].Kind)
	assert.Equal(t, "pending-s1", got[1].Detail)
	assert.Equal(t, "created", got[2].Kind)

	limited, err := j.History("s1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "archived", limited[0].Kind)

	all, err := j.History("", 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := j.History("unknown", 5)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOnStatusChange_ClosedDatabaseDoesNotPanic(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.NotPanics(t, func() {
		j.OnStatusChange(status.Event{Kind: status.EventUpdated, SessionID: "s1"})
	})
}

func TestJournal_ObservesManager(t *testing.T) {
	root := t.TempDir()
	m := status.NewManager(status.NewFileStore(filepath.Join(root, status.DefaultSpecsDir), fs.NewReal()))
	j := newTestJournal(t)
	m.SetObserver(j)

	sid := status.NewSessionID()
	_, err := m.Create(sid, status.PlaceholderName(sid))
	require.NoError(t, err)
	_, err = m.ConfirmGoal(sid, "Journal Demo")
	require.NoError(t, err)
	_, err = m.Archive(sid)
	require.NoError(t, err)

	got, err := j.History(sid, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"archived", "renamed", "created"}, []string{got[0].Kind, got[1].Kind, got[2].Kind})
	assert.Equal(t, "journal-demo", got[0].Name)
	assert.Equal(t, "archived", got[0].OverallStatus)
}
