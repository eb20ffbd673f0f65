package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"herbal-site/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupFilename(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	assert.Equal(t, "herbal-backup-2024-03-09T14-05-06Z.json", BackupFilename(ts))
}

func TestExportImportRoundTrip(t *testing.T) {
	s := loggedIn(t, &fakeBackend{})
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

	backup, err := s.ExportBackup(now)
	require.NoError(t, err)
	data, err := json.Marshal(backup)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "date")
	assert.Contains(t, raw, "general")
	assert.Contains(t, raw, "content")
	assert.Contains(t, raw, "slides")

	parsed, err := ParseBackup(data)
	require.NoError(t, err)
	assert.Equal(t, s.Repo.Snapshot(), parsed)
}

func TestImportBackupRequiresConfirmation(t *testing.T) {
	backend := &fakeBackend{}
	s := loggedIn(t, backend)
	payload := `{"date":"2024-01-01T00:00:00Z","general":{"siteName":"x"},"content":[],"slides":[]}`

	err := s.ImportBackup(context.Background(), []byte(payload), false)
	assert.True(t, errors.Is(err, ErrConfirmationRequired))
	assert.True(t, s.Repo.HasContent("demo-p"))
	assert.Empty(t, backend.Calls())

	require.NoError(t, s.ImportBackup(context.Background(), []byte(payload), true))
	assert.Empty(t, s.Repo.Content())
	assert.Equal(t, "x", s.Repo.General().SiteName)
	assert.Equal(t, []string{"replace_all"}, backend.Calls())
}

func TestImportInvalidBackupLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `this is not json`},
		{"trailing garbage", `{"general":{},"content":[],"slides":[]} not json at all`},
		{"two documents", `{"general":{},"content":[],"slides":[]}{"general":{}}`},
		{"missing content", `{"general":{},"slides":[]}`},
		{"missing general", `{"content":[],"slides":[]}`},
		{"missing slides", `{"general":{},"content":[]}`},
		{"unknown content type", `{"general":{},"content":[{"type":"poem","id":"x"}],"slides":[]}`},
		{"duplicate ids", `{"general":{},"content":[{"type":"recipe","id":"x"},{"type":"recipe","id":"x"}],"slides":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			s := loggedIn(t, backend)
			before := s.Repo.Snapshot()

			err := s.ImportBackup(context.Background(), []byte(tt.payload), true)
			assert.True(t, errors.Is(err, ErrInvalidBackupFile), "got %v", err)
			assert.Equal(t, before, s.Repo.Snapshot())
			assert.Empty(t, backend.Calls())
		})
	}
}

type fakeArchiver struct {
	payload []byte
	err     error
}

func (f *fakeArchiver) Store(ctx context.Context, t time.Time, payload []byte) (string, error) {
	f.payload = payload
	return "backups/key.json.gz", f.err
}

func TestArchiveSnapshot(t *testing.T) {
	a := &fakeArchiver{}
	data := models.Dataset{General: models.DefaultGeneralSettings()}

	key, err := ArchiveSnapshot(context.Background(), a, data, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "backups/key.json.gz", key)

	parsed, err := ParseBackup(a.payload)
	require.NoError(t, err)
	assert.Empty(t, parsed.Content)
	assert.NotNil(t, parsed.Slides)

	a.err = errors.New("bucket missing")
	_, err = ArchiveSnapshot(context.Background(), a, data, time.Now())
	assert.Error(t, err)
}
