package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"herbal-site/models"

	"go.uber.org/zap"
)

// BackupFilename liefert den Dateinamen für den Download einer Sicherung.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("herbal-backup-%s.json", t.UTC().Format("2006-01-02T15-04-05Z"))
}

// NewBackup verpackt einen Datenbestand als Sicherung.
func NewBackup(data models.Dataset, t time.Time) models.Backup {
	if data.Content == nil {
		data.Content = models.ContentList{}
	}
	if data.Slides == nil {
		data.Slides = []models.Slide{}
	}
	return models.Backup{Date: t.UTC(), Dataset: data}
}

// ParseBackup liest eine Sicherungsdatei. Jede Abweichung vom erwarteten Format,
// einschließlich fehlender Schlüssel, ergibt ErrInvalidBackupFile.
func ParseBackup(data []byte) (models.Dataset, error) {
	var raw struct {
		Date    *time.Time              `json:"date"`
		General *models.GeneralSettings `json:"general"`
		Content *models.ContentList     `json:"content"`
		Slides  *[]models.Slide         `json:"slides"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Dataset{}, fmt.Errorf("%w: %v", ErrInvalidBackupFile, err)
	}
	if raw.General == nil || raw.Content == nil || raw.Slides == nil {
		return models.Dataset{}, fmt.Errorf("%w: general, content and slides are required", ErrInvalidBackupFile)
	}

	seen := map[string]bool{}
	for _, item := range *raw.Content {
		if item.ItemID() == "" || seen[item.ItemID()] {
			return models.Dataset{}, fmt.Errorf("%w: missing or duplicate content id %q", ErrInvalidBackupFile, item.ItemID())
		}
		seen[item.ItemID()] = true
	}
	return models.Dataset{General: *raw.General, Content: *raw.Content, Slides: *raw.Slides}, nil
}

// ExportBackup liefert den aktuellen Bestand als Sicherung.
func (s *AdminSession) ExportBackup(now time.Time) (models.Backup, error) {
	if !s.Authenticated() {
		return models.Backup{}, ErrNotAuthenticated
	}
	return NewBackup(s.Repo.Snapshot(), now), nil
}

// ImportBackup ersetzt den gesamten Bestand durch die Sicherung. Ohne Bestätigung oder
// bei ungültiger Datei bleibt alles unverändert.
func (s *AdminSession) ImportBackup(ctx context.Context, data []byte, confirmed bool) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	dataset, err := ParseBackup(data)
	if err != nil {
		s.Logger.Warn("Ungültige Sicherungsdatei", zap.Error(err))
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	s.Logger.Info("Stelle Sicherung wieder her",
		zap.Int("content", len(dataset.Content)), zap.Int("slides", len(dataset.Slides)))
	return s.Repo.RestoreFromBackup(ctx, dataset)
}

// Archiver legt eine serialisierte Sicherung ab; erfüllt von storage.Archive.
type Archiver interface {
	Store(ctx context.Context, t time.Time, payload []byte) (string, error)
}

// ArchiveSnapshot schreibt den Datenbestand als Sicherung in das Archiv.
func ArchiveSnapshot(ctx context.Context, a Archiver, data models.Dataset, now time.Time) (string, error) {
	payload, err := json.Marshal(NewBackup(data, now))
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}
	key, err := a.Store(ctx, now, payload)
	if err != nil {
		return "", err
	}
	backupArchives.Inc()
	return key, nil
}
