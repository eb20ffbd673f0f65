package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// SeedDemo speichert alle Demo-Einträge und -Slides, die noch nicht in der Datenbank
// liegen: fehlende ids werden hinzugefügt, beim Laden ersetzte Demo-Daten werden
// geschrieben. Ein zweiter Lauf fügt nichts mehr ein.
func (s *AdminSession) SeedDemo(ctx context.Context) (int, error) {
	if !s.Authenticated() {
		return 0, ErrNotAuthenticated
	}

	// Demo-Daten, die beim Laden nur als Ersatz im Speicher gelandet sind, zuerst speichern.
	inserted, err := s.Repo.PersistPending(ctx)
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for _, item := range s.DemoData.Content {
		if s.Repo.HasContent(item.ItemID()) {
			continue
		}
		err := s.Repo.AddContent(ctx, item)
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		inserted++
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, slide := range s.DemoData.Slides {
		if s.Repo.HasSlide(slide.ID) {
			continue
		}
		err := s.Repo.AddSlide(ctx, slide)
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		inserted++
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.Logger.Info("Demo-Daten eingefügt", zap.Int("inserted", inserted), zap.Int("failed", len(errs)))
	return inserted, errors.Join(errs...)
}
