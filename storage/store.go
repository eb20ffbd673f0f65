package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"herbal-site/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store ist die Postgres-Persistenz für Einstellungen, Inhalte und Slides.
type Store struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewStore erstellt einen neuen Store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{DB: db, Logger: logger}
}

// AutoMigrate legt die Tabellen an bzw. ergänzt fehlende Spalten.
func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(&models.GeneralSettingsRow{}, &models.ContentRow{}, &models.HeroSlideRow{})
}

// FetchGeneral liefert nil ohne Fehler, wenn noch keine Einstellungen gespeichert sind.
func (s *Store) FetchGeneral(ctx context.Context) (*models.GeneralSettings, error) {
	var row models.GeneralSettingsRow
	err := s.DB.WithContext(ctx).First(&row, models.GeneralSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g := SettingsToDomain(row)
	return &g, nil
}

// FetchContent lädt alle Einträge, neueste zuerst. Nicht lesbare Zeilen werden übersprungen.
func (s *Store) FetchContent(ctx context.Context) ([]models.ContentItem, error) {
	var rows []models.ContentRow
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]models.ContentItem, 0, len(rows))
	for _, row := range rows {
		item, err := ToDomain(row)
		if err != nil {
			s.Logger.Warn("Skipping unreadable content row", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// FetchSlides lädt alle Slides nach display_order.
func (s *Store) FetchSlides(ctx context.Context) ([]models.Slide, error) {
	var rows []models.HeroSlideRow
	if err := s.DB.WithContext(ctx).Order("display_order asc").Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	slides := make([]models.Slide, 0, len(rows))
	for _, row := range rows {
		slides = append(slides, SlideToDomain(row))
	}
	return slides, nil
}

func (s *Store) InsertContent(ctx context.Context, item models.ContentItem) error {
	row, err := ToStorage(item)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Create(&row).Error
}

// UpdateContent schreibt alle Spalten inklusive NULL-Werten, damit Altspalten verschwinden.
// Fehlt die Zeile, wird sie angelegt; created_at einer bestehenden Zeile bleibt erhalten.
func (s *Store) UpdateContent(ctx context.Context, item models.ContentItem) error {
	row, err := ToStorage(item)
	if err != nil {
		return err
	}
	return upsertByID(s.DB.WithContext(ctx), &row)
}

func (s *Store) DeleteContent(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.ContentRow{}, "id = ?", id).Error
}

func (s *Store) InsertSlide(ctx context.Context, slide models.Slide) error {
	row := SlideToStorage(slide)
	return s.DB.WithContext(ctx).Create(&row).Error
}

// UpdateSlide schreibt den Slide; fehlt die Zeile, wird sie angelegt.
func (s *Store) UpdateSlide(ctx context.Context, slide models.Slide) error {
	row := SlideToStorage(slide)
	return upsertByID(s.DB.WithContext(ctx), &row)
}

func (s *Store) DeleteSlide(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.HeroSlideRow{}, "id = ?", id).Error
}

// UpsertGeneral schreibt die Singleton-Zeile unter dem festen Schlüssel.
func (s *Store) UpsertGeneral(ctx context.Context, g models.GeneralSettings) error {
	return upsertGeneral(s.DB.WithContext(ctx), g)
}

// ReplaceAll ersetzt alle drei Sammlungen in einer Transaktion.
func (s *Store) ReplaceAll(ctx context.Context, data models.Dataset) error {
	// created_at bildet die Listenreihenfolge ab, da FetchContent danach sortiert.
	now := time.Now().UTC()
	rows := make([]models.ContentRow, 0, len(data.Content))
	for i, item := range data.Content {
		row, err := ToStorage(item)
		if err != nil {
			return err
		}
		row.CreatedAt = now.Add(-time.Duration(i) * time.Millisecond)
		rows = append(rows, row)
	}
	slides := make([]models.HeroSlideRow, 0, len(data.Slides))
	for i, slide := range data.Slides {
		row := SlideToStorage(slide)
		row.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		slides = append(slides, row)
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertGeneral(tx, data.General); err != nil {
			return fmt.Errorf("general settings: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ContentRow{}).Error; err != nil {
			return fmt.Errorf("clear content: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert content: %w", err)
			}
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.HeroSlideRow{}).Error; err != nil {
			return fmt.Errorf("clear slides: %w", err)
		}
		if len(slides) > 0 {
			if err := tx.Create(&slides).Error; err != nil {
				return fmt.Errorf("insert slides: %w", err)
			}
		}
		return nil
	})
}

// Snapshot liest den aktuellen Datenbestand direkt aus der Datenbank.
func (s *Store) Snapshot(ctx context.Context) (models.Dataset, error) {
	var data models.Dataset
	general, err := s.FetchGeneral(ctx)
	if err != nil {
		return data, err
	}
	if general != nil {
		data.General = *general
	} else {
		data.General = models.DefaultGeneralSettings()
	}
	if data.Content, err = s.FetchContent(ctx); err != nil {
		return data, err
	}
	if data.Slides, err = s.FetchSlides(ctx); err != nil {
		return data, err
	}
	return data, nil
}

func upsertGeneral(db *gorm.DB, g models.GeneralSettings) error {
	row := SettingsToStorage(g)
	return upsertByID(db, &row)
}

func upsertByID(db *gorm.DB, row any) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(row).Error
}
