package storage

import (
	"encoding/json"
	"fmt"

	"herbal-site/models"

	"gorm.io/datatypes"
)

// Ids und Titel der Tabs, die aus Altspalten erzeugt werden. Die Reihenfolge ist fest.
const (
	LegacyUsageTabID       = "legacy-usage"
	LegacyPrecautionsTabID = "legacy-precautions"
	LegacyContentTabID     = "legacy-content"
)

var legacyTabTitles = map[string]string{
	LegacyUsageTabID:       "אופן שימוש",
	LegacyPrecautionsTabID: "אזהרות",
	LegacyContentTabID:     "תוכן",
}

// ToDomain übersetzt eine gespeicherte Zeile in ein ContentItem.
// Zeilen ohne Tabs werden einmalig aus den Altspalten hochgestuft.
func ToDomain(row models.ContentRow) (models.ContentItem, error) {
	tabs, err := decodeTabs(row.Tabs)
	if err != nil {
		return nil, fmt.Errorf("content %s: tabs: %w", row.ID, err)
	}
	if len(tabs) == 0 {
		tabs = legacyTabs(row)
	}

	switch models.ContentType(row.Type) {
	case models.TypePlant:
		benefits, err := decodeStrings(row.Benefits)
		if err != nil {
			return nil, fmt.Errorf("content %s: benefits: %w", row.ID, err)
		}
		category := models.PlantCategory(deref(row.Category))
		if category == "" {
			category = models.CategoryGeneral
		}
		return models.Plant{
			ID:          row.ID,
			HebrewName:  deref(row.HebrewName),
			LatinName:   deref(row.LatinName),
			Description: deref(row.Description),
			Benefits:    benefits,
			Category:    category,
			ImageURL:    row.ImageURL,
			Tabs:        tabs,
		}, nil
	case models.TypeArticle, models.TypeCaseStudy:
		tags, err := decodeStrings(row.Tags)
		if err != nil {
			return nil, fmt.Errorf("content %s: tags: %w", row.ID, err)
		}
		return models.Article{
			Type:     models.ContentType(row.Type),
			ID:       row.ID,
			Title:    deref(row.Title),
			Summary:  deref(row.Summary),
			Date:     deref(row.Date),
			Tags:     tags,
			ImageURL: row.ImageURL,
			Tabs:     tabs,
		}, nil
	case models.TypeRecipe:
		tags, err := decodeStrings(row.Tags)
		if err != nil {
			return nil, fmt.Errorf("content %s: tags: %w", row.ID, err)
		}
		return models.Recipe{
			ID:       row.ID,
			Title:    deref(row.Title),
			Summary:  deref(row.Summary),
			Date:     deref(row.Date),
			Tags:     tags,
			ImageURL: row.ImageURL,
			Tabs:     tabs,
		}, nil
	default:
		return nil, fmt.Errorf("content %s: unknown type %q", row.ID, row.Type)
	}
}

// ToStorage übersetzt ein ContentItem in seine Zeilenform. Altspalten werden immer
// auf NULL gesetzt, damit jeder Schreibvorgang den Datensatz vollständig migriert.
func ToStorage(item models.ContentItem) (models.ContentRow, error) {
	tabs := item.ItemTabs()
	if tabs == nil {
		tabs = []models.Tab{}
	}
	tabsJSON, err := json.Marshal(tabs)
	if err != nil {
		return models.ContentRow{}, err
	}

	row := models.ContentRow{
		ID:          item.ItemID(),
		Type:        string(item.Kind()),
		Tabs:        datatypes.JSON(tabsJSON),
		Usage:       nil,
		Precautions: nil,
		Body:        nil,
	}

	switch v := item.(type) {
	case models.Plant:
		benefits, err := encodeStrings(v.Benefits)
		if err != nil {
			return models.ContentRow{}, err
		}
		row.ImageURL = v.ImageURL
		row.HebrewName = ptr(v.HebrewName)
		row.LatinName = ptr(v.LatinName)
		row.Description = ptr(v.Description)
		row.Benefits = benefits
		row.Category = ptr(string(v.Category))
	case models.Article:
		tags, err := encodeStrings(v.Tags)
		if err != nil {
			return models.ContentRow{}, err
		}
		row.ImageURL = v.ImageURL
		row.Title = ptr(v.Title)
		row.Summary = ptr(v.Summary)
		row.Date = ptr(v.Date)
		row.Tags = tags
	case models.Recipe:
		tags, err := encodeStrings(v.Tags)
		if err != nil {
			return models.ContentRow{}, err
		}
		row.ImageURL = v.ImageURL
		row.Title = ptr(v.Title)
		row.Summary = ptr(v.Summary)
		row.Date = ptr(v.Date)
		row.Tags = tags
	default:
		return models.ContentRow{}, fmt.Errorf("unsupported content item %T", item)
	}
	return row, nil
}

// SlideToDomain übersetzt eine Slide-Zeile.
func SlideToDomain(row models.HeroSlideRow) models.Slide {
	return models.Slide{
		ID:       row.ID,
		Title:    row.Title,
		Subtitle: row.Subtitle,
		Text:     row.Text,
		Image:    row.Image,
		Active:   row.IsActive,
		Order:    row.DisplayOrder,
	}
}

// SlideToStorage übersetzt einen Slide in seine Zeilenform.
func SlideToStorage(s models.Slide) models.HeroSlideRow {
	return models.HeroSlideRow{
		ID:           s.ID,
		Title:        s.Title,
		Subtitle:     s.Subtitle,
		Text:         s.Text,
		Image:        s.Image,
		IsActive:     s.Active,
		DisplayOrder: s.Order,
	}
}

// SettingsToDomain übersetzt die Einstellungszeile.
func SettingsToDomain(row models.GeneralSettingsRow) models.GeneralSettings {
	return models.GeneralSettings{
		SiteName:         row.SiteName,
		PractitionerName: row.PractitionerName,
		Phone:            row.Phone,
		Email:            row.Email,
		Address:          row.Address,
		AboutShort:       row.AboutShort,
		AboutLong:        row.AboutLong,
		GeminiAPIKey:     deref(row.GeminiAPIKey),
		UnsplashAPIKey:   deref(row.UnsplashAPIKey),
		AdminNotes:       deref(row.AdminNotes),
		AdminUsername:    deref(row.AdminUsername),
		AdminPassword:    deref(row.AdminPassword),
	}
}

// SettingsToStorage übersetzt die Einstellungen; leere optionale Felder werden NULL.
func SettingsToStorage(g models.GeneralSettings) models.GeneralSettingsRow {
	return models.GeneralSettingsRow{
		ID:               models.GeneralSettingsID,
		SiteName:         g.SiteName,
		PractitionerName: g.PractitionerName,
		Phone:            g.Phone,
		Email:            g.Email,
		Address:          g.Address,
		AboutShort:       g.AboutShort,
		AboutLong:        g.AboutLong,
		GeminiAPIKey:     optional(g.GeminiAPIKey),
		UnsplashAPIKey:   optional(g.UnsplashAPIKey),
		AdminNotes:       optional(g.AdminNotes),
		AdminUsername:    optional(g.AdminUsername),
		AdminPassword:    optional(g.AdminPassword),
	}
}

func legacyTabs(row models.ContentRow) []models.Tab {
	tabs := []models.Tab{}
	legacy := []struct {
		id    string
		value *string
	}{
		{LegacyUsageTabID, row.Usage},
		{LegacyPrecautionsTabID, row.Precautions},
		{LegacyContentTabID, row.Body},
	}
	for _, l := range legacy {
		if l.value == nil || *l.value == "" {
			continue
		}
		tabs = append(tabs, models.Tab{ID: l.id, Title: legacyTabTitles[l.id], Content: *l.value})
	}
	return tabs
}

func decodeTabs(raw datatypes.JSON) ([]models.Tab, error) {
	tabs := []models.Tab{}
	if len(raw) == 0 || string(raw) == "null" {
		return tabs, nil
	}
	if err := json.Unmarshal(raw, &tabs); err != nil {
		return nil, err
	}
	if tabs == nil {
		tabs = []models.Tab{}
	}
	return tabs, nil
}

func decodeStrings(raw datatypes.JSON) ([]string, error) {
	out := []string{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeStrings(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
