package models

import (
	"time"

	"gorm.io/datatypes"
)

// GeneralSettingsID ist der feste Primärschlüssel der Einstellungszeile.
const GeneralSettingsID = 1

// ContentRow ist die gespeicherte Form eines ContentItem in der Tabelle "content".
// Typ-spezifische Spalten sind je nach Typ leer; Usage, Precautions und Body sind
// Altspalten aus der Zeit vor den Tabs und werden nur noch gelesen.
type ContentRow struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Type     string         `json:"type" gorm:"index;not null"`
	ImageURL string         `json:"image_url" gorm:"column:image_url"`
	Tabs     datatypes.JSON `json:"tabs" gorm:"type:jsonb"`

	// Pflanzen
	HebrewName  *string        `json:"hebrew_name,omitempty" gorm:"column:hebrew_name"`
	LatinName   *string        `json:"latin_name,omitempty" gorm:"column:latin_name"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	Benefits    datatypes.JSON `json:"benefits,omitempty" gorm:"type:jsonb"`
	Category    *string        `json:"category,omitempty" gorm:"index"`

	// Artikel, Fallstudien, Rezepte
	Title   *string        `json:"title,omitempty"`
	Summary *string        `json:"summary,omitempty" gorm:"type:text"`
	Date    *string        `json:"date,omitempty"`
	Tags    datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"`

	// Altspalten
	Usage       *string `json:"usage,omitempty" gorm:"type:text"`
	Precautions *string `json:"precautions,omitempty" gorm:"type:text"`
	Body        *string `json:"content,omitempty" gorm:"column:content;type:text"`
}

// TableName gibt explizit den Tabellennamen an.
func (ContentRow) TableName() string {
	return "content"
}

// HeroSlideRow ist die gespeicherte Form eines Slide.
type HeroSlideRow struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Text         string `json:"text" gorm:"type:text"`
	Image        string `json:"image"`
	IsActive     bool   `json:"is_active" gorm:"column:is_active"`
	DisplayOrder int    `json:"display_order" gorm:"column:display_order;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (HeroSlideRow) TableName() string {
	return "hero_slides"
}

// GeneralSettingsRow ist die Singleton-Zeile der Tabelle "general_settings".
type GeneralSettingsRow struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	UpdatedAt time.Time `json:"updated_at"`

	SiteName         string `json:"site_name"`
	PractitionerName string `json:"practitioner_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	AboutShort       string `json:"about_short" gorm:"type:text"`
	AboutLong        string `json:"about_long" gorm:"type:text"`

	GeminiAPIKey   *string `json:"gemini_api_key,omitempty" gorm:"column:gemini_api_key"`
	UnsplashAPIKey *string `json:"unsplash_api_key,omitempty" gorm:"column:unsplash_api_key"`
	AdminNotes     *string `json:"admin_notes,omitempty" gorm:"type:text"`
	AdminUsername  *string `json:"admin_username,omitempty"`
	AdminPassword  *string `json:"admin_password,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (GeneralSettingsRow) TableName() string {
	return "general_settings"
}
