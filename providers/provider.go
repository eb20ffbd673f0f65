package providers

import "context"

// Image ist ein Treffer der Bildsuche.
type Image struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ThumbURL    string `json:"thumbUrl"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

// ImageSearcher ist das Interface für die Bildsuche im Admin-Bereich.
type ImageSearcher interface {
	// Search liefert Bilder zum Suchbegriff; ohne Schlüssel oder bei Fehlern eine leere Liste.
	Search(ctx context.Context, apiKey, query string) []Image

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "unsplash").
	Name() string
}

// Mode bestimmt das Antwortformat der Textgenerierung.
type Mode string

const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// TextGenerator ist das Interface für die Textgenerierung im Admin-Bereich.
type TextGenerator interface {
	// Generate liefert den erzeugten Text oder eine lesbare Fehlermeldung, nie einen Fehler.
	Generate(ctx context.Context, apiKey, prompt string, mode Mode) string

	Name() string
}

// StructuredGenerator liefert JSON-Antworten bereits dekodiert.
type StructuredGenerator interface {
	// GenerateJSON dekodiert die Antwort in target. Nicht lesbares JSON ist ein normaler
	// Fehler, den der Aufrufer dem Benutzer meldet.
	GenerateJSON(ctx context.Context, apiKey, prompt string, target any) error
}
