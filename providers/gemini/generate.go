package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"herbal-site/config"
	"herbal-site/providers"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrUnparsableResponse wird zurückgegeben, wenn die Antwort kein gültiges JSON enthält.
var ErrUnparsableResponse = errors.New("unparsable model response")

// ErrMissingKey wird zurückgegeben, wenn weder Einstellungen noch Umgebung einen Schlüssel liefern.
var ErrMissingKey = errors.New("gemini api key missing")

const (
	msgMissingKey = "לא הוגדר מפתח API של Gemini. יש להוסיף אותו בהגדרות האתר."
	msgFailed     = "אירעה שגיאה ביצירת התוכן: %v"
	msgEmpty      = "המודל לא החזיר תוכן. נסו לנסח את הבקשה מחדש."
)

// contentFunc ruft das Modell auf; in Tests austauschbar.
type contentFunc func(ctx context.Context, apiKey, model, prompt string, mode providers.Mode) (string, error)

// Generator erzeugt Texte für den Admin-Bereich über die Gemini-API.
type Generator struct {
	Config *config.Config
	Logger *zap.Logger

	call contentFunc
}

// NewGenerator erstellt einen neuen Gemini-Generator.
func NewGenerator(cfg *config.Config, logger *zap.Logger) *Generator {
	return &Generator{Config: cfg, Logger: logger, call: generateContent}
}

// Name gibt den Namen des Providers zurück.
func (g *Generator) Name() string {
	return "gemini"
}

// Generate liefert den erzeugten Text. Fehler werden als lesbare Meldung zurückgegeben.
func (g *Generator) Generate(ctx context.Context, apiKey, prompt string, mode providers.Mode) string {
	text, err := g.generate(ctx, apiKey, prompt, mode)
	switch {
	case errors.Is(err, ErrMissingKey):
		return msgMissingKey
	case err != nil:
		return fmt.Sprintf(msgFailed, err)
	case strings.TrimSpace(text) == "":
		return msgEmpty
	}
	return text
}

// GenerateJSON fordert eine JSON-Antwort an und dekodiert sie in target.
func (g *Generator) GenerateJSON(ctx context.Context, apiKey, prompt string, target any) error {
	text, err := g.generate(ctx, apiKey, prompt, providers.ModeJSON)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), target); err != nil {
		g.Logger.Warn("Antwort des Modells ist kein gültiges JSON", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	return nil
}

func (g *Generator) generate(ctx context.Context, apiKey, prompt string, mode providers.Mode) (string, error) {
	if apiKey == "" {
		apiKey = g.Config.GeminiAPIKey
	}
	if apiKey == "" {
		return "", ErrMissingKey
	}

	log := g.Logger.With(zap.String("provider", g.Name()), zap.String("mode", string(mode)))
	text, err := g.call(ctx, apiKey, g.Config.GeminiModel, prompt, mode)
	if err != nil {
		log.Error("Textgenerierung fehlgeschlagen", zap.Error(err))
		return "", err
	}
	log.Debug("Textgenerierung abgeschlossen", zap.Int("length", len(text)))
	return text, nil
}

func generateContent(ctx context.Context, apiKey, model, prompt string, mode providers.Mode) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	var cfg *genai.GenerateContentConfig
	if mode == providers.ModeJSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// ExtractJSON entfernt Markdown-Codezäune und schneidet vom ersten "{" bis zur letzten "}".
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}
