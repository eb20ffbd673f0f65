package services

import (
	"bytes"
	"fmt"

	"herbal-site/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// RenderedTab ist ein Tab, dessen Markdown-Inhalt bereits als HTML vorliegt.
type RenderedTab struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Rohes HTML in Tabs wird nicht ausgegeben.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderTabs wandelt die Tabs eines Eintrags in HTML um.
func RenderTabs(tabs []models.Tab) ([]RenderedTab, error) {
	out := make([]RenderedTab, 0, len(tabs))
	for _, tab := range tabs {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(tab.Content), &buf); err != nil {
			return nil, fmt.Errorf("render tab %s: %w", tab.ID, err)
		}
		out = append(out, RenderedTab{ID: tab.ID, Title: tab.Title, HTML: buf.String()})
	}
	return out, nil
}
