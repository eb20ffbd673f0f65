package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"herbal-site/config"
	"herbal-site/providers"

	"go.uber.org/zap"
)

var httpClient = providers.NewHTTPClient(15 * time.Second)

// Fetcher kapselt die Bildsuche über die Unsplash-API.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Unsplash-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "unsplash"
}

// Search sucht Fotos zum Begriff. Ohne Schlüssel, bei leerem Begriff oder bei jedem
// Fehler ist das Ergebnis eine leere Liste.
func (f *Fetcher) Search(ctx context.Context, apiKey, query string) []providers.Image {
	images := []providers.Image{}
	query = strings.TrimSpace(query)
	if apiKey == "" || query == "" {
		return images
	}

	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", query))
	resp, err := f.fetch(ctx, apiKey, query)
	if err != nil {
		log.Warn("Bildsuche fehlgeschlagen", zap.Error(err))
		return images
	}

	for _, r := range resp.Results {
		desc := r.Description
		if desc == "" {
			desc = r.AltDescription
		}
		images = append(images, providers.Image{
			ID:          r.ID,
			URL:         r.URLs.Regular,
			ThumbURL:    r.URLs.Small,
			Description: desc,
			Author:      r.User.Name,
		})
	}
	log.Debug("Bildsuche abgeschlossen", zap.Int("results", len(images)))
	return images
}

func (f *Fetcher) fetch(ctx context.Context, apiKey, query string) (*searchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(f.perPage()))
	endpoint := strings.TrimRight(f.Config.UnsplashBaseURL, "/") + "/search/photos?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+apiKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash request failed with status: %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

func (f *Fetcher) perPage() int {
	if f.Config.UnsplashPerPage > 0 {
		return f.Config.UnsplashPerPage
	}
	return 12
}
