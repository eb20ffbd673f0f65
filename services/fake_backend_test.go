package services

import (
	"context"
	"sync"

	"herbal-site/models"
)

// fakeBackend hält den entfernten Zustand im Speicher und kann Fehler erzwingen.
type fakeBackend struct {
	mu sync.Mutex

	general *models.GeneralSettings
	content []models.ContentItem
	slides  []models.Slide

	fetchErr error
	writeErr error
	calls    []string
}

func (f *fakeBackend) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.writeErr
}

func (f *fakeBackend) FetchGeneral(ctx context.Context) (*models.GeneralSettings, error) {
	return f.general, f.fetchErr
}

func (f *fakeBackend) FetchContent(ctx context.Context) ([]models.ContentItem, error) {
	return f.content, f.fetchErr
}

func (f *fakeBackend) FetchSlides(ctx context.Context) ([]models.Slide, error) {
	return f.slides, f.fetchErr
}

func (f *fakeBackend) InsertContent(ctx context.Context, item models.ContentItem) error {
	return f.record("insert_content:" + item.ItemID())
}

func (f *fakeBackend) UpdateContent(ctx context.Context, item models.ContentItem) error {
	return f.record("update_content:" + item.ItemID())
}

func (f *fakeBackend) DeleteContent(ctx context.Context, id string) error {
	return f.record("delete_content:" + id)
}

func (f *fakeBackend) InsertSlide(ctx context.Context, slide models.Slide) error {
	return f.record("insert_slide:" + slide.ID)
}

func (f *fakeBackend) UpdateSlide(ctx context.Context, slide models.Slide) error {
	return f.record("update_slide:" + slide.ID)
}

func (f *fakeBackend) DeleteSlide(ctx context.Context, id string) error {
	return f.record("delete_slide:" + id)
}

func (f *fakeBackend) UpsertGeneral(ctx context.Context, g models.GeneralSettings) error {
	return f.record("upsert_general")
}

func (f *fakeBackend) ReplaceAll(ctx context.Context, data models.Dataset) error {
	return f.record("replace_all")
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}
