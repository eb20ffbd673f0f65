package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"herbal-site/models"

	"go.uber.org/zap"
)

// Backend ist die entfernte Persistenz hinter dem Repository.
type Backend interface {
	// FetchGeneral liefert nil, nil wenn keine Einstellungen gespeichert sind.
	FetchGeneral(ctx context.Context) (*models.GeneralSettings, error)
	FetchContent(ctx context.Context) ([]models.ContentItem, error)
	FetchSlides(ctx context.Context) ([]models.Slide, error)

	InsertContent(ctx context.Context, item models.ContentItem) error
	// UpdateContent schreibt den Eintrag; fehlt die Zeile, wird sie angelegt.
	UpdateContent(ctx context.Context, item models.ContentItem) error
	DeleteContent(ctx context.Context, id string) error

	InsertSlide(ctx context.Context, slide models.Slide) error
	// UpdateSlide schreibt den Slide; fehlt die Zeile, wird sie angelegt.
	UpdateSlide(ctx context.Context, slide models.Slide) error
	DeleteSlide(ctx context.Context, id string) error

	UpsertGeneral(ctx context.Context, g models.GeneralSettings) error
	ReplaceAll(ctx context.Context, data models.Dataset) error
}

// Repository hält den kanonischen Datenbestand im Speicher. Änderungen werden zuerst
// lokal angewendet und danach gespeichert; schlägt das Speichern fehl, wird der Fehler
// zurückgegeben, die lokale Änderung aber nicht zurückgerollt. Schreibende Aufrufe
// warten, bis Load abgeschlossen ist.
type Repository struct {
	Backend  Backend
	Fallback models.Dataset
	Logger   *zap.Logger

	mu      sync.RWMutex
	loading bool
	general models.GeneralSettings
	content []models.ContentItem
	slides  []models.Slide
	// pending enthält Demo-Datensätze, die nur im Speicher existieren.
	pending map[string]bool

	loaded   chan struct{}
	loadOnce sync.Once
}

// NewRepository erstellt ein Repository; fallback ist der mitgelieferte Demo-Datenbestand.
func NewRepository(backend Backend, fallback models.Dataset, logger *zap.Logger) *Repository {
	return &Repository{
		Backend:  backend,
		Fallback: fallback,
		Logger:   logger,
		loading:  true,
		general:  models.DefaultGeneralSettings(),
		pending:  map[string]bool{},
		loaded:   make(chan struct{}),
	}
}

// Load lädt Einstellungen, Inhalte und Slides. Jede leere oder fehlerhafte Gruppe wird
// durch die Demo-Daten ersetzt; Fehler werden nur protokolliert.
func (r *Repository) Load(ctx context.Context) {
	log := r.Logger.With(zap.String("component", "repository"))

	general := r.Fallback.General
	if g, err := r.Backend.FetchGeneral(ctx); err != nil {
		log.Warn("Einstellungen konnten nicht geladen werden, verwende Standardwerte", zap.Error(err))
	} else if g != nil {
		general = *g
	}

	pending := map[string]bool{}
	content, err := r.Backend.FetchContent(ctx)
	if err != nil {
		log.Warn("Inhalte konnten nicht geladen werden, verwende Demo-Daten", zap.Error(err))
	}
	if len(content) == 0 {
		content = canonicalItems(r.Fallback.Content)
		for _, item := range content {
			pending[contentKey(item.ItemID())] = true
		}
	}

	slides, err := r.Backend.FetchSlides(ctx)
	if err != nil {
		log.Warn("Slides konnten nicht geladen werden, verwende Demo-Daten", zap.Error(err))
	}
	if len(slides) == 0 {
		slides = append([]models.Slide{}, r.Fallback.Slides...)
		for _, s := range slides {
			pending[slideKey(s.ID)] = true
		}
	}

	r.mu.Lock()
	r.general = general
	r.content = content
	r.slides = slides
	r.pending = pending
	r.loading = false
	r.mu.Unlock()
	r.loadOnce.Do(func() { close(r.loaded) })

	log.Info("Datenbestand geladen", zap.Int("content", len(content)), zap.Int("slides", len(slides)))
}

// waitLoaded blockiert, bis Load abgeschlossen ist oder ctx endet.
func (r *Repository) waitLoaded(ctx context.Context) error {
	select {
	case <-r.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loading ist true, bis Load abgeschlossen ist.
func (r *Repository) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// General liefert die aktuellen Einstellungen.
func (r *Repository) General() models.GeneralSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.general
}

// Content liefert eine Kopie der Inhaltsliste in ihrer aktuellen Reihenfolge.
func (r *Repository) Content() []models.ContentItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneItems(r.content)
}

// FindContent sucht einen Eintrag per id.
func (r *Repository) FindContent(id string) (models.ContentItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOfContent(id); i >= 0 {
		return r.content[i].Clone(), true
	}
	return nil, false
}

// HasContent meldet, ob ein Eintrag mit dieser id existiert.
func (r *Repository) HasContent(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOfContent(id) >= 0
}

// Slides liefert alle Slides aufsteigend nach Order; gleiche Order behält die Einfügereihenfolge.
func (r *Repository) Slides() []models.Slide {
	r.mu.RLock()
	slides := append([]models.Slide{}, r.slides...)
	r.mu.RUnlock()
	sort.SliceStable(slides, func(i, j int) bool { return slides[i].Order < slides[j].Order })
	return slides
}

// ActiveSlides liefert nur aktive Slides in Anzeigereihenfolge.
func (r *Repository) ActiveSlides() []models.Slide {
	active := []models.Slide{}
	for _, s := range r.Slides() {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// FindSlide sucht einen Slide per id.
func (r *Repository) FindSlide(id string) (models.Slide, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOfSlide(id); i >= 0 {
		return r.slides[i], true
	}
	return models.Slide{}, false
}

// HasSlide meldet, ob ein Slide mit dieser id existiert.
func (r *Repository) HasSlide(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOfSlide(id) >= 0
}

// AddContent stellt den Eintrag an den Anfang der Liste und speichert ihn danach.
func (r *Repository) AddContent(ctx context.Context, item models.ContentItem) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	item = models.Canonical(item)
	r.mu.Lock()
	if r.indexOfContent(item.ItemID()) >= 0 {
		r.mu.Unlock()
		return fmt.Errorf("content %s: %w", item.ItemID(), ErrDuplicateID)
	}
	r.content = append([]models.ContentItem{item.Clone()}, r.content...)
	r.mu.Unlock()

	return r.persist("add_content", item.ItemID(), func() error {
		return r.Backend.InsertContent(ctx, item.Clone())
	})
}

// UpdateContent ersetzt den Eintrag mit gleicher id an seiner bisherigen Position.
func (r *Repository) UpdateContent(ctx context.Context, item models.ContentItem) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	item = models.Canonical(item)
	r.mu.Lock()
	i := r.indexOfContent(item.ItemID())
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("content %s: %w", item.ItemID(), ErrNotFound)
	}
	r.content[i] = item.Clone()
	r.mu.Unlock()

	return r.persistPending(contentKey(item.ItemID()), "update_content", func() error {
		return r.Backend.UpdateContent(ctx, item.Clone())
	})
}

// DeleteContent entfernt den Eintrag und löscht ihn danach entfernt.
func (r *Repository) DeleteContent(ctx context.Context, id string) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	i := r.indexOfContent(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	r.content = append(r.content[:i:i], r.content[i+1:]...)
	delete(r.pending, contentKey(id))
	r.mu.Unlock()

	return r.persist("delete_content", id, func() error {
		return r.Backend.DeleteContent(ctx, id)
	})
}

// AddSlide hängt einen Slide an; die Anzeige richtet sich nach Order.
func (r *Repository) AddSlide(ctx context.Context, slide models.Slide) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	if r.indexOfSlide(slide.ID) >= 0 {
		r.mu.Unlock()
		return fmt.Errorf("slide %s: %w", slide.ID, ErrDuplicateID)
	}
	r.slides = append(r.slides, slide)
	r.mu.Unlock()

	return r.persist("add_slide", slide.ID, func() error {
		return r.Backend.InsertSlide(ctx, slide)
	})
}

func (r *Repository) UpdateSlide(ctx context.Context, slide models.Slide) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	i := r.indexOfSlide(slide.ID)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("slide %s: %w", slide.ID, ErrNotFound)
	}
	r.slides[i] = slide
	r.mu.Unlock()

	return r.persistPending(slideKey(slide.ID), "update_slide", func() error {
		return r.Backend.UpdateSlide(ctx, slide)
	})
}

func (r *Repository) DeleteSlide(ctx context.Context, id string) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	i := r.indexOfSlide(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("slide %s: %w", id, ErrNotFound)
	}
	r.slides = append(r.slides[:i:i], r.slides[i+1:]...)
	delete(r.pending, slideKey(id))
	r.mu.Unlock()

	return r.persist("delete_slide", id, func() error {
		return r.Backend.DeleteSlide(ctx, id)
	})
}

// UpdateGeneral ersetzt die Einstellungen und schreibt die Singleton-Zeile.
func (r *Repository) UpdateGeneral(ctx context.Context, g models.GeneralSettings) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	r.general = g
	r.mu.Unlock()

	return r.persist("update_general", "general", func() error {
		return r.Backend.UpsertGeneral(ctx, g)
	})
}

// RestoreFromBackup ersetzt den gesamten Bestand lokal und entfernt. Es wird nichts zusammengeführt.
func (r *Repository) RestoreFromBackup(ctx context.Context, data models.Dataset) error {
	if err := r.waitLoaded(ctx); err != nil {
		return err
	}
	content := canonicalItems(data.Content)
	slides := append([]models.Slide{}, data.Slides...)

	r.mu.Lock()
	r.general = data.General
	r.content = content
	r.slides = slides
	r.pending = map[string]bool{}
	r.mu.Unlock()

	return r.persist("restore", "all", func() error {
		return r.Backend.ReplaceAll(ctx, models.Dataset{
			General: data.General,
			Content: cloneItems(content),
			Slides:  append([]models.Slide{}, slides...),
		})
	})
}

// Snapshot liefert den aktuellen Bestand als zusammenhängende Kopie.
func (r *Repository) Snapshot() models.Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.Dataset{
		General: r.general,
		Content: cloneItems(r.content),
		Slides:  append([]models.Slide{}, r.slides...),
	}
}

// PersistPending schreibt alle Demo-Datensätze, die bisher nur im Speicher liegen, in
// das Backend und liefert die Anzahl erfolgreich geschriebener Datensätze.
func (r *Repository) PersistPending(ctx context.Context) (int, error) {
	if err := r.waitLoaded(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	var items []models.ContentItem
	for _, item := range r.content {
		if r.pending[contentKey(item.ItemID())] {
			items = append(items, item.Clone())
		}
	}
	var slides []models.Slide
	for _, s := range r.slides {
		if r.pending[slideKey(s.ID)] {
			slides = append(slides, s)
		}
	}
	r.mu.RUnlock()

	written := 0
	var errs []error
	for _, item := range items {
		err := r.persistPending(contentKey(item.ItemID()), "persist_pending", func() error {
			return r.Backend.UpdateContent(ctx, item)
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written++
	}
	for _, s := range slides {
		err := r.persistPending(slideKey(s.ID), "persist_pending", func() error {
			return r.Backend.UpdateSlide(ctx, s)
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written++
	}
	return written, errors.Join(errs...)
}

// IsPending meldet, ob ein Eintrag oder Slide nur im Speicher existiert.
func (r *Repository) IsPending(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending[contentKey(id)] || r.pending[slideKey(id)]
}

// persistPending speichert wie persist und markiert den Datensatz danach als gespeichert.
func (r *Repository) persistPending(key, op string, call func() error) error {
	if err := r.persist(op, key, call); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.pending, key)
	r.mu.Unlock()
	return nil
}

// persist führt den Speicheraufruf aus, zählt ihn und protokolliert Fehler.
func (r *Repository) persist(op, id string, call func() error) error {
	contentMutations.WithLabelValues(op).Inc()
	if err := call(); err != nil {
		persistenceFailures.WithLabelValues(op).Inc()
		r.Logger.Error("Speichern fehlgeschlagen, lokale Änderung bleibt bestehen",
			zap.String("op", op), zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) indexOfContent(id string) int {
	for i, item := range r.content {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

func (r *Repository) indexOfSlide(id string) int {
	for i, s := range r.slides {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func canonicalItems(items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.Canonical(item))
	}
	return out
}

func contentKey(id string) string { return "content:" + id }
func slideKey(id string) string   { return "slide:" + id }

func cloneItems(items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}
