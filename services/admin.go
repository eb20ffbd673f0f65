package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"herbal-site/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Credentials ist ein Paar aus Benutzername und Passwort.
type Credentials struct {
	Username string
	Password string
}

// EditState ist der Zustand eines Editors.
type EditState string

const (
	EditIdle        EditState = "idle"
	EditingNew      EditState = "editing_new"
	EditingExisting EditState = "editing_existing"
)

// AdminSession ist die Admin-Sitzung eines Browsers. Nach erfolgreicher Anmeldung bleibt
// sie angemeldet; je Entitätsart gibt es genau einen Entwurf.
type AdminSession struct {
	ID       string
	Repo     *Repository
	Fallback Credentials
	DemoData models.Dataset
	Logger   *zap.Logger
	NewID    func() string

	mu            sync.Mutex
	authenticated bool

	contentState EditState
	contentDraft models.ContentItem

	slideState EditState
	slideDraft models.Slide

	pager *Pager
}

// NewAdminSession erstellt eine nicht angemeldete Sitzung.
func NewAdminSession(id string, repo *Repository, fallback Credentials, demo models.Dataset, logger *zap.Logger) *AdminSession {
	return &AdminSession{
		ID:           id,
		Repo:         repo,
		Fallback:     fallback,
		DemoData:     demo,
		Logger:       logger.With(zap.String("session", id)),
		NewID:        uuid.NewString,
		contentState: EditIdle,
		slideState:   EditIdle,
		pager:        NewPager(ArticlesPageSize),
	}
}

// Authenticate vergleicht die Zugangsdaten mit den gespeicherten und dem festen Fallback.
func (s *AdminSession) Authenticate(username, password string) error {
	general := s.Repo.General()
	candidates := []Credentials{s.Fallback}
	if general.AdminUsername != "" && general.AdminPassword != "" {
		candidates = append([]Credentials{{general.AdminUsername, general.AdminPassword}}, candidates...)
	}

	for _, c := range candidates {
		if c.Username == "" || c.Password == "" {
			continue
		}
		if equal(c.Username, username) && equal(c.Password, password) {
			s.mu.Lock()
			s.authenticated = true
			s.mu.Unlock()
			s.Logger.Info("Admin angemeldet")
			return nil
		}
	}
	s.Logger.Warn("Fehlgeschlagene Admin-Anmeldung", zap.String("username", username))
	return ErrInvalidCredentials
}

// Authenticated meldet, ob die Sitzung angemeldet ist.
func (s *AdminSession) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *AdminSession) requireAuth() error {
	if !s.authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// ContentState liefert den Editor-Zustand und den aktuellen Entwurf.
func (s *AdminSession) ContentState() (EditState, models.ContentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contentDraft == nil {
		return s.contentState, nil
	}
	return s.contentState, s.contentDraft.Clone()
}

// BeginNewContent legt einen leeren Entwurf mit frischer id an. Ein offener Entwurf
// wird verworfen.
func (s *AdminSession) BeginNewContent(kind models.ContentType) (models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	draft, err := models.NewContentItem(kind, s.NewID())
	if err != nil {
		return nil, err
	}
	if a, ok := draft.(models.Article); ok {
		a.Date = today()
		draft = a
	}
	if r, ok := draft.(models.Recipe); ok {
		r.Date = today()
		draft = r
	}
	s.contentDraft = draft
	s.contentState = EditingNew
	return draft.Clone(), nil
}

// BeginEditContent übernimmt eine Kopie des gespeicherten Eintrags als Entwurf.
func (s *AdminSession) BeginEditContent(id string) (models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	item, ok := s.Repo.FindContent(id)
	if !ok {
		return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	s.contentDraft = item
	s.contentState = EditingExisting
	return item.Clone(), nil
}

// UpdateContentDraft ersetzt den Entwurf; die id darf sich nicht ändern.
func (s *AdminSession) UpdateContentDraft(item models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAuth(); err != nil {
		return err
	}
	if s.contentDraft == nil {
		return ErrNoDraft
	}
	if item.ItemID() != s.contentDraft.ItemID() {
		return ErrDraftIDChanged
	}
	s.contentDraft = item.Clone()
	return nil
}

// SaveContent prüft den Entwurf und legt ihn an bzw. aktualisiert ihn. Der Editor kehrt
// auch bei einem Speicherfehler in den Ruhezustand zurück, da die Änderung lokal bereits
// übernommen wurde.
func (s *AdminSession) SaveContent(ctx context.Context) (models.ContentItem, error) {
	s.mu.Lock()
	if err := s.requireAuth(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.contentDraft == nil {
		s.mu.Unlock()
		return nil, ErrNoDraft
	}
	draft := s.contentDraft.Clone()
	if err := ValidateContent(draft); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.contentDraft = nil
	s.contentState = EditIdle
	s.mu.Unlock()

	var err error
	if s.Repo.HasContent(draft.ItemID()) {
		err = s.Repo.UpdateContent(ctx, draft)
	} else {
		err = s.Repo.AddContent(ctx, draft)
	}
	return draft, err
}

// CancelContent verwirft den Entwurf.
func (s *AdminSession) CancelContent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentDraft = nil
	s.contentState = EditIdle
}

// DeleteContent löscht einen Eintrag.
func (s *AdminSession) DeleteContent(ctx context.Context, id string) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return s.Repo.DeleteContent(ctx, id)
}

// PageMove blättert in der Inhaltsliste der Sitzung.
type PageMove string

const (
	PageStay PageMove = ""
	PageNext PageMove = "next"
	PagePrev PageMove = "prev"
)

// BrowseContent liefert die Seite der Inhaltsliste, auf der die Sitzung gerade steht.
// Eine geänderte Query beginnt wieder bei Seite 0; Blättern über die Ränder hinaus
// bleibt auf der Randseite.
func (s *AdminSession) BrowseContent(q Query, move PageMove) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAuth(); err != nil {
		return Page{}, err
	}
	size := ArticlesPageSize
	if q.Type == string(models.TypePlant) {
		size = PlantsPageSize
	}
	if s.pager.Size != size {
		s.pager = NewPager(size)
	}

	items := s.Repo.Content()
	page := s.pager.Apply(items, q)
	moved := false
	switch move {
	case PageNext:
		moved = s.pager.Next()
	case PagePrev:
		moved = s.pager.Prev()
	}
	if moved {
		page = s.pager.Apply(items, q)
	}
	return page, nil
}

// SlideState liefert den Zustand des Slide-Editors.
func (s *AdminSession) SlideState() (EditState, models.Slide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slideState, s.slideDraft
}

// BeginNewSlide legt einen Slide-Entwurf hinter dem letzten Slide an.
func (s *AdminSession) BeginNewSlide() (models.Slide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAuth(); err != nil {
		return models.Slide{}, err
	}
	order := 0
	for _, existing := range s.Repo.Slides() {
		if existing.Order >= order {
			order = existing.Order + 1
		}
	}
	s.slideDraft = models.Slide{ID: s.NewID(), Active: true, Order: order}
	s.slideState = EditingNew
	return s.slideDraft, nil
}

func (s *AdminSession) BeginEditSlide(id string) (models.Slide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAuth(); err != nil {
		return models.Slide{}, err
	}
	slide, ok := s.Repo.FindSlide(id)
	if !ok {
		return models.Slide{}, fmt.Errorf("slide %s: %w", id, ErrNotFound)
	}
	s.slideDraft = slide
	s.slideState = EditingExisting
	return slide, nil
}

func (s *AdminSession) UpdateSlideDraft(slide models.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireAuth(); err != nil {
		return err
	}
	if s.slideState == EditIdle {
		return ErrNoDraft
	}
	if slide.ID != s.slideDraft.ID {
		return ErrDraftIDChanged
	}
	s.slideDraft = slide
	return nil
}

func (s *AdminSession) SaveSlide(ctx context.Context) (models.Slide, error) {
	s.mu.Lock()
	if err := s.requireAuth(); err != nil {
		s.mu.Unlock()
		return models.Slide{}, err
	}
	if s.slideState == EditIdle {
		s.mu.Unlock()
		return models.Slide{}, ErrNoDraft
	}
	draft := s.slideDraft
	if err := ValidateSlide(draft); err != nil {
		s.mu.Unlock()
		return models.Slide{}, err
	}
	s.slideDraft = models.Slide{}
	s.slideState = EditIdle
	s.mu.Unlock()

	if s.Repo.HasSlide(draft.ID) {
		return draft, s.Repo.UpdateSlide(ctx, draft)
	}
	return draft, s.Repo.AddSlide(ctx, draft)
}

func (s *AdminSession) CancelSlide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slideDraft = models.Slide{}
	s.slideState = EditIdle
}

func (s *AdminSession) DeleteSlide(ctx context.Context, id string) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return s.Repo.DeleteSlide(ctx, id)
}

// UpdateGeneral speichert neue Einstellungen.
func (s *AdminSession) UpdateGeneral(ctx context.Context, g models.GeneralSettings) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return s.Repo.UpdateGeneral(ctx, g)
}

// ValidateContent prüft die Pflichtfelder eines Eintrags.
func ValidateContent(item models.ContentItem) error {
	switch v := item.(type) {
	case models.Plant:
		return validation.ValidateStruct(&v,
			validation.Field(&v.ID, validation.Required),
			validation.Field(&v.HebrewName, requiredText("שם הצמח הוא שדה חובה")),
			validation.Field(&v.Category, validation.In(
				models.CategoryRelaxing, models.CategoryDigestive, models.CategoryImmune,
				models.CategorySkin, models.CategoryGeneral,
			)),
		)
	case models.Article:
		return validation.ValidateStruct(&v,
			validation.Field(&v.ID, validation.Required),
			validation.Field(&v.Title, requiredText("כותרת היא שדה חובה")),
		)
	case models.Recipe:
		return validation.ValidateStruct(&v,
			validation.Field(&v.ID, validation.Required),
			validation.Field(&v.Title, requiredText("כותרת היא שדה חובה")),
		)
	default:
		return fmt.Errorf("unsupported content item %T", item)
	}
}

// ValidateSlide prüft die Pflichtfelder eines Slides.
func ValidateSlide(slide models.Slide) error {
	return validation.ValidateStruct(&slide,
		validation.Field(&slide.ID, validation.Required),
		validation.Field(&slide.Title, requiredText("כותרת היא שדה חובה")),
	)
}

// requiredText verlangt einen Text, der nicht nur aus Leerzeichen besteht.
func requiredText(msg string) validation.Rule {
	return validation.By(func(value interface{}) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError("validation_required", msg)
		}
		return nil
	})
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func today() string {
	return time.Now().Format("2006-01-02")
}
