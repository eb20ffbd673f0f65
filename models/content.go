package models

import (
	"encoding/json"
	"fmt"
)

// ContentType ist der Diskriminator der Content-Varianten.
type ContentType string

const (
	TypePlant     ContentType = "plant"
	TypeArticle   ContentType = "article"
	TypeCaseStudy ContentType = "case_study"
	TypeRecipe    ContentType = "recipe"
)

// Valid meldet, ob der Typ eine bekannte Variante bezeichnet.
func (t ContentType) Valid() bool {
	switch t {
	case TypePlant, TypeArticle, TypeCaseStudy, TypeRecipe:
		return true
	}
	return false
}

// PlantCategory gruppiert Pflanzen nach ihrer Hauptwirkung.
type PlantCategory string

const (
	CategoryRelaxing  PlantCategory = "relaxing"
	CategoryDigestive PlantCategory = "digestive"
	CategoryImmune    PlantCategory = "immune"
	CategorySkin      PlantCategory = "skin"
	CategoryGeneral   PlantCategory = "general"
)

// Tab ist ein frei benannter Inhaltsabschnitt eines Eintrags.
type Tab struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ContentItem ist die geschlossene Menge aller Wissensdatenbank-Einträge.
// Implementiert wird es nur von Plant, Article und Recipe.
type ContentItem interface {
	ItemID() string
	Kind() ContentType
	// DisplayName ist der Pflichtname des Eintrags (hebräischer Name bzw. Titel).
	DisplayName() string
	// TagList liefert Benefits (Pflanzen) bzw. Tags (alle anderen).
	TagList() []string
	// SearchText liefert die Felder, gegen die die Freitextsuche läuft.
	SearchText() []string
	ItemTabs() []Tab
	// Clone liefert eine flache Kopie mit eigenen Slices.
	Clone() ContentItem

	isContentItem()
}

// Plant ist ein Heilpflanzen-Eintrag.
type Plant struct {
	ID          string        `json:"id"`
	HebrewName  string        `json:"hebrewName"`
	LatinName   string        `json:"latinName"`
	Description string        `json:"description"`
	Benefits    []string      `json:"benefits"`
	Category    PlantCategory `json:"category"`
	ImageURL    string        `json:"imageUrl"`
	Tabs        []Tab         `json:"tabs"`
}

func (p Plant) ItemID() string       { return p.ID }
func (p Plant) Kind() ContentType    { return TypePlant }
func (p Plant) DisplayName() string  { return p.HebrewName }
func (p Plant) TagList() []string    { return p.Benefits }
func (p Plant) SearchText() []string { return []string{p.HebrewName, p.LatinName} }
func (p Plant) ItemTabs() []Tab      { return p.Tabs }
func (Plant) isContentItem()         {}

func (p Plant) Clone() ContentItem {
	p.Benefits = cloneStrings(p.Benefits)
	p.Tabs = cloneTabs(p.Tabs)
	return p
}

// MarshalJSON schreibt den Diskriminator mit.
func (p Plant) MarshalJSON() ([]byte, error) {
	type plain Plant
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		plain
	}{TypePlant, plain(p)})
}

// Article deckt Artikel und Fallstudien ab; Type unterscheidet beide.
type Article struct {
	Type     ContentType `json:"type"`
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Summary  string      `json:"summary"`
	Date     string      `json:"date"`
	Tags     []string    `json:"tags"`
	ImageURL string      `json:"imageUrl"`
	Tabs     []Tab       `json:"tabs"`
}

func (a Article) ItemID() string { return a.ID }

func (a Article) Kind() ContentType {
	if a.Type == TypeCaseStudy {
		return TypeCaseStudy
	}
	return TypeArticle
}

func (a Article) DisplayName() string  { return a.Title }
func (a Article) TagList() []string    { return a.Tags }
func (a Article) SearchText() []string { return []string{a.Title, a.Summary} }
func (a Article) ItemTabs() []Tab      { return a.Tabs }
func (Article) isContentItem()         {}

func (a Article) Clone() ContentItem {
	a.Tags = cloneStrings(a.Tags)
	a.Tabs = cloneTabs(a.Tabs)
	return a
}

func (a Article) MarshalJSON() ([]byte, error) {
	type plain Article
	a.Type = a.Kind()
	return json.Marshal(plain(a))
}

// Recipe ist ein Rezept (Tee, Tinktur, Salbe ...).
type Recipe struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	ImageURL string   `json:"imageUrl"`
	Tabs     []Tab    `json:"tabs"`
}

func (r Recipe) ItemID() string       { return r.ID }
func (r Recipe) Kind() ContentType    { return TypeRecipe }
func (r Recipe) DisplayName() string  { return r.Title }
func (r Recipe) TagList() []string    { return r.Tags }
func (r Recipe) SearchText() []string { return []string{r.Title, r.Summary} }
func (r Recipe) ItemTabs() []Tab      { return r.Tabs }
func (Recipe) isContentItem()         {}

func (r Recipe) Clone() ContentItem {
	r.Tags = cloneStrings(r.Tags)
	r.Tabs = cloneTabs(r.Tabs)
	return r
}

func (r Recipe) MarshalJSON() ([]byte, error) {
	type plain Recipe
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		plain
	}{TypeRecipe, plain(r)})
}

// DecodeContentItem liest einen einzelnen Eintrag anhand seines "type"-Felds und liefert
// ihn in Normalform.
func DecodeContentItem(data []byte) (ContentItem, error) {
	var head struct {
		Type ContentType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case TypePlant:
		var p Plant
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return Canonical(p), nil
	case TypeArticle, TypeCaseStudy:
		var a Article
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return Canonical(a), nil
	case TypeRecipe:
		var r Recipe
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return Canonical(r), nil
	default:
		return nil, fmt.Errorf("unknown content type %q", head.Type)
	}
}

// ContentList ist eine JSON-fähige Liste von Einträgen gemischter Typen.
type ContentList []ContentItem

func (l *ContentList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	items := make(ContentList, 0, len(raws))
	for i, raw := range raws {
		item, err := DecodeContentItem(raw)
		if err != nil {
			return fmt.Errorf("content[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	*l = items
	return nil
}

// NewContentItem liefert einen leeren Eintrag der gewünschten Variante.
func NewContentItem(kind ContentType, id string) (ContentItem, error) {
	switch kind {
	case TypePlant:
		return Plant{ID: id, Category: CategoryGeneral, Benefits: []string{}, Tabs: []Tab{}}, nil
	case TypeArticle, TypeCaseStudy:
		return Article{Type: kind, ID: id, Tags: []string{}, Tabs: []Tab{}}, nil
	case TypeRecipe:
		return Recipe{ID: id, Tags: []string{}, Tabs: []Tab{}}, nil
	default:
		return nil, fmt.Errorf("unknown content type %q", kind)
	}
}

// Canonical liefert die Normalform eines Eintrags, wie sie aus der Datenbank zurückkommt:
// Listen sind nie nil, Pflanzen ohne Kategorie gehören zu "general", Artikel tragen ihren Typ.
func Canonical(item ContentItem) ContentItem {
	switch v := item.Clone().(type) {
	case Plant:
		v.Benefits = nonNilStrings(v.Benefits)
		v.Tabs = nonNilTabs(v.Tabs)
		if v.Category == "" {
			v.Category = CategoryGeneral
		}
		return v
	case Article:
		v.Type = v.Kind()
		v.Tags = nonNilStrings(v.Tags)
		v.Tabs = nonNilTabs(v.Tabs)
		return v
	case Recipe:
		v.Tags = nonNilStrings(v.Tags)
		v.Tabs = nonNilTabs(v.Tabs)
		return v
	default:
		return item
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func nonNilTabs(in []Tab) []Tab {
	if in == nil {
		return []Tab{}
	}
	return in
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

func cloneTabs(in []Tab) []Tab {
	if in == nil {
		return nil
	}
	return append([]Tab{}, in...)
}
