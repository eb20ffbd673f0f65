package services

import (
	"sort"
	"strings"

	"herbal-site/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Seitengrößen der öffentlichen Listen.
const (
	PlantsPageSize   = 8
	ArticlesPageSize = 9
)

// RelatedLimit ist die Höchstzahl verwandter Einträge.
const RelatedLimit = 4

// TypeAll wählt alle Typen aus.
const TypeAll = "all"

// Query beschreibt die Filter der Wissensdatenbank.
type Query struct {
	Text string   `json:"text" form:"q"`
	Type string   `json:"type" form:"type"`
	Tags []string `json:"tags" form:"tags"`
}

// Equal vergleicht zwei Queries feldweise; die Tag-Reihenfolge zählt nicht.
func (q Query) Equal(o Query) bool {
	if q.Text != o.Text || q.normalizedType() != o.normalizedType() || len(q.Tags) != len(o.Tags) {
		return false
	}
	a := append([]string{}, q.Tags...)
	b := append([]string{}, o.Tags...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (q Query) normalizedType() string {
	if q.Type == "" {
		return TypeAll
	}
	return q.Type
}

// Tags liefert alle Benefits und Tags der Sammlung, dedupliziert und sortiert.
func Tags(items []models.ContentItem) []string {
	seen := map[string]struct{}{}
	for _, item := range items {
		for _, tag := range item.TagList() {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Matches prüft Text, Typ und Tags; alle drei müssen zutreffen. Mehrere gewählte Tags
// sind ODER-verknüpft.
func Matches(item models.ContentItem, q Query) bool {
	return matchesText(item, q.Text) && matchesType(item, q.Type) && matchesTags(item, q.Tags)
}

// Filter liefert alle passenden Einträge in Originalreihenfolge.
func Filter(items []models.ContentItem, q Query) []models.ContentItem {
	out := []models.ContentItem{}
	for _, item := range items {
		if Matches(item, q) {
			out = append(out, item)
		}
	}
	return out
}

// Related liefert bis zu limit andere Einträge, die mindestens einen Tag mit focal teilen,
// in der Reihenfolge der Sammlung.
func Related(items []models.ContentItem, focal models.ContentItem, limit int) []models.ContentItem {
	out := []models.ContentItem{}
	if limit <= 0 {
		return out
	}
	focalTags := focal.TagList()
	for _, item := range items {
		if item.ItemID() == focal.ItemID() {
			continue
		}
		if intersects(item.TagList(), focalTags) {
			out = append(out, item)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// fold normalisiert für den Vergleich ohne Groß-/Kleinschreibung. Ein Caser ist
// zustandsbehaftet und wird deshalb pro Aufruf erzeugt.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

func matchesText(item models.ContentItem, text string) bool {
	needle := fold(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	for _, field := range item.SearchText() {
		if strings.Contains(fold(field), needle) {
			return true
		}
	}
	return false
}

func matchesType(item models.ContentItem, t string) bool {
	return t == "" || t == TypeAll || models.ContentType(t) == item.Kind()
}

func matchesTags(item models.ContentItem, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	return intersects(item.TagList(), selected)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
