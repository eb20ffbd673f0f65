package services

import "herbal-site/models"

// Page ist ein Ausschnitt einer gefilterten Liste.
type Page struct {
	Items      []models.ContentItem `json:"items"`
	Index      int                  `json:"page"`
	Size       int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	TotalItems int                  `json:"total_items"`
}

// TotalPages liefert ceil(n / size); eine leere Liste hat keine Seiten.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate liefert die Seite index (0-basiert); Werte außerhalb werden auf den gültigen
// Bereich begrenzt.
func Paginate(items []models.ContentItem, index, size int) Page {
	total := TotalPages(len(items), size)
	if index >= total {
		index = total - 1
	}
	if index < 0 {
		index = 0
	}
	page := Page{Items: []models.ContentItem{}, Index: index, Size: size, TotalPages: total, TotalItems: len(items)}
	if total == 0 {
		return page
	}
	start := index * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	page.Items = append(page.Items, items[start:end]...)
	return page
}

// Pager hält den Seitenzustand einer Liste. Ändert sich die Query, beginnt die
// Anzeige wieder bei Seite 0.
type Pager struct {
	Size int

	index int
	query Query
	total int
}

// NewPager erstellt einen Pager mit fester Seitengröße.
func NewPager(size int) *Pager {
	return &Pager{Size: size}
}

// Apply filtert items mit q und liefert die aktuelle Seite.
func (p *Pager) Apply(items []models.ContentItem, q Query) Page {
	if !p.query.Equal(q) {
		p.index = 0
		p.query = q
	}
	filtered := Filter(items, q)
	p.total = TotalPages(len(filtered), p.Size)
	if p.index >= p.total {
		p.index = 0
	}
	return Paginate(filtered, p.index, p.Size)
}

// Index liefert die aktuelle Seite.
func (p *Pager) Index() int { return p.index }

// Next blättert vor; auf der letzten Seite passiert nichts.
func (p *Pager) Next() bool {
	if p.index+1 >= p.total {
		return false
	}
	p.index++
	return true
}

// Prev blättert zurück; auf der ersten Seite passiert nichts.
func (p *Pager) Prev() bool {
	if p.index == 0 {
		return false
	}
	p.index--
	return true
}
