package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContentItem(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind ContentType
		wantName string
	}{
		{
			name:     "plant",
			input:    `{"type":"plant","id":"p1","hebrewName":"קמומיל","benefits":["הרגעה"],"category":"relaxing","tabs":[]}`,
			wantKind: TypePlant,
			wantName: "קמומיל",
		},
		{
			name:     "article",
			input:    `{"type":"article","id":"a1","title":"שינה","tags":["שינה"],"tabs":[]}`,
			wantKind: TypeArticle,
			wantName: "שינה",
		},
		{
			name:     "case study keeps its type",
			input:    `{"type":"case_study","id":"c1","title":"מקרה","tags":[],"tabs":[]}`,
			wantKind: TypeCaseStudy,
			wantName: "מקרה",
		},
		{
			name:     "recipe",
			input:    `{"type":"recipe","id":"r1","title":"תה","tags":["תה"],"tabs":[]}`,
			wantKind: TypeRecipe,
			wantName: "תה",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := DecodeContentItem([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, item.Kind())
			assert.Equal(t, tt.wantName, item.DisplayName())
		})
	}
}

func TestDecodeContentItemUnknownType(t *testing.T) {
	_, err := DecodeContentItem([]byte(`{"type":"poem","id":"x"}`))
	assert.Error(t, err)

	_, err = DecodeContentItem([]byte(`{"id":"x"}`))
	assert.Error(t, err)
}

func TestMarshalWritesDiscriminator(t *testing.T) {
	items := ContentList{
		Plant{ID: "p1", HebrewName: "מנטה", Benefits: []string{}, Tabs: []Tab{}},
		Article{ID: "a1", Title: "בלי סוג", Tags: []string{}, Tabs: []Tab{}},
		Recipe{ID: "r1", Title: "תה", Tags: []string{}, Tabs: []Tab{}},
	}
	data, err := json.Marshal(items)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "plant", raw[0]["type"])
	assert.Equal(t, "article", raw[1]["type"], "an article without explicit type is written as article")
	assert.Equal(t, "recipe", raw[2]["type"])
	assert.Equal(t, "מנטה", raw[0]["hebrewName"])
}

func TestContentListRoundTrip(t *testing.T) {
	in := ContentList{
		Plant{ID: "p1", HebrewName: "לבנדר", LatinName: "Lavandula", Benefits: []string{"שינה"},
			Category: CategoryRelaxing, Tabs: []Tab{{ID: "t1", Title: "שימוש", Content: "חליטה"}}},
		Article{Type: TypeCaseStudy, ID: "c1", Title: "מקרה", Tags: []string{"חיסון"}, Tabs: []Tab{}},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out ContentList
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	p := Plant{ID: "p1", Benefits: []string{"a"}, Tabs: []Tab{{ID: "t"}}}
	c := p.Clone().(Plant)
	c.Benefits[0] = "b"
	c.Tabs[0].ID = "changed"
	assert.Equal(t, "a", p.Benefits[0])
	assert.Equal(t, "t", p.Tabs[0].ID)
}

func TestNewContentItem(t *testing.T) {
	item, err := NewContentItem(TypePlant, "id-1")
	require.NoError(t, err)
	plant, ok := item.(Plant)
	require.True(t, ok)
	assert.Equal(t, CategoryGeneral, plant.Category)
	assert.NotNil(t, plant.Benefits)

	item, err = NewContentItem(TypeCaseStudy, "id-2")
	require.NoError(t, err)
	assert.Equal(t, TypeCaseStudy, item.Kind())

	_, err = NewContentItem("video", "id-3")
	assert.Error(t, err)
}

func TestPublicSettingsHideSecrets(t *testing.T) {
	g := DefaultGeneralSettings()
	g.GeminiAPIKey = "secret"
	g.AdminPassword = "pw"

	data, err := json.Marshal(g.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "pw")
	assert.Contains(t, string(data), g.SiteName)
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   ContentItem
		want ContentItem
	}{
		{
			name: "plant without lists or category",
			in:   Plant{ID: "p1", HebrewName: "מנטה"},
			want: Plant{ID: "p1", HebrewName: "מנטה", Benefits: []string{}, Category: CategoryGeneral, Tabs: []Tab{}},
		},
		{
			name: "article without type",
			in:   Article{ID: "a1", Title: "שינה"},
			want: Article{Type: TypeArticle, ID: "a1", Title: "שינה", Tags: []string{}, Tabs: []Tab{}},
		},
		{
			name: "case study keeps type",
			in:   Article{Type: TypeCaseStudy, ID: "c1", Tags: []string{"חיסון"}},
			want: Article{Type: TypeCaseStudy, ID: "c1", Tags: []string{"חיסון"}, Tabs: []Tab{}},
		},
		{
			name: "recipe without tags",
			in:   Recipe{ID: "r1", Title: "תה", Tabs: []Tab{{ID: "t"}}},
			want: Recipe{ID: "r1", Title: "תה", Tags: []string{}, Tabs: []Tab{{ID: "t"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonical(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Canonical(got))
		})
	}
}

func TestDecodeContentItemFillsMissingKeys(t *testing.T) {
	item, err := DecodeContentItem([]byte(`{"type":"plant","id":"p1","hebrewName":"מנטה"}`))
	require.NoError(t, err)
	assert.Equal(t, Plant{ID: "p1", HebrewName: "מנטה", Benefits: []string{}, Category: CategoryGeneral, Tabs: []Tab{}}, item)

	item, err = DecodeContentItem([]byte(`{"type":"recipe","id":"r1","title":"תה"}`))
	require.NoError(t, err)
	assert.Equal(t, Recipe{ID: "r1", Title: "תה", Tags: []string{}, Tabs: []Tab{}}, item)
}
