package demo

import (
	"testing"

	"herbal-site/models"

	"github.com/stretchr/testify/assert"
)

func TestDatasetIDsAreUnique(t *testing.T) {
	data := Dataset()
	seen := map[string]bool{}
	for _, item := range data.Content {
		assert.False(t, seen[item.ItemID()], "duplicate id %s", item.ItemID())
		seen[item.ItemID()] = true
		assert.NotEmpty(t, item.DisplayName())
	}
	for _, s := range data.Slides {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestContentOrder(t *testing.T) {
	content := Content()
	assert.Len(t, content, len(Plants())+len(Articles())+len(Recipes()))
	assert.Equal(t, models.TypePlant, content[0].Kind())
	assert.Equal(t, models.TypeRecipe, content[len(content)-1].Kind())
}
