package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"herbal-site/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testFallback() models.Dataset {
	return models.Dataset{
		General: models.DefaultGeneralSettings(),
		Content: models.ContentList{
			models.Plant{ID: "demo-p", HebrewName: "קמומיל", Benefits: []string{"הרגעה"}, Tabs: []models.Tab{}},
		},
		Slides: []models.Slide{{ID: "demo-s", Title: "שלום", Active: true}},
	}
}

func loadedRepo(t *testing.T, backend *fakeBackend) *Repository {
	t.Helper()
	repo := NewRepository(backend, testFallback(), zap.NewNop())
	repo.Load(context.Background())
	return repo
}

func TestLoadUsesBackendData(t *testing.T) {
	g := models.DefaultGeneralSettings()
	g.SiteName = "מהמסד"
	backend := &fakeBackend{
		general: &g,
		content: []models.ContentItem{models.Recipe{ID: "r1", Title: "תה"}},
		slides:  []models.Slide{{ID: "s1", Title: "א"}},
	}
	repo := NewRepository(backend, testFallback(), zap.NewNop())
	assert.True(t, repo.Loading())

	repo.Load(context.Background())
	assert.False(t, repo.Loading())
	assert.Equal(t, "מהמסד", repo.General().SiteName)
	require.Len(t, repo.Content(), 1)
	assert.Equal(t, "r1", repo.Content()[0].ItemID())
	assert.Equal(t, "s1", repo.Slides()[0].ID)
}

func TestLoadFallsBackPerGroup(t *testing.T) {
	t.Run("errors", func(t *testing.T) {
		repo := loadedRepo(t, &fakeBackend{fetchErr: errors.New("connection refused")})
		assert.False(t, repo.Loading())
		assert.Equal(t, models.DefaultGeneralSettings(), repo.General())
		assert.True(t, repo.HasContent("demo-p"))
		assert.True(t, repo.HasSlide("demo-s"))
	})

	t.Run("empty groups", func(t *testing.T) {
		g := models.DefaultGeneralSettings()
		g.Phone = "03-1234567"
		repo := loadedRepo(t, &fakeBackend{general: &g})
		assert.Equal(t, "03-1234567", repo.General().Phone)
		assert.True(t, repo.HasContent("demo-p"))
		assert.True(t, repo.HasSlide("demo-s"))
	})
}

func TestAddContentPrepends(t *testing.T) {
	backend := &fakeBackend{}
	repo := loadedRepo(t, backend)

	require.NoError(t, repo.AddContent(context.Background(), models.Recipe{ID: "r1", Title: "תה"}))
	content := repo.Content()
	require.Len(t, content, 2)
	assert.Equal(t, "r1", content[0].ItemID())
	assert.Equal(t, []string{"insert_content:r1"}, backend.Calls())
}

func TestAddContentDuplicate(t *testing.T) {
	backend := &fakeBackend{}
	repo := loadedRepo(t, backend)

	err := repo.AddContent(context.Background(), models.Recipe{ID: "demo-p", Title: "x"})
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Len(t, repo.Content(), 1)
	assert.Empty(t, backend.Calls())
}

func TestMutationKeepsLocalChangeWhenPersistFails(t *testing.T) {
	backend := &fakeBackend{writeErr: errors.New("network down")}
	repo := loadedRepo(t, backend)
	ctx := context.Background()

	err := repo.AddContent(ctx, models.Recipe{ID: "r1", Title: "תה"})
	require.Error(t, err)
	assert.EqualError(t, err, "network down")
	assert.True(t, repo.HasContent("r1"), "local change is not rolled back")

	err = repo.DeleteContent(ctx, "demo-p")
	require.Error(t, err)
	assert.False(t, repo.HasContent("demo-p"))

	g := repo.General()
	g.SiteName = "חדש"
	require.Error(t, repo.UpdateGeneral(ctx, g))
	assert.Equal(t, "חדש", repo.General().SiteName)
}

func TestUpdateContentReplacesInPlace(t *testing.T) {
	backend := &fakeBackend{content: []models.ContentItem{
		models.Recipe{ID: "a", Title: "1"},
		models.Recipe{ID: "b", Title: "2"},
		models.Recipe{ID: "c", Title: "3"},
	}}
	repo := loadedRepo(t, backend)

	require.NoError(t, repo.UpdateContent(context.Background(), models.Recipe{ID: "b", Title: "שונה"}))
	content := repo.Content()
	require.Len(t, content, 3)
	assert.Equal(t, "b", content[1].ItemID())
	assert.Equal(t, "שונה", content[1].DisplayName())
	assert.Equal(t, []string{"update_content:b"}, backend.Calls())
}

func TestUnknownIDs(t *testing.T) {
	backend := &fakeBackend{}
	repo := loadedRepo(t, backend)
	ctx := context.Background()

	assert.True(t, errors.Is(repo.UpdateContent(ctx, models.Recipe{ID: "nope"}), ErrNotFound))
	assert.True(t, errors.Is(repo.DeleteContent(ctx, "nope"), ErrNotFound))
	assert.True(t, errors.Is(repo.UpdateSlide(ctx, models.Slide{ID: "nope"}), ErrNotFound))
	assert.True(t, errors.Is(repo.DeleteSlide(ctx, "nope"), ErrNotFound))
	assert.Empty(t, backend.Calls())
}

func TestReadersReturnCopies(t *testing.T) {
	repo := loadedRepo(t, &fakeBackend{})
	content := repo.Content()
	p := content[0].(models.Plant)
	p.Benefits[0] = "changed"

	again, _ := repo.FindContent("demo-p")
	assert.Equal(t, "הרגעה", again.TagList()[0])
}

func TestSlidesSortedByOrder(t *testing.T) {
	backend := &fakeBackend{slides: []models.Slide{
		{ID: "c", Order: 2, Active: true},
		{ID: "a", Order: 0, Active: false},
		{ID: "b1", Order: 1, Active: true},
		{ID: "b2", Order: 1, Active: true},
	}}
	repo := loadedRepo(t, backend)

	var ids []string
	for _, s := range repo.Slides() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids)

	ids = nil
	for _, s := range repo.ActiveSlides() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "c"}, ids)
}

func TestSlideMutations(t *testing.T) {
	backend := &fakeBackend{}
	repo := loadedRepo(t, backend)
	ctx := context.Background()

	require.NoError(t, repo.AddSlide(ctx, models.Slide{ID: "s2", Title: "ב", Order: 5}))
	require.NoError(t, repo.UpdateSlide(ctx, models.Slide{ID: "s2", Title: "ב2", Order: 5}))
	s, ok := repo.FindSlide("s2")
	require.True(t, ok)
	assert.Equal(t, "ב2", s.Title)
	require.NoError(t, repo.DeleteSlide(ctx, "s2"))
	assert.False(t, repo.HasSlide("s2"))
	assert.True(t, errors.Is(repo.AddSlide(ctx, models.Slide{ID: "demo-s"}), ErrDuplicateID))

	assert.Equal(t, []string{"insert_slide:s2", "update_slide:s2", "delete_slide:s2"}, backend.Calls())
}

func TestRestoreFromBackupReplacesEverything(t *testing.T) {
	backend := &fakeBackend{}
	repo := loadedRepo(t, backend)

	data := models.Dataset{
		General: models.GeneralSettings{SiteName: "משוחזר"},
		Content: models.ContentList{models.Recipe{ID: "r9", Title: "חדש"}},
		Slides:  []models.Slide{},
	}
	require.NoError(t, repo.RestoreFromBackup(context.Background(), data))

	assert.Equal(t, "משוחזר", repo.General().SiteName)
	assert.False(t, repo.HasContent("demo-p"))
	assert.True(t, repo.HasContent("r9"))
	assert.Empty(t, repo.Slides())
	assert.Equal(t, []string{"replace_all"}, backend.Calls())
}

// slowBackend hält FetchSlides an, bis gate geschlossen wird.
type slowBackend struct {
	*fakeBackend
	gate chan struct{}
}

func (b *slowBackend) FetchSlides(ctx context.Context) ([]models.Slide, error) {
	<-b.gate
	return b.fakeBackend.FetchSlides(ctx)
}

func TestMutationsWaitForLoad(t *testing.T) {
	backend := &slowBackend{
		fakeBackend: &fakeBackend{content: []models.ContentItem{models.Recipe{ID: "old", Title: "ישן"}}},
		gate:        make(chan struct{}),
	}
	repo := NewRepository(backend, testFallback(), zap.NewNop())
	ctx := context.Background()

	loadDone := make(chan struct{})
	go func() {
		repo.Load(ctx)
		close(loadDone)
	}()

	restoreDone := make(chan error, 1)
	go func() {
		restoreDone <- repo.RestoreFromBackup(ctx, models.Dataset{
			General: models.DefaultGeneralSettings(),
			Content: models.ContentList{models.Recipe{ID: "restored", Title: "חדש"}},
			Slides:  []models.Slide{},
		})
	}()

	select {
	case <-restoreDone:
		t.Fatal("restore finished while the repository was still loading")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Empty(t, backend.Calls())

	close(backend.gate)
	<-loadDone
	require.NoError(t, <-restoreDone)

	assert.True(t, repo.HasContent("restored"))
	assert.False(t, repo.HasContent("old"))
	assert.Equal(t, []string{"replace_all"}, backend.Calls())
}

func TestMutationBeforeLoadHonoursContext(t *testing.T) {
	backend := &fakeBackend{}
	repo := NewRepository(backend, testFallback(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := repo.AddContent(ctx, models.Recipe{ID: "r1", Title: "תה"})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, backend.Calls())

	repo.Load(context.Background())
	assert.False(t, repo.HasContent("r1"))
}

func TestFallbackRowsArePersistedOnWrite(t *testing.T) {
	backend := &fakeBackend{}
	repo := loadedRepo(t, backend)
	ctx := context.Background()

	assert.True(t, repo.IsPending("demo-p"))
	assert.True(t, repo.IsPending("demo-s"))

	item, ok := repo.FindContent("demo-p")
	require.True(t, ok)
	require.NoError(t, repo.UpdateContent(ctx, item))
	assert.False(t, repo.IsPending("demo-p"))

	n, err := repo.PersistPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, repo.IsPending("demo-s"))

	n, err = repo.PersistPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"update_content:demo-p", "update_slide:demo-s"}, backend.Calls())
}

func TestPersistPendingKeepsFailedRowsPending(t *testing.T) {
	backend := &fakeBackend{}
	repo := loadedRepo(t, backend)
	backend.writeErr = errors.New("permission denied")

	n, err := repo.PersistPending(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.True(t, repo.IsPending("demo-p"))
}

func TestRepositoryStoresCanonicalItems(t *testing.T) {
	repo := loadedRepo(t, &fakeBackend{})
	ctx := context.Background()

	require.NoError(t, repo.AddContent(ctx, models.Article{ID: "a1", Title: "שינה"}))
	item, ok := repo.FindContent("a1")
	require.True(t, ok)
	assert.Equal(t, models.Article{Type: models.TypeArticle, ID: "a1", Title: "שינה", Tags: []string{}, Tabs: []models.Tab{}}, item)

	require.NoError(t, repo.UpdateContent(ctx, models.Plant{ID: "demo-p", HebrewName: "קמומיל"}))
	item, _ = repo.FindContent("demo-p")
	assert.Equal(t, models.CategoryGeneral, item.(models.Plant).Category)
	assert.NotNil(t, item.(models.Plant).Benefits)
}
