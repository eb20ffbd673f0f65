package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"herbal-site/config"
	"herbal-site/models"
	"herbal-site/providers"
	"herbal-site/services"
	"herbal-site/storage"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionKey = "admin_session"

// maxPageSize begrenzt page_size für öffentliche Listen.
const maxPageSize = 100

// uploader ist die Teilmenge von storage.Uploader, die die Routen brauchen.
type uploader interface {
	Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// deps bündelt alles, was die Routen brauchen.
type deps struct {
	Config   *config.Config
	Repo     *services.Repository
	Sessions *services.SessionStore
	Images   providers.ImageSearcher
	Text     providers.TextGenerator
	Uploader uploader
	Log      *zap.Logger
}

func newRouter(d deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "loading": d.Repo.Loading()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupPublicRoutes(router, d.Repo, d.Log)
	setupAdminRoutes(router, d)
	return router
}

// loadingGuard beantwortet Anfragen mit 503, solange das Repository lädt.
func loadingGuard(repo *services.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo.Loading() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "content is loading"})
			return
		}
		c.Next()
	}
}

func setupPublicRoutes(router *gin.Engine, repo *services.Repository, log *zap.Logger) {
	rg := router.Group("/")
	rg.Use(loadingGuard(repo))

	rg.GET("/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, repo.General().Public())
	})

	rg.GET("/slides", func(c *gin.Context) {
		c.JSON(http.StatusOK, repo.ActiveSlides())
	})

	rg.GET("/content", func(c *gin.Context) {
		q := parseQuery(c)
		size := services.ArticlesPageSize
		if q.Type == string(models.TypePlant) {
			size = services.PlantsPageSize
		}
		if raw := c.Query("page_size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > maxPageSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
				return
			}
			size = n
		}
		page := 0
		if raw := c.Query("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
				return
			}
			page = n
		}
		c.JSON(http.StatusOK, services.Paginate(services.Filter(repo.Content(), q), page, size))
	})

	rg.GET("/content/tags", func(c *gin.Context) {
		c.JSON(http.StatusOK, services.Tags(repo.Content()))
	})

	rg.GET("/content/:id", func(c *gin.Context) {
		id := c.Param("id")
		item, ok := repo.FindContent(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		tabs, err := services.RenderTabs(item.ItemTabs())
		if err != nil {
			log.Error("Tabs konnten nicht gerendert werden", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "render error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"item":    item,
			"tabs":    tabs,
			"related": services.Related(repo.Content(), item, services.RelatedLimit),
		})
	})
}

// parseQuery liest q, type und tags; tags darf wiederholt oder kommagetrennt sein.
func parseQuery(c *gin.Context) services.Query {
	q := services.Query{
		Text: c.Query("q"),
		Type: c.DefaultQuery("type", services.TypeAll),
	}
	for _, raw := range c.QueryArray("tags") {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Tags = append(q.Tags, tag)
			}
		}
	}
	return q
}

// sessionMiddleware hängt die Sitzung aus dem Cookie an den Kontext, falls vorhanden.
func sessionMiddleware(cfg *config.Config, store *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(cfg.SessionCookie); err == nil {
			if s, ok := store.Get(id); ok {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

// requireAdmin lässt nur angemeldete Sitzungen durch.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		if s == nil || !s.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: login required"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *services.AdminSession {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*services.AdminSession)
	return s
}

func setupAdminRoutes(router *gin.Engine, d deps) {
	rg := router.Group("/admin")
	rg.Use(loadingGuard(d.Repo), sessionMiddleware(d.Config, d.Sessions))

	rg.POST("/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		s := currentSession(c)
		opened := s == nil
		if opened {
			s = d.Sessions.Open()
		}
		if err := s.Authenticate(req.Username, req.Password); err != nil {
			if opened {
				d.Sessions.Close(s.ID)
			}
			writeError(c, d.Log, err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(d.Config.SessionCookie, s.ID, 0, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"authenticated": true})
	})

	rg.GET("/session", func(c *gin.Context) {
		s := currentSession(c)
		if s == nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		contentState, contentDraft := s.ContentState()
		slideState, slideDraft := s.SlideState()
		resp := gin.H{
			"authenticated": s.Authenticated(),
			"content_state": contentState,
			"content_draft": contentDraft,
			"slide_state":   slideState,
		}
		if slideState != services.EditIdle {
			resp["slide_draft"] = slideDraft
		}
		c.JSON(http.StatusOK, resp)
	})

	admin := rg.Group("/")
	admin.Use(requireAdmin())

	admin.POST("/logout", func(c *gin.Context) {
		d.Sessions.Close(currentSession(c).ID)
		c.SetCookie(d.Config.SessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
	})

	setupContentAdminRoutes(admin, d)
	setupSlideAdminRoutes(admin, d)
	setupBackupRoutes(admin, d)
	setupAssistantRoutes(admin, d)

	admin.PUT("/settings", func(c *gin.Context) {
		var g models.GeneralSettings
		if err := c.ShouldBindJSON(&g); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := currentSession(c).UpdateGeneral(c.Request.Context(), g); err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, g)
	})
}

func setupContentAdminRoutes(rg *gin.RouterGroup, d deps) {
	rg.GET("/content", func(c *gin.Context) {
		move := services.PageMove(c.Query("move"))
		if move != services.PageStay && move != services.PageNext && move != services.PagePrev {
			c.JSON(http.StatusBadRequest, gin.H{"error": "move must be next or prev"})
			return
		}
		page, err := currentSession(c).BrowseContent(parseQuery(c), move)
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, page)
	})

	rg.POST("/content", func(c *gin.Context) {
		var req struct {
			Type models.ContentType `json:"type" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || !req.Type.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content type"})
			return
		}
		draft, err := currentSession(c).BeginNewContent(req.Type)
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusCreated, draft)
	})

	rg.POST("/content/:id/edit", func(c *gin.Context) {
		draft, err := currentSession(c).BeginEditContent(c.Param("id"))
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	})

	rg.DELETE("/content/:id", func(c *gin.Context) {
		if err := currentSession(c).DeleteContent(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	rg.PUT("/draft/content", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		item, err := models.DecodeContentItem(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := currentSession(c).UpdateContentDraft(item); err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	rg.POST("/draft/content/save", func(c *gin.Context) {
		item, err := currentSession(c).SaveContent(c.Request.Context())
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	rg.POST("/draft/content/cancel", func(c *gin.Context) {
		currentSession(c).CancelContent()
		c.Status(http.StatusNoContent)
	})
}

func setupSlideAdminRoutes(rg *gin.RouterGroup, d deps) {
	rg.GET("/slides", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Repo.Slides())
	})

	rg.POST("/slides", func(c *gin.Context) {
		draft, err := currentSession(c).BeginNewSlide()
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusCreated, draft)
	})

	rg.POST("/slides/:id/edit", func(c *gin.Context) {
		draft, err := currentSession(c).BeginEditSlide(c.Param("id"))
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	})

	rg.DELETE("/slides/:id", func(c *gin.Context) {
		if err := currentSession(c).DeleteSlide(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	rg.PUT("/draft/slide", func(c *gin.Context) {
		var slide models.Slide
		if err := c.ShouldBindJSON(&slide); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := currentSession(c).UpdateSlideDraft(slide); err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, slide)
	})

	rg.POST("/draft/slide/save", func(c *gin.Context) {
		slide, err := currentSession(c).SaveSlide(c.Request.Context())
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, slide)
	})

	rg.POST("/draft/slide/cancel", func(c *gin.Context) {
		currentSession(c).CancelSlide()
		c.Status(http.StatusNoContent)
	})
}

func setupBackupRoutes(rg *gin.RouterGroup, d deps) {
	rg.GET("/backup", func(c *gin.Context) {
		now := time.Now()
		backup, err := currentSession(c).ExportBackup(now)
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.BackupFilename(now)))
		c.JSON(http.StatusOK, backup)
	})

	rg.POST("/backup/restore", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		confirmed := c.Query("confirm") == "true"
		if err := currentSession(c).ImportBackup(c.Request.Context(), body, confirmed); err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"restored": true})
	})

	rg.POST("/seed-demo", func(c *gin.Context) {
		inserted, err := currentSession(c).SeedDemo(c.Request.Context())
		if err != nil {
			d.Log.Warn("Demo-Seeding teilweise fehlgeschlagen", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"inserted": inserted,
				"error":    services.DescribePersistError(err),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"inserted": inserted})
	})
}

func setupAssistantRoutes(rg *gin.RouterGroup, d deps) {
	rg.POST("/ai/generate", func(c *gin.Context) {
		var req struct {
			Prompt string         `json:"prompt" binding:"required"`
			Mode   providers.Mode `json:"mode"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.Mode != providers.ModeJSON {
			req.Mode = providers.ModeText
		}
		key := d.Repo.General().GeminiAPIKey
		text := d.Text.Generate(c.Request.Context(), key, req.Prompt, req.Mode)
		c.JSON(http.StatusOK, gin.H{"text": text})
	})

	rg.POST("/ai/generate-json", func(c *gin.Context) {
		gen, ok := d.Text.(providers.StructuredGenerator)
		if !ok {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "structured generation is not supported"})
			return
		}
		var req struct {
			Prompt string `json:"prompt" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		var out map[string]any
		if err := gen.GenerateJSON(c.Request.Context(), d.Repo.General().GeminiAPIKey, req.Prompt, &out); err != nil {
			d.Log.Warn("Strukturierte Textgenerierung fehlgeschlagen", zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "התשובה של המודל לא הייתה בפורמט תקין. נסו שוב."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": out})
	})

	rg.GET("/images/search", func(c *gin.Context) {
		key := d.Repo.General().UnsplashAPIKey
		if key == "" {
			key = d.Config.UnsplashAPIKey
		}
		c.JSON(http.StatusOK, d.Images.Search(c.Request.Context(), key, c.Query("q")))
	})

	rg.POST("/upload", func(c *gin.Context) {
		if d.Uploader == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage is not configured"})
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file could not be read"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file could not be read"})
			return
		}
		url, err := d.Uploader.Upload(c.Request.Context(), fh.Filename, data, fh.Header.Get("Content-Type"))
		if err != nil {
			writeError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"url": url})
	})
}

// writeError bildet Dienstfehler auf HTTP-Status und {"error": ...} ab.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, services.ErrNotAuthenticated), errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateID),
		errors.Is(err, services.ErrNoDraft),
		errors.Is(err, services.ErrDraftIDChanged):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidBackupFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": err.Error()})
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verrs.Error(), "fields": verrs})
	case errors.Is(err, storage.ErrUploadFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Error("Anfrage fehlgeschlagen", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.DescribePersistError(err)})
	}
}
