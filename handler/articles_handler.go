package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"headlines/model"
	"headlines/scraper"
	"headlines/usecase"
	"headlines/utils"
	"headlines/views"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	EmptyListingMessage = "There's nothing scraped yet. Please click \"Scrape For Newest Articles\"."
	EmptySavedMessage   = "You have not saved any articles yet. Try to save some delicious news by simply clicking \"Save Article\"!"
)

type ArticlesHandler struct {
	svc    *usecase.ArticlesService
	logger *slog.Logger
}

func NewArticlesHandler(svc *usecase.ArticlesService, logger *slog.Logger) *ArticlesHandler {
	return &ArticlesHandler{svc: svc, logger: logger}
}

// Scrape stores the current front page and sends the client back where it
// came from. A failed create is reported as the raw error payload instead.
func (h *ArticlesHandler) Scrape(c *gin.Context) {
	result, err := h.svc.Scrape(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		var nerr *scraper.NetworkError
		if errors.As(err, &nerr) {
			utils.UpstreamError(c, err)
			return
		}
		h.logger.Warn("scrape stopped", "found", result.Found, "stored", result.Stored, "err", err)
		utils.StoreError(c, err)
		return
	}

	c.Redirect(http.StatusFound, redirectBack(c))
}

func (h *ArticlesHandler) Index(c *gin.Context) {
	h.renderListing(c, false, views.Index, "articles", EmptyListingMessage)
}

func (h *ArticlesHandler) Saved(c *gin.Context) {
	h.renderListing(c, true, views.Saved, "saved", EmptySavedMessage)
}

func (h *ArticlesHandler) renderListing(c *gin.Context, savedOnly bool, page, key, emptyMessage string) {
	articles, err := h.svc.ListArticles(c.Request.Context(), savedOnly)
	if err != nil {
		_ = c.Error(err)
		utils.InternalError(c, "Failed to list articles")
		return
	}

	if len(articles) == 0 {
		c.HTML(http.StatusOK, views.Placeholder, gin.H{"message": emptyMessage})
		return
	}
	c.HTML(http.StatusOK, page, gin.H{key: articles})
}

// GetArticle responds with the article, or null when the id matches none
func (h *ArticlesHandler) GetArticle(c *gin.Context) {
	article, err := h.svc.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		_ = c.Error(err)
		utils.StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ToggleSave unsaves a saved article (back to the listing) or saves an
// unsaved one (on to the saved view).
func (h *ArticlesHandler) ToggleSave(c *gin.Context) {
	article, err := h.svc.ToggleSaved(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			utils.NotFound(c, "Article not found")
			return
		}
		_ = c.Error(err)
		utils.StoreError(c, err)
		return
	}

	if article.IsSaved {
		c.Redirect(http.StatusSeeOther, "/saved")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// AddNote creates a note from the submitted fields and attaches it. Store
// failures panic and are turned into a 500 by the recovery middleware.
func (h *ArticlesHandler) AddNote(c *gin.Context) {
	id := c.Param("id")

	fields, err := noteFields(c)
	if err != nil {
		// Chunked bodies only hit the size limit while being read
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.PayloadTooLarge(c, "Request body too large")
			return
		}
		utils.BadRequest(c, "Invalid request body")
		return
	}

	article, err := h.svc.AddNote(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		panic(fmt.Errorf("save note for article %s: %w", id, err))
	}
	c.JSON(http.StatusOK, article)
}

// GetNote responds with the article's note, or null if it has none
func (h *ArticlesHandler) GetNote(c *gin.Context) {
	note, err := h.svc.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			utils.NotFound(c, "Article not found")
			return
		}
		_ = c.Error(err)
		utils.StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// noteFields reads a flat string map from a JSON or form body
func noteFields(c *gin.Context) (map[string]string, error) {
	if c.ContentType() == binding.MIMEJSON {
		var fields map[string]string
		if err := c.ShouldBindJSON(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, nil
}

// redirectBack returns the path of a same-host Referer, or "/"
func redirectBack(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
