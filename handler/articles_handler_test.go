package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"headlines/handler"
	"headlines/middleware"
	"headlines/mock"
	"headlines/model"
	"headlines/scraper"
	"headlines/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frontPage = `<html><body>
<article><h2>Ignored heading</h2><a href="/2024/one">First story</a><p class="summary">One summary</p></article>
<article><h3>Second story</h3></article>
</body></html>`

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	store  *mock.MemoryStore
}

func newTestEnv(t *testing.T, fetch func(ctx context.Context, url string) (string, error)) *testEnv {
	t.Helper()

	if fetch == nil {
		fetch = func(context.Context, string) (string, error) { return frontPage, nil }
	}

	store := mock.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := handler.SetupRouter(handler.RouterConfig{
		Articles: &usecase.ArticlesService{
			Articles:  store,
			Notes:     store,
			Fetcher:   &mock.Fetcher{FetchFn: fetch},
			Extractor: scraper.NewDOMExtractor(),
			SourceURL: scraper.SourceURL,
			Logger:    logger,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	return &testEnv{router: router, store: store}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seed(t *testing.T, titles ...string) []*model.Article {
	t.Helper()

	var articles []*model.Article
	for _, title := range titles {
		a := model.NewArticle(model.Candidate{Title: title})
		require.NoError(t, e.store.CreateArticle(context.Background(), a))
		articles = append(articles, a)
	}
	return articles
}

func TestListingPages(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		seed          []string
		saveFirst     bool
		checkResponse func(t *testing.T, body string)
	}{
		{
			name: "empty index shows placeholder",
			path: "/",
			checkResponse: func(t *testing.T, body string) {
				assert.Contains(t, body, html.EscapeString(handler.EmptyListingMessage))
			},
		},
		{
			name: "empty saved view shows placeholder",
			path: "/saved",
			seed: []string{"Not saved"},
			checkResponse: func(t *testing.T, body string) {
				assert.Contains(t, body, html.EscapeString(handler.EmptySavedMessage))
				assert.NotContains(t, body, "Not saved")
			},
		},
		{
			name: "index lists newest first",
			path: "/",
			seed: []string{"Older story", "Newer story"},
			checkResponse: func(t *testing.T, body string) {
				older := strings.Index(body, "Older story")
				newer := strings.Index(body, "Newer story")
				require.NotEqual(t, -1, older)
				require.NotEqual(t, -1, newer)
				assert.Less(t, newer, older)
				assert.NotContains(t, body, html.EscapeString(handler.EmptyListingMessage))
			},
		},
		{
			name:      "saved view lists saved articles only",
			path:      "/saved",
			seed:      []string{"Kept story", "Skipped story"},
			saveFirst: true,
			checkResponse: func(t *testing.T, body string) {
				assert.Contains(t, body, "Kept story")
				assert.NotContains(t, body, "Skipped story")
				assert.Contains(t, body, `action="/note/`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			articles := env.seed(t, tt.seed...)
			if tt.saveFirst {
				_, err := env.store.UpdateArticleSaveState(context.Background(), articles[0].ID.Hex(), true)
				require.NoError(t, err)
			}

			w := env.do(httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			tt.checkResponse(t, w.Body.String())
		})
	}
}

func TestScrape(t *testing.T) {
	t.Run("stores every block and redirects to referer", func(t *testing.T) {
		env := newTestEnv(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/scrape", nil)
		req.Header.Set("Referer", "http://example.com/saved")
		w := env.do(req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/saved", w.Header().Get("Location"))

		articles, err := env.store.ListArticles(context.Background(), model.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, articles, 2)

		titles := []string{articles[0].Title, articles[1].Title}
		assert.ElementsMatch(t, []string{"First story", "Second story"}, titles)
		for _, a := range articles {
			assert.False(t, a.IsSaved)
			assert.Equal(t, model.StatusUnsaved, a.Status)
		}
	})

	t.Run("redirects home without a usable referer", func(t *testing.T) {
		env := newTestEnv(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/scrape", nil)
		req.Header.Set("Referer", "http://elsewhere.test/saved")
		w := env.do(req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("page without articles stores nothing", func(t *testing.T) {
		env := newTestEnv(t, func(context.Context, string) (string, error) {
			return "<html><body><p>maintenance</p></body></html>", nil
		})

		w := env.do(httptest.NewRequest(http.MethodGet, "/scrape", nil))
		assert.Equal(t, http.StatusFound, w.Code)

		n, err := env.store.CountArticles(context.Background(), model.ArticleFilter{})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("untitled block is stored", func(t *testing.T) {
		env := newTestEnv(t, func(context.Context, string) (string, error) {
			return `<article><a href="/a">Real story</a></article><article><img src="ad.png"></article>`, nil
		})

		w := env.do(httptest.NewRequest(http.MethodGet, "/scrape", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		articles, err := env.store.ListArticles(context.Background(), model.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, articles, 2)
		assert.ElementsMatch(t, []string{"Real story", ""}, []string{articles[0].Title, articles[1].Title})
	})

	t.Run("store error is passed through without redirect", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		router, err := handler.SetupRouter(handler.RouterConfig{
			Articles: &usecase.ArticlesService{
				Articles: &mock.ArticleStore{CreateArticleFn: func(_ context.Context, a *model.Article) error {
					return fmt.Errorf("create article: %w", &model.ValidationError{
						Record: "Article",
						Fields: map[string]string{"status": "savestatus"},
					})
				}},
				Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
					return frontPage, nil
				}},
				Extractor: scraper.NewDOMExtractor(),
				SourceURL: scraper.SourceURL,
				Logger:    logger,
			},
			Logger: logger,
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scrape", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Location"))

		var body struct {
			Name    string            `json:"name"`
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ValidationError", body.Name)
		assert.Equal(t, map[string]string{"status": "savestatus"}, body.Errors)
		assert.Contains(t, body.Message, "create article")
	})

	t.Run("fetch failure is a bad gateway", func(t *testing.T) {
		env := newTestEnv(t, func(_ context.Context, u string) (string, error) {
			return "", &scraper.NetworkError{URL: u, StatusCode: http.StatusServiceUnavailable}
		})

		w := env.do(httptest.NewRequest(http.MethodGet, "/scrape", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "NetworkError", body["name"])
	})
}

func TestGetArticle(t *testing.T) {
	env := newTestEnv(t, nil)
	articles := env.seed(t, "Round trip")

	t.Run("returns stored article", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/"+articles[0].ID.Hex(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.Article
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, articles[0].ID, got.ID)
		assert.Equal(t, "Round trip", got.Title)
		assert.Equal(t, model.StatusUnsaved, got.Status)
		assert.False(t, got.IsSaved)
	})

	for _, id := range []string{"507f1f77bcf86cd799439011", "not-an-id"} {
		t.Run("unknown id "+id+" is null", func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodGet, "/"+id, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "null", w.Body.String())
		})
	}
}

func TestToggleSave(t *testing.T) {
	env := newTestEnv(t, nil)
	articles := env.seed(t, "Toggle me")
	id := articles[0].ID.Hex()

	w := env.do(httptest.NewRequest(http.MethodPost, "/save/"+id, nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/saved", w.Header().Get("Location"))

	got, err := env.store.GetArticle(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.IsSaved)
	assert.Equal(t, model.StatusSaved, got.Status)

	w = env.do(httptest.NewRequest(http.MethodGet, "/saved", nil))
	assert.Contains(t, w.Body.String(), "Toggle me")

	w = env.do(httptest.NewRequest(http.MethodPost, "/save/"+id, nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	got, err = env.store.GetArticle(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, got.IsSaved)
	assert.Equal(t, model.StatusUnsaved, got.Status)

	t.Run("unknown article is not found", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodPost, "/save/507f1f77bcf86cd799439011", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNotes(t *testing.T) {
	env := newTestEnv(t, nil)
	articles := env.seed(t, "Annotated")
	id := articles[0].ID.Hex()

	t.Run("article without note returns null", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/note/"+id, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})

	t.Run("form note is attached and populated", func(t *testing.T) {
		w := env.do(postForm("/note/"+id, url.Values{"title": {"T"}, "body": {"B"}, "_id": {"spoofed"}}))
		require.Equal(t, http.StatusOK, w.Code)

		var updated model.Article
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		require.NotNil(t, updated.Note)

		w = env.do(httptest.NewRequest(http.MethodGet, "/note/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var note map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
		assert.Equal(t, map[string]string{"_id": updated.Note.Hex(), "title": "T", "body": "B"}, note)
	})

	t.Run("json note replaces previous one", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/note/"+id, strings.NewReader(`{"body":"second"}`))
		req.Header.Set("Content-Type", "application/json")
		w := env.do(req)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(httptest.NewRequest(http.MethodGet, "/note/"+id, nil))
		var note map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
		assert.Equal(t, "second", note["body"])
		assert.NotContains(t, note, "title")
		assert.Equal(t, 2, env.store.NoteCount())
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/note/"+id, strings.NewReader(`{"body":`))
		req.Header.Set("Content-Type", "application/json")
		w := env.do(req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		big := strings.Repeat("x", 2<<20)
		w := env.do(postForm("/note/"+id, url.Values{"body": {big}}))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("oversized chunked body is rejected", func(t *testing.T) {
		big := strings.Repeat("x", 2<<20)
		for _, contentType := range []string{"application/x-www-form-urlencoded", "application/json"} {
			body := url.Values{"body": {big}}.Encode()
			if contentType == "application/json" {
				body = `{"body":"` + big + `"}`
			}
			req := httptest.NewRequest(http.MethodPost, "/note/"+id, strings.NewReader(body))
			req.Header.Set("Content-Type", contentType)
			req.ContentLength = -1

			w := env.do(req)
			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, contentType)
			assert.JSONEq(t, `{"error":"Request body too large"}`, w.Body.String())
		}
		assert.Equal(t, 2, env.store.NoteCount())
	})

	t.Run("unknown article gives null on post and 404 on get", func(t *testing.T) {
		w := env.do(postForm("/note/507f1f77bcf86cd799439011", url.Values{"body": {"lost"}}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())

		w = env.do(httptest.NewRequest(http.MethodGet, "/note/507f1f77bcf86cd799439011", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAddNote_StoreFailureRecovers(t *testing.T) {
	store := mock.NewMemoryStore()
	a := model.NewArticle(model.Candidate{Title: "Doomed"})
	require.NoError(t, store.CreateArticle(context.Background(), a))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := handler.SetupRouter(handler.RouterConfig{
		Articles: &usecase.ArticlesService{
			Articles: store,
			Notes: &mock.NoteStore{CreateNoteFn: func(context.Context, *model.Note) error {
				return errors.New("connection reset")
			}},
			Logger: logger,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/note/"+a.ID.Hex(), url.Values{"body": {"x"}}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+a.ID.Hex(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAmbientRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seed(t, "Counted")

	t.Run("static assets are cacheable", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	})

	t.Run("every response carries a request id", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("stats reports article counts", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data struct {
				Stats model.Stats `json:"stats"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(1), body.Data.Stats.Articles.Total)
		assert.Zero(t, body.Data.Stats.Articles.Saved)
		assert.NotEmpty(t, body.Data.Stats.System.Uptime)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http_requests_total")
	})
}
