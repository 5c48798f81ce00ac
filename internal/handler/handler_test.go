package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newsdesk/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

const testToken = "secret-token"

type fakeArticleStore struct {
	page    *model.ArticlePage
	options *model.PreferenceOptions
	authors []string
	total   int
	err     error

	lastQuery  model.ArticleQuery
	lastAuthor string
}

func (f *fakeArticleStore) ListArticles(_ context.Context, query model.ArticleQuery) (*model.ArticlePage, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	if f.page == nil {
		return &model.ArticlePage{CurrentPage: query.Page, PerPage: model.ArticlesPerPage}, nil
	}
	return f.page, nil
}

func (f *fakeArticleStore) CountArticles(context.Context) (int, error) {
	return f.total, f.err
}

func (f *fakeArticleStore) GetPreferenceOptions(context.Context) (*model.PreferenceOptions, error) {
	return f.options, f.err
}

func (f *fakeArticleStore) SearchAuthors(_ context.Context, q string) ([]string, error) {
	f.lastAuthor = q
	return f.authors, f.err
}

type fakePreferenceStore struct {
	pref  *model.UserPreference
	saved *model.UserPreference
	err   error
}

func (f *fakePreferenceStore) GetPreference(context.Context, int64) (*model.UserPreference, error) {
	return f.pref, f.err
}

func (f *fakePreferenceStore) SavePreference(_ context.Context, pref *model.UserPreference) error {
	if f.err != nil {
		return f.err
	}
	pref.ID = 7
	f.saved = pref
	return nil
}

type fakeTokenStore struct {
	err error
}

func (f *fakeTokenStore) GetUserByToken(_ context.Context, token string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if token != testToken {
		return nil, nil
	}
	return &model.User{ID: 42, Name: "Jane", Email: "jane@example.com"}, nil
}

func newTestRouter(articles ArticleStore, prefs PreferenceStore, tokens TokenStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	articleHandler := NewArticleHandler(articles, prefs)
	preferenceHandler := NewPreferenceHandler(prefs)

	api := r.Group("/api")
	api.GET("/health", articleHandler.GetHealth)

	auth := api.Group("", RequireUser(tokens))
	auth.GET("/user", GetUser)
	auth.GET("/articles", articleHandler.GetArticles)
	auth.GET("/preferences", preferenceHandler.GetPreferences)
	auth.POST("/preferences", preferenceHandler.SavePreferences)
	auth.GET("/preference-options", articleHandler.GetPreferenceOptions)
	auth.GET("/authors/search", articleHandler.SearchAuthors)
	return r
}

func authRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func TestRequireUser_MissingToken(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/user", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_UnknownToken(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/user", nil)
	req.Header.Set("Authorization", "Bearer nope")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_StoreError(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{err: errors.New("DB down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/user", ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
	assert.NotEqual(t, "", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestGetUser(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/user", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var res UserResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(42), res.ID)
	assert.Equal(t, "jane@example.com", res.Email)
}

func TestGetArticles_ReturnsPage(t *testing.T) {
	published := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	articles := &fakeArticleStore{
		page: &model.ArticlePage{
			Articles: []model.Article{
				{ID: 1, Title: "With author", Author: "John Doe", Source: "CNN", Category: "World", PublishedAt: published},
				{ID: 2, Title: "No author", Source: "BBC", Category: "General"},
			},
			Total:       11,
			CurrentPage: 2,
			PerPage:     model.ArticlesPerPage,
		},
	}
	r := newTestRouter(articles, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/articles?page=2", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var res ArticlePageResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 11, res.Total)
	assert.Equal(t, 2, res.CurrentPage)
	assert.Equal(t, 9, res.PerPage)
	assert.Equal(t, 2, res.LastPage)
	assert.Equal(t, 2, len(res.Data))
	assert.Equal(t, "John Doe", *res.Data[0].Author)
	assert.Equal(t, "2024-12-01T10:00:00Z", *res.Data[0].PublishedAt)
	assert.Equal(t, true, res.Data[1].Author == nil)
	assert.Equal(t, true, res.Data[1].PublishedAt == nil)
	assert.Equal(t, 2, articles.lastQuery.Page)
}

func TestGetArticles_EmptyPage(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/articles", ""))

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, []any{}, res["data"])
	assert.Equal(t, float64(1), res["current_page"])
	assert.Equal(t, float64(1), res["last_page"])
}

func TestGetArticles_PassesFiltersAndPreferences(t *testing.T) {
	articles := &fakeArticleStore{}
	prefs := &fakePreferenceStore{pref: &model.UserPreference{UserID: 42, Sources: []string{"CNN", "BBC"}}}
	r := newTestRouter(articles, prefs, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/articles?keyword=election&date=2024-12-01&category=World&source=CNN", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	q := articles.lastQuery
	assert.Equal(t, "election", q.Filter.Keyword)
	assert.Equal(t, "World", q.Filter.Category)
	assert.Equal(t, "CNN", q.Filter.Source)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), q.Filter.Date)
	assert.Equal(t, []string{"CNN", "BBC"}, q.Preference.Sources)
	assert.Equal(t, 1, q.Page)
}

func TestGetArticles_InvalidDate(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/articles?date=yesterday", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetArticles_InvalidPage(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	for _, page := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authRequest("GET", "/api/articles?page="+page, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetArticles_DBError(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{err: errors.New("DB down")}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/articles", ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetArticles_PreferenceError(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{err: errors.New("DB down")}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/articles", ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPreferences_None(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/preferences", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestGetPreferences_Found(t *testing.T) {
	prefs := &fakePreferenceStore{pref: &model.UserPreference{ID: 3, UserID: 42, Categories: []string{"World"}}}
	r := newTestRouter(&fakeArticleStore{}, prefs, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/preferences", ""))

	var res PreferenceResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(3), res.ID)
	assert.Equal(t, []string{"World"}, res.Categories)
	assert.Equal(t, 0, len(res.Sources))
}

func TestSavePreferences(t *testing.T) {
	prefs := &fakePreferenceStore{}
	r := newTestRouter(&fakeArticleStore{}, prefs, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/preferences", `{"sources":["CNN","BBC"],"authors":null}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var res SavePreferencesResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Preferences saved successfully!", res.Message)
	assert.Equal(t, []string{"CNN", "BBC"}, res.Preferences.Sources)
	assert.Equal(t, int64(42), prefs.saved.UserID)
	assert.Equal(t, 0, len(prefs.saved.Categories))
	assert.Equal(t, 0, len(prefs.saved.Authors))
}

func TestSavePreferences_EmptyBody(t *testing.T) {
	prefs := &fakePreferenceStore{}
	r := newTestRouter(&fakeArticleStore{}, prefs, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/preferences", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(prefs.saved.Sources))
}

func TestSavePreferences_NonArray(t *testing.T) {
	prefs := &fakePreferenceStore{}
	r := newTestRouter(&fakeArticleStore{}, prefs, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/preferences", `{"sources":"CNN"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, true, prefs.saved == nil)
}

func TestSavePreferences_DBError(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{err: errors.New("DB down")}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/preferences", `{"sources":["CNN"]}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPreferenceOptions(t *testing.T) {
	articles := &fakeArticleStore{options: &model.PreferenceOptions{
		Sources:    []string{"BBC", "CNN"},
		Categories: []string{"World"},
	}}
	r := newTestRouter(articles, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/preference-options", ""))

	var res PreferenceOptionsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, []string{"BBC", "CNN"}, res.Sources)
	assert.Equal(t, []string{"World"}, res.Categories)
}

func TestSearchAuthors(t *testing.T) {
	articles := &fakeArticleStore{authors: []string{"John Doe"}}
	r := newTestRouter(articles, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/authors/search?q=John", ""))

	var res []string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, []string{"John Doe"}, res)
	assert.Equal(t, "John", articles.lastAuthor)
}

func TestSearchAuthors_NoMatches(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/authors/search?q=nobody", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetHealth_Healthy(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", res["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	r := newTestRouter(&fakeArticleStore{err: errors.New("DB down")}, &fakePreferenceStore{}, &fakeTokenStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
