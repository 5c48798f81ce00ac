package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"newsdesk/internal/model"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type ArticleStore interface {
	ListArticles(ctx context.Context, query model.ArticleQuery) (*model.ArticlePage, error)
	CountArticles(ctx context.Context) (int, error)
	GetPreferenceOptions(ctx context.Context) (*model.PreferenceOptions, error)
	SearchAuthors(ctx context.Context, q string) ([]string, error)
}

type ArticleHandler struct {
	repository  ArticleStore
	preferences PreferenceStore
}

func NewArticleHandler(repository ArticleStore, preferences PreferenceStore) *ArticleHandler {
	return &ArticleHandler{repository: repository, preferences: preferences}
}

// GetArticles lists articles narrowed by the caller's saved preferences and the request filters.
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := getQueryPage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}

	filter := model.ArticleFilter{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		Source:   c.Query("source"),
	}

	if date := c.Query("date"); date != "" {
		filter.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	user := currentUser(c)

	pref, err := h.preferences.GetPreference(ctx, user.ID)
	if err != nil {
		slog.Error("error fetching preferences", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result, err := h.repository.ListArticles(ctx, model.ArticleQuery{
		Filter:     filter,
		Preference: pref,
		Page:       page,
	})
	if err != nil {
		slog.Error("error fetching articles", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	data := make([]ArticleResponse, 0, len(result.Articles))
	for _, a := range result.Articles {
		data = append(data, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, ArticlePageResponse{
		Data:        data,
		Total:       result.Total,
		CurrentPage: result.CurrentPage,
		PerPage:     result.PerPage,
		LastPage:    result.LastPage(),
	})
}

func (h *ArticleHandler) GetPreferenceOptions(c *gin.Context) {
	options, err := h.repository.GetPreferenceOptions(c.Request.Context())
	if err != nil {
		slog.Error("error fetching preference options", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, PreferenceOptionsResponse{
		Sources:    options.Sources,
		Categories: options.Categories,
	})
}

func (h *ArticleHandler) SearchAuthors(c *gin.Context) {
	q := c.Query("q")

	authors, err := h.repository.SearchAuthors(c.Request.Context(), q)
	if err != nil {
		slog.Error("error searching authors", "error", err, "q", q)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if authors == nil {
		authors = []string{}
	}

	c.JSON(http.StatusOK, authors)
}

func (h *ArticleHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.CountArticles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryPage(c *gin.Context) (int, error) {
	value := c.Query("page")
	if value == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid query parameter", "param", "page", "value", value, "error", err)
		return 0, err
	}

	if page < 1 {
		slog.Warn("invalid query parameter", "param", "page", "value", page)
		return 0, strconv.ErrRange
	}

	return page, nil
}
