package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"newsdesk/internal/model"

	"github.com/gin-gonic/gin"
)

type PreferenceStore interface {
	GetPreference(ctx context.Context, userID int64) (*model.UserPreference, error)
	SavePreference(ctx context.Context, pref *model.UserPreference) error
}

type PreferenceHandler struct {
	repository PreferenceStore
}

func NewPreferenceHandler(repository PreferenceStore) *PreferenceHandler {
	return &PreferenceHandler{repository: repository}
}

func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	user := currentUser(c)

	pref, err := h.repository.GetPreference(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("error fetching preferences", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if pref == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, toPreferenceResponse(*pref))
}

// SavePreferences replaces all three preference sets of the caller.
func (h *PreferenceHandler) SavePreferences(c *gin.Context) {
	user := currentUser(c)

	var req SavePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("invalid preferences body", "error", err, "user_id", user.ID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "sources, categories and authors must be arrays"})
		return
	}

	pref := &model.UserPreference{
		UserID:     user.ID,
		Sources:    req.Sources,
		Categories: req.Categories,
		Authors:    req.Authors,
	}

	if err := h.repository.SavePreference(c.Request.Context(), pref); err != nil {
		slog.Error("error saving preferences", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, SavePreferencesResponse{
		Message:     "Preferences saved successfully!",
		Preferences: toPreferenceResponse(*pref),
	})
}
