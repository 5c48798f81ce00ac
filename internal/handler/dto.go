package handler

import (
	"time"

	"newsdesk/internal/model"
)

type ArticleResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Author      *string `json:"author"`
	Source      string  `json:"source"`
	Category    string  `json:"category"`
	PublishedAt *string `json:"published_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ArticlePageResponse struct {
	Data        []ArticleResponse `json:"data"`
	Total       int               `json:"total"`
	CurrentPage int               `json:"current_page"`
	PerPage     int               `json:"per_page"`
	LastPage    int               `json:"last_page"`
}

type PreferenceResponse struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id"`
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Authors    []string `json:"authors"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// SavePreferencesRequest fields are optional; a missing or null field clears that restriction.
type SavePreferencesRequest struct {
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Authors    []string `json:"authors"`
}

type SavePreferencesResponse struct {
	Message     string             `json:"message"`
	Preferences PreferenceResponse `json:"preferences"`
}

type PreferenceOptionsResponse struct {
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toArticleResponse(a model.Article) ArticleResponse {
	res := ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Source:    a.Source,
		Category:  a.Category,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}

	if a.Author != "" {
		author := a.Author
		res.Author = &author
	}

	if !a.PublishedAt.IsZero() {
		published := a.PublishedAt.UTC().Format(time.RFC3339)
		res.PublishedAt = &published
	}

	return res
}

func toPreferenceResponse(p model.UserPreference) PreferenceResponse {
	return PreferenceResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Sources:    p.Sources,
		Categories: p.Categories,
		Authors:    p.Authors,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
