package model

import "time"

const ArticlesPerPage = 9

type Article struct {
	ID          int64
	Title       string
	Content     string
	Author      string
	Source      string
	Category    string
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ArticleFilter holds the explicit request filters. Zero values mean "not set".
type ArticleFilter struct {
	Keyword  string
	Date     time.Time
	Category string
	Source   string
}

type ArticleQuery struct {
	Filter     ArticleFilter
	Preference *UserPreference
	Page       int
}

type ArticlePage struct {
	Articles    []Article
	Total       int
	CurrentPage int
	PerPage     int
}

func (p ArticlePage) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

type PreferenceOptions struct {
	Sources    []string
	Categories []string
}
