package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	noContent       = "No content"
	generalCategory = "General"
	unknownAuthor   = "Unknown"
	guardianSource  = "The Guardian"
	nytSource       = "New York Times"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize decodes a raw provider payload into articles. It has no side effects.
func Normalize(p Provider, raw []byte) ([]Article, error) {
	switch p {
	case NewsAPI:
		return normalizeNewsAPI(raw)
	case Guardian:
		return normalizeGuardian(raw)
	case NYTimes:
		return normalizeNYTimes(raw)
	default:
		return nil, fmt.Errorf("unknown provider %s", p)
	}
}

// IsEmptyPayload reports whether a raw response carries nothing to ingest.
func IsEmptyPayload(raw []byte) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "{}", "[]", "false", `""`:
		return true
	default:
		return false
	}
}

// StripByline removes a single leading "By " and falls back to "Unknown" for empty bylines.
func StripByline(byline string) string {
	if byline == "" {
		return unknownAuthor
	}
	return strings.TrimPrefix(byline, "By ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseTime(value string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

type newsAPIResponse struct {
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Description string        `json:"description"`
	Author      string        `json:"author"`
	Source      newsAPISource `json:"source"`
	PublishedAt string        `json:"publishedAt"`
}

type newsAPISource struct {
	Name string `json:"name"`
}

func normalizeNewsAPI(raw []byte) ([]Article, error) {
	var resp newsAPIResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("news-api decode: %w", err)
	}

	articles := make([]Article, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		articles = append(articles, Article{
			Title:       item.Title,
			Content:     firstNonEmpty(item.Content, item.Description, noContent),
			Author:      item.Author,
			Source:      item.Source.Name,
			Category:    generalCategory,
			PublishedAt: parseTime(item.PublishedAt),
		})
	}

	return articles, nil
}

type guardianResponse struct {
	Response struct {
		Results []guardianResult `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	WebTitle           string         `json:"webTitle"`
	SectionName        string         `json:"sectionName"`
	WebPublicationDate string         `json:"webPublicationDate"`
	Fields             guardianFields `json:"fields"`
}

type guardianFields struct {
	Headline string `json:"headline"`
	Byline   string `json:"byline"`
	BodyText string `json:"bodyText"`
}

func normalizeGuardian(raw []byte) ([]Article, error) {
	var resp guardianResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("guardian decode: %w", err)
	}

	articles := make([]Article, 0, len(resp.Response.Results))
	for _, item := range resp.Response.Results {
		articles = append(articles, Article{
			Title:       item.WebTitle,
			Content:     firstNonEmpty(item.Fields.BodyText, noContent),
			Author:      StripByline(item.Fields.Byline),
			Source:      guardianSource,
			Category:    firstNonEmpty(item.SectionName, generalCategory),
			PublishedAt: parseTime(item.WebPublicationDate),
		})
	}

	return articles, nil
}

type nytResponse struct {
	Results []nytResult `json:"results"`
}

type nytResult struct {
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	Byline        string `json:"byline"`
	Section       string `json:"section"`
	PublishedDate string `json:"published_date"`
}

func normalizeNYTimes(raw []byte) ([]Article, error) {
	var resp nytResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("ny-times decode: %w", err)
	}

	articles := make([]Article, 0, len(resp.Results))
	for _, item := range resp.Results {
		articles = append(articles, Article{
			Title:       item.Title,
			Content:     firstNonEmpty(item.Abstract, noContent),
			Author:      StripByline(item.Byline),
			Source:      nytSource,
			Category:    firstNonEmpty(item.Section, generalCategory),
			PublishedAt: parseTime(item.PublishedDate),
		})
	}

	return articles, nil
}
