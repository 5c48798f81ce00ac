package news

import (
	"fmt"
	"net/url"
)

// Provider identifies one upstream news API.
type Provider int

const (
	NewsAPI Provider = iota
	Guardian
	NYTimes
)

// Providers lists every provider in ingestion order.
var Providers = []Provider{NewsAPI, Guardian, NYTimes}

func (p Provider) String() string {
	switch p {
	case NewsAPI:
		return "news-api"
	case Guardian:
		return "guardian"
	case NYTimes:
		return "ny-times"
	default:
		return fmt.Sprintf("Provider(%d)", int(p))
	}
}

// CacheKey is the fetch cache key for the provider's raw response.
func (p Provider) CacheKey() string {
	switch p {
	case NewsAPI:
		return "articles:newsapi"
	case Guardian:
		return "articles:guardian"
	case NYTimes:
		return "articles:nyt"
	default:
		return "articles:unknown"
	}
}

// ParseProvider maps a selector name such as "guardian" to its Provider.
func ParseProvider(name string) (Provider, bool) {
	for _, p := range Providers {
		if p.String() == name {
			return p, true
		}
	}
	return 0, false
}

func (p Provider) endpoint() string {
	switch p {
	case NewsAPI:
		return "https://newsapi.org/v2/top-headlines"
	case Guardian:
		return "https://content.guardianapis.com/search"
	case NYTimes:
		return "https://api.nytimes.com/svc/topstories/v2/home.json"
	default:
		return ""
	}
}

func (p Provider) path() string {
	switch p {
	case NewsAPI:
		return "/v2/top-headlines"
	case Guardian:
		return "/search"
	case NYTimes:
		return "/svc/topstories/v2/home.json"
	default:
		return ""
	}
}

func (p Provider) query(apiKey string) url.Values {
	q := url.Values{}
	switch p {
	case NewsAPI:
		q.Set("apiKey", apiKey)
		q.Set("language", "en")
		q.Set("pageSize", fmt.Sprint(pageSize))
	case Guardian:
		q.Set("api-key", apiKey)
		q.Set("show-fields", "headline,byline,bodyText")
		q.Set("page-size", fmt.Sprint(pageSize))
	case NYTimes:
		q.Set("api-key", apiKey)
	}
	return q
}
