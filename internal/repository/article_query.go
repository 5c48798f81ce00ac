package repository

import (
	"fmt"
	"strings"

	"newsdesk/internal/model"

	"github.com/lib/pq"
)

const dateLayout = "2006-01-02"

type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a predicate. clause must contain a single %d for the placeholder index.
func (b *whereBuilder) add(clause string, arg any) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, fmt.Sprintf(clause, len(b.args)))
}

func (b *whereBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// buildArticleWhere composes the listing predicate. Keyword search replaces the plain listing,
// preference sets narrow it, and explicit filters apply on top.
func buildArticleWhere(filter model.ArticleFilter, pref *model.UserPreference) (string, []any) {
	var b whereBuilder

	searching := filter.Keyword != ""
	if searching {
		b.add("search_vector @@ plainto_tsquery('english', $%d)", filter.Keyword)
	}

	if pref != nil {
		if len(pref.Sources) > 0 {
			b.add("source = ANY($%d)", pq.Array(pref.Sources))
		}
		if len(pref.Categories) > 0 {
			b.add("category = ANY($%d)", pq.Array(pref.Categories))
		}
		if len(pref.Authors) > 0 {
			b.add("author = ANY($%d)", pq.Array(pref.Authors))
		}
	}

	if !filter.Date.IsZero() {
		if searching {
			b.add("published_at = $%d", filter.Date)
		} else {
			b.add("(published_at AT TIME ZONE 'UTC')::date = $%d::date", filter.Date.Format(dateLayout))
		}
	}

	if filter.Category != "" {
		b.add("category = $%d", filter.Category)
	}

	if filter.Source != "" {
		b.add("source = $%d", filter.Source)
	}

	return b.where(), b.args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
