package repository

import (
	"context"
	"database/sql"
	"fmt"

	"newsdesk/internal/model"
)

const maxAuthorResults = 10

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// UpsertArticle inserts the article or overwrites the stored row with the same title.
// It reports whether a new row was created.
func (r *ArticleRepository) UpsertArticle(ctx context.Context, article *model.Article) (bool, error) {
	publishedAt := sql.NullTime{Time: article.PublishedAt, Valid: !article.PublishedAt.IsZero()}

	var created bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO articles(title, content, author, source, category, published_at)
		VALUES($1, $2, NULLIF($3, ''), $4, $5, $6)
		ON CONFLICT (title) DO UPDATE SET
			content = EXCLUDED.content,
			author = EXCLUDED.author,
			source = EXCLUDED.source,
			category = EXCLUDED.category,
			published_at = EXCLUDED.published_at,
			updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0)
	`, article.Title, article.Content, article.Author, article.Source, article.Category, publishedAt).
		Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert article %q: %w", article.Title, err)
	}

	return created, nil
}

func (r *ArticleRepository) ListArticles(ctx context.Context, query model.ArticleQuery) (*model.ArticlePage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	where, args := buildArticleWhere(query.Filter, query.Preference)

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	limitArg := len(args) + 1
	args = append(args, model.ArticlesPerPage, (page-1)*model.ArticlesPerPage)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, COALESCE(author, ''), source, category, published_at, created_at, updated_at
		FROM articles`+where+fmt.Sprintf(`
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d`, limitArg, limitArg+1), args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		var publishedAt sql.NullTime
		err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Author, &a.Source, &a.Category, &publishedAt, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if publishedAt.Valid {
			a.PublishedAt = publishedAt.Time
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.ArticlePage{
		Articles:    articles,
		Total:       total,
		CurrentPage: page,
		PerPage:     model.ArticlesPerPage,
	}, nil
}

func (r *ArticleRepository) CountArticles(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total)
	return total, err
}

func (r *ArticleRepository) GetPreferenceOptions(ctx context.Context) (*model.PreferenceOptions, error) {
	sources, err := r.distinctColumn(ctx, `SELECT DISTINCT source FROM articles ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("distinct sources: %w", err)
	}

	categories, err := r.distinctColumn(ctx, `SELECT DISTINCT category FROM articles ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	return &model.PreferenceOptions{Sources: sources, Categories: categories}, nil
}

// SearchAuthors returns up to ten distinct author names containing q, ignoring case.
// An empty q matches every author.
func (r *ArticleRepository) SearchAuthors(ctx context.Context, q string) ([]string, error) {
	authors, err := r.distinctColumn(ctx, `
		SELECT DISTINCT author FROM articles
		WHERE author IS NOT NULL AND author ILIKE $1
		ORDER BY author
		LIMIT $2
	`, "%"+escapeLike(q)+"%", maxAuthorResults)
	if err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}

	return authors, nil
}

func (r *ArticleRepository) distinctColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}
