package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsdesk/internal/model"

	"github.com/lib/pq"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetPreference returns nil when the user has not saved preferences yet.
func (r *PreferenceRepository) GetPreference(ctx context.Context, userID int64) (*model.UserPreference, error) {
	var p model.UserPreference
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, sources, categories, authors, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, pq.Array(&p.Sources), pq.Array(&p.Categories), pq.Array(&p.Authors), &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get preference for user %d: %w", userID, err)
	}

	return &p, nil
}

// SavePreference creates the user's record or replaces all three sets. A nil set is stored as NULL.
func (r *PreferenceRepository) SavePreference(ctx context.Context, pref *model.UserPreference) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_preferences(user_id, sources, categories, authors)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			sources = EXCLUDED.sources,
			categories = EXCLUDED.categories,
			authors = EXCLUDED.authors,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, pref.UserID, pq.Array(pref.Sources), pq.Array(pref.Categories), pq.Array(pref.Authors)).
		Scan(&pref.ID, &pref.CreatedAt, &pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save preference for user %d: %w", pref.UserID, err)
	}

	return nil
}
