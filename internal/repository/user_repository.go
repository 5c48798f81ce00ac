package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"newsdesk/internal/model"
)

const tokenBytes = 32

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users(name, email)
		VALUES($1, $2)
		RETURNING id, created_at
	`, user.Name, user.Email).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user %q: %w", user.Email, err)
	}

	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateToken issues a new API token for the user. The plaintext is returned once and only its
// hash is stored.
func (r *UserRepository) CreateToken(ctx context.Context, userID int64, name string) (string, *model.APIToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	plaintext := hex.EncodeToString(buf)

	token := model.APIToken{
		UserID:    userID,
		Name:      name,
		TokenHash: HashToken(plaintext),
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO api_tokens(user_id, name, token_hash)
		VALUES($1, $2, $3)
		RETURNING id, created_at
	`, token.UserID, token.Name, token.TokenHash).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return "", nil, fmt.Errorf("create token for user %d: %w", userID, err)
	}

	return plaintext, &token, nil
}

// GetUserByToken resolves a plaintext bearer token. It returns nil for unknown tokens.
func (r *UserRepository) GetUserByToken(ctx context.Context, plaintext string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `
		UPDATE api_tokens t SET last_used_at = now()
		FROM users u
		WHERE u.id = t.user_id AND t.token_hash = $1
		RETURNING u.id, u.name, u.email, u.created_at
	`, HashToken(plaintext)).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
