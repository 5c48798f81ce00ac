package model

import "time"

// UserPreference narrows article listings. A nil or empty set means no restriction.
type UserPreference struct {
	ID         int64
	UserID     int64
	Sources    []string
	Categories []string
	Authors    []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
