package model

import "time"

type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

type APIToken struct {
	ID         int64
	UserID     int64
	Name       string
	TokenHash  string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
