package model

import (
	"context"
	"fmt"
	"time"
)

// Status codes stored in the users.status column.
const (
	StatusActive   int32 = 1
	StatusInactive int32 = 2
	StatusDeleted  int32 = 3
)

// User represents a stored user account. PasswordHash is populated only
// by lookups that explicitly select it and is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Permissions  int64     `json:"-"`
	Status       int32     `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Column identifies a users column usable in lookups and searches.
// It is a closed set: caller strings must go through ParseColumn so no
// free-form value ever reaches a query.
type Column string

const (
	ColumnID       Column = "id"
	ColumnUsername Column = "username"
	ColumnEmail    Column = "email"
)

// ParseColumn validates a caller-supplied column name against the
// allow-list.
func ParseColumn(s string) (Column, error) {
	switch Column(s) {
	case ColumnID, ColumnUsername, ColumnEmail:
		return Column(s), nil
	default:
		return "", fmt.Errorf("invalid column %q", s)
	}
}

// UserUpdate carries the mutable fields of an update request. Nil means
// the field was not supplied.
type UserUpdate struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	Permissions *int64  `json:"permissions"`
}

// Empty reports whether no field was supplied.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Permissions == nil
}

// SearchQuery describes a paged search over one allow-listed column.
type SearchQuery struct {
	Column Column
	Value  string
	Page   int32
	Limit  int32
}

// SearchResult is a page of users plus the unpaged total.
type SearchResult struct {
	Results []User `json:"results"`
	Total   int64  `json:"total"`
}

// UserStore defines persistence operations for users. Create and
// UpdateFields run their uniqueness checks and writes inside a single
// transaction and return ErrConflict on a duplicate.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (User, error)
	GetByColumn(ctx context.Context, column Column, value string) (User, error)
	Search(ctx context.Context, query SearchQuery) (SearchResult, error)
	Create(ctx context.Context, username, email, passwordHash string, permissions int64) (User, error)
	UpdateFields(ctx context.Context, id int64, fields UserUpdate) (User, error)
	UpdateStatus(ctx context.Context, id int64, status int32) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
