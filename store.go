package main

import (
	"context"
	"errors"
)

// errDuplicateEmail is returned by CreateUser when the email is taken.
var errDuplicateEmail = errors.New("email already registered")

// errNotFound is returned by lookups for rows that don't exist. The
// postgres store maps pgx.ErrNoRows onto it so handlers never depend on the
// backend.
var errNotFound = errors.New("not found")

// store is the persistence boundary: one implementation backed by Postgres
// (store_postgres.go) and one in-memory (store_memory.go, used in dev mode
// and by the handler tests). All nutrition math happens above this
// interface — implementations only move records.
//
// CreateUser also creates the user's empty profile row and default settings
// row, so GetProfile/GetSettings never miss for a registered user.
type store interface {
	CreateUser(ctx context.Context, email, name, passwordHash, authToken string) (user, error)
	UserByEmail(ctx context.Context, email string) (user, error)
	UserByToken(ctx context.Context, token string) (user, error)

	GetProfile(ctx context.Context, userID int) (profile, error)
	UpsertProfile(ctx context.Context, p profile) (profile, error)

	GetSettings(ctx context.Context, userID int) (userSettings, error)
	UpsertSettings(ctx context.Context, s userSettings) (userSettings, error)

	// GetGoals returns (nil, nil) when the user has no goals record yet.
	GetGoals(ctx context.Context, userID int) (*goals, error)
	UpsertGoals(ctx context.Context, g goals) (goals, error)

	AddLog(ctx context.Context, entry logEntry) (logEntry, error)
	// ListLogs returns entries ascending by date, then by insertion order —
	// the ordering every time-series computation assumes.
	ListLogs(ctx context.Context, userID int) ([]logEntry, error)
}
