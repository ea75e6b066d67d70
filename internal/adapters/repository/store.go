// Package repository defines the user directory interface and errors.
package repository

import (
	"context"

	"github.com/okian/userdir/internal/domain/model"
)

// User is the record type held by a Directory.
type User = model.User

// Outcome tells a caller which branch a write took.
type Outcome int

const (
	// Created means a new record was appended.
	Created Outcome = iota + 1
	// Updated means an existing record was changed in place.
	Updated
)

// String returns the metric/log label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Directory provides read/write access to the ordered set of users.
type Directory interface {
	// Lookup returns the first user whose name matches.
	// Returns ErrNotFound if no such user exists.
	Lookup(ctx context.Context, name string) (User, error)

	// Create appends a new user. Returns a *ConflictError (matching
	// ErrConflict) without touching the directory if the name is taken.
	Create(ctx context.Context, u User) (User, error)

	// Upsert updates age and occupation of an existing user or appends a
	// new one. It never fails on an existing name.
	Upsert(ctx context.Context, u User) (User, Outcome, error)

	// Delete drops every user with the given name and reports how many
	// records were removed. Removing nothing is not an error.
	Delete(ctx context.Context, name string) (int, error)

	// List returns a copy of all users in insertion order.
	List(ctx context.Context) []User

	// Len returns the number of users held.
	Len(ctx context.Context) int
}
