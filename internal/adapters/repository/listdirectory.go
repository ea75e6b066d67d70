// Package repository defines the user directory interface and errors.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/userdir/pkg/metrics"
)

// ListDirectory is an in-memory Directory backed by an ordered slice.
//
// Lookups are linear; the expected size is a handful of records. A single
// RWMutex covers the whole slice so a create's collision check and append
// happen as one step.
type ListDirectory struct {
	mu    sync.RWMutex
	users []User
}

var _ Directory = (*ListDirectory)(nil)

// NewListDirectory creates an empty directory unless WithSeed is given.
func NewListDirectory(_ context.Context, opts ...Option) *ListDirectory {
	d := &ListDirectory{}
	for _, opt := range opts {
		opt(d)
	}
	metrics.UpdateTotalUsers(len(d.users))
	return d
}

// indexOf returns the position of name or -1. Caller holds mu.
func (d *ListDirectory) indexOf(name string) int {
	for i := range d.users {
		if d.users[i].Name == name {
			return i
		}
	}
	return -1
}

// Lookup implements Directory.
func (d *ListDirectory) Lookup(_ context.Context, name string) (User, error) {
	start := time.Now()
	defer observeQuery(start)

	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.indexOf(name)
	if i < 0 {
		return User{}, ErrNotFound
	}
	return d.users[i], nil
}

// Create implements Directory.
func (d *ListDirectory) Create(_ context.Context, u User) (User, error) {
	start := time.Now()
	defer observeUpdate(start)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexOf(u.Name) >= 0 {
		return User{}, &ConflictError{Name: u.Name}
	}
	d.users = append(d.users, u)
	metrics.UpdateTotalUsers(len(d.users))
	return u, nil
}

// Upsert implements Directory.
func (d *ListDirectory) Upsert(_ context.Context, u User) (User, Outcome, error) {
	start := time.Now()
	defer observeUpdate(start)

	d.mu.Lock()
	defer d.mu.Unlock()

	if i := d.indexOf(u.Name); i >= 0 {
		d.users[i].Age = u.Age
		d.users[i].Occupation = u.Occupation
		return d.users[i], Updated, nil
	}
	d.users = append(d.users, u)
	metrics.UpdateTotalUsers(len(d.users))
	return u, Created, nil
}

// Delete implements Directory. The slice is rebuilt without matches so
// insertion order of the survivors is kept.
func (d *ListDirectory) Delete(_ context.Context, name string) (int, error) {
	start := time.Now()
	defer observeUpdate(start)

	d.mu.Lock()
	defer d.mu.Unlock()

	kept := make([]User, 0, len(d.users))
	for _, u := range d.users {
		if u.Name != name {
			kept = append(kept, u)
		}
	}
	removed := len(d.users) - len(kept)
	d.users = kept
	metrics.UpdateTotalUsers(len(d.users))
	return removed, nil
}

// List implements Directory.
func (d *ListDirectory) List(_ context.Context) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

// Len implements Directory.
func (d *ListDirectory) Len(_ context.Context) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

func observeQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}

func observeUpdate(start time.Time) {
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
}
