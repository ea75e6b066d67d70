package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for directory errors.
var (
	ErrNotFound  = errors.New("user not found")
	ErrConflict  = errors.New("user already exists")
	ErrEmptyName = errors.New("user name must not be empty")
)

// ConflictError reports the name that collided on create.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("User with name %s already exists", e.Name)
}

// Is lets errors.Is(err, ErrConflict) match.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
