package service

import (
	"errors"

	"github.com/okian/userdir/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrEmptyName  = repository.ErrEmptyName
)
