package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

var (
	ErrEmptyCriteria    = errors.New("search criteria is empty")
	ErrInvalidMaxPages  = errors.New("max pages must be between 1 and 5")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidPlatform  = errors.New("invalid platform")
	ErrTooManyPlatforms = errors.New("too many target platforms")
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrDuplicateRun = errors.New("run already exists")
	ErrNoLeads      = errors.New("no leads")
)

var (
	ErrNoRecipients  = errors.New("no recipients")
	ErrEmptyTemplate = errors.New("empty template")
)
