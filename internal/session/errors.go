package session

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrNoAnswers       = errors.New("no responses found for this session")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidInput    = errors.New("invalid input")
	ErrReportsDisabled = errors.New("reports are not configured")
)
