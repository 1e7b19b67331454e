package services

import "github.com/dmitrijs2005/immiconsole/internal/common"

// ValidationError carries a message meant for the caller. It matches
// common.ErrorValidation with errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
