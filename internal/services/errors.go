package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/k-krishaa/Books/internal/repository"
	"github.com/samber/lo"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be a positive whole number")
)

// ValidationError collects per-field form problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := lo.Keys(e.Fields)
	sort.Strings(keys)
	return strings.Join(lo.Map(keys, func(k string, _ int) string { return e.Fields[k] }), "; ")
}
