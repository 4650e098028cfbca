// Package store persists named collections as whole JSON documents.
//
// A document has the shape {"<name>": [records...]} and is always read and
// written as one unit. Nothing is cached: every Load goes back to the
// backing medium.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrMissing is wrapped by Load when a collection has never been provisioned.
var ErrMissing = errors.New("collection does not exist")

type Store interface {
	// Load decodes the named document into v.
	Load(name string, v any) error
	// Save replaces the named document with v.
	Save(name string, v any) error
	// Ensure provisions an empty document for name if none exists.
	Ensure(name string) error
}

// LoadCollection returns the records held by the named document.
func LoadCollection[T any](s Store, name string) ([]T, error) {
	doc := map[string][]T{}
	if err := s.Load(name, &doc); err != nil {
		return nil, err
	}
	records, ok := doc[name]
	if !ok {
		return nil, fmt.Errorf("store: document %q has no %q list", name, name)
	}
	return records, nil
}

// SaveCollection writes records back as the named document.
func SaveCollection[T any](s Store, name string, records []T) error {
	if records == nil {
		records = []T{}
	}
	return s.Save(name, map[string][]T{name: records})
}

func emptyDocument(name string) map[string][]any {
	return map[string][]any{name: {}}
}

func validName(name string) error {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return fmt.Errorf("store: invalid collection name %q", name)
	}
	return nil
}
