// Package storage holds the durable slot: one named location that stores the
// whole encoded item sequence and is overwritten as a unit.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	DefaultSlotName = "learningItems"
)

// ErrNoValue is returned by Read when nothing has been written to the slot yet.
var ErrNoValue = errors.New("slot has no value")

// Slot is a single whole-value key/value location.
type Slot interface {
	Name() string
	Read() ([]byte, error)
	Write(value []byte) error
	Close() error
}

// Open returns the slot for backend. path is ignored by the memory backend.
func Open(backend, path, name string) (Slot, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultSlotName
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		f, err := OpenFile(path, name)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendSQLite:
		s, err := OpenSQLite(path, name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(name), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
