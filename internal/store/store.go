// Package store owns the checklist: the ordered item sequence and its
// durable mirror in a storage slot.
//
// Every mutating call writes the complete new sequence to the slot before it
// returns. The in-memory sequence is only replaced once that write succeeds,
// so the two never disagree between calls.
package store

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"checklist/internal/item"
	"checklist/internal/logging"
	"checklist/internal/storage"
)

type Store struct {
	slot   storage.Slot
	items  []item.Item
	ids    *item.IDSource
	logger *log.Logger
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithIDSource(ids *item.IDSource) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// Load reads the slot and returns a store over its contents. A missing or
// unusable value gives an empty list; it is logged, not returned.
func Load(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		ids:    item.NewIDSource(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.readSlot()
	for _, it := range s.items {
		s.ids.Observe(it.ID)
	}
	return s
}

func (s *Store) readSlot() []item.Item {
	data, err := s.slot.Read()
	if errors.Is(err, storage.ErrNoValue) {
		s.logger.Debug("slot empty, starting with no items", "slot", s.slot.Name())
		return []item.Item{}
	}
	if err != nil {
		s.logger.Warn("slot unreadable, starting with no items", "slot", s.slot.Name(), "err", err)
		return []item.Item{}
	}
	items, err := Decode(data)
	if err != nil {
		s.logger.Warn("slot value invalid, starting with no items", "slot", s.slot.Name(), "err", err)
		return []item.Item{}
	}
	items, dropped := dedupe(items)
	if dropped > 0 {
		s.logger.Warn("dropped items with duplicate ids", "slot", s.slot.Name(), "count", dropped)
	}
	s.logger.Debug("loaded items", "slot", s.slot.Name(), "count", len(items))
	return items
}

// Items returns a copy of the current sequence.
func (s *Store) Items() []item.Item {
	return item.Clone(s.items)
}

func (s *Store) Progress() (completed, total int) {
	return item.Counts(s.items)
}

// Add appends a new pending item. Blank text returns item.ErrEmptyInput and
// changes nothing.
func (s *Store) Add(text string) ([]item.Item, error) {
	text, err := item.Normalize(text)
	if err != nil {
		return s.Items(), err
	}
	next := make([]item.Item, len(s.items), len(s.items)+1)
	copy(next, s.items)
	it := item.Item{ID: s.ids.Next(), Text: text}
	next = append(next, it)
	if err := s.commit(next); err != nil {
		return s.Items(), err
	}
	s.logger.Debug("added item", "id", it.ID)
	return s.Items(), nil
}

// Toggle flips the completed flag of id. Unknown ids are ignored.
func (s *Store) Toggle(id int64) ([]item.Item, error) {
	i := item.IndexOf(s.items, id)
	if i < 0 {
		s.logger.Debug("toggle ignored, no such item", "id", id)
		return s.Items(), nil
	}
	next := item.Clone(s.items)
	next[i].Completed = !next[i].Completed
	if err := s.commit(next); err != nil {
		return s.Items(), err
	}
	s.logger.Debug("toggled item", "id", id, "completed", next[i].Completed)
	return s.Items(), nil
}

// Delete removes id if present. The slot is rewritten either way.
func (s *Store) Delete(id int64) ([]item.Item, error) {
	next := make([]item.Item, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if err := s.commit(next); err != nil {
		return s.Items(), err
	}
	if len(next) == len(s.items) {
		s.logger.Debug("delete found no such item", "id", id)
	} else {
		s.logger.Debug("deleted item", "id", id)
	}
	return s.Items(), nil
}

// Clear removes every item. Confirming with the user is the caller's job.
func (s *Store) Clear() ([]item.Item, error) {
	if err := s.commit([]item.Item{}); err != nil {
		return s.Items(), err
	}
	s.logger.Info("cleared all items", "slot", s.slot.Name())
	return s.Items(), nil
}

func (s *Store) commit(next []item.Item) error {
	data, err := Encode(next)
	if err != nil {
		return err
	}
	if err := s.slot.Write(data); err != nil {
		s.logger.Error("persist failed", "slot", s.slot.Name(), "err", err)
		return fmt.Errorf("persist slot %q: %w", s.slot.Name(), err)
	}
	s.items = next
	return nil
}
