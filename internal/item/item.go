package item

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyInput is returned when an item would be created from blank text.
var ErrEmptyInput = errors.New("item text is empty")

// Item is a single checklist entry.
type Item struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Normalize trims text and reports ErrEmptyInput when nothing is left.
// Invalid UTF-8 is replaced with U+FFFD so the text survives a JSON round trip.
func Normalize(text string) (string, error) {
	text = strings.TrimSpace(strings.ToValidUTF8(text, "\uFFFD"))
	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

// IDSource hands out strictly increasing ids. Ids look like unix
// milliseconds so they stay comparable with timestamp ids already on disk,
// but two calls within the same millisecond never collide.
type IDSource struct {
	last int64
	now  func() time.Time
}

func NewIDSource() *IDSource {
	return &IDSource{now: time.Now}
}

// NewIDSourceAt is NewIDSource with a fixed clock.
func NewIDSourceAt(now func() time.Time) *IDSource {
	return &IDSource{now: now}
}

// Observe makes sure future ids are greater than id.
func (s *IDSource) Observe(id int64) {
	if id > s.last {
		s.last = id
	}
}

func (s *IDSource) Next() int64 {
	n := s.now().UnixMilli()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return n
}

// Counts returns how many items are completed and how many there are.
func Counts(items []Item) (completed, total int) {
	for _, it := range items {
		if it.Completed {
			completed++
		}
	}
	return completed, len(items)
}

func IndexOf(items []Item, id int64) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares nothing with items.
func Clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
