package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"checklist/internal/item"
	"checklist/internal/logging"
	"checklist/internal/storage"
)

func fixedClock() *item.IDSource {
	return item.NewIDSourceAt(func() time.Time { return time.UnixMilli(1_700_000_000_000) })
}

func TestLoad_AbsentOrInvalidSlotGivesEmptyList(t *testing.T) {
	cases := map[string]string{
		"not json":         `{{{`,
		"null":             `null`,
		"object":           `{"id":1}`,
		"missing field":    `[{"id":1,"text":"a"}]`,
		"wrong type":       `[{"id":"1","text":"a","completed":false}]`,
		"fractional id":    `[{"id":1.5,"text":"a","completed":false}]`,
		"empty text":       `[{"id":1,"text":"","completed":false}]`,
		"whitespace text":  `[{"id":1,"text":" \t ","completed":false}]`,
		"id out of range":  `[{"id":1e30,"text":"a","completed":false}]`,
		"trailing data":    `[] []`,
		"blank value":      "  ",
		"completed as 0/1": `[{"id":1,"text":"a","completed":0}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			slot := storage.NewMemory("learningItems")
			if err := slot.Write([]byte(raw)); err != nil {
				t.Fatalf("seed: %v", err)
			}
			s := Load(slot)
			if got := s.Items(); len(got) != 0 {
				t.Fatalf("expected empty list, got %+v", got)
			}
		})
	}

	t.Run("absent", func(t *testing.T) {
		s := Load(storage.NewMemory("learningItems"))
		if got := s.Items(); got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", got)
		}
	})
}

func TestLoad_InvalidSlotIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := logging.New(logging.Options{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	defer closer.Close()

	slot := storage.NewMemory("learningItems")
	_ = slot.Write([]byte("garbage"))
	Load(slot, WithLogger(logger))
	if !strings.Contains(buf.String(), "slot value invalid") {
		t.Fatalf("expected warning in log, got %q", buf.String())
	}
}

func TestLoad_ReadsLegacyTimestampIDs(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	raw := `[{"id":1712345678901,"text":"Learn Rust","completed":true},{"id":1712345679000,"text":"Learn Go","completed":false}]`
	_ = slot.Write([]byte(raw))

	s := Load(slot, WithIDSource(fixedClock()))
	want := []item.Item{
		{ID: 1712345678901, Text: "Learn Rust", Completed: true},
		{ID: 1712345679000, Text: "Learn Go"},
	}
	if got := s.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("items = %+v, want %+v", got, want)
	}
	if c, total := s.Progress(); c != 1 || total != 2 {
		t.Fatalf("progress = %d/%d", c, total)
	}
}

func TestLoad_IntegralFloatIDs(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	_ = slot.Write([]byte(`[{"id":1.0,"text":"a","completed":false},{"id":1712345678901.0,"text":"b","completed":true}]`))

	want := []item.Item{
		{ID: 1, Text: "a"},
		{ID: 1712345678901, Text: "b", Completed: true},
	}
	if got := Load(slot).Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("items = %+v, want %+v", got, want)
	}
}

func TestLoad_DuplicateIDsKeepFirst(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	_ = slot.Write([]byte(`[{"id":5,"text":"first","completed":false},{"id":5,"text":"second","completed":true},{"id":6,"text":"third","completed":false}]`))
	s := Load(slot)
	got := s.Items()
	if len(got) != 2 || got[0].Text != "first" || got[1].Text != "third" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestAdd_AppendsPendingItemWithFreshID(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	_ = slot.Write([]byte(`[{"id":1700000000005,"text":"existing","completed":true}]`))
	s := Load(slot, WithIDSource(fixedClock()))

	got, err := s.Add("  Learn Go  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	added := got[1]
	if added.Text != "Learn Go" || added.Completed {
		t.Fatalf("unexpected added item: %+v", added)
	}
	if added.ID <= got[0].ID {
		t.Fatalf("new id %d must exceed existing id %d", added.ID, got[0].ID)
	}
}

func TestAdd_BlankInputChangesNothing(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	s := Load(slot)
	if _, err := s.Add("keep"); err != nil {
		t.Fatalf("add: %v", err)
	}
	writes := slot.Writes

	for _, in := range []string{"", "   ", "\t"} {
		got, err := s.Add(in)
		if !errors.Is(err, item.ErrEmptyInput) {
			t.Fatalf("Add(%q): expected ErrEmptyInput, got %v", in, err)
		}
		if len(got) != 1 || got[0].Text != "keep" {
			t.Fatalf("Add(%q) changed items: %+v", in, got)
		}
	}
	if slot.Writes != writes {
		t.Fatalf("blank add must not write the slot")
	}
}

func TestAdd_InvalidUTF8SurvivesReload(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	s := Load(slot)
	items, err := s.Add("Learn \xffGo")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if items[0].Text != "Learn \uFFFDGo" {
		t.Fatalf("stored text = %q", items[0].Text)
	}
	if got := Load(slot).Items(); !reflect.DeepEqual(got, s.Items()) {
		t.Fatalf("reload = %+v, memory = %+v", got, s.Items())
	}
}

func TestAdd_SameMillisecondIDsStayUnique(t *testing.T) {
	s := Load(storage.NewMemory("learningItems"), WithIDSource(fixedClock()))
	for i := 0; i < 50; i++ {
		if _, err := s.Add("x"); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	seen := map[int64]bool{}
	for _, it := range s.Items() {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestToggle_TwiceRestoresAndUnknownIsNoop(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	s := Load(slot)
	items, _ := s.Add("a")
	id := items[0].ID

	items, err := s.Toggle(id)
	if err != nil || !items[0].Completed {
		t.Fatalf("first toggle: %+v %v", items, err)
	}
	items, err = s.Toggle(id)
	if err != nil || items[0].Completed {
		t.Fatalf("second toggle: %+v %v", items, err)
	}

	writes := slot.Writes
	items, err = s.Toggle(id + 999)
	if err != nil {
		t.Fatalf("unknown toggle returned error: %v", err)
	}
	if len(items) != 1 || items[0].Completed {
		t.Fatalf("unknown toggle changed items: %+v", items)
	}
	if slot.Writes != writes {
		t.Fatalf("unknown toggle should not write")
	}
}

func TestDelete_SecondDeleteIsNoop(t *testing.T) {
	s := Load(storage.NewMemory("learningItems"))
	s.Add("a")
	items, _ := s.Add("b")
	id := items[0].ID

	after, err := s.Delete(id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(after) != 1 || after[0].Text != "b" {
		t.Fatalf("after delete: %+v", after)
	}
	again, err := s.Delete(id)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if !reflect.DeepEqual(after, again) {
		t.Fatalf("second delete changed items: %+v vs %+v", after, again)
	}
}

func TestClear_AlwaysEmpties(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	s := Load(slot)
	if got, err := s.Clear(); err != nil || len(got) != 0 {
		t.Fatalf("clear empty: %+v %v", got, err)
	}
	s.Add("a")
	s.Add("b")
	if got, err := s.Clear(); err != nil || len(got) != 0 {
		t.Fatalf("clear: %+v %v", got, err)
	}
	raw, _ := slot.Read()
	if string(raw) != "[]" {
		t.Fatalf("slot after clear = %q", raw)
	}
}

func TestMutations_FailedWriteLeavesStateUnchanged(t *testing.T) {
	slot := storage.NewMemory("learningItems")
	s := Load(slot)
	items, _ := s.Add("a")
	id := items[0].ID
	before, _ := slot.Read()

	boom := errors.New("disk full")
	slot.FailWrites = boom

	checks := map[string]func() ([]item.Item, error){
		"add":    func() ([]item.Item, error) { return s.Add("b") },
		"toggle": func() ([]item.Item, error) { return s.Toggle(id) },
		"delete": func() ([]item.Item, error) { return s.Delete(id) },
		"clear":  s.Clear,
	}
	for name, fn := range checks {
		got, err := fn()
		if !errors.Is(err, boom) {
			t.Fatalf("%s: expected wrapped write error, got %v", name, err)
		}
		if len(got) != 1 || got[0].ID != id || got[0].Completed {
			t.Fatalf("%s: in-memory state changed: %+v", name, got)
		}
	}
	after, _ := slot.Read()
	if !bytes.Equal(before, after) {
		t.Fatalf("slot changed: %q -> %q", before, after)
	}
}

func TestScenario_LearnRustLearnGo(t *testing.T) {
	s := Load(storage.NewMemory("learningItems"))
	s.Add("Learn Rust")
	items, _ := s.Add("Learn Go")
	items, err := s.Toggle(items[0].ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(items) != 2 || !items[0].Completed || items[1].Completed {
		t.Fatalf("unexpected items: %+v", items)
	}
	if c, total := s.Progress(); c != 1 || total != 2 {
		t.Fatalf("progress = %d of %d", c, total)
	}
}

func TestRoundTrip_ThroughEveryBackend(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{storage.BackendJSON, storage.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(dir, backend, "data")
			slot, err := storage.Open(backend, path, "learningItems")
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			s := Load(slot)
			s.Add("one")
			items, _ := s.Add("two")
			s.Add("three")
			s.Toggle(items[1].ID)
			s.Delete(items[0].ID)
			want := s.Items()
			if err := slot.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			reopened, err := storage.Open(backend, path, "learningItems")
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer reopened.Close()
			got := Load(reopened).Items()
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestEncode_WireFormat(t *testing.T) {
	b, err := Encode([]item.Item{{ID: 1, Text: "a", Completed: true}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `[{"id":1,"text":"a","completed":true}]` {
		t.Fatalf("encoded = %s", b)
	}
	b, _ = Encode(nil)
	if string(b) != "[]" {
		t.Fatalf("nil encodes as %s", b)
	}
}
