package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"checklist/internal/item"
)

const slotSchemaURL = "checklist://slot.schema.json"

const slotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string", "minLength": 1, "pattern": "\\S"},
      "completed": {"type": "boolean"}
    }
  }
}`

var compiledSlotSchema = jsonschema.MustCompileString(slotSchemaURL, slotSchema)

// errDecode wraps everything that makes a stored value unusable.
var errDecode = errors.New("decode slot")

// Encode renders items as the slot value.
func Encode(items []item.Item) ([]byte, error) {
	if items == nil {
		items = []item.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a slot value. Values that are not a JSON array of well-formed
// items are rejected with an error wrapping errDecode.
func Decode(data []byte) ([]item.Item, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty value", errDecode)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", errDecode)
	}
	if err := compiledSlotSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errDecode, err)
	}

	// The schema has checked every field, so only the id can still fail.
	raw := doc.([]any)
	items := make([]item.Item, 0, len(raw))
	for i, r := range raw {
		obj := r.(map[string]any)
		id, err := intID(obj["id"].(json.Number))
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", errDecode, i, err)
		}
		items = append(items, item.Item{
			ID:        id,
			Text:      obj["text"].(string),
			Completed: obj["completed"].(bool),
		})
	}
	return items, nil
}

// intID accepts any integral JSON number, so 1712345678901.0 reads as
// 1712345678901.
func intID(n json.Number) (int64, error) {
	if id, err := n.Int64(); err == nil {
		return id, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("id %s: %w", n, err)
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("id %s is not a 64-bit integer", n)
	}
	return int64(f), nil
}

// dedupe keeps the first item for every id.
func dedupe(items []item.Item) ([]item.Item, int) {
	seen := make(map[int64]struct{}, len(items))
	out := items[:0:0]
	dropped := 0
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			dropped++
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out, dropped
}
