package sourcemap

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SourceSpan is a line/column range in a source file. -1 marks an unknown
// bound.
type SourceSpan struct {
	LineStart   int
	ColumnStart int
	LineEnd     int
	ColumnEnd   int
}

// PCMapEntry is the source information attached to one program-counter value.
type PCMapEntry struct {
	Location *SourceSpan
	Dev      string
}

// UnmarshalJSON accepts the three shapes compilers emit for a pc entry: a
// bare location array, an object with "location" and optional "dev", or null.
func (e *PCMapEntry) UnmarshalJSON(data []byte) error {
	*e = PCMapEntry{}
	if string(data) == "null" {
		return nil
	}

	var location []json.RawMessage
	if err := json.Unmarshal(data, &location); err == nil {
		span, err := spanFromList(location)
		if err != nil {
			return err
		}
		e.Location = span
		return nil
	}

	var obj struct {
		Location []json.RawMessage `json:"location"`
		Dev      *string           `json:"dev"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Dev != nil {
		e.Dev = *obj.Dev
	}
	if obj.Location != nil {
		span, err := spanFromList(obj.Location)
		if err != nil {
			return err
		}
		e.Location = span
	}
	return nil
}

func (e PCMapEntry) MarshalJSON() ([]byte, error) {
	var location interface{}
	if e.Location != nil {
		location = []int{e.Location.LineStart, e.Location.ColumnStart, e.Location.LineEnd, e.Location.ColumnEnd}
	}
	out := map[string]interface{}{"location": location}
	if e.Dev != "" {
		out["dev"] = e.Dev
	}
	return json.Marshal(out)
}

// spanFromList converts a [lineStart, colStart, lineEnd, colEnd] list, where
// any element may be null, into a SourceSpan with -1 for null bounds.
func spanFromList(list []json.RawMessage) (*SourceSpan, error) {
	if len(list) != 4 {
		return nil, fmt.Errorf("pc map location must have 4 elements, got %d", len(list))
	}
	vals := [4]int{}
	for i, raw := range list {
		if string(raw) == "null" {
			vals[i] = -1
			continue
		}
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("pc map location element %d: %w", i, err)
		}
		vals[i] = v
	}
	return &SourceSpan{LineStart: vals[0], ColumnStart: vals[1], LineEnd: vals[2], ColumnEnd: vals[3]}, nil
}

// PCMap maps program-counter values (as decimal string keys, the compiler
// artifact convention) to source locations.
type PCMap map[string]PCMapEntry

// Parse converts the raw string-keyed map into an integer-keyed one.
func (m PCMap) Parse() (map[int]PCMapEntry, error) {
	results := make(map[int]PCMapEntry, len(m))
	for key, entry := range m {
		pc, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("non-numeric pc key %q", key)
		}
		results[pc] = entry
	}
	return results, nil
}
