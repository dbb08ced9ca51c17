// Package sourcemap decodes the compact source-map format emitted by
// Solidity-family compilers: semicolon-separated instruction entries, each a
// colon-separated, delta-compressed tuple of source offset, length, file
// index, jump type and (solc >= 0.6) modifier depth.
package sourcemap

import (
	"fmt"
	"strconv"
	"strings"
)

// JumpType classifies an instruction's jump behavior.
type JumpType int

const (
	// JumpNone marks entries that never specified a jump type.
	JumpNone JumpType = iota
	// JumpRegular is a jump that is part of ordinary control flow ("-").
	JumpRegular
	// JumpInto is a jump into a function ("i").
	JumpInto
	// JumpOut is a return from a function ("o").
	JumpOut
)

func (j JumpType) String() string {
	switch j {
	case JumpRegular:
		return "-"
	case JumpInto:
		return "i"
	case JumpOut:
		return "o"
	default:
		return ""
	}
}

func parseJumpType(s string) (JumpType, error) {
	switch s {
	case "i":
		return JumpInto, nil
	case "o":
		return JumpOut, nil
	case "-":
		return JumpRegular, nil
	default:
		return JumpNone, fmt.Errorf("unknown jump type %q", s)
	}
}

// Entry is one decoded instruction mapping. A value of -1 for Start, Length
// or FileIndex means "no associated source range/file": the compiler emits -1
// for instructions it generated itself, and the decoder preserves it as a
// sentinel rather than an error.
type Entry struct {
	Start         int      `json:"start"`
	Length        int      `json:"length"`
	FileIndex     int      `json:"fileIndex"`
	Jump          JumpType `json:"jump"`
	ModifierDepth int      `json:"modifierDepth"`
}

// DecodeError reports the first malformed segment encountered while decoding.
// Decoding stops at the offending segment; no partial entries are returned.
type DecodeError struct {
	Segment int
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("source map segment %d: %s", e.Segment, e.Reason)
}

// SourceMap is the raw compact source-map string as found in compiler output.
// It JSON-marshals as the compact string; Decode expands it.
type SourceMap string

func (s SourceMap) String() string {
	return string(s)
}

// Decode expands the compact string into one Entry per instruction. Fields
// omitted from a segment, or entirely empty segments, inherit from the
// previous entry; the fold carries the last fully-resolved tuple forward, so
// entries must be processed strictly left-to-right.
func (s SourceMap) Decode() ([]Entry, error) {
	raw := strings.TrimSpace(string(s))
	if raw == "" {
		return []Entry{}, nil
	}

	segments := strings.Split(raw, ";")
	entries := make([]Entry, 0, len(segments))
	previous := Entry{Start: -1, Length: -1, FileIndex: -1, Jump: JumpNone}

	for i, segment := range segments {
		entry, err := decodeSegment(segment, previous)
		if err != nil {
			return nil, &DecodeError{Segment: i, Reason: err.Error()}
		}
		entries = append(entries, entry)
		previous = entry
	}
	return entries, nil
}

// decodeSegment decodes one "s:l:f:j:m" segment against the inherited tuple.
func decodeSegment(segment string, previous Entry) (Entry, error) {
	entry := previous
	if segment == "" {
		return entry, nil
	}

	fields := strings.Split(segment, ":")
	if len(fields) > 5 {
		return Entry{}, fmt.Errorf("too many fields (%d, expected at most 5)", len(fields))
	}

	if v, ok, err := intField(fields, 0, "start"); err != nil {
		return Entry{}, err
	} else if ok {
		entry.Start = v
	}
	if v, ok, err := intField(fields, 1, "length"); err != nil {
		return Entry{}, err
	} else if ok {
		entry.Length = v
	}
	if v, ok, err := intField(fields, 2, "file index"); err != nil {
		return Entry{}, err
	} else if ok {
		entry.FileIndex = v
	}
	if len(fields) > 3 && fields[3] != "" {
		jump, err := parseJumpType(fields[3])
		if err != nil {
			return Entry{}, err
		}
		entry.Jump = jump
	}
	if v, ok, err := intField(fields, 4, "modifier depth"); err != nil {
		return Entry{}, err
	} else if ok {
		if v < 0 {
			return Entry{}, fmt.Errorf("negative modifier depth %d", v)
		}
		entry.ModifierDepth = v
	}
	return entry, nil
}

// intField parses fields[idx] as a decimal integer. The second return is
// false when the field is absent or empty, meaning "inherit".
func intField(fields []string, idx int, name string) (int, bool, error) {
	if idx >= len(fields) || fields[idx] == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(fields[idx])
	if err != nil {
		return 0, false, fmt.Errorf("non-numeric %s %q", name, fields[idx])
	}
	return v, true, nil
}
