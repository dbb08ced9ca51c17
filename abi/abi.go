package abi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethpm/ethpm-go/common"
)

// EntryType tags the variant of an ABI entry.
type EntryType string

const (
	ConstructorEntry EntryType = "constructor"
	FallbackEntry    EntryType = "fallback"
	ReceiveEntry     EntryType = "receive"
	FunctionEntry    EntryType = "function"
	EventEntry       EntryType = "event"
	ErrorEntry       EntryType = "error"
)

// StateMutability is the ABI v2 mutability classification of a function.
type StateMutability string

const (
	Pure       StateMutability = "pure"
	View       StateMutability = "view"
	NonPayable StateMutability = "nonpayable"
	Payable    StateMutability = "payable"
)

// Parameter is one input or output of an ABI entry. Type holds the ABI-JSON
// style type string ("uint256", "tuple[2]"); tuple members live in Components.
type Parameter struct {
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Components   []Parameter `json:"components,omitempty"`
	Indexed      bool        `json:"indexed,omitempty"`
	InternalType string      `json:"internalType,omitempty"`
}

// CanonicalType returns the selector form of the parameter type, with tuples
// expanded to parenthesized component lists.
func (p Parameter) CanonicalType() string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	inner := make([]string, len(p.Components))
	for i, c := range p.Components {
		inner[i] = c.CanonicalType()
	}
	return "(" + strings.Join(inner, ",") + ")" + p.Type[len("tuple"):]
}

// resolve validates the parameter's type string (and, for tuples, its
// component types).
func (p Parameter) resolve() error {
	if strings.HasPrefix(p.Type, "tuple") {
		suffix := p.Type[len("tuple"):]
		for _, c := range p.Components {
			if err := c.resolve(); err != nil {
				return err
			}
		}
		// Validate only the array suffix; the components stand in for the base.
		if suffix != "" {
			if _, err := ResolveType("bool" + suffix); err != nil {
				return &InvalidTypeError{Type: p.Type, Reason: "malformed tuple array suffix"}
			}
		}
		return nil
	}
	_, err := ResolveType(p.Type)
	return err
}

// Entry is a single ABI entry: one of constructor, fallback, receive,
// function, event or error. Kind-specific fields are meaningful only for the
// kinds that declare them; MarshalJSON emits exactly the legal field set.
// Entries are immutable once constructed.
type Entry struct {
	Type            EntryType
	Name            string
	Inputs          []Parameter
	Outputs         []Parameter
	StateMutability StateMutability
	Anonymous       bool
}

// Signature returns the human-readable signature with parameter names and
// indexed markers, e.g. "Transfer(address indexed from, uint256 value)".
func (e Entry) Signature() string {
	args := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		arg := p.CanonicalType()
		if p.Indexed {
			arg += " indexed"
		}
		if p.Name != "" {
			arg += " " + p.Name
		}
		args[i] = arg
	}
	sig := fmt.Sprintf("%s(%s)", e.selectorName(), strings.Join(args, ", "))

	if len(e.Outputs) > 0 {
		outs := make([]string, len(e.Outputs))
		for i, p := range e.Outputs {
			out := p.CanonicalType()
			if p.Name != "" {
				out += " " + p.Name
			}
			outs[i] = out
		}
		if len(outs) > 1 {
			sig += " -> (" + strings.Join(outs, ", ") + ")"
		} else {
			sig += " -> " + outs[0]
		}
	}
	return sig
}

// Selector returns the canonical selector string with no spaces, e.g.
// "transfer(address,uint256)".
func (e Entry) Selector() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.CanonicalType()
	}
	return fmt.Sprintf("%s(%s)", e.selectorName(), strings.Join(types, ","))
}

func (e Entry) selectorName() string {
	if e.Type == FunctionEntry || e.Type == EventEntry || e.Type == ErrorEntry {
		return e.Name
	}
	return string(e.Type)
}

// MethodID returns the 4-byte selector hash as an unprefixed hex string.
func (e Entry) MethodID() string {
	sum := common.ComputeKeccak256([]byte(e.Selector()))
	return fmt.Sprintf("%x", sum[:4])
}

// EventTopic returns the 32-byte topic hash of an event selector.
func (e Entry) EventTopic() common.Hash {
	return common.Keccak256Hash([]byte(e.Selector()))
}

// IsStateful reports whether calling the entry can modify chain state.
func (e Entry) IsStateful() bool {
	return e.StateMutability != View && e.StateMutability != Pure
}

// IsPayable reports whether the entry accepts value transfers.
func (e Entry) IsPayable() bool {
	return e.StateMutability == Payable
}

func paramsOrEmpty(params []Parameter) []Parameter {
	if params == nil {
		return []Parameter{}
	}
	return params
}

// MarshalJSON emits the standard ABI JSON object shape for the entry's kind,
// with camelCase keys and only the fields legal for that kind.
func (e Entry) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case ConstructorEntry:
		return json.Marshal(struct {
			Type            EntryType       `json:"type"`
			Inputs          []Parameter     `json:"inputs"`
			StateMutability StateMutability `json:"stateMutability"`
		}{e.Type, paramsOrEmpty(e.Inputs), e.StateMutability})
	case FallbackEntry, ReceiveEntry:
		return json.Marshal(struct {
			Type            EntryType       `json:"type"`
			StateMutability StateMutability `json:"stateMutability"`
		}{e.Type, e.StateMutability})
	case FunctionEntry:
		return json.Marshal(struct {
			Type            EntryType       `json:"type"`
			Name            string          `json:"name"`
			Inputs          []Parameter     `json:"inputs"`
			Outputs         []Parameter     `json:"outputs"`
			StateMutability StateMutability `json:"stateMutability"`
		}{e.Type, e.Name, paramsOrEmpty(e.Inputs), paramsOrEmpty(e.Outputs), e.StateMutability})
	case EventEntry:
		return json.Marshal(struct {
			Type      EntryType   `json:"type"`
			Name      string      `json:"name"`
			Inputs    []Parameter `json:"inputs"`
			Anonymous bool        `json:"anonymous"`
		}{e.Type, e.Name, paramsOrEmpty(e.Inputs), e.Anonymous})
	case ErrorEntry:
		return json.Marshal(struct {
			Type   EntryType   `json:"type"`
			Name   string      `json:"name"`
			Inputs []Parameter `json:"inputs"`
		}{e.Type, e.Name, paramsOrEmpty(e.Inputs)})
	default:
		return nil, fmt.Errorf("unknown ABI entry type %q", e.Type)
	}
}

// UnmarshalJSON accepts the standard ABI JSON object shape, defaulting the
// entry type to "function" and the state mutability per kind, and validates
// every parameter type string.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type            EntryType       `json:"type"`
		Name            string          `json:"name"`
		Inputs          []Parameter     `json:"inputs"`
		Outputs         []Parameter     `json:"outputs"`
		StateMutability StateMutability `json:"stateMutability"`
		Anonymous       bool            `json:"anonymous"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == "" {
		raw.Type = FunctionEntry
	}

	entry := Entry{
		Type:            raw.Type,
		Name:            raw.Name,
		Inputs:          paramsOrEmpty(raw.Inputs),
		Outputs:         paramsOrEmpty(raw.Outputs),
		StateMutability: raw.StateMutability,
		Anonymous:       raw.Anonymous,
	}
	switch raw.Type {
	case ConstructorEntry, FunctionEntry:
		if entry.StateMutability == "" {
			entry.StateMutability = NonPayable
		}
		if raw.Type == ConstructorEntry {
			entry.Outputs = nil
		}
	case FallbackEntry:
		if entry.StateMutability == "" {
			entry.StateMutability = NonPayable
		}
		entry.Inputs = nil
		entry.Outputs = nil
	case ReceiveEntry:
		entry.StateMutability = Payable
		entry.Inputs = nil
		entry.Outputs = nil
	case EventEntry, ErrorEntry:
		entry.StateMutability = ""
		entry.Outputs = nil
	default:
		return fmt.Errorf("unknown ABI entry type %q", raw.Type)
	}

	for _, p := range append(append([]Parameter{}, entry.Inputs...), entry.Outputs...) {
		if err := p.resolve(); err != nil {
			return err
		}
	}

	*e = entry
	return nil
}
