package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeKind discriminates the variants of a TypeDescriptor.
type TypeKind int

const (
	ElementaryType TypeKind = iota
	FixedArrayType
	DynamicArrayType
	TupleType
)

// maxTypeNesting bounds tuple/array nesting so adversarial inputs cannot
// drive the resolver into unbounded recursion.
const maxTypeNesting = 64

// TypeDescriptor is the canonical, validated form of an ABI parameter type.
// It is either an elementary type (Name set), an array over Elem, or a tuple
// over Components.
type TypeDescriptor struct {
	Kind       TypeKind
	Name       string           // canonical elementary name, e.g. "uint256"
	Elem       *TypeDescriptor  // element type for arrays
	Len        int              // length for fixed-size arrays
	Components []TypeDescriptor // ordered members for tuples
}

// String returns the canonical type string: elementary name, parenthesized
// tuple, or element type followed by the array suffix.
func (t TypeDescriptor) String() string {
	switch t.Kind {
	case ElementaryType:
		return t.Name
	case FixedArrayType:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Len)
	case DynamicArrayType:
		return t.Elem.String() + "[]"
	case TupleType:
		inner := make([]string, len(t.Components))
		for i, c := range t.Components {
			inner[i] = c.String()
		}
		return "(" + strings.Join(inner, ",") + ")"
	default:
		return ""
	}
}

// ResolveType canonicalizes a raw ABI type string into a TypeDescriptor,
// validating elementary widths and array dimensions. Bare "uint"/"int" and
// "fixed"/"ufixed" widen to their canonical defaults; "byte" is rejected.
func ResolveType(raw string) (TypeDescriptor, error) {
	desc, rest, err := resolveTypePrefix(strings.TrimSpace(raw), 0)
	if err != nil {
		return TypeDescriptor{}, err
	}
	if rest != "" {
		return TypeDescriptor{}, &InvalidTypeError{Type: raw, Reason: fmt.Sprintf("unexpected trailing input %q", rest)}
	}
	return desc, nil
}

// resolveTypePrefix parses one complete type at the front of s and returns
// the unconsumed remainder.
func resolveTypePrefix(s string, depth int) (TypeDescriptor, string, error) {
	if depth > maxTypeNesting {
		return TypeDescriptor{}, "", &InvalidTypeError{Type: s, Reason: "nesting too deep"}
	}

	var base TypeDescriptor
	var rest string
	if strings.HasPrefix(s, "(") {
		components, remainder, err := resolveTupleComponents(s, depth+1)
		if err != nil {
			return TypeDescriptor{}, "", err
		}
		base = TypeDescriptor{Kind: TupleType, Components: components}
		rest = remainder
	} else {
		end := len(s)
		if i := strings.IndexAny(s, "[,)"); i >= 0 {
			end = i
		}
		name, err := canonicalElementary(s[:end])
		if err != nil {
			return TypeDescriptor{}, "", err
		}
		base = TypeDescriptor{Kind: ElementaryType, Name: name}
		rest = s[end:]
	}

	return resolveArraySuffixes(base, rest)
}

// resolveTupleComponents parses "(T1,T2,...)" starting at the opening paren.
func resolveTupleComponents(s string, depth int) ([]TypeDescriptor, string, error) {
	rest := s[1:] // consume "("
	if strings.HasPrefix(rest, ")") {
		// Zero-component tuple, e.g. from "()" signatures.
		return []TypeDescriptor{}, rest[1:], nil
	}

	var components []TypeDescriptor
	for {
		component, remainder, err := resolveTypePrefix(rest, depth)
		if err != nil {
			return nil, "", err
		}
		components = append(components, component)
		rest = remainder
		if strings.HasPrefix(rest, ",") {
			rest = rest[1:]
			continue
		}
		if strings.HasPrefix(rest, ")") {
			return components, rest[1:], nil
		}
		return nil, "", &InvalidTypeError{Type: s, Reason: "malformed tuple: expected ',' or ')'"}
	}
}

// resolveArraySuffixes applies "[]" and "[N]" suffixes left-to-right. Each
// successive suffix wraps the accumulated type, so the rightmost suffix ends
// up outermost, matching Solidity value ordering.
func resolveArraySuffixes(base TypeDescriptor, s string) (TypeDescriptor, string, error) {
	desc := base
	for strings.HasPrefix(s, "[") {
		close := strings.IndexByte(s, ']')
		if close < 0 {
			return TypeDescriptor{}, "", &InvalidTypeError{Type: s, Reason: "unterminated array suffix"}
		}
		dim := s[1:close]
		s = s[close+1:]

		if dim == "" {
			elem := desc
			desc = TypeDescriptor{Kind: DynamicArrayType, Elem: &elem}
			continue
		}
		length, err := strconv.Atoi(dim)
		if err != nil {
			return TypeDescriptor{}, "", &InvalidTypeError{Type: dim, Reason: "array dimension is not numeric"}
		}
		if length < 0 {
			return TypeDescriptor{}, "", &InvalidTypeError{Type: dim, Reason: "array dimension is negative"}
		}
		elem := desc
		desc = TypeDescriptor{Kind: FixedArrayType, Elem: &elem, Len: length}
	}
	return desc, s, nil
}

// canonicalElementary validates an elementary type keyword and widens the
// width-less shorthands to their canonical forms.
func canonicalElementary(name string) (string, error) {
	switch name {
	case "address", "bool", "string", "bytes":
		return name, nil
	case "uint", "int":
		return name + "256", nil
	case "fixed", "ufixed":
		return name + "128x18", nil
	case "byte":
		return "", &InvalidTypeError{Type: name, Reason: `"byte" is not a valid ABI type, use "bytes1"`}
	case "":
		return "", &InvalidTypeError{Type: name, Reason: "empty type"}
	}

	for _, prefix := range []string{"uint", "int"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			width, err := strconv.Atoi(rest)
			if err != nil {
				return "", &InvalidTypeError{Type: name, Reason: "malformed integer width"}
			}
			if width%8 != 0 || width < 8 || width > 256 {
				return "", &InvalidTypeError{Type: name, Reason: fmt.Sprintf("integer width %d must be a multiple of 8 in [8,256]", width)}
			}
			return name, nil
		}
	}

	if rest, ok := strings.CutPrefix(name, "bytes"); ok {
		width, err := strconv.Atoi(rest)
		if err != nil {
			return "", &InvalidTypeError{Type: name, Reason: "malformed bytes width"}
		}
		if width < 1 || width > 32 {
			return "", &InvalidTypeError{Type: name, Reason: fmt.Sprintf("bytes width %d must be in [1,32]", width)}
		}
		return name, nil
	}

	for _, prefix := range []string{"ufixed", "fixed"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			m, n, found := strings.Cut(rest, "x")
			if !found {
				return "", &InvalidTypeError{Type: name, Reason: "malformed fixed-point width, expected <M>x<N>"}
			}
			mBits, errM := strconv.Atoi(m)
			nDigits, errN := strconv.Atoi(n)
			if errM != nil || errN != nil {
				return "", &InvalidTypeError{Type: name, Reason: "malformed fixed-point width, expected <M>x<N>"}
			}
			if mBits%8 != 0 || mBits < 8 || mBits > 256 {
				return "", &InvalidTypeError{Type: name, Reason: fmt.Sprintf("fixed-point width %d must be a multiple of 8 in [8,256]", mBits)}
			}
			if nDigits < 0 || nDigits > 80 {
				return "", &InvalidTypeError{Type: name, Reason: fmt.Sprintf("fixed-point precision %d must be in [0,80]", nDigits)}
			}
			return name, nil
		}
	}

	return "", &InvalidTypeError{Type: name, Reason: "unknown elementary type"}
}
