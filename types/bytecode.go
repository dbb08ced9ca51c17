package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/exp/slices"

	"github.com/ethpm/ethpm-go/common"
	"github.com/ethpm/ethpm-go/log"
)

// LinkReference marks a symbolic placeholder inside unlinked bytecode: the
// same Length-byte hole at every listed offset, all standing for Name.
type LinkReference struct {
	Offsets []int  `json:"offsets"`
	Length  int    `json:"length"`
	Name    string `json:"name,omitempty"`
}

// LinkDependency records a value that has been substituted into the bytecode,
// so a consumer can reproduce (or undo) the linking.
type LinkDependency struct {
	Offsets []int  `json:"offsets"`
	Type    string `json:"type"`
	Value   string `json:"value"`
}

// LiteralDependency is the LinkDependency type for values substituted
// directly, as opposed to references into another package.
const LiteralDependency = "literal"

// Bytecode is an EIP-2678 bytecode object: the raw bytes plus the link
// references still unresolved and the link dependencies already applied.
type Bytecode struct {
	Bytecode         hexutil.Bytes    `json:"bytecode,omitempty"`
	LinkReferences   []LinkReference  `json:"linkReferences,omitempty"`
	LinkDependencies []LinkDependency `json:"linkDependencies,omitempty"`
}

// NewBytecode builds a Bytecode from a hex string (0x prefix optional) and
// validates the link references against it. Malformed hex is rejected whole;
// the bytecode is never truncated or padded to recover.
func NewBytecode(raw string, refs []LinkReference) (Bytecode, error) {
	var code []byte
	if raw != "" {
		prefixed := raw
		if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
			prefixed = "0x" + raw
		}
		decoded, err := hexutil.Decode(prefixed)
		if err != nil {
			return Bytecode{}, fmt.Errorf("invalid bytecode hex %q: %w", raw, err)
		}
		code = decoded
	}
	b := Bytecode{Bytecode: code, LinkReferences: refs}
	if err := b.Validate(); err != nil {
		return Bytecode{}, err
	}
	return b, nil
}

// Validate checks every link reference: positive length, offsets in bounds,
// and no two referenced ranges overlapping.
func (b Bytecode) Validate() error {
	type span struct {
		start  int
		length int
		name   string
	}
	var spans []span

	for _, ref := range b.LinkReferences {
		if ref.Length < 1 {
			return &LinkError{Name: ref.Name, Reason: fmt.Sprintf("non-positive length %d", ref.Length)}
		}
		for _, off := range ref.Offsets {
			if off < 0 || off+ref.Length > len(b.Bytecode) {
				return &LinkError{Name: ref.Name, Offset: off, Reason: fmt.Sprintf("range [%d,%d) outside bytecode of %d bytes", off, off+ref.Length, len(b.Bytecode))}
			}
			spans = append(spans, span{start: off, length: ref.Length, name: ref.Name})
		}
	}

	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })
	for i := 1; i < len(spans); i++ {
		prev := spans[i-1]
		if spans[i].start < prev.start+prev.length {
			return &LinkError{Name: spans[i].name, Offset: spans[i].start, Reason: fmt.Sprintf("overlaps reference %q at offset %d", prev.name, prev.start)}
		}
	}
	return nil
}

// Link substitutes resolved addresses into every matching link reference and
// returns a new Bytecode; the receiver is never modified. References with no
// resolution are carried over untouched, so linking is idempotent: a second
// call with the same resolutions finds nothing left to do.
func (b Bytecode) Link(resolutions map[string]common.Address) (Bytecode, error) {
	if err := b.Validate(); err != nil {
		return Bytecode{}, err
	}

	code := make(hexutil.Bytes, len(b.Bytecode))
	copy(code, b.Bytecode)
	deps := slices.Clone(b.LinkDependencies)

	var remaining []LinkReference
	for _, ref := range b.LinkReferences {
		addr, ok := resolutions[ref.Name]
		if !ok {
			remaining = append(remaining, ref)
			continue
		}
		if ref.Length != common.AddressLength {
			return Bytecode{}, &LinkError{Name: ref.Name, Reason: fmt.Sprintf("length %d does not fit a %d-byte address", ref.Length, common.AddressLength)}
		}
		for _, off := range ref.Offsets {
			copy(code[off:off+ref.Length], addr.Bytes())
		}
		deps = append(deps, LinkDependency{
			Offsets: slices.Clone(ref.Offsets),
			Type:    LiteralDependency,
			Value:   addr.Hex(),
		})
		log.Debug(log.BytecodeModule, "linked reference", "name", ref.Name, "address", addr.Hex(), "offsets", ref.Offsets)
	}

	return Bytecode{Bytecode: code, LinkReferences: remaining, LinkDependencies: deps}, nil
}

// IsFullyLinked reports whether no unresolved link references remain.
func (b Bytecode) IsFullyLinked() bool {
	return len(b.LinkReferences) == 0
}

// IsEmpty reports whether the object carries no bytecode at all. Compilers
// emit empty bytecode objects for interfaces and abstract contracts.
func (b Bytecode) IsEmpty() bool {
	return len(b.Bytecode) == 0
}

// solc build artifacts key link references by source path, then by library
// name, with start/length pairs per occurrence.
type solcLinkOffset struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// ParseSolcLinkReferences flattens the solc artifact linkReferences shape
// into the manifest form: one LinkReference per library, offsets merged
// across source files and sorted. All occurrences of a library must share a
// single length.
func ParseSolcLinkReferences(raw json.RawMessage) ([]LinkReference, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var files map[string]map[string][]solcLinkOffset
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("malformed solc link references: %w", err)
	}

	merged := make(map[string]*LinkReference)
	for _, symbols := range files {
		for name, occurrences := range symbols {
			for _, occ := range occurrences {
				ref, ok := merged[name]
				if !ok {
					ref = &LinkReference{Length: occ.Length, Name: name}
					merged[name] = ref
				}
				if occ.Length != ref.Length {
					return nil, &LinkError{Name: name, Offset: occ.Start, Reason: fmt.Sprintf("inconsistent lengths %d and %d", ref.Length, occ.Length)}
				}
				ref.Offsets = append(ref.Offsets, occ.Start)
			}
		}
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	slices.Sort(names)

	refs := make([]LinkReference, 0, len(names))
	for _, name := range names {
		ref := merged[name]
		slices.Sort(ref.Offsets)
		refs = append(refs, *ref)
	}
	return refs, nil
}
