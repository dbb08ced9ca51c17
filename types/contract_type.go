package types

import (
	"github.com/ethpm/ethpm-go/abi"
	"github.com/ethpm/ethpm-go/sourcemap"
)

// ContractType describes a contract as compiled: its ABI, bytecode objects
// and compiler metadata, independent of any deployment.
type ContractType struct {
	Name               string                 `json:"contractName,omitempty"`
	SourceID           string                 `json:"sourceId,omitempty"`
	DeploymentBytecode *Bytecode              `json:"deploymentBytecode,omitempty"`
	RuntimeBytecode    *Bytecode              `json:"runtimeBytecode,omitempty"`
	ABI                []abi.Entry            `json:"abi,omitempty"`
	SourceMap          *sourcemap.SourceMap   `json:"sourcemap,omitempty"`
	PCMap              sourcemap.PCMap        `json:"pcmap,omitempty"`
	DevMessages        map[string]string      `json:"devMessages,omitempty"`
	UserDoc            map[string]interface{} `json:"userdoc,omitempty"`
	DevDoc             map[string]interface{} `json:"devdoc,omitempty"`
}

func (ct ContractType) entriesOfType(kind abi.EntryType) []abi.Entry {
	var entries []abi.Entry
	for _, entry := range ct.ABI {
		if entry.Type == kind {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Constructor returns the ABI constructor. Contracts without an explicit one
// get the implicit empty non-payable constructor.
func (ct ContractType) Constructor() abi.Entry {
	for _, entry := range ct.ABI {
		if entry.Type == abi.ConstructorEntry {
			return entry
		}
	}
	return abi.Entry{Type: abi.ConstructorEntry, Inputs: []abi.Parameter{}, StateMutability: abi.NonPayable}
}

// Fallback returns the fallback entry, or nil when the contract has none.
func (ct ContractType) Fallback() *abi.Entry {
	for _, entry := range ct.ABI {
		if entry.Type == abi.FallbackEntry {
			e := entry
			return &e
		}
	}
	return nil
}

// Receive returns the receive entry, or nil when the contract has none.
func (ct ContractType) Receive() *abi.Entry {
	for _, entry := range ct.ABI {
		if entry.Type == abi.ReceiveEntry {
			e := entry
			return &e
		}
	}
	return nil
}

// Methods returns all function entries in declaration order.
func (ct ContractType) Methods() []abi.Entry {
	return ct.entriesOfType(abi.FunctionEntry)
}

// ViewMethods returns the functions that cannot modify state.
func (ct ContractType) ViewMethods() []abi.Entry {
	var entries []abi.Entry
	for _, entry := range ct.Methods() {
		if !entry.IsStateful() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// MutableMethods returns the functions that can modify state.
func (ct ContractType) MutableMethods() []abi.Entry {
	var entries []abi.Entry
	for _, entry := range ct.Methods() {
		if entry.IsStateful() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Events returns all event entries.
func (ct ContractType) Events() []abi.Entry {
	return ct.entriesOfType(abi.EventEntry)
}

// Errors returns all error entries.
func (ct ContractType) Errors() []abi.Entry {
	return ct.entriesOfType(abi.ErrorEntry)
}

// MethodIdentifiers maps each function's canonical selector string to its
// 4-byte keccak hash as unprefixed hex, the solc methodIdentifiers shape.
func (ct ContractType) MethodIdentifiers() map[string]string {
	ids := make(map[string]string)
	for _, entry := range ct.Methods() {
		ids[entry.Selector()] = entry.MethodID()
	}
	return ids
}

// MethodBySelector finds the function whose canonical selector string or
// 4-byte hex identifier matches s. Returns nil when nothing matches.
func (ct ContractType) MethodBySelector(s string) *abi.Entry {
	for _, entry := range ct.Methods() {
		if entry.Selector() == s || entry.MethodID() == s {
			e := entry
			return &e
		}
	}
	return nil
}

// EventByName finds the event with the given name. Returns nil when nothing
// matches.
func (ct ContractType) EventByName(name string) *abi.Entry {
	for _, entry := range ct.Events() {
		if entry.Name == name {
			e := entry
			return &e
		}
	}
	return nil
}

// DecodedSourceMap expands the compact runtime source map, if present.
func (ct ContractType) DecodedSourceMap() ([]sourcemap.Entry, error) {
	if ct.SourceMap == nil {
		return nil, nil
	}
	return ct.SourceMap.Decode()
}
