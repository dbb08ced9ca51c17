package types

import "fmt"

// LinkError reports an invalid link reference or a failed substitution. The
// first error encountered wins; no partial linking is performed.
type LinkError struct {
	Name   string
	Offset int
	Reason string
}

func (e *LinkError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("link reference at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("link reference %q at offset %d: %s", e.Name, e.Offset, e.Reason)
}

// ManifestError reports a manifest that fails EIP-2678 validation. Field
// names the offending manifest field.
type ManifestError struct {
	Field  string
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid manifest field %q: %s", e.Field, e.Reason)
}
