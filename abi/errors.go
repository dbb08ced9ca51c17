package abi

import "fmt"

// InvalidSignatureError reports a grammar violation in a human-readable
// signature string. The Signature field carries the offending input so the
// caller can surface it without re-parsing.
type InvalidSignatureError struct {
	Signature string
	Reason    string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature %q: %s", e.Signature, e.Reason)
}

// InvalidTypeError reports an unknown elementary keyword or a width/dimension
// violation in an ABI type string.
type InvalidTypeError struct {
	Type   string
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid ABI type %q: %s", e.Type, e.Reason)
}
