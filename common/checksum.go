package common

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm identifies a checksum algorithm usable in manifest checksum
// objects. EIP-2678 names the algorithm alongside the hash so consumers can
// verify source contents without guessing.
type Algorithm string

const (
	MD5       Algorithm = "md5"
	SHA256    Algorithm = "sha256"
	Keccak256 Algorithm = "keccak256"
)

// ComputeChecksum computes the hex digest (no 0x prefix) of data under the
// given algorithm.
func ComputeChecksum(data []byte, algorithm Algorithm) (string, error) {
	switch algorithm {
	case MD5:
		sum := md5.Sum(data)
		return fmt.Sprintf("%x", sum[:]), nil
	case SHA256:
		sum := sha256.Sum256(data)
		return fmt.Sprintf("%x", sum[:]), nil
	case Keccak256:
		return fmt.Sprintf("%x", ComputeKeccak256(data)), nil
	default:
		return "", fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}
}

// ComputeKeccak256 computes the legacy Keccak-256 hash used for ABI
// selectors and event topics.
func ComputeKeccak256(data []byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	return hash.Sum(nil)
}

// Keccak256Hash computes the Keccak-256 hash of data as a Hash.
func Keccak256Hash(data []byte) Hash {
	return BytesToHash(ComputeKeccak256(data))
}

// IsValidHashHex reports whether data looks like a hex digest: an even number
// of hex characters, optionally 0x-prefixed.
func IsValidHashHex(data string) bool {
	data = strings.TrimPrefix(strings.ToLower(data), "0x")
	if len(data) == 0 || len(data)%2 != 0 {
		return false
	}
	for _, c := range data {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}
