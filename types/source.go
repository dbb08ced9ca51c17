package types

import (
	"fmt"
	"strings"

	"github.com/ethpm/ethpm-go/common"
)

// Checksum pairs a hash with the algorithm that produced it so that source
// contents can be verified without guessing.
type Checksum struct {
	Algorithm common.Algorithm `json:"algorithm"`
	Hash      string           `json:"hash"`
}

// NewChecksum computes the checksum of content under the given algorithm.
func NewChecksum(content []byte, algorithm common.Algorithm) (Checksum, error) {
	digest, err := common.ComputeChecksum(content, algorithm)
	if err != nil {
		return Checksum{}, err
	}
	return Checksum{Algorithm: algorithm, Hash: digest}, nil
}

// Verify recomputes the checksum of content and compares it to the stored
// hash. A 0x prefix on either side is ignored.
func (c Checksum) Verify(content []byte) error {
	digest, err := common.ComputeChecksum(content, c.Algorithm)
	if err != nil {
		return err
	}
	expected := strings.TrimPrefix(strings.ToLower(c.Hash), "0x")
	if digest != expected {
		return fmt.Errorf("checksum mismatch: computed %s %s, manifest has %s", c.Algorithm, digest, c.Hash)
	}
	return nil
}

// Source is one source-file entry of a manifest: inlined content, or URLs to
// fetch it from together with a checksum to verify the fetch.
type Source struct {
	URLs        []string  `json:"urls,omitempty"`
	Checksum    *Checksum `json:"checksum,omitempty"`
	Content     string    `json:"content,omitempty"`
	InstallPath string    `json:"installPath,omitempty"`
	Type        string    `json:"type,omitempty"`
	License     string    `json:"license,omitempty"`
}

// IsInlined reports whether the source carries its content directly.
func (s Source) IsInlined() bool {
	return s.Content != ""
}

// Lines splits the inlined content into lines, tolerating both \n and \r\n.
func (s Source) Lines() []string {
	if s.Content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s.Content, "\r\n", "\n"), "\n")
}

// CalculateChecksum computes the checksum of the inlined content.
func (s Source) CalculateChecksum(algorithm common.Algorithm) (Checksum, error) {
	if !s.IsInlined() {
		return Checksum{}, fmt.Errorf("source has no inlined content to checksum")
	}
	return NewChecksum([]byte(s.Content), algorithm)
}

// VerifyChecksum checks the inlined content against the stored checksum.
func (s Source) VerifyChecksum() error {
	if s.Checksum == nil {
		return fmt.Errorf("source has no checksum")
	}
	if !s.IsInlined() {
		return fmt.Errorf("source has no inlined content to verify")
	}
	return s.Checksum.Verify([]byte(s.Content))
}

// Compiler records the compiler that produced a set of contract types.
type Compiler struct {
	Name          string                 `json:"name"`
	Version       string                 `json:"version"`
	Settings      map[string]interface{} `json:"settings,omitempty"`
	ContractTypes []string               `json:"contractTypes,omitempty"`
}

// Matches reports whether the compiler has the given name (case-insensitive)
// and, when version is non-empty, the exact version.
func (c Compiler) Matches(name, version string) bool {
	if !strings.EqualFold(c.Name, name) {
		return false
	}
	return version == "" || c.Version == version
}

// HasContractType reports whether the compiler claims the named contract type.
func (c Compiler) HasContractType(name string) bool {
	for _, ct := range c.ContractTypes {
		if ct == name {
			return true
		}
	}
	return false
}
