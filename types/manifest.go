package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethpm/ethpm-go/common"
	"github.com/ethpm/ethpm-go/log"
)

// ManifestVersion is the only manifest format this package accepts.
const ManifestVersion = "ethpm/3"

// Package names are lowercase alphanumerics and dashes, starting with a
// letter, at most 255 characters.
var packageNameRegexp = regexp.MustCompile(`^[a-z][-a-z0-9]{0,254}$`)

// ValidatePackageName checks a package name against the EIP-2678 grammar.
func ValidatePackageName(name string) error {
	if !packageNameRegexp.MatchString(name) {
		return &ManifestError{Field: "name", Reason: fmt.Sprintf("%q does not match the package name grammar", name)}
	}
	return nil
}

// PackageMeta is the optional descriptive metadata of a package.
type PackageMeta struct {
	Authors     []string          `json:"authors,omitempty"`
	License     string            `json:"license,omitempty"`
	Description string            `json:"description,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
}

// PackageManifest is a full EIP-2678 package manifest. Deployments are keyed
// by BIP-122 chain URI, then by contract instance name. ContractTypes are
// keyed by alias, which equals the contract type name unless the package
// carries two versions of the same contract.
type PackageManifest struct {
	Manifest          string                                 `json:"manifest"`
	Name              string                                 `json:"name,omitempty"`
	Version           string                                 `json:"version,omitempty"`
	Meta              *PackageMeta                           `json:"meta,omitempty"`
	Sources           map[string]Source                      `json:"sources,omitempty"`
	ContractTypes     map[string]ContractType                `json:"contractTypes,omitempty"`
	Compilers         []Compiler                             `json:"compilers,omitempty"`
	Deployments       map[string]map[string]ContractInstance `json:"deployments,omitempty"`
	BuildDependencies map[string]string                      `json:"buildDependencies,omitempty"`
}

// Normalize injects each contract type's alias as its name when the compiler
// output left the name empty.
func (m *PackageManifest) Normalize() {
	for alias, ct := range m.ContractTypes {
		if ct.Name == "" {
			ct.Name = alias
			m.ContractTypes[alias] = ct
		}
	}
}

// Validate checks the manifest against the EIP-2678 rules. The first failure
// wins; a manifest is never partially valid.
func (m *PackageManifest) Validate() error {
	if m.Manifest != ManifestVersion {
		return &ManifestError{Field: "manifest", Reason: fmt.Sprintf("version must be %q, got %q", ManifestVersion, m.Manifest)}
	}
	if (m.Name == "") != (m.Version == "") {
		return &ManifestError{Field: "name", Reason: "name and version must be set together"}
	}
	if m.Name != "" {
		if err := ValidatePackageName(m.Name); err != nil {
			return err
		}
	}
	for alias, ct := range m.ContractTypes {
		if ct.SourceID != "" {
			if _, ok := m.Sources[ct.SourceID]; !ok {
				return &ManifestError{Field: "contractTypes", Reason: fmt.Sprintf("contract type %q references unknown source %q", alias, ct.SourceID)}
			}
		}
		if ct.RuntimeBytecode != nil {
			if err := ct.RuntimeBytecode.Validate(); err != nil {
				return &ManifestError{Field: "contractTypes", Reason: fmt.Sprintf("contract type %q runtime bytecode: %v", alias, err)}
			}
		}
		if ct.DeploymentBytecode != nil {
			if err := ct.DeploymentBytecode.Validate(); err != nil {
				return &ManifestError{Field: "contractTypes", Reason: fmt.Sprintf("contract type %q deployment bytecode: %v", alias, err)}
			}
		}
	}
	for uri, instances := range m.Deployments {
		if err := validateChainURI(uri); err != nil {
			return err
		}
		for name, instance := range instances {
			if instance.ContractType == "" {
				return &ManifestError{Field: "deployments", Reason: fmt.Sprintf("instance %q has no contract type", name)}
			}
		}
	}
	return nil
}

// validateChainURI checks the BIP-122 shape
// blockchain://<genesis hash>/block/<block hash>.
func validateChainURI(uri string) error {
	rest, ok := strings.CutPrefix(uri, "blockchain://")
	if !ok {
		return &ManifestError{Field: "deployments", Reason: fmt.Sprintf("chain URI %q is not a blockchain:// URI", uri)}
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] != "block" {
		return &ManifestError{Field: "deployments", Reason: fmt.Sprintf("chain URI %q is not of the form blockchain://<chain>/block/<hash>", uri)}
	}
	if !common.IsValidHashHex(parts[0]) || !common.IsValidHashHex(parts[2]) {
		return &ManifestError{Field: "deployments", Reason: fmt.Sprintf("chain URI %q has a non-hex hash component", uri)}
	}
	return nil
}

// ParseManifest decodes, normalizes and validates a manifest document.
func ParseManifest(data []byte) (*PackageManifest, error) {
	var manifest PackageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("malformed manifest document: %w", err)
	}
	manifest.Normalize()
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// GetContractType looks a contract type up by alias. Returns nil when the
// manifest has no such type.
func (m *PackageManifest) GetContractType(alias string) *ContractType {
	if ct, ok := m.ContractTypes[alias]; ok {
		return &ct
	}
	return nil
}

// GetCompiler finds the compiler with the given name (case-insensitive) and
// exact version.
func (m *PackageManifest) GetCompiler(name, version string) *Compiler {
	for i := range m.Compilers {
		if m.Compilers[i].Matches(name, version) {
			c := m.Compilers[i]
			return &c
		}
	}
	return nil
}

// GetContractCompiler finds the compiler that claims the named contract type.
func (m *PackageManifest) GetContractCompiler(contractType string) *Compiler {
	for i := range m.Compilers {
		if m.Compilers[i].HasContractType(contractType) {
			c := m.Compilers[i]
			return &c
		}
	}
	return nil
}

// AddCompilers merges compilers into the manifest. A contract type is claimed
// by exactly one compiler, so incoming claims are removed from the compilers
// already present; compilers with the same name and version are merged.
func (m *PackageManifest) AddCompilers(compilers ...Compiler) {
	claimed := make(map[string]bool)
	for _, c := range compilers {
		for _, ct := range c.ContractTypes {
			claimed[ct] = true
		}
	}

	var kept []Compiler
	for _, existing := range m.Compilers {
		var remaining []string
		for _, ct := range existing.ContractTypes {
			if !claimed[ct] {
				remaining = append(remaining, ct)
			}
		}
		if len(remaining) == 0 && len(existing.ContractTypes) > 0 {
			continue
		}
		existing.ContractTypes = remaining
		kept = append(kept, existing)
	}

	for _, incoming := range compilers {
		merged := false
		for i := range kept {
			if kept[i].Matches(incoming.Name, incoming.Version) {
				kept[i].ContractTypes = append(kept[i].ContractTypes, incoming.ContractTypes...)
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, incoming)
		}
	}
	m.Compilers = kept
}

// Assemble builds a validated manifest from compiler output. Contract types
// that fail their own validation are skipped with a warning; failures in the
// core fields (name, version) abort the whole assembly.
func Assemble(name, version string, sources map[string]Source, contractTypes []ContractType, compilers []Compiler) (*PackageManifest, error) {
	manifest := &PackageManifest{
		Manifest: ManifestVersion,
		Name:     name,
		Version:  version,
		Sources:  sources,
	}
	if (name == "") != (version == "") {
		return nil, &ManifestError{Field: "name", Reason: "name and version must be set together"}
	}
	if name != "" {
		if err := ValidatePackageName(name); err != nil {
			return nil, err
		}
	}

	for _, ct := range contractTypes {
		if ct.Name == "" {
			log.Warn(log.ManifestModule, "skipping contract type with no name", "sourceId", ct.SourceID)
			continue
		}
		if ct.SourceID != "" {
			if _, ok := sources[ct.SourceID]; !ok {
				log.Warn(log.ManifestModule, "skipping contract type with unknown source", "contractType", ct.Name, "sourceId", ct.SourceID)
				continue
			}
		}
		if ct.RuntimeBytecode != nil {
			if err := ct.RuntimeBytecode.Validate(); err != nil {
				log.Warn(log.ManifestModule, "skipping contract type with invalid runtime bytecode", "contractType", ct.Name, "err", err)
				continue
			}
		}
		if ct.DeploymentBytecode != nil {
			if err := ct.DeploymentBytecode.Validate(); err != nil {
				log.Warn(log.ManifestModule, "skipping contract type with invalid deployment bytecode", "contractType", ct.Name, "err", err)
				continue
			}
		}
		if manifest.ContractTypes == nil {
			manifest.ContractTypes = make(map[string]ContractType)
		}
		manifest.ContractTypes[ct.Name] = ct
	}
	manifest.AddCompilers(compilers...)

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}
