package types

import (
	"fmt"
	"sort"

	"github.com/xlab/treeprint"
)

// ToTree renders the manifest as a tree of its contract types, sources,
// compilers and deployments.
func (m *PackageManifest) ToTree() treeprint.Tree {
	tree := treeprint.New()
	title := m.Name
	if title == "" {
		title = "(unnamed package)"
	}
	if m.Version != "" {
		title = fmt.Sprintf("%s@%s", title, m.Version)
	}
	tree.SetValue(title)

	if len(m.ContractTypes) > 0 {
		branch := tree.AddBranch("contractTypes")
		for _, alias := range sortedKeys(m.ContractTypes) {
			ct := m.ContractTypes[alias]
			node := branch.AddBranch(alias)
			if ct.SourceID != "" {
				node.AddNode(fmt.Sprintf("source: %s", ct.SourceID))
			}
			node.AddNode(fmt.Sprintf("abi: %d entries", len(ct.ABI)))
			for _, method := range ct.Methods() {
				node.AddNode(method.Selector())
			}
			for _, event := range ct.Events() {
				node.AddNode("event " + event.Selector())
			}
		}
	}

	if len(m.Sources) > 0 {
		branch := tree.AddBranch("sources")
		for _, id := range sortedKeys(m.Sources) {
			src := m.Sources[id]
			if src.IsInlined() {
				branch.AddNode(fmt.Sprintf("%s (%d lines)", id, len(src.Lines())))
			} else {
				branch.AddNode(fmt.Sprintf("%s (%d urls)", id, len(src.URLs)))
			}
		}
	}

	if len(m.Compilers) > 0 {
		branch := tree.AddBranch("compilers")
		for _, c := range m.Compilers {
			branch.AddNode(fmt.Sprintf("%s %s", c.Name, c.Version))
		}
	}

	if len(m.Deployments) > 0 {
		branch := tree.AddBranch("deployments")
		for _, uri := range sortedKeys(m.Deployments) {
			node := branch.AddBranch(uri)
			instances := m.Deployments[uri]
			for _, name := range sortedKeys(instances) {
				instance := instances[name]
				label := fmt.Sprintf("%s @ %s", name, instance.Address.Hex())
				if instance.HasReceipt() {
					label += fmt.Sprintf(" (tx %s)", instance.Transaction.StringShort())
				}
				node.AddNode(label)
			}
		}
	}
	return tree
}

// Describe returns the printable tree rendering of the manifest.
func (m *PackageManifest) Describe() string {
	return m.ToTree().String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
