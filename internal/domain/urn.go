package domain

import (
	"fmt"
	"strings"
)

// DefaultNamespace is the model namespace used for elements created in the
// editor before the user has saved under an explicit namespace.
const DefaultNamespace = "org.eclipse.examples"

// DefaultVersion is the model version for freshly created files.
const DefaultVersion = "1.0.0"

var (
	activeNamespace = DefaultNamespace
	activeVersion   = DefaultVersion
)

// SetActiveNamespace changes the namespace new element URNs are minted
// under. Empty arguments keep the current value.
func SetActiveNamespace(namespace, version string) {
	if namespace != "" {
		activeNamespace = namespace
	}
	if version != "" {
		activeVersion = version
	}
}

// URNFor builds the element URN for a local name in the active namespace.
func URNFor(name string) string {
	return ElementURN(activeNamespace, activeVersion, name)
}

// ElementURN builds a model element URN from namespace, version, and name.
func ElementURN(namespace, version, name string) string {
	return fmt.Sprintf("urn:samm:%s:%s#%s", namespace, version, name)
}

// LocalName returns the fragment after '#', or the whole URN if there is none.
func LocalName(urn string) string {
	if i := strings.LastIndex(urn, "#"); i >= 0 {
		return urn[i+1:]
	}
	return urn
}

// NamespaceOf returns the URN up to and including '#'.
func NamespaceOf(urn string) string {
	if i := strings.LastIndex(urn, "#"); i >= 0 {
		return urn[:i+1]
	}
	return ""
}

// RenamedURN swaps the local name of a URN, keeping its namespace part.
func RenamedURN(urn, newName string) string {
	return NamespaceOf(urn) + newName
}
