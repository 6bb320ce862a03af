// Package domain contains the core domain models for the target graph and
// the realized action graph.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// TargetID uniquely identifies a build target: a root-relative package path,
// a target name, and an ordered set of flavor tags selecting a specialized
// construction path. Identities are value-comparable and totally ordered,
// and stay stable across generations for the same logical target.
//
// The textual form is "//path/to/pkg:name" with an optional "#flav1,flav2"
// suffix. Flavors are kept sorted and deduplicated so that the same flavor
// set always produces the same identity.
type TargetID struct {
	path    InternedString
	name    InternedString
	flavors InternedString // canonical comma-joined form, empty when unflavored
}

// NewTargetID creates a TargetID from a package path, a name, and optional flavors.
func NewTargetID(path, name string, flavors ...string) TargetID {
	return TargetID{
		path:    NewInternedString(path),
		name:    NewInternedString(name),
		flavors: NewInternedString(canonicalFlavors(flavors)),
	}
}

// ParseTargetID parses the textual form "//path:name#flavors".
func ParseTargetID(s string) (TargetID, error) {
	rest, ok := strings.CutPrefix(s, "//")
	if !ok {
		return TargetID{}, zerr.With(zerr.With(ErrInvalidTargetID, "target", s), "reason", "missing // prefix")
	}

	rest, flavorPart, _ := cutLast(rest, "#")
	path, name, ok := cutLast(rest, ":")
	if !ok || name == "" {
		return TargetID{}, zerr.With(zerr.With(ErrInvalidTargetID, "target", s), "reason", "missing target name")
	}

	var flavors []string
	if flavorPart != "" {
		flavors = strings.Split(flavorPart, ",")
		for _, f := range flavors {
			if f == "" {
				return TargetID{}, zerr.With(zerr.With(ErrInvalidTargetID, "target", s), "reason", "empty flavor")
			}
		}
	}

	return NewTargetID(path, name, flavors...), nil
}

// cutLast cuts s around the last occurrence of sep.
func cutLast(s, sep string) (before, after string, found bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

func canonicalFlavors(flavors []string) string {
	if len(flavors) == 0 {
		return ""
	}
	sorted := slices.Clone(flavors)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), ",")
}

// Path returns the root-relative package path.
func (id TargetID) Path() string { return id.path.String() }

// Name returns the target name.
func (id TargetID) Name() string { return id.name.String() }

// Flavors returns the flavor tags in canonical order.
func (id TargetID) Flavors() []string {
	if id.flavors.IsZero() || id.flavors.String() == "" {
		return nil
	}
	return strings.Split(id.flavors.String(), ",")
}

// IsFlavored reports whether the identity carries any flavor tags.
func (id TargetID) IsFlavored() bool {
	return !id.flavors.IsZero() && id.flavors.String() != ""
}

// Base returns the identity with all flavors stripped. Flavored variants of
// a target share a base identity; rule reuse is decided per base group.
func (id TargetID) Base() TargetID {
	return TargetID{path: id.path, name: id.name, flavors: NewInternedString("")}
}

// WithFlavors returns a new identity with the given flavors appended to the
// existing ones. Factories use this to synthesize child rule identities that
// have no standalone target node.
func (id TargetID) WithFlavors(flavors ...string) TargetID {
	merged := append(id.Flavors(), flavors...)
	return TargetID{
		path:    id.path,
		name:    id.name,
		flavors: NewInternedString(canonicalFlavors(merged)),
	}
}

// String returns the canonical textual form.
func (id TargetID) String() string {
	s := "//" + id.path.String() + ":" + id.name.String()
	if id.IsFlavored() {
		s += "#" + id.flavors.String()
	}
	return s
}

// Compare orders identities by path, then name, then flavors.
func (id TargetID) Compare(other TargetID) int {
	if c := strings.Compare(id.path.String(), other.path.String()); c != 0 {
		return c
	}
	if c := strings.Compare(id.name.String(), other.name.String()); c != 0 {
		return c
	}
	return strings.Compare(id.flavors.String(), other.flavors.String())
}

// IsZero reports whether the identity is the zero value.
func (id TargetID) IsZero() bool {
	return id == TargetID{}
}
