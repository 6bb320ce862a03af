package domain

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// TargetNode is the immutable description of one build target. Two nodes are
// value-equal iff identity, description kind, cacheability, all three
// dependency classes, and arguments are equal; value equality, not instance
// identity, drives cache validity across generations.
type TargetNode struct {
	id        TargetID
	kind      InternedString
	cacheable bool

	declaredDeps        []TargetID
	extraDeps           []TargetID
	targetGraphOnlyDeps []TargetID

	args map[string]any

	// fingerprint covers every field above; differing fingerprints are a
	// fast path for inequality and feed the whole-graph fingerprint.
	fingerprint uint64
}

// NewTargetNode creates a TargetNode. Dependency slices are copied, sorted,
// and deduplicated so that equality is insensitive to declaration order.
func NewTargetNode(
	id TargetID,
	kind string,
	cacheable bool,
	declaredDeps, extraDeps, targetGraphOnlyDeps []TargetID,
	args map[string]any,
) TargetNode {
	n := TargetNode{
		id:                  id,
		kind:                NewInternedString(kind),
		cacheable:           cacheable,
		declaredDeps:        normalizeDeps(declaredDeps),
		extraDeps:           normalizeDeps(extraDeps),
		targetGraphOnlyDeps: normalizeDeps(targetGraphOnlyDeps),
		args:                args,
	}
	n.fingerprint = n.computeFingerprint()
	return n
}

func normalizeDeps(deps []TargetID) []TargetID {
	if len(deps) == 0 {
		return nil
	}
	sorted := slices.Clone(deps)
	slices.SortFunc(sorted, TargetID.Compare)
	return slices.Compact(sorted)
}

// ID returns the node's identity.
func (n TargetNode) ID() TargetID { return n.id }

// Kind returns the description kind that selects the rule factory.
func (n TargetNode) Kind() InternedString { return n.kind }

// Cacheable reports whether the node's constructed subtree may be reused
// across generations. An uncacheable node is rebuilt every generation and
// dirties every ancestor.
func (n TargetNode) Cacheable() bool { return n.cacheable }

// DeclaredDeps returns the deps explicitly authored on the target.
func (n TargetNode) DeclaredDeps() []TargetID { return n.declaredDeps }

// ExtraDeps returns deps inferred by tooling that dependents still wait on.
func (n TargetNode) ExtraDeps() []TargetID { return n.extraDeps }

// TargetGraphOnlyDeps returns deps that shape graph-level metadata but are
// not passed to rule construction. They still participate in value equality.
func (n TargetNode) TargetGraphOnlyDeps() []TargetID { return n.targetGraphOnlyDeps }

// StaticDeps returns the union of declared and extra deps: the set resolved
// into rules.
func (n TargetNode) StaticDeps() []TargetID {
	return normalizeDeps(slices.Concat(n.declaredDeps, n.extraDeps))
}

// AllDeps returns the union of all three dependency classes: the set that
// drives invalidation propagation.
func (n TargetNode) AllDeps() []TargetID {
	return normalizeDeps(slices.Concat(n.declaredDeps, n.extraDeps, n.targetGraphOnlyDeps))
}

// Arg returns a single construction argument.
func (n TargetNode) Arg(key string) (any, bool) {
	v, ok := n.args[key]
	return v, ok
}

// Fingerprint returns the node's content fingerprint.
func (n TargetNode) Fingerprint() uint64 { return n.fingerprint }

// Equal reports value equality per the cache-validity contract.
func (n TargetNode) Equal(other TargetNode) bool {
	if n.fingerprint != other.fingerprint {
		return false
	}
	return n.id == other.id &&
		n.kind == other.kind &&
		n.cacheable == other.cacheable &&
		slices.Equal(n.declaredDeps, other.declaredDeps) &&
		slices.Equal(n.extraDeps, other.extraDeps) &&
		slices.Equal(n.targetGraphOnlyDeps, other.targetGraphOnlyDeps)
}

func (n TargetNode) computeFingerprint() uint64 {
	d := xxhash.New()
	writeString(d, n.id.String())
	writeString(d, n.kind.String())
	writeString(d, strconv.FormatBool(n.cacheable))
	for _, class := range [][]TargetID{n.declaredDeps, n.extraDeps, n.targetGraphOnlyDeps} {
		_, _ = d.WriteString("{")
		for _, dep := range class {
			writeString(d, dep.String())
		}
		_, _ = d.WriteString("}")
	}
	writeValue(d, n.args)
	return d.Sum64()
}

func writeString(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(strconv.Itoa(len(s)))
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(s)
}

// writeValue hashes an argument value in a canonical form: map keys are
// visited in sorted order and every value carries a type tag, so two args
// maps hash identically iff they would compare deep-equal.
func writeValue(d *xxhash.Digest, v any) {
	switch val := v.(type) {
	case nil:
		_, _ = d.WriteString("z")
	case bool:
		_, _ = d.WriteString("b")
		writeString(d, strconv.FormatBool(val))
	case int:
		_, _ = d.WriteString("i")
		writeString(d, strconv.Itoa(val))
	case int64:
		_, _ = d.WriteString("i")
		writeString(d, strconv.FormatInt(val, 10))
	case float64:
		_, _ = d.WriteString("f")
		writeString(d, strconv.FormatFloat(val, 'g', -1, 64))
	case string:
		_, _ = d.WriteString("s")
		writeString(d, val)
	case []any:
		_, _ = d.WriteString("l")
		writeString(d, strconv.Itoa(len(val)))
		for _, item := range val {
			writeValue(d, item)
		}
	case []string:
		_, _ = d.WriteString("l")
		writeString(d, strconv.Itoa(len(val)))
		for _, item := range val {
			writeValue(d, item)
		}
	case map[string]any:
		_, _ = d.WriteString("m")
		writeString(d, strconv.Itoa(len(val)))
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeString(d, k)
			writeValue(d, val[k])
		}
	default:
		_, _ = d.WriteString("v")
		writeString(d, fmt.Sprintf("%T:%v", val, val))
	}
}
