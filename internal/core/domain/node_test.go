package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mason/internal/core/domain"
)

func libTarget(name string) domain.TargetID {
	return domain.NewTargetID("lib", name)
}

func TestTargetNode_Equal(t *testing.T) {
	id := libTarget("core")
	dep1 := libTarget("dep1")
	dep2 := libTarget("dep2")

	base := domain.NewTargetNode(id, "genrule", true,
		[]domain.TargetID{dep1, dep2}, nil, nil,
		map[string]any{"cmd": "build"})

	t.Run("same values are equal", func(t *testing.T) {
		other := domain.NewTargetNode(id, "genrule", true,
			[]domain.TargetID{dep1, dep2}, nil, nil,
			map[string]any{"cmd": "build"})
		assert.True(t, base.Equal(other))
		assert.Equal(t, base.Fingerprint(), other.Fingerprint())
	})

	t.Run("dep order is insignificant", func(t *testing.T) {
		other := domain.NewTargetNode(id, "genrule", true,
			[]domain.TargetID{dep2, dep1}, nil, nil,
			map[string]any{"cmd": "build"})
		assert.True(t, base.Equal(other))
	})

	t.Run("changed args are unequal", func(t *testing.T) {
		other := domain.NewTargetNode(id, "genrule", true,
			[]domain.TargetID{dep1, dep2}, nil, nil,
			map[string]any{"cmd": "rebuild"})
		assert.False(t, base.Equal(other))
	})

	t.Run("changed cacheability is unequal", func(t *testing.T) {
		other := domain.NewTargetNode(id, "genrule", false,
			[]domain.TargetID{dep1, dep2}, nil, nil,
			map[string]any{"cmd": "build"})
		assert.False(t, base.Equal(other))
	})

	t.Run("changed kind is unequal", func(t *testing.T) {
		other := domain.NewTargetNode(id, "bundle", true,
			[]domain.TargetID{dep1, dep2}, nil, nil,
			map[string]any{"cmd": "build"})
		assert.False(t, base.Equal(other))
	})

	t.Run("dependency class matters", func(t *testing.T) {
		other := domain.NewTargetNode(id, "genrule", true,
			[]domain.TargetID{dep1}, []domain.TargetID{dep2}, nil,
			map[string]any{"cmd": "build"})
		assert.False(t, base.Equal(other))
	})

	t.Run("graph-only deps participate in equality", func(t *testing.T) {
		other := domain.NewTargetNode(id, "genrule", true,
			[]domain.TargetID{dep1, dep2}, nil, []domain.TargetID{libTarget("meta")},
			map[string]any{"cmd": "build"})
		assert.False(t, base.Equal(other))
	})
}

func TestTargetNode_ArgFingerprintIsCanonical(t *testing.T) {
	id := libTarget("core")
	a := domain.NewTargetNode(id, "genrule", true, nil, nil, nil,
		map[string]any{"outs": []any{"a.o", "b.o"}, "cmd": "cc"})
	b := domain.NewTargetNode(id, "genrule", true, nil, nil, nil,
		map[string]any{"cmd": "cc", "outs": []any{"a.o", "b.o"}})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := domain.NewTargetNode(id, "genrule", true, nil, nil, nil,
		map[string]any{"cmd": "cc", "outs": []any{"b.o", "a.o"}})
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestTargetNode_DepUnions(t *testing.T) {
	declared := libTarget("declared")
	extra := libTarget("extra")
	graphOnly := libTarget("graphonly")

	node := domain.NewTargetNode(libTarget("core"), "genrule", true,
		[]domain.TargetID{declared},
		[]domain.TargetID{extra, declared},
		[]domain.TargetID{graphOnly},
		nil)

	assert.Equal(t, []domain.TargetID{declared}, node.DeclaredDeps())
	assert.Equal(t, []domain.TargetID{declared, extra}, node.StaticDeps())
	assert.Equal(t, []domain.TargetID{declared, extra, graphOnly}, node.AllDeps())
}

func TestTargetNode_Arg(t *testing.T) {
	node := domain.NewTargetNode(libTarget("core"), "genrule", true, nil, nil, nil,
		map[string]any{"cmd": "build"})

	v, ok := node.Arg("cmd")
	assert.True(t, ok)
	assert.Equal(t, "build", v)

	_, ok = node.Arg("missing")
	assert.False(t, ok)
}
