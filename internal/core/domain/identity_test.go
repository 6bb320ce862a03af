package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/core/domain"
)

func TestParseTargetID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "//lib/core:core", want: "//lib/core:core"},
		{name: "flavored", input: "//lib/core:core#metadata", want: "//lib/core:core#metadata"},
		{name: "multiple flavors sorted", input: "//app:bin#z,a", want: "//app:bin#a,z"},
		{name: "duplicate flavors collapsed", input: "//app:bin#a,a", want: "//app:bin#a"},
		{name: "missing prefix", input: "lib:core", wantErr: true},
		{name: "missing name", input: "//lib/core", wantErr: true},
		{name: "empty name", input: "//lib/core:", wantErr: true},
		{name: "empty flavor", input: "//lib:core#a,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := domain.ParseTargetID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, domain.ErrInvalidTargetID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
		})
	}
}

func TestTargetID_FlavorsAreOrderInsensitive(t *testing.T) {
	a := domain.NewTargetID("lib", "core", "x", "y")
	b := domain.NewTargetID("lib", "core", "y", "x")
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"x", "y"}, a.Flavors())
}

func TestTargetID_Base(t *testing.T) {
	flavored := domain.NewTargetID("lib", "core", "metadata")
	base := domain.NewTargetID("lib", "core")

	assert.True(t, flavored.IsFlavored())
	assert.False(t, base.IsFlavored())
	assert.Equal(t, base, flavored.Base())
	assert.Equal(t, base, base.Base())
}

func TestTargetID_WithFlavors(t *testing.T) {
	base := domain.NewTargetID("lib", "core")
	child := base.WithFlavors("metadata")

	assert.Equal(t, "//lib:core#metadata", child.String())
	assert.Equal(t, base, child.Base())

	// Appending onto an already flavored identity merges and re-canonicalizes.
	grandchild := child.WithFlavors("alpha")
	assert.Equal(t, "//lib:core#alpha,metadata", grandchild.String())
}

func TestTargetID_Compare(t *testing.T) {
	ids := []domain.TargetID{
		domain.NewTargetID("lib", "core", "metadata"),
		domain.NewTargetID("app", "bin"),
		domain.NewTargetID("lib", "core"),
		domain.NewTargetID("lib", "aux"),
	}

	assert.Negative(t, ids[1].Compare(ids[2]))  // path ordering
	assert.Negative(t, ids[3].Compare(ids[2]))  // name ordering
	assert.Negative(t, ids[2].Compare(ids[0]))  // unflavored before flavored
	assert.Zero(t, ids[2].Compare(domain.NewTargetID("lib", "core")))
}

func TestTargetID_IsZero(t *testing.T) {
	var zero domain.TargetID
	assert.True(t, zero.IsZero())
	assert.False(t, domain.NewTargetID("lib", "core").IsZero())
}
