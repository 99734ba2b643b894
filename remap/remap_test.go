package remap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/mappingpoet/remap"
)

func newRemapper() *remap.Remapper {
	return remap.New(map[string]string{
		"out/Block":       "net/minecraft/block/Block",
		"out/Block$Props": "net/minecraft/block/Block$Settings",
		"out/World":       "net/minecraft/world/World",
	})
}

func TestMapOwnerFallsBackToIdentity(t *testing.T) {
	r := newRemapper()
	assert.Equal(t, "net/minecraft/block/Block", r.MapOwner("out/Block"))
	assert.Equal(t, "java/lang/String", r.MapOwner("java/lang/String"))
	assert.Equal(t, "", r.MapOwner(""))
}

func TestMapDescriptors(t *testing.T) {
	r := newRemapper()

	tests := []struct {
		name string
		in   string
		want string
		fn   func(string) string
	}{
		{"primitive field", "I", "I", r.MapFieldDescriptor},
		{"mapped field", "Lout/Block;", "Lnet/minecraft/block/Block;", r.MapFieldDescriptor},
		{"array field", "[[Lout/World;", "[[Lnet/minecraft/world/World;", r.MapFieldDescriptor},
		{"unmapped field", "Ljava/lang/String;", "Ljava/lang/String;", r.MapFieldDescriptor},
		{
			"method mixes mapped and unmapped",
			"(ILout/Block;Ljava/util/List;[Lout/Block$Props;J)Lout/World;",
			"(ILnet/minecraft/block/Block;Ljava/util/List;[Lnet/minecraft/block/Block$Settings;J)Lnet/minecraft/world/World;",
			r.MapMethodDescriptor,
		},
		{"void method", "()V", "()V", r.MapMethodDescriptor},
		{"unterminated reference passes through", "(Lout/Block", "(Lout/Block", r.MapMethodDescriptor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestInverseRoundTrip(t *testing.T) {
	r := newRemapper()
	inv := r.Inverse()

	desc := "(Lout/Block;Ljava/lang/Object;)Lout/World;"
	assert.Equal(t, desc, inv.MapMethodDescriptor(r.MapMethodDescriptor(desc)))
	assert.Equal(t, "out/Block", inv.MapOwner("net/minecraft/block/Block"))
	assert.Equal(t, "java/lang/Object", inv.MapOwner("java/lang/Object"))
}

func TestNewCopiesTable(t *testing.T) {
	table := map[string]string{"a/A": "b/B"}
	r := remap.New(table)
	table["a/A"] = "c/C"
	assert.Equal(t, "b/B", r.MapOwner("a/A"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	props := filepath.Join(dir, "manifest.properties")
	require.NoError(t, os.WriteFile(props, []byte("# rename table\nout/Block=net/minecraft/block/Block\nout/World = net/minecraft/world/World\n"), 0o644))

	yml := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("out/Block: net/minecraft/block/Block\n"), 0o644))

	t.Run("properties", func(t *testing.T) {
		r, err := remap.LoadFile(props)
		require.NoError(t, err)
		assert.Equal(t, 2, r.Len())
		assert.Equal(t, "net/minecraft/world/World", r.MapOwner("out/World"))
	})

	t.Run("yaml", func(t *testing.T) {
		r, err := remap.LoadFile(yml)
		require.NoError(t, err)
		assert.Equal(t, "net/minecraft/block/Block", r.MapOwner("out/Block"))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := remap.LoadFile(filepath.Join(dir, "manifest.json"))
		require.ErrorIs(t, err, remap.ErrUnsupportedTable)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := remap.LoadFile(filepath.Join(dir, "absent.properties"))
		require.Error(t, err)
	})
}

func TestParseProperties(t *testing.T) {
	r, err := remap.ParseProperties("out/A=mapped/A\n")
	require.NoError(t, err)
	assert.Equal(t, "mapped/A", r.MapOwner("out/A"))
}
