package archive_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/mappingpoet/archive"
	"github.com/dhamidi/mappingpoet/classfile"
	"github.com/dhamidi/mappingpoet/classfile/classfiletest"
)

func TestScanBuildsStructuralIndex(t *testing.T) {
	base := classfiletest.New("pkg/Base")
	child := classfiletest.New("pkg/Child").Implements("pkg/I1", "pkg/I2")
	child.Super = "pkg/Base"
	i1 := classfiletest.New("pkg/I1")
	i1.Flags = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	i1.Super = classfile.ObjectClass

	entries := classfiletest.Entries(base, child, i1)
	entries = append(entries,
		classfiletest.Entry{Name: "pkg/"},
		classfiletest.Entry{Name: "pkg/readme.txt", Data: []byte("not a class")},
		classfiletest.Entry{Name: "META-INF/versions/9/pkg/Base.class", Data: base.Bytes()},
	)
	path := classfiletest.WriteJar(t, entries...)

	a, err := archive.Scan(context.Background(), path, archive.WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, a.Classes, 3)

	assert.Equal(t, []string{"pkg/Base", "pkg/Child", "pkg/I1"}, a.Index.Names())

	t.Run("object superclass is implicit", func(t *testing.T) {
		info, ok := a.Index.Class("pkg/Base")
		require.True(t, ok)
		assert.Empty(t, info.SuperClass)
		assert.Empty(t, a.Index.Ancestors("pkg/Base"))
	})

	t.Run("superclass before interfaces", func(t *testing.T) {
		assert.Equal(t, []string{"pkg/Base", "pkg/I1", "pkg/I2"}, a.Index.Ancestors("pkg/Child"))
	})

	t.Run("unknown names have no ancestors", func(t *testing.T) {
		assert.Empty(t, a.Index.Ancestors("java/util/List"))
	})
}

func TestScanFailsOnMalformedEntry(t *testing.T) {
	good := classfiletest.New("pkg/Good")
	path := classfiletest.WriteJar(t,
		classfiletest.Entry{Name: "pkg/Good.class", Data: good.Bytes()},
		classfiletest.Entry{Name: "pkg/Bad.class", Data: []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00}},
	)

	a, err := archive.Scan(context.Background(), path)
	require.ErrorIs(t, err, archive.ErrMalformedClass)
	assert.Nil(t, a)
}

func TestScanMissingArchive(t *testing.T) {
	_, err := archive.Scan(context.Background(), t.TempDir()+"/missing.jar")
	require.Error(t, err)
}

func TestNewIndexRejectsCycles(t *testing.T) {
	a := classfiletest.New("pkg/A")
	a.Super = "pkg/B"
	b := classfiletest.New("pkg/B")
	b.Super = "pkg/A"

	path := classfiletest.WriteJar(t, classfiletest.Entries(a, b)...)
	_, err := archive.Scan(context.Background(), path)
	require.ErrorIs(t, err, archive.ErrMalformedClass)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestNewIndexRejectsDuplicates(t *testing.T) {
	cf := &classfile.ClassFile{}
	dup := []*archive.ClassInfo{{Name: "pkg/A", File: cf}, {Name: "pkg/A", File: cf}}
	_, err := archive.NewIndex(dup)
	require.ErrorIs(t, err, archive.ErrMalformedClass)
}
