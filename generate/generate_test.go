package generate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/mappingpoet/classfile"
	"github.com/dhamidi/mappingpoet/classfile/classfiletest"
	"github.com/dhamidi/mappingpoet/config"
	"github.com/dhamidi/mappingpoet/generate"
)

const tinyMappings = "tiny\t2\t0\tintermediary\tnamed\n" +
	"c\tclass_1\tm/Base\n" +
	"\tc\tBase docs.\n" +
	"\tm\t()V\tmethod_1\tdescribe\n" +
	"\t\tc\tDescribes.\n" +
	"\tm\t(I)V\tmethod_2\tsetSize\n" +
	"\t\tp\t1\t\tsize\n" +
	"\t\t\tc\tthe size\n" +
	"c\tclass_2\tm/Child\n" +
	"\tc\tChild docs.\n" +
	"c\tclass_2$class_3\tm/Child$Inner\n" +
	"\tc\tInner docs.\n"

const renameTable = `a/Base=m/Base
a/Child=m/Child
a/Child$Inner=m/Child$Inner
`

func fixture(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	base := classfiletest.New("a/Base").
		Method("<init>", "()V", classfile.AccPublic).
		Method("describe", "()V", classfile.AccPublic).
		Method("setSize", "(I)V", classfile.AccPublic)
	child := classfiletest.New("a/Child").
		Method("describe", "()V", classfile.AccPublic).
		Method("setSize", "(I)V", classfile.AccPublic)
	child.Super = "a/Base"
	inner := classfiletest.New("a/Child$Inner")
	inner.Inner = []classfiletest.InnerClass{{
		Inner: "a/Child$Inner", Outer: "a/Child", Simple: "Inner",
		Flags: classfile.AccPublic | classfile.AccStatic,
	}}
	anon := classfiletest.New("a/Child$1")
	other := classfiletest.New("other/Skip")

	jar := classfiletest.WriteJar(t, classfiletest.Entries(base, child, inner, anon, other)...)

	mappingsPath := filepath.Join(dir, "mappings.tiny")
	require.NoError(t, os.WriteFile(mappingsPath, []byte(tinyMappings), 0o644))
	tablePath := filepath.Join(dir, "manifest.properties")
	require.NoError(t, os.WriteFile(tablePath, []byte(renameTable), 0o644))

	cfg := config.Default()
	cfg.Mappings = mappingsPath
	cfg.Archive = jar
	cfg.Table = tablePath
	cfg.Output = filepath.Join(dir, "out")
	cfg.Workers = 2
	cfg.Exclude = []string{"other/**"}
	return cfg
}

func readStub(t *testing.T, cfg *config.Config, class string) string {
	t.Helper()
	data, err := os.ReadFile(generate.StubPath(cfg.Output, class))
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	cfg := fixture(t)

	report, err := generate.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Classes)
	assert.Equal(t, []string{"a/Child$1"}, report.Excluded)
	assert.Equal(t, []string{"other/Skip"}, report.Filtered)
	assert.Equal(t, []string{
		generate.StubPath(cfg.Output, "a/Base"),
		generate.StubPath(cfg.Output, "a/Child"),
	}, report.Files)
	assert.NoFileExists(t, generate.StubPath(cfg.Output, "other/Skip"))
	assert.NoFileExists(t, generate.StubPath(cfg.Output, "a/Child$Inner"))

	child := readStub(t, cfg, "a/Child")
	assert.Contains(t, child, "package a;\n")
	assert.Contains(t, child, " * Child docs.\n")
	assert.Contains(t, child, "public class Child extends a.Base {\n")
	assert.Contains(t, child, "     * Describes.\n     */\n    public void describe() {\n")
	assert.Contains(t, child, "     * @param size the size\n     */\n    public void setSize(int size) {\n")
	assert.Contains(t, child, "     * Inner docs.\n     */\n    public static class Inner {\n")
	assert.NotContains(t, child, "Child$1")

	base := readStub(t, cfg, "a/Base")
	assert.Contains(t, base, " * Base docs.\n")

	assert.Positive(t, report.Stats.MethodMisses)
	assert.Positive(t, report.Stats.Walks)
}

func TestRunCleansOutput(t *testing.T) {
	cfg := fixture(t)
	stale := filepath.Join(cfg.Output, "stale.txt")
	require.NoError(t, os.MkdirAll(cfg.Output, 0o755))
	require.NoError(t, os.WriteFile(stale, nil, 0o644))

	_, err := generate.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestRunKeepsOutputWithoutClean(t *testing.T) {
	cfg := fixture(t)
	cfg.Clean = false
	stale := filepath.Join(cfg.Output, "stale.txt")
	require.NoError(t, os.MkdirAll(cfg.Output, 0o755))
	require.NoError(t, os.WriteFile(stale, nil, 0o644))

	_, err := generate.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.FileExists(t, stale)
}

func TestRunMissingInput(t *testing.T) {
	tests := []struct {
		name    string
		breakIt func(*config.Config)
	}{
		{"mappings", func(c *config.Config) { c.Mappings += ".missing" }},
		{"archive", func(c *config.Config) { c.Archive += ".missing" }},
		{"table", func(c *config.Config) { c.Table += ".missing" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fixture(t)
			tt.breakIt(cfg)

			_, err := generate.Run(context.Background(), cfg)
			require.ErrorIs(t, err, generate.ErrInputMissing)
			assert.NoDirExists(t, cfg.Output, "output must not be touched")
		})
	}
}

func TestRunWithoutTable(t *testing.T) {
	cfg := fixture(t)
	cfg.Table = ""

	report, err := generate.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	child := readStub(t, cfg, "a/Child")
	assert.NotContains(t, child, "Child docs.", "archive names do not match the mappings")
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := fixture(t)
	cfg.Workers = 0
	_, err := generate.Run(context.Background(), cfg)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestFilter(t *testing.T) {
	f, err := generate.NewFilter([]string{"net/**"}, []string{"net/internal/**"})
	require.NoError(t, err)

	assert.True(t, f.Match("net/a/B"))
	assert.False(t, f.Match("net/internal/C"))
	assert.False(t, f.Match("org/D"))

	all, err := generate.NewFilter(nil, nil)
	require.NoError(t, err)
	assert.True(t, all.Match("anything/Goes"))

	_, err = generate.NewFilter([]string{"[bad"}, nil)
	assert.Error(t, err)
}

func TestSessionModel(t *testing.T) {
	cfg := fixture(t)
	session, err := generate.Open(context.Background(), cfg)
	require.NoError(t, err)

	assembled, err := session.Assemble()
	require.NoError(t, err)

	var childModel string
	for _, g := range assembled.Roots {
		if g.Name() == "a/Child" {
			m := session.Model(g)
			require.Len(t, m.Nested, 1)
			childModel = m.Nested[0].Name
		}
	}
	assert.Equal(t, "a.Child.Inner", childModel)
}
