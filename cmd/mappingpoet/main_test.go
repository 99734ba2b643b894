package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/mappingpoet/classfile"
	"github.com/dhamidi/mappingpoet/classfile/classfiletest"
	"github.com/dhamidi/mappingpoet/remap"
)

const testMappings = "tiny\t2\t0\tintermediary\tnamed\n" +
	"c\tclass_1\tm/Shape\n" +
	"\tc\tA shape.\n" +
	"\tf\tI\tfield_1\tsides\n" +
	"\t\tc\tNumber of sides.\n" +
	"\tm\t(Lclass_1;D)V\tmethod_1\tscale\n" +
	"\t\tc\tScales by {@code factor}.\n" +
	"\t\tp\t2\t\tfactor\n" +
	"\t\t\tc\tthe factor\n" +
	"c\tclass_2\tm/Square\n"

func setup(t *testing.T) (dir string, args []string) {
	t.Helper()
	t.Chdir(t.TempDir())
	dir = t.TempDir()

	shape := classfiletest.New("o/A").
		Field("sides", "I", classfile.AccPublic).
		Method("scale", "(Lo/A;D)V", classfile.AccPublic)
	square := classfiletest.New("o/B").
		Method("scale", "(Lo/A;D)V", classfile.AccPublic)
	square.Super = "o/A"
	local := classfiletest.New("o/B$1")
	jar := classfiletest.WriteJar(t, classfiletest.Entries(shape, square, local)...)

	mappings := filepath.Join(dir, "mappings.tiny")
	require.NoError(t, os.WriteFile(mappings, []byte(testMappings), 0o644))
	table := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(table, []byte("o/A: m/Shape\no/B: m/Square\n"), 0o644))

	return dir, []string{"--mappings", mappings, "--archive", jar, "--table", table}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	_, flags := setup(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"class", []string{"o/A"}, "A shape.\n"},
		{"field", []string{"o/A.sides:I"}, "Number of sides.\n"},
		{"inherited method", []string{"o/B.scale(Lo/A;D)V"}, "Scales by {@code factor}.\n"},
		{"plain", []string{"o/B.scale(Lo/A;D)V", "--plain"}, "Scales by factor.\n"},
		{"inherited param", []string{"o/B.scale(Lo/A;D)V", "--param", "2"}, "factor\nthe factor\n"},
		{"missing slot", []string{"o/B.scale(Lo/A;D)V", "--param", "1"}, "(no parameter at slot)\n"},
		{"mapped names", []string{"m/Square.scale(Lm/Shape;D)V", "--mapped", "--plain"}, "Scales by factor.\n"},
		{"undocumented", []string{"o/B"}, "(no documentation)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append(append([]string{"lookup"}, flags...), tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestClassesCommand(t *testing.T) {
	_, flags := setup(t)

	out, err := run(t, append([]string{"classes"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "o/A\no/B\nexcluded\to/B$1\n", out)

	out, err = run(t, append([]string{"classes", "--format", "line"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "class\to.A\tpublic\tdoc\n")
	assert.Contains(t, out, "method\tscale\tvoid\to.A:1:arg0,double:2:factor\tpublic\t-\tdoc\n")

	_, err = run(t, append([]string{"classes", "--format", "xml"}, flags...)...)
	assert.ErrorContains(t, err, "unknown format")
}

func TestGenerateCommand(t *testing.T) {
	dir, flags := setup(t)
	output := filepath.Join(dir, "out")

	out, err := run(t, append([]string{"generate", "--output", output}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Files written:   2\n")

	data, err := os.ReadFile(filepath.Join(output, "o", "B.java"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "@param factor the factor"))
}

func TestGeneratePositionalArguments(t *testing.T) {
	dir, flags := setup(t)
	output := filepath.Join(dir, "positional")
	// flags are mappings, archive, table in that order
	args := []string{"generate", flags[1], flags[3], output, flags[5]}

	_, err := run(t, args...)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(output, "o", "A.java"))
}

func TestGenerateMissingInput(t *testing.T) {
	dir, _ := setup(t)
	_, err := run(t, "generate", filepath.Join(dir, "none.tiny"), filepath.Join(dir, "none.jar"), filepath.Join(dir, "out"))
	assert.ErrorContains(t, err, "input missing")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want symbol
		err  bool
	}{
		{in: "a/B", want: symbol{kind: symbolClass, owner: "a/B"}},
		{in: "a/B.f:I", want: symbol{kind: symbolField, owner: "a/B", name: "f", descriptor: "I"}},
		{in: "a/B.m(I)V", want: symbol{kind: symbolMethod, owner: "a/B", name: "m", descriptor: "(I)V"}},
		{in: "a/B.<init>()V", want: symbol{kind: symbolMethod, owner: "a/B", name: "<init>", descriptor: "()V"}},
		{in: "", err: true},
		{in: "a/B.(I)V", err: true},
		{in: "m(I)V", err: true},
		{in: "a/B.f:", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSymbol(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSymbolToArchive(t *testing.T) {
	r := remap.New(map[string]string{"o/A": "m/Shape"})
	sym := symbol{kind: symbolMethod, owner: "m/Shape", name: "c", descriptor: "(Lm/Shape;)V"}

	got := sym.toArchive(r)
	assert.Equal(t, "o/A", got.owner)
	assert.Equal(t, "(Lo/A;)V", got.descriptor)
}
