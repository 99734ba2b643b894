package classfile_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dhamidi/mappingpoet/classfile"
	"github.com/dhamidi/mappingpoet/classfile/classfiletest"
)

func TestParseClassFile(t *testing.T) {
	data := classfiletest.New("pkg/Widget").
		Implements("java/lang/Runnable", "pkg/Named").
		Field("name", "Ljava/lang/String;", classfile.AccPrivate).
		Field("COUNT", "I", classfile.AccPublic|classfile.AccStatic|classfile.AccFinal).
		Method("<init>", "()V", classfile.AccPublic).
		Method("run", "()V", classfile.AccPublic).
		Method("helper", "(JI)I", classfile.AccPrivate|classfile.AccStatic).
		Bytes()

	cf, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to parse class file: %v", err)
	}

	t.Run("class name", func(t *testing.T) {
		if got := cf.ClassName(); got != "pkg/Widget" {
			t.Errorf("ClassName() = %q, want %q", got, "pkg/Widget")
		}
	})

	t.Run("super class", func(t *testing.T) {
		if got := cf.SuperClassName(); got != classfile.ObjectClass {
			t.Errorf("SuperClassName() = %q, want %q", got, classfile.ObjectClass)
		}
	})

	t.Run("interfaces keep declaration order", func(t *testing.T) {
		interfaces := cf.InterfaceNames()
		if len(interfaces) != 2 {
			t.Fatalf("Expected 2 interfaces, got %d", len(interfaces))
		}
		if interfaces[0] != "java/lang/Runnable" || interfaces[1] != "pkg/Named" {
			t.Errorf("InterfaceNames() = %v", interfaces)
		}
	})

	t.Run("fields", func(t *testing.T) {
		count := cf.GetField("COUNT")
		if count == nil {
			t.Fatal("Expected to find COUNT field")
		}
		if !count.IsPublic() || !count.IsStatic() || !count.IsFinal() {
			t.Error("COUNT should be public static final")
		}
		name := cf.GetField("name")
		if name == nil {
			t.Fatal("Expected to find name field")
		}
		if got := name.Descriptor(cf.ConstantPool); got != "Ljava/lang/String;" {
			t.Errorf("name descriptor = %q", got)
		}
	})

	t.Run("methods", func(t *testing.T) {
		helper := cf.GetMethod("helper", "(JI)I")
		if helper == nil {
			t.Fatal("Expected to find helper method")
		}
		if !helper.IsPrivate() || !helper.IsStatic() {
			t.Error("helper should be private static")
		}
		if !cf.GetMethod("<init>", "").IsConstructor(cf.ConstantPool) {
			t.Error("<init> should be a constructor")
		}
	})
}

func TestParseNestedAccessFlagsAndExceptions(t *testing.T) {
	c := classfiletest.New("pkg/Outer$Inner")
	c.Inner = []classfiletest.InnerClass{{
		Inner:  "pkg/Outer$Inner",
		Outer:  "pkg/Outer",
		Simple: "Inner",
		Flags:  classfile.AccPrivate | classfile.AccStatic,
	}}
	c.Methods = []classfiletest.Member{{
		Name:       "load",
		Descriptor: "()V",
		Flags:      classfile.AccPublic,
		Exceptions: []string{"java/io/IOException"},
	}}

	cf, err := classfile.Parse(bytes.NewReader(c.Bytes()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	flags, ok := cf.NestedAccessFlags()
	if !ok {
		t.Fatal("Expected InnerClasses entry for the class itself")
	}
	if !flags.IsPrivate() || !flags.IsStatic() {
		t.Errorf("nested flags = %#x, want private static", flags)
	}

	load := cf.GetMethod("load", "()V")
	got := load.ExceptionNames(cf.ConstantPool)
	if len(got) != 1 || got[0] != "java/io/IOException" {
		t.Errorf("ExceptionNames() = %v", got)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	valid := classfiletest.New("pkg/A").Method("m", "()V", classfile.AccPublic).Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte{0xCA, 0xFE, 0xBA, 0xBF}, valid[4:]...)},
		{"truncated", valid[:len(valid)-3]},
		{"zero constant pool", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 0, 0, 52, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classfile.Parse(bytes.NewReader(tt.data))
			if !errors.Is(err, classfile.ErrMalformed) {
				t.Fatalf("Parse() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc       string
		baseType   string
		className  string
		arrayDepth int
		source     string
	}{
		{"I", "int", "", 0, "int"},
		{"Z", "boolean", "", 0, "boolean"},
		{"Ljava/lang/String;", "", "java/lang/String", 0, "java.lang.String"},
		{"[I", "int", "", 1, "int[]"},
		{"[[D", "double", "", 2, "double[][]"},
		{"[Lpkg/Outer$Inner;", "", "pkg/Outer$Inner", 1, "pkg.Outer.Inner[]"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft := classfile.ParseFieldDescriptor(tt.desc)
			if ft == nil {
				t.Fatalf("ParseFieldDescriptor(%q) returned nil", tt.desc)
			}
			if ft.BaseType != tt.baseType {
				t.Errorf("BaseType = %q, want %q", ft.BaseType, tt.baseType)
			}
			if ft.ClassName != tt.className {
				t.Errorf("ClassName = %q, want %q", ft.ClassName, tt.className)
			}
			if ft.ArrayDepth != tt.arrayDepth {
				t.Errorf("ArrayDepth = %d, want %d", ft.ArrayDepth, tt.arrayDepth)
			}
			if got := ft.String(); got != tt.source {
				t.Errorf("String() = %q, want %q", got, tt.source)
			}
		})
	}

	for _, bad := range []string{"", "L;", "Ljava/lang/String", "Q", "II"} {
		if ft := classfile.ParseFieldDescriptor(bad); ft != nil {
			t.Errorf("ParseFieldDescriptor(%q) = %+v, want nil", bad, ft)
		}
	}
}

func TestParameterSlots(t *testing.T) {
	tests := []struct {
		desc   string
		static bool
		want   []int
	}{
		{"()V", false, []int{}},
		{"(I)V", false, []int{1}},
		{"(I)V", true, []int{0}},
		{"(JLjava/lang/String;D[J)V", false, []int{1, 3, 4, 6}},
		{"(DI)I", true, []int{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := classfile.ParseMethodDescriptor(tt.desc)
			if md == nil {
				t.Fatalf("ParseMethodDescriptor(%q) returned nil", tt.desc)
			}
			got := md.ParameterSlots(tt.static)
			if len(got) != len(tt.want) {
				t.Fatalf("ParameterSlots() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParameterSlots() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
