package java

import (
	"strings"

	"github.com/dhamidi/mappingpoet/classfile"
)

// Type is a Java source type: a primitive, void, or a dotted class name,
// with a number of array dimensions.
type Type struct {
	Name       string
	ArrayDepth int
}

func (t Type) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (t Type) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t Type) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

// ElementType strips one array dimension.
func (t Type) ElementType() Type {
	if t.ArrayDepth == 0 {
		return t
	}
	return Type{Name: t.Name, ArrayDepth: t.ArrayDepth - 1}
}

// ZeroValue is the literal a stub method returns for this type.
func (t Type) ZeroValue() string {
	if t.ArrayDepth > 0 {
		return "null"
	}
	switch t.Name {
	case "boolean":
		return "false"
	case "char":
		return "'\\0'"
	case "long":
		return "0L"
	case "float":
		return "0.0f"
	case "double":
		return "0.0"
	case "byte", "short", "int":
		return "0"
	}
	return "null"
}

func typeFromFieldType(ft *classfile.FieldType) Type {
	if ft == nil {
		return Type{Name: "void"}
	}
	name := ft.BaseType
	if name == "" {
		name = classfile.InternalToSourceName(ft.ClassName)
	}
	return Type{
		Name:       name,
		ArrayDepth: ft.ArrayDepth,
	}
}
