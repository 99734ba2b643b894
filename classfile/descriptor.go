package classfile

import "strings"

type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

// String renders the type as Java source, with nested class separators
// turned into dots.
func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else if ft.ClassName != "" {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool {
	return ft.ArrayDepth > 0
}

// Slots is the number of local variable slots a value of this type
// occupies: two for long and double, one for everything else.
func (ft *FieldType) Slots() int {
	if ft.ArrayDepth == 0 && (ft.BaseType == "long" || ft.BaseType == "double") {
		return 2
	}
	return 1
}

type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType
}

func (md *MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range md.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if md.ReturnType != nil {
		sb.WriteString(" ")
		sb.WriteString(md.ReturnType.String())
	} else {
		sb.WriteString(" void")
	}
	return sb.String()
}

// ParameterSlots returns the local variable index of every parameter.
// Instance methods reserve slot 0 for the receiver.
func (md *MethodDescriptor) ParameterSlots(static bool) []int {
	slots := make([]int, len(md.Parameters))
	next := 1
	if static {
		next = 0
	}
	for i := range md.Parameters {
		slots[i] = next
		next += md.Parameters[i].Slots()
	}
	return slots
}

func ParseFieldDescriptor(desc string) *FieldType {
	ft, consumed := parseFieldType(desc, 0)
	if ft == nil || consumed != len(desc) {
		return nil
	}
	return ft
}

func ParseMethodDescriptor(desc string) *MethodDescriptor {
	if len(desc) == 0 || desc[0] != '(' {
		return nil
	}

	md := &MethodDescriptor{}
	i := 1

	for i < len(desc) && desc[i] != ')' {
		ft, consumed := parseFieldType(desc, i)
		if ft == nil {
			return nil
		}
		md.Parameters = append(md.Parameters, *ft)
		i += consumed
	}

	if i >= len(desc) || desc[i] != ')' {
		return nil
	}
	i++

	if i >= len(desc) {
		return nil
	}
	if desc[i] == 'V' {
		if i+1 != len(desc) {
			return nil
		}
		return md
	}
	ret, consumed := parseFieldType(desc, i)
	if ret == nil || i+consumed != len(desc) {
		return nil
	}
	md.ReturnType = ret
	return md
}

func parseFieldType(desc string, start int) (*FieldType, int) {
	if start >= len(desc) {
		return nil, 0
	}

	ft := &FieldType{}
	i := start

	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}

	if i >= len(desc) {
		return nil, 0
	}

	if desc[i] == 'L' {
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon <= 1 {
			return nil, 0
		}
		ft.ClassName = desc[i+1 : i+semicolon]
		return ft, i - start + semicolon + 1
	}

	base, ok := baseTypes[desc[i]]
	if !ok {
		return nil, 0
	}
	ft.BaseType = base
	return ft, i - start + 1
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// InternalToSourceName converts "a/b/Outer$Inner" to "a.b.Outer.Inner".
func InternalToSourceName(name string) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(name)
}

// SplitInternalName splits "a/b/C" into package "a/b" and simple name "C".
func SplitInternalName(name string) (pkg, simple string) {
	slash := strings.LastIndexByte(name, '/')
	if slash == -1 {
		return "", name
	}
	return name[:slash], name[slash+1:]
}
