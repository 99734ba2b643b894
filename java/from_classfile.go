package java

import (
	"strconv"
	"strings"

	"github.com/dhamidi/mappingpoet/classfile"
)

// DocSource answers documentation queries for symbols named in the
// archive namespace. Every lookup may come back empty.
type DocSource interface {
	ClassDoc(owner string) (string, bool)
	FieldDoc(owner, name, descriptor string) (string, bool)
	MethodDoc(owner, name, descriptor string) (string, bool)
	ParamDoc(owner, name, descriptor string, slot int) (paramName, comment string, ok bool)
}

// NoDocs is a DocSource without any documentation.
type NoDocs struct{}

func (NoDocs) ClassDoc(string) (string, bool)                  { return "", false }
func (NoDocs) FieldDoc(string, string, string) (string, bool)  { return "", false }
func (NoDocs) MethodDoc(string, string, string) (string, bool) { return "", false }
func (NoDocs) ParamDoc(string, string, string, int) (string, string, bool) {
	return "", "", false
}

// ClassModelFromClassFile builds the stub model of a single class. Nested
// classes are not attached; callers add them to Nested.
func ClassModelFromClassFile(cf *classfile.ClassFile, docs DocSource) *ClassModel {
	if docs == nil {
		docs = NoDocs{}
	}
	internal := cf.ClassName()
	pkg, simple := SplitName(internal)

	flags := cf.AccessFlags
	nested, isNested := cf.NestedAccessFlags()
	if isNested {
		flags = nested
	}

	model := &ClassModel{
		Name:         classfile.InternalToSourceName(internal),
		InternalName: internal,
		SimpleName:   simple,
		Package:      pkg,
		Visibility:   visibilityFromAccessFlags(flags),
		Kind:         classKindFromClassFile(cf),
		IsFinal:      flags.IsFinal(),
		IsAbstract:   flags.IsAbstract(),
		IsStatic:     isNested && flags.IsStatic(),
	}
	model.Javadoc, _ = docs.ClassDoc(internal)

	if super := cf.SuperClassName(); super != "" && super != classfile.ObjectClass {
		model.SuperClass = classfile.InternalToSourceName(super)
	}
	for _, iface := range cf.InterfaceNames() {
		if model.Kind == ClassKindAnnotation && iface == "java/lang/annotation/Annotation" {
			continue
		}
		model.Interfaces = append(model.Interfaces, classfile.InternalToSourceName(iface))
	}

	for i := range cf.Fields {
		field := &cf.Fields[i]
		if field.IsSynthetic() {
			continue
		}
		name, desc := field.Name(cf.ConstantPool), field.Descriptor(cf.ConstantPool)
		doc, _ := docs.FieldDoc(internal, name, desc)
		if field.IsEnum() && model.Kind == ClassKindEnum {
			model.EnumConstants = append(model.EnumConstants, EnumConstantModel{Name: name, Javadoc: doc})
			continue
		}
		fm := fieldModelFromFieldInfo(field, cf.ConstantPool)
		fm.Javadoc = doc
		model.Fields = append(model.Fields, fm)
	}

	for i := range cf.Methods {
		method := &cf.Methods[i]
		if method.IsSynthetic() || method.IsBridge() || method.IsStaticInitializer(cf.ConstantPool) {
			continue
		}
		if model.Kind == ClassKindEnum && implicitEnumMember(method, cf.ConstantPool, internal) {
			continue
		}
		model.Methods = append(model.Methods, methodModelFromMethodInfo(model, method, cf.ConstantPool, docs))
	}

	return model
}

// SplitName splits an internal name into a dotted package and the simple
// name, which for nested classes is the part after the last '$'.
func SplitName(internal string) (pkg, simple string) {
	pkg, simple = classfile.SplitInternalName(internal)
	if i := strings.LastIndexByte(simple, '$'); i > 0 {
		simple = simple[i+1:]
	}
	return strings.ReplaceAll(pkg, "/", "."), simple
}

func visibilityFromAccessFlags(flags classfile.AccessFlags) Visibility {
	if flags.IsPublic() {
		return VisibilityPublic
	}
	if flags.IsProtected() {
		return VisibilityProtected
	}
	if flags.IsPrivate() {
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func classKindFromClassFile(cf *classfile.ClassFile) ClassKind {
	if cf.IsAnnotation() {
		return ClassKindAnnotation
	}
	if cf.IsEnum() {
		return ClassKindEnum
	}
	if cf.IsInterface() {
		return ClassKindInterface
	}
	return ClassKindClass
}

// implicitEnumMember matches what javac generates for every enum: values,
// valueOf and the private constructors taking name and ordinal.
func implicitEnumMember(m *classfile.MethodInfo, cp classfile.ConstantPool, owner string) bool {
	switch name, desc := m.Name(cp), m.Descriptor(cp); {
	case m.IsConstructor(cp):
		return true
	case name == "values" && desc == "()[L"+owner+";":
		return true
	case name == "valueOf" && desc == "(Ljava/lang/String;)L"+owner+";":
		return true
	}
	return false
}

func fieldModelFromFieldInfo(f *classfile.FieldInfo, cp classfile.ConstantPool) FieldModel {
	return FieldModel{
		Name:        f.Name(cp),
		Type:        typeFromFieldType(f.ParsedDescriptor(cp)),
		Visibility:  visibilityFromAccessFlags(f.AccessFlags),
		IsStatic:    f.IsStatic(),
		IsFinal:     f.IsFinal(),
		IsVolatile:  f.IsVolatile(),
		IsTransient: f.IsTransient(),
	}
}

func methodModelFromMethodInfo(owner *ClassModel, m *classfile.MethodInfo, cp classfile.ConstantPool, docs DocSource) MethodModel {
	name, descriptor := m.Name(cp), m.Descriptor(cp)
	iface := owner.Kind == ClassKindInterface || owner.Kind == ClassKindAnnotation
	model := MethodModel{
		Name:           name,
		ReturnType:     Type{Name: "void"},
		Visibility:     visibilityFromAccessFlags(m.AccessFlags),
		IsConstructor:  m.IsConstructor(cp),
		IsStatic:       m.IsStatic(),
		IsFinal:        m.IsFinal(),
		IsAbstract:     m.IsAbstract(),
		IsSynchronized: m.IsSynchronized(),
		IsNative:       m.IsNative(),
		IsVarargs:      m.IsVarargs(),
		IsDefault:      iface && !m.IsAbstract() && !m.IsStatic() && !m.IsPrivate(),
	}
	model.Javadoc, _ = docs.MethodDoc(owner.InternalName, name, descriptor)

	for _, exc := range m.ExceptionNames(cp) {
		model.Exceptions = append(model.Exceptions, classfile.InternalToSourceName(exc))
	}

	desc := m.ParsedDescriptor(cp)
	if desc == nil {
		return model
	}
	if desc.ReturnType != nil {
		model.ReturnType = typeFromFieldType(desc.ReturnType)
	}

	slots := desc.ParameterSlots(m.IsStatic())
	params := desc.Parameters
	if model.IsConstructor && capturesOuterInstance(owner, params) {
		params, slots = params[1:], slots[1:]
	}
	for i := range params {
		p := ParameterModel{
			Name: "arg" + strconv.Itoa(i),
			Type: typeFromFieldType(&params[i]),
			Slot: slots[i],
		}
		if pname, comment, ok := docs.ParamDoc(owner.InternalName, name, descriptor, slots[i]); ok {
			if pname != "" {
				p.Name = pname
			}
			p.Javadoc = comment
		}
		model.Parameters = append(model.Parameters, p)
	}
	return model
}

// capturesOuterInstance reports whether a constructor's first parameter is
// the enclosing instance javac passes to inner (non-static) classes.
func capturesOuterInstance(owner *ClassModel, params []classfile.FieldType) bool {
	if owner.Kind != ClassKindClass || owner.IsStatic || len(params) == 0 {
		return false
	}
	i := strings.LastIndexByte(owner.InternalName, '$')
	if i <= 0 {
		return false
	}
	first := params[0]
	return first.ArrayDepth == 0 && first.ClassName == owner.InternalName[:i]
}
