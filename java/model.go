package java

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// Keyword is the modifier written in source; package-private has none.
func (v Visibility) Keyword() string {
	if v == VisibilityPackage {
		return ""
	}
	return string(v)
}

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
)

// ClassModel is everything a stub needs to declare one class. Names are
// dotted source names; InternalName keeps the slash form used for lookups.
type ClassModel struct {
	Name          string
	InternalName  string
	SimpleName    string
	Package       string
	SuperClass    string
	Interfaces    []string
	Visibility    Visibility
	Kind          ClassKind
	IsFinal       bool
	IsAbstract    bool
	IsStatic      bool
	Javadoc       string
	EnumConstants []EnumConstantModel
	Fields        []FieldModel
	Methods       []MethodModel
	Nested        []*ClassModel
}

type EnumConstantModel struct {
	Name    string
	Javadoc string
}

type FieldModel struct {
	Name        string
	Type        Type
	Visibility  Visibility
	IsStatic    bool
	IsFinal     bool
	IsVolatile  bool
	IsTransient bool
	Javadoc     string
}

type MethodModel struct {
	Name           string
	ReturnType     Type
	Parameters     []ParameterModel
	Visibility     Visibility
	IsConstructor  bool
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsSynchronized bool
	IsNative       bool
	IsVarargs      bool
	IsDefault      bool
	Javadoc        string
	Exceptions     []string
}

// ParameterModel is one declared parameter. Slot is its local variable
// index, which is how mapping files address parameters.
type ParameterModel struct {
	Name    string
	Type    Type
	Slot    int
	Javadoc string
}

func (p ParameterModel) String() string {
	if p.Name != "" {
		return p.Type.String() + " " + p.Name
	}
	return p.Type.String()
}

// HasBody reports whether the stub declares a body for m.
func (m MethodModel) HasBody(owner *ClassModel) bool {
	if m.IsAbstract || m.IsNative {
		return false
	}
	if owner.Kind == ClassKindInterface || owner.Kind == ClassKindAnnotation {
		return m.IsDefault || m.IsStatic || m.Visibility == VisibilityPrivate
	}
	return true
}
