package format

import (
	"io"
	"strings"

	"github.com/dhamidi/mappingpoet/java"
)

const indentUnit = "    "

// JavaEncoder writes a class and its nested classes as one Java source
// stub with Javadoc taken from the model.
type JavaEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	return encode(e.w, e)
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	if c.Package != "" {
		sb.WriteString("package ")
		sb.WriteString(c.Package)
		sb.WriteString(";\n\n")
	}

	e.writeClass(&sb, c, "")
	return []byte(sb.String()), nil
}

func (e *JavaEncoder) writeClass(sb *strings.Builder, c *java.ClassModel, indent string) {
	writeJavadoc(sb, indent, c.Javadoc, nil)
	sb.WriteString(indent)
	e.writeClassDeclaration(sb, c)
	sb.WriteString(" {\n")

	inner := indent + indentUnit
	sep := separator{sb: sb}

	if c.Kind == java.ClassKindEnum {
		sep.next()
		e.writeEnumConstants(sb, c, inner)
	}
	for _, f := range c.Fields {
		sep.next()
		e.writeField(sb, f, inner)
	}
	for _, m := range c.Methods {
		sep.next()
		e.writeMethod(sb, c, m, inner)
	}
	for _, n := range c.Nested {
		sep.next()
		e.writeClass(sb, n, inner)
	}

	sb.WriteString(indent)
	sb.WriteString("}\n")
}

func (e *JavaEncoder) writeClassDeclaration(sb *strings.Builder, c *java.ClassModel) {
	var mods []string
	if kw := c.Visibility.Keyword(); kw != "" {
		mods = append(mods, kw)
	}
	if c.Kind == java.ClassKindClass {
		if c.IsStatic {
			mods = append(mods, "static")
		}
		if c.IsAbstract {
			mods = append(mods, "abstract")
		}
		if c.IsFinal {
			mods = append(mods, "final")
		}
	}
	for _, m := range mods {
		sb.WriteString(m)
		sb.WriteString(" ")
	}

	switch c.Kind {
	case java.ClassKindAnnotation:
		sb.WriteString("@interface ")
	case java.ClassKindEnum:
		sb.WriteString("enum ")
	case java.ClassKindInterface:
		sb.WriteString("interface ")
	default:
		sb.WriteString("class ")
	}
	sb.WriteString(c.SimpleName)

	if c.Kind == java.ClassKindClass && c.SuperClass != "" {
		sb.WriteString(" extends ")
		sb.WriteString(c.SuperClass)
	}
	if len(c.Interfaces) > 0 {
		if c.Kind == java.ClassKindInterface || c.Kind == java.ClassKindAnnotation {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		sb.WriteString(strings.Join(c.Interfaces, ", "))
	}
}

func (e *JavaEncoder) writeEnumConstants(sb *strings.Builder, c *java.ClassModel, indent string) {
	for i, ec := range c.EnumConstants {
		if i > 0 {
			sb.WriteString(",\n")
			if ec.Javadoc != "" {
				sb.WriteString("\n")
			}
		}
		writeJavadoc(sb, indent, ec.Javadoc, nil)
		sb.WriteString(indent)
		sb.WriteString(ec.Name)
	}
	if len(c.EnumConstants) == 0 {
		sb.WriteString(indent)
	}
	sb.WriteString(";\n")
}

func (e *JavaEncoder) writeField(sb *strings.Builder, f java.FieldModel, indent string) {
	writeJavadoc(sb, indent, f.Javadoc, nil)
	sb.WriteString(indent)
	if kw := f.Visibility.Keyword(); kw != "" {
		sb.WriteString(kw)
		sb.WriteString(" ")
	}
	if f.IsStatic {
		sb.WriteString("static ")
	}
	if f.IsFinal {
		sb.WriteString("final ")
	}
	if f.IsVolatile {
		sb.WriteString("volatile ")
	}
	if f.IsTransient {
		sb.WriteString("transient ")
	}
	sb.WriteString(f.Type.String())
	sb.WriteString(" ")
	sb.WriteString(f.Name)
	sb.WriteString(";\n")
}

func (e *JavaEncoder) writeMethod(sb *strings.Builder, c *java.ClassModel, m java.MethodModel, indent string) {
	writeJavadoc(sb, indent, m.Javadoc, m.Parameters)
	sb.WriteString(indent)

	iface := c.Kind == java.ClassKindInterface || c.Kind == java.ClassKindAnnotation
	if kw := m.Visibility.Keyword(); kw != "" && !(iface && m.Visibility == java.VisibilityPublic) {
		sb.WriteString(kw)
		sb.WriteString(" ")
	}
	if m.IsDefault {
		sb.WriteString("default ")
	}
	if m.IsStatic {
		sb.WriteString("static ")
	}
	if m.IsFinal {
		sb.WriteString("final ")
	}
	if m.IsAbstract && !iface {
		sb.WriteString("abstract ")
	}
	if m.IsSynchronized {
		sb.WriteString("synchronized ")
	}
	if m.IsNative {
		sb.WriteString("native ")
	}

	if m.IsConstructor {
		sb.WriteString(c.SimpleName)
	} else {
		sb.WriteString(m.ReturnType.String())
		sb.WriteString(" ")
		sb.WriteString(m.Name)
	}

	sb.WriteString("(")
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		if m.IsVarargs && i == len(m.Parameters)-1 && p.Type.IsArray() {
			sb.WriteString(p.Type.ElementType().String())
			sb.WriteString("... ")
			sb.WriteString(p.Name)
			continue
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")

	if len(m.Exceptions) > 0 {
		sb.WriteString(" throws ")
		sb.WriteString(strings.Join(m.Exceptions, ", "))
	}

	if !m.HasBody(c) {
		sb.WriteString(";\n")
		return
	}
	sb.WriteString(" {\n")
	if !m.IsConstructor && !m.ReturnType.IsVoid() {
		sb.WriteString(indent)
		sb.WriteString(indentUnit)
		sb.WriteString("return ")
		sb.WriteString(m.ReturnType.ZeroValue())
		sb.WriteString(";\n")
	}
	sb.WriteString(indent)
	sb.WriteString("}\n")
}

// writeJavadoc emits a doc comment holding text followed by an @param tag
// for every documented parameter. Nothing is written when both are empty.
func writeJavadoc(sb *strings.Builder, indent, text string, params []java.ParameterModel) {
	var tags []string
	for _, p := range params {
		if p.Javadoc != "" {
			tags = append(tags, "@param "+p.Name+" "+p.Javadoc)
		}
	}
	if text == "" && len(tags) == 0 {
		return
	}

	sb.WriteString(indent)
	sb.WriteString("/**\n")
	if text != "" {
		writeJavadocLines(sb, indent, text)
		if len(tags) > 0 {
			sb.WriteString(indent)
			sb.WriteString(" *\n")
		}
	}
	for _, tag := range tags {
		writeJavadocLines(sb, indent, tag)
	}
	sb.WriteString(indent)
	sb.WriteString(" */\n")
}

func writeJavadocLines(sb *strings.Builder, indent, text string) {
	text = strings.ReplaceAll(text, "*/", "*&#47;")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		sb.WriteString(indent)
		if line == "" {
			sb.WriteString(" *\n")
			continue
		}
		sb.WriteString(" * ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// separator writes a blank line before every member but the first.
type separator struct {
	sb      *strings.Builder
	written bool
}

func (s *separator) next() {
	if s.written {
		s.sb.WriteString("\n")
	}
	s.written = true
}
