package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/mappingpoet/java"
)

// LineEncoder writes one tab-separated record per class, field and method.
// The last column marks whether documentation was found ("doc") or not
// ("-"); nested classes follow their enclosing class.
type LineEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	return encode(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeLines(&sb, e.class)
	return []byte(sb.String()), nil
}

func writeLines(sb *strings.Builder, c *java.ClassModel) {
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\n", c.Kind, c.Name, classModifiersStr(c), docMark(c.Javadoc))

	for _, ec := range c.EnumConstants {
		fmt.Fprintf(sb, "constant\t%s\t%s\n", ec.Name, docMark(ec.Javadoc))
	}

	for _, f := range c.Fields {
		fmt.Fprintf(sb, "field\t%s\t%s\t%s\t%s\t%s\n",
			f.Name,
			f.Type,
			f.Visibility,
			fieldModifiersStr(f),
			docMark(f.Javadoc),
		)
	}

	for _, m := range c.Methods {
		fmt.Fprintf(sb, "method\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Name,
			m.ReturnType,
			parametersStr(m.Parameters),
			m.Visibility,
			methodModifiersStr(m),
			docMark(m.Javadoc),
		)
	}

	for _, n := range c.Nested {
		writeLines(sb, n)
	}
}

func docMark(doc string) string {
	if doc == "" {
		return "-"
	}
	return "doc"
}

func classModifiersStr(c *java.ClassModel) string {
	mods := []string{string(c.Visibility)}
	if c.IsStatic {
		mods = append(mods, "static")
	}
	if c.IsFinal {
		mods = append(mods, "final")
	}
	if c.IsAbstract {
		mods = append(mods, "abstract")
	}
	return strings.Join(mods, ",")
}

func fieldModifiers(f java.FieldModel) []string {
	var mods []string
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	if f.IsVolatile {
		mods = append(mods, "volatile")
	}
	if f.IsTransient {
		mods = append(mods, "transient")
	}
	return mods
}

func methodModifiers(m java.MethodModel) []string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsFinal {
		mods = append(mods, "final")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	if m.IsSynchronized {
		mods = append(mods, "synchronized")
	}
	if m.IsNative {
		mods = append(mods, "native")
	}
	if m.IsVarargs {
		mods = append(mods, "varargs")
	}
	if m.IsDefault {
		mods = append(mods, "default")
	}
	return mods
}

func fieldModifiersStr(f java.FieldModel) string {
	return joinOrDash(fieldModifiers(f))
}

func methodModifiersStr(m java.MethodModel) string {
	return joinOrDash(methodModifiers(m))
}

// parametersStr renders parameters as type:slot:name triples.
func parametersStr(params []java.ParameterModel) string {
	var parts []string
	for _, p := range params {
		parts = append(parts, p.Type.String()+":"+strconv.Itoa(p.Slot)+":"+p.Name)
	}
	return joinOrDash(parts)
}

func joinOrDash(parts []string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
