package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/mappingpoet/java"
)

type JSONEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	if err := encode(e.w, e); err != nil {
		return err
	}
	_, err := e.w.Write([]byte("\n"))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildClass(e.class), "", "  ")
}

type jsonClass struct {
	Name          string       `json:"name"`
	SimpleName    string       `json:"simpleName"`
	Package       string       `json:"package,omitempty"`
	Kind          string       `json:"kind"`
	SuperClass    string       `json:"superClass,omitempty"`
	Interfaces    []string     `json:"interfaces,omitempty"`
	Visibility    string       `json:"visibility"`
	Modifiers     []string     `json:"modifiers,omitempty"`
	Javadoc       string       `json:"javadoc,omitempty"`
	EnumConstants []jsonField  `json:"enumConstants,omitempty"`
	Fields        []jsonField  `json:"fields,omitempty"`
	Methods       []jsonMethod `json:"methods,omitempty"`
	Nested        []jsonClass  `json:"nested,omitempty"`
}

type jsonType struct {
	Name       string `json:"name"`
	ArrayDepth int    `json:"arrayDepth,omitempty"`
}

type jsonField struct {
	Name       string    `json:"name"`
	Type       *jsonType `json:"type,omitempty"`
	Visibility string    `json:"visibility,omitempty"`
	Modifiers  []string  `json:"modifiers,omitempty"`
	Javadoc    string    `json:"javadoc,omitempty"`
}

type jsonMethod struct {
	Name        string          `json:"name"`
	Constructor bool            `json:"constructor,omitempty"`
	ReturnType  jsonType        `json:"returnType"`
	Parameters  []jsonParameter `json:"parameters,omitempty"`
	Visibility  string          `json:"visibility"`
	Modifiers   []string        `json:"modifiers,omitempty"`
	Exceptions  []string        `json:"exceptions,omitempty"`
	Javadoc     string          `json:"javadoc,omitempty"`
}

type jsonParameter struct {
	Name    string   `json:"name"`
	Slot    int      `json:"slot"`
	Type    jsonType `json:"type"`
	Javadoc string   `json:"javadoc,omitempty"`
}

func buildClass(c *java.ClassModel) jsonClass {
	out := jsonClass{
		Name:       c.Name,
		SimpleName: c.SimpleName,
		Package:    c.Package,
		Kind:       string(c.Kind),
		SuperClass: c.SuperClass,
		Interfaces: c.Interfaces,
		Visibility: string(c.Visibility),
		Javadoc:    c.Javadoc,
	}
	if c.IsStatic {
		out.Modifiers = append(out.Modifiers, "static")
	}
	if c.IsFinal {
		out.Modifiers = append(out.Modifiers, "final")
	}
	if c.IsAbstract {
		out.Modifiers = append(out.Modifiers, "abstract")
	}

	for _, ec := range c.EnumConstants {
		out.EnumConstants = append(out.EnumConstants, jsonField{Name: ec.Name, Javadoc: ec.Javadoc})
	}
	for _, f := range c.Fields {
		out.Fields = append(out.Fields, jsonField{
			Name:       f.Name,
			Type:       &jsonType{Name: f.Type.Name, ArrayDepth: f.Type.ArrayDepth},
			Visibility: string(f.Visibility),
			Modifiers:  fieldModifiers(f),
			Javadoc:    f.Javadoc,
		})
	}
	for _, m := range c.Methods {
		out.Methods = append(out.Methods, buildMethod(m))
	}
	for _, n := range c.Nested {
		out.Nested = append(out.Nested, buildClass(n))
	}
	return out
}

func buildMethod(m java.MethodModel) jsonMethod {
	out := jsonMethod{
		Name:        m.Name,
		Constructor: m.IsConstructor,
		ReturnType:  jsonType{Name: m.ReturnType.Name, ArrayDepth: m.ReturnType.ArrayDepth},
		Visibility:  string(m.Visibility),
		Modifiers:   methodModifiers(m),
		Exceptions:  m.Exceptions,
		Javadoc:     m.Javadoc,
	}
	for _, p := range m.Parameters {
		out.Parameters = append(out.Parameters, jsonParameter{
			Name:    p.Name,
			Slot:    p.Slot,
			Type:    jsonType{Name: p.Type.Name, ArrayDepth: p.Type.ArrayDepth},
			Javadoc: p.Javadoc,
		})
	}
	return out
}
