package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/mappingpoet/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.ClassModel) error
}

// Names lists the encoders NewEncoder knows.
var Names = []string{"java", "line", "json"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "java":
		return NewJavaEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected one of %v)", name, Names)
}

func encode(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
