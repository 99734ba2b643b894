package remap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedTable = errors.New("unsupported rename table format")

// LoadFile reads a rename table. ".properties" files use Java properties
// syntax (one "archive/Name=mapping/Name" per line); ".yaml" and ".yml"
// files hold a flat string map.
func LoadFile(path string) (*Remapper, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".properties":
		p, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return nil, fmt.Errorf("read rename table %s: %w", path, err)
		}
		return New(p.Map()), nil
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rename table %s: %w", path, err)
		}
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTable, ext)
	}
}

// ParseProperties parses a rename table in Java properties syntax.
func ParseProperties(data string) (*Remapper, error) {
	p, err := properties.LoadString(data)
	if err != nil {
		return nil, fmt.Errorf("parse rename table: %w", err)
	}
	return New(p.Map()), nil
}

func ParseYAML(data []byte) (*Remapper, error) {
	var table map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse rename table: %w", err)
	}
	return New(table), nil
}
