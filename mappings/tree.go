// Package mappings reads tiny mapping files and indexes their classes,
// fields and methods by exact (owner, name, descriptor) identity within a
// single namespace.
package mappings

import (
	"fmt"
	"slices"

	"github.com/dhamidi/mappingpoet/remap"
)

// DefaultNamespace is the human-readable namespace of Fabric-style mappings.
const DefaultNamespace = "named"

// Tree is a parsed mapping file. Names are stored per namespace in header
// order; descriptors are stored in the first namespace.
type Tree struct {
	Namespaces []string
	Properties map[string]string
	Classes    []*ClassDef
}

type ClassDef struct {
	Names   []string
	Comment string
	Fields  []*FieldDef
	Methods []*MethodDef
}

type FieldDef struct {
	Names      []string
	Descriptor string
	Comment    string
}

type MethodDef struct {
	Names      []string
	Descriptor string
	Comment    string
	Params     []*ParamDef
}

// ParamDef describes one method parameter. Slot is the local variable index
// the parameter occupies.
type ParamDef struct {
	Slot    int
	Names   []string
	Comment string
}

// NamespaceIndex returns the column of ns in the header.
func (t *Tree) NamespaceIndex(ns string) (int, error) {
	i := slices.Index(t.Namespaces, ns)
	if i == -1 {
		return 0, fmt.Errorf("namespace %q not in %v", ns, t.Namespaces)
	}
	return i, nil
}

// DescriptorRemapper translates descriptors from the first namespace into
// namespace column ns.
func (t *Tree) DescriptorRemapper(ns int) *remap.Remapper {
	if ns == 0 {
		return remap.Identity()
	}
	table := make(map[string]string, len(t.Classes))
	for _, c := range t.Classes {
		src, dst := nameAt(c.Names, 0), c.Name(ns)
		if src != "" && src != dst {
			table[src] = dst
		}
	}
	return remap.New(table)
}

// Name returns the class name in namespace column ns, falling back to the
// first namespace when the column is empty.
func (c *ClassDef) Name(ns int) string {
	return nameOrSource(c.Names, ns)
}

func (f *FieldDef) Name(ns int) string {
	return nameOrSource(f.Names, ns)
}

func (m *MethodDef) Name(ns int) string {
	return nameOrSource(m.Names, ns)
}

// Name returns the parameter name in column ns, or "" when unnamed.
func (p *ParamDef) Name(ns int) string {
	return nameAt(p.Names, ns)
}

func nameAt(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return ""
	}
	return names[i]
}

func nameOrSource(names []string, i int) string {
	if name := nameAt(names, i); name != "" {
		return name
	}
	return nameAt(names, 0)
}
