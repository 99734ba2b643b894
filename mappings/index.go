package mappings

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mappingpoet.mappings")

// Symbol identifies a class member by owner, member name and descriptor.
// Components compare as exact strings.
type Symbol struct {
	Owner      string
	Name       string
	Descriptor string
}

func (s Symbol) String() string {
	return s.Owner + "." + s.Name + s.Descriptor
}

type ClassDoc struct {
	Comment string
}

type FieldDoc struct {
	Comment string
}

type ParamDoc struct {
	Slot    int
	Name    string
	Comment string
}

type MethodDoc struct {
	Comment string
	Params  []ParamDoc
}

// Param returns the first parameter declared at slot.
func (m *MethodDoc) Param(slot int) (ParamDoc, bool) {
	for _, p := range m.Params {
		if p.Slot == slot {
			return p, true
		}
	}
	return ParamDoc{}, false
}

// Index is a flat lookup table over one namespace of a Tree. It holds no
// inheritance logic and is read-only once built.
type Index struct {
	Namespace string
	classes   map[string]ClassDoc
	fields    map[Symbol]FieldDoc
	methods   map[Symbol]*MethodDoc
}

// NewIndex indexes every class, field and method of tree under its names in
// namespace. Descriptors are translated into that namespace. When two
// entries collide on the same symbol the later one wins.
func NewIndex(tree *Tree, namespace string) (*Index, error) {
	ns, err := tree.NamespaceIndex(namespace)
	if err != nil {
		return nil, fmt.Errorf("index mappings: %w", err)
	}
	descs := tree.DescriptorRemapper(ns)

	ix := &Index{
		Namespace: namespace,
		classes:   make(map[string]ClassDoc, len(tree.Classes)),
		fields:    make(map[Symbol]FieldDoc),
		methods:   make(map[Symbol]*MethodDoc),
	}

	for _, c := range tree.Classes {
		owner := c.Name(ns)
		ix.classes[owner] = ClassDoc{Comment: c.Comment}

		for _, f := range c.Fields {
			sym := Symbol{Owner: owner, Name: f.Name(ns), Descriptor: descs.MapFieldDescriptor(f.Descriptor)}
			if _, dup := ix.fields[sym]; dup {
				log.Debugf("field %s declared twice, keeping the later entry", sym)
			}
			ix.fields[sym] = FieldDoc{Comment: f.Comment}
		}

		for _, m := range c.Methods {
			sym := Symbol{Owner: owner, Name: m.Name(ns), Descriptor: descs.MapMethodDescriptor(m.Descriptor)}
			if _, dup := ix.methods[sym]; dup {
				log.Debugf("method %s declared twice, keeping the later entry", sym)
			}
			doc := &MethodDoc{Comment: m.Comment}
			for _, p := range m.Params {
				doc.Params = append(doc.Params, ParamDoc{Slot: p.Slot, Name: p.Name(ns), Comment: p.Comment})
			}
			ix.methods[sym] = doc
		}
	}

	log.Infof("indexed %d classes, %d fields, %d methods in namespace %q",
		len(ix.classes), len(ix.fields), len(ix.methods), namespace)
	return ix, nil
}

func (ix *Index) HasClass(owner string) bool {
	_, ok := ix.classes[owner]
	return ok
}

// Class reports whether owner is declared. The returned comment may be
// empty for declared classes.
func (ix *Index) Class(owner string) (ClassDoc, bool) {
	doc, ok := ix.classes[owner]
	return doc, ok
}

func (ix *Index) Field(sym Symbol) (FieldDoc, bool) {
	doc, ok := ix.fields[sym]
	return doc, ok
}

// Method returns the raw entry declared exactly at sym.
func (ix *Index) Method(sym Symbol) (*MethodDoc, bool) {
	doc, ok := ix.methods[sym]
	return doc, ok
}

func (ix *Index) Len() (classes, fields, methods int) {
	return len(ix.classes), len(ix.fields), len(ix.methods)
}
