// Package nest groups nested classes under their enclosing class.
package nest

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/mappingpoet/archive"
)

var log = commonlog.GetLogger("mappingpoet.nest")

// Separator joins an enclosing class name and a nested class's simple name.
const Separator = '$'

// ErrMissingEnclosing means a nested class was reached before its
// enclosing class had been registered.
var ErrMissingEnclosing = errors.New("enclosing class not registered")

// Group is a class together with the classes nested directly inside it.
type Group struct {
	Class  *archive.ClassInfo
	Nested []*Group
}

// Name returns the internal name of the grouped class.
func (g *Group) Name() string {
	return g.Class.Name
}

// SimpleName is the last nested segment, or the unqualified class name for
// roots.
func (g *Group) SimpleName() string {
	name := g.Class.Name
	if i := strings.LastIndexByte(name, Separator); i >= 0 {
		return name[i+1:]
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Walk visits g and then every nested group depth first.
func (g *Group) Walk(visit func(*Group)) {
	visit(g)
	for _, n := range g.Nested {
		n.Walk(visit)
	}
}

// Result holds the root groups in ascending name order and the names that
// were left out as local or anonymous classes.
type Result struct {
	Roots    []*Group
	Excluded []string
}

// Excludable reports whether name contains a nested segment starting with
// a digit, the form javac gives local and anonymous classes.
func Excludable(name string) bool {
	segments := strings.Split(name, string(Separator))
	for _, s := range segments[1:] {
		if s != "" && s[0] >= '0' && s[0] <= '9' {
			return true
		}
	}
	return false
}

// EnclosingName returns the name of the directly enclosing class, or false
// for top-level classes. A separator leading the simple name, as in
// pkg/$Proxy, does not make a class nested.
func EnclosingName(name string) (string, bool) {
	i := strings.LastIndexByte(name, Separator)
	if i <= 0 || name[i-1] == '/' {
		return "", false
	}
	return name[:i], true
}

// Assemble filters out excludable classes and builds the nesting forest.
// Classes are registered in ascending name order, so an enclosing class is
// always registered before anything nested in it.
func Assemble(classes []*archive.ClassInfo) (*Result, error) {
	sorted := slices.Clone(classes)
	slices.SortFunc(sorted, func(a, b *archive.ClassInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	res := &Result{}
	groups := make(map[string]*Group, len(sorted))
	for _, c := range sorted {
		if Excludable(c.Name) {
			log.Debugf("excluding %s", c.Name)
			res.Excluded = append(res.Excluded, c.Name)
			continue
		}

		g := &Group{Class: c}
		groups[c.Name] = g

		parent, nested := EnclosingName(c.Name)
		if !nested {
			res.Roots = append(res.Roots, g)
			continue
		}
		enclosing, ok := groups[parent]
		if !ok {
			return nil, fmt.Errorf("%w: %s encloses %s", ErrMissingEnclosing, parent, c.Name)
		}
		enclosing.Nested = append(enclosing.Nested, g)
	}

	log.Debugf("assembled %d root classes, excluded %d", len(res.Roots), len(res.Excluded))
	return res, nil
}
