// Package archive reads a jar into a structural index of its classes: each
// class's name, direct superclass and direct interfaces. Ancestor chains
// beyond direct supertypes are left to callers walking the index.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/mappingpoet/classfile"
)

var log = commonlog.GetLogger("mappingpoet.archive")

// ErrMalformedClass is returned when any class entry of an archive cannot be
// read. A scan is all-or-nothing: one bad entry fails the whole archive.
var ErrMalformedClass = errors.New("malformed class entry")

// ClassInfo holds the structural facts of one class. SuperClass is empty
// when the class has no explicit superclass other than java/lang/Object.
type ClassInfo struct {
	Name       string
	SuperClass string
	Interfaces []string
	File       *classfile.ClassFile
	ancestors  []string
}

// Ancestors returns the direct supertypes: superclass first, then
// interfaces in declaration order.
func (c *ClassInfo) Ancestors() []string {
	return c.ancestors
}

func NewClassInfo(cf *classfile.ClassFile) *ClassInfo {
	info := &ClassInfo{
		Name:       cf.ClassName(),
		Interfaces: cf.InterfaceNames(),
		File:       cf,
	}
	if super := cf.SuperClassName(); super != "" && super != classfile.ObjectClass {
		info.SuperClass = super
		info.ancestors = append(info.ancestors, super)
	}
	info.ancestors = append(info.ancestors, info.Interfaces...)
	return info
}

type Archive struct {
	Path    string
	Classes []*ClassInfo
	Index   *Index
}

type options struct {
	workers int
}

type Option func(*options)

// WithWorkers bounds the number of entries parsed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Scan reads every class entry of the jar at path. Directory entries,
// non-class entries, META-INF content and module descriptors are skipped.
// Classes are returned in archive order.
func Scan(ctx context.Context, path string, opts ...Option) (*Archive, error) {
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer r.Close()

	var entries []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		if strings.HasPrefix(f.Name, "META-INF/") {
			log.Debugf("skipping %s", f.Name)
			continue
		}
		entries = append(entries, f)
	}

	results := make([]*ClassInfo, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, f := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cf, err := readEntry(f)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedClass, f.Name, err)
			}
			if cf.IsModule() {
				return nil
			}
			results[i] = NewClassInfo(cf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	classes := make([]*ClassInfo, 0, len(results))
	for _, info := range results {
		if info != nil {
			classes = append(classes, info)
		}
	}

	index, err := NewIndex(classes)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	log.Infof("scanned %d classes from %s", len(classes), path)

	return &Archive{Path: path, Classes: classes, Index: index}, nil
}

func readEntry(f *zip.File) (*classfile.ClassFile, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	cf, err := classfile.Parse(rc)
	if err != nil {
		return nil, err
	}
	// Trailing bytes mean the entry is not a single class file.
	var probe [1]byte
	if n, _ := io.ReadFull(rc, probe[:]); n != 0 {
		return nil, fmt.Errorf("trailing data after class %s", cf.ClassName())
	}
	return cf, nil
}

// Index maps class names to their structural info. It is immutable and
// safe for concurrent use.
type Index struct {
	classes map[string]*ClassInfo
	names   []string
}

// NewIndex rejects duplicate class names and inheritance cycles among the
// given classes; both indicate a malformed archive.
func NewIndex(classes []*ClassInfo) (*Index, error) {
	ix := &Index{classes: make(map[string]*ClassInfo, len(classes))}
	for _, c := range classes {
		if _, dup := ix.classes[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate class %s", ErrMalformedClass, c.Name)
		}
		ix.classes[c.Name] = c
		ix.names = append(ix.names, c.Name)
	}
	sort.Strings(ix.names)
	if err := ix.checkAcyclic(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Ancestors implements the ancestor lookup over the archive. Unknown names
// have no ancestors. The returned slice must not be modified.
func (ix *Index) Ancestors(name string) []string {
	if c, ok := ix.classes[name]; ok {
		return c.ancestors
	}
	return nil
}

func (ix *Index) Class(name string) (*ClassInfo, bool) {
	c, ok := ix.classes[name]
	return c, ok
}

// Names returns all class names in ascending order.
func (ix *Index) Names() []string {
	return ix.names
}

func (ix *Index) Len() int {
	return len(ix.classes)
}

func (ix *Index) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(ix.classes))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("%w: inheritance cycle %s -> %s", ErrMalformedClass, strings.Join(path, " -> "), name)
		case done:
			return nil
		}
		state[name] = visiting
		for _, anc := range ix.Ancestors(name) {
			if _, known := ix.classes[anc]; !known {
				continue
			}
			if err := visit(anc, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range ix.names {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}
