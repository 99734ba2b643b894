package generate

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/mappingpoet/archive"
	"github.com/dhamidi/mappingpoet/config"
	"github.com/dhamidi/mappingpoet/docs"
	"github.com/dhamidi/mappingpoet/java"
	"github.com/dhamidi/mappingpoet/mappings"
	"github.com/dhamidi/mappingpoet/nest"
	"github.com/dhamidi/mappingpoet/remap"
)

// ErrInputMissing reports a mapping file, archive or rename table that does
// not exist. It is raised before any output is touched.
var ErrInputMissing = errors.New("input missing")

// Session holds the loaded inputs shared by every command: the scanned
// archive, the mapping index and a resolver over both.
type Session struct {
	Archive  *archive.Archive
	Index    *mappings.Index
	Remapper *remap.Remapper
	Resolver *docs.Resolver
}

// CheckInputs verifies that every configured input path exists.
func CheckInputs(cfg *config.Config) error {
	inputs := []struct{ what, path string }{
		{"mappings", cfg.Mappings},
		{"archive", cfg.Archive},
		{"rename table", cfg.Table},
	}
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		if _, err := os.Stat(in.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s %s", ErrInputMissing, in.what, in.path)
			}
			return fmt.Errorf("stat %s: %w", in.what, err)
		}
	}
	return nil
}

// Open loads the rename table, reads and indexes the mappings and scans
// the archive. Only cfg.Mappings is required besides cfg.Archive.
func Open(ctx context.Context, cfg *config.Config) (*Session, error) {
	if err := CheckInputs(cfg); err != nil {
		return nil, err
	}

	remapper := remap.Identity()
	if cfg.Table != "" {
		r, err := remap.LoadFile(cfg.Table)
		if err != nil {
			return nil, err
		}
		remapper = r
		log.Infof("loaded %d renames from %s", r.Len(), cfg.Table)
	}

	tree, err := mappings.ReadFile(cfg.Mappings)
	if err != nil {
		return nil, err
	}
	index, err := mappings.NewIndex(tree, cfg.Namespace)
	if err != nil {
		return nil, err
	}

	arc, err := archive.Scan(ctx, cfg.Archive, archive.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, err
	}

	return &Session{
		Archive:  arc,
		Index:    index,
		Remapper: remapper,
		Resolver: docs.NewResolver(index, remapper),
	}, nil
}

// Docs returns a java.DocSource resolving against the session's archive
// hierarchy.
func (s *Session) Docs() java.DocSource {
	return docSource{resolver: s.Resolver, lookup: s.Archive.Index.Ancestors}
}

func (s *Session) Assemble() (*nest.Result, error) {
	return nest.Assemble(s.Archive.Classes)
}

// Model builds the stub model of g with every nested group attached.
func (s *Session) Model(g *nest.Group) *java.ClassModel {
	return buildModel(g, s.Docs())
}

func buildModel(g *nest.Group, src java.DocSource) *java.ClassModel {
	model := java.ClassModelFromClassFile(g.Class.File, src)
	for _, n := range g.Nested {
		model.Nested = append(model.Nested, buildModel(n, src))
	}
	return model
}

type docSource struct {
	resolver *docs.Resolver
	lookup   docs.AncestorLookup
}

func (d docSource) ClassDoc(owner string) (string, bool) {
	return d.resolver.ClassDoc(owner)
}

func (d docSource) FieldDoc(owner, name, descriptor string) (string, bool) {
	return d.resolver.FieldDoc(owner, name, descriptor)
}

func (d docSource) MethodDoc(owner, name, descriptor string) (string, bool) {
	return d.resolver.MethodDoc(owner, name, descriptor, d.lookup)
}

func (d docSource) ParamDoc(owner, name, descriptor string, slot int) (string, string, bool) {
	p, ok := d.resolver.ParamDoc(owner, name, descriptor, slot, d.lookup)
	return p.Name, p.Comment, ok
}
