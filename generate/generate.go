// Package generate turns a class archive and a mapping file into a tree of
// documented Java source stubs.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/mappingpoet/config"
	"github.com/dhamidi/mappingpoet/docs"
	"github.com/dhamidi/mappingpoet/format"
	"github.com/dhamidi/mappingpoet/nest"
)

var log = commonlog.GetLogger("mappingpoet.generate")

// Report summarizes a finished run.
type Report struct {
	Classes  int
	Excluded []string
	Filtered []string
	Files    []string
	Stats    docs.Stats
}

// Run generates one .java file per included top-level class under
// cfg.Output. Inputs are checked before the output directory is cleaned.
func Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	filter, err := NewFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	session, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	assembled, err := session.Assemble()
	if err != nil {
		return nil, err
	}

	if err := prepareOutput(cfg.Output, cfg.Clean); err != nil {
		return nil, err
	}

	report := &Report{
		Classes:  len(session.Archive.Classes),
		Excluded: assembled.Excluded,
	}
	var roots []*nest.Group
	for _, g := range assembled.Roots {
		if !filter.Match(g.Name()) {
			report.Filtered = append(report.Filtered, g.Name())
			continue
		}
		roots = append(roots, g)
	}

	files := make([]string, len(roots))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i, g := range roots {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := session.writeStub(cfg.Output, g)
			if err != nil {
				return err
			}
			files[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report.Files = files
	sort.Strings(report.Files)
	report.Stats = session.Resolver.Stats()

	log.Infof("wrote %d files to %s (%d classes excluded, %d filtered)",
		len(report.Files), cfg.Output, len(report.Excluded), len(report.Filtered))
	log.Debugf("resolver: method hits=%d misses=%d, param hits=%d misses=%d, walks=%d, cached=%d",
		report.Stats.MethodHits, report.Stats.MethodMisses,
		report.Stats.ParamHits, report.Stats.ParamMisses,
		report.Stats.Walks, report.Stats.Cached)
	return report, nil
}

// StubPath is where the stub for a top-level class lives under out.
func StubPath(out, className string) string {
	return filepath.Join(out, filepath.FromSlash(className)+".java")
}

func (s *Session) writeStub(out string, g *nest.Group) (string, error) {
	var buf bytes.Buffer
	if err := format.NewJavaEncoder(&buf).Encode(s.Model(g)); err != nil {
		return "", fmt.Errorf("encode %s: %w", g.Name(), err)
	}

	path := StubPath(out, g.Name())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create package directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func prepareOutput(dir string, clean bool) error {
	if clean {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Filter selects top-level classes by internal name. An empty include list
// admits everything not excluded.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}
		f.include = append(f.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

func (f *Filter) Match(name string) bool {
	for _, g := range f.exclude {
		if g.Match(name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}
