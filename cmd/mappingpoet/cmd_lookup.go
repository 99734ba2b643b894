package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mappingpoet/docs"
	"github.com/dhamidi/mappingpoet/generate"
	"github.com/dhamidi/mappingpoet/java/javadoc"
	"github.com/dhamidi/mappingpoet/remap"
)

type symbolKind int

const (
	symbolClass symbolKind = iota
	symbolField
	symbolMethod
)

// symbol is a parsed lookup query: "owner", "owner.field:desc" or
// "owner.method(args)ret".
type symbol struct {
	kind       symbolKind
	owner      string
	name       string
	descriptor string
}

func parseSymbol(s string) (symbol, error) {
	if s == "" {
		return symbol{}, errors.New("empty symbol")
	}
	head, desc, kind := s, "", symbolClass
	if i := strings.IndexByte(s, '('); i >= 0 {
		head, desc, kind = s[:i], s[i:], symbolMethod
	} else if i := strings.IndexByte(s, ':'); i >= 0 {
		head, desc, kind = s[:i], s[i+1:], symbolField
	}
	if kind == symbolClass {
		return symbol{kind: kind, owner: head}, nil
	}

	dot := strings.LastIndexByte(head, '.')
	if dot <= 0 || dot == len(head)-1 || desc == "" {
		return symbol{}, fmt.Errorf("malformed symbol %q (expected owner.name:desc or owner.name(args)ret)", s)
	}
	return symbol{kind: kind, owner: head[:dot], name: head[dot+1:], descriptor: desc}, nil
}

// toArchive rewrites a symbol given in the mapping namespace into archive
// names using the inverse of the rename table.
func (s symbol) toArchive(r *remap.Remapper) symbol {
	inv := r.Inverse()
	out := s
	out.owner = inv.MapOwner(s.owner)
	switch s.kind {
	case symbolField:
		out.descriptor = inv.MapFieldDescriptor(s.descriptor)
	case symbolMethod:
		out.descriptor = inv.MapMethodDescriptor(s.descriptor)
	}
	return out
}

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var (
		mapped bool
		plain  bool
		slot   int
	)

	cmd := &cobra.Command{
		Use:   "lookup <symbol>",
		Short: "Resolve the documentation of one class, field, method or parameter",
		Long: `Resolve documentation the way generate does. Symbols use internal names:

  a/b/Foo                     class
  a/b/Foo.count:I             field
  a/b/Foo.run(Ljava/lang/String;)V  method (add --param for a parameter)

Method documentation is inherited from supertypes in the archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sym, err := parseSymbol(args[0])
			if err != nil {
				return err
			}

			session, err := generate.Open(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			if mapped {
				sym = sym.toArchive(session.Remapper)
			}

			out := cmd.OutOrStdout()
			r, lookup := session.Resolver, session.Archive.Index.Ancestors
			var (
				doc string
				ok  bool
			)
			switch {
			case sym.kind == symbolClass:
				doc, ok = r.ClassDoc(sym.owner)
			case sym.kind == symbolField:
				doc, ok = r.FieldDoc(sym.owner, sym.name, sym.descriptor)
			case cmd.Flags().Changed("param"):
				p, status := r.ResolveParam(sym.owner, sym.name, sym.descriptor, slot, lookup)
				if status != docs.ParamFound {
					fmt.Fprintf(out, "(%s)\n", status)
					return nil
				}
				doc, ok = p.Name, true
				if p.Comment != "" {
					doc += "\n" + p.Comment
				}
			default:
				doc, ok = r.MethodDoc(sym.owner, sym.name, sym.descriptor, lookup)
			}

			if !ok {
				fmt.Fprintln(out, "(no documentation)")
				return nil
			}
			if plain {
				doc = javadoc.Plain(doc)
			}
			fmt.Fprintln(out, doc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mapped, "mapped", false, "the symbol uses mapping-namespace names")
	cmd.Flags().BoolVar(&plain, "plain", false, "render Javadoc markup as plain text")
	cmd.Flags().IntVarP(&slot, "param", "p", 0, "resolve the parameter at this local variable slot")

	return cmd
}
