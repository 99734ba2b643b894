package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mappingpoet/format"
	"github.com/dhamidi/mappingpoet/generate"
	"github.com/dhamidi/mappingpoet/nest"
)

func newClassesCmd(opts *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Show how archive classes nest and which are left out",
		Long: `Print the nesting tree generate would emit. With --format the documented
class models are printed instead, one top-level class at a time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := generate.Open(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			assembled, err := session.Assemble()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputFormat == "tree" {
				printTree(out, assembled)
				return nil
			}

			enc, err := format.NewEncoder(outputFormat, out)
			if err != nil {
				return err
			}
			for _, g := range assembled.Roots {
				if err := enc.Encode(session.Model(g)); err != nil {
					return fmt.Errorf("encode %s: %w", g.Name(), err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree",
		"output format (tree, "+strings.Join(format.Names, ", ")+")")

	return cmd
}

func printTree(w io.Writer, res *nest.Result) {
	for _, root := range res.Roots {
		printGroup(w, root, 0)
	}
	for _, name := range res.Excluded {
		fmt.Fprintf(w, "excluded\t%s\n", name)
	}
}

func printGroup(w io.Writer, g *nest.Group, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), g.Name())
	for _, n := range g.Nested {
		printGroup(w, n, depth+1)
	}
}
