package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mappingpoet/generate"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		output  string
		include []string
		exclude []string
		noClean bool
	)

	cmd := &cobra.Command{
		Use:   "generate [mappings] [jar] [output] [table]",
		Short: "Write documented stubs for every class in the archive",
		Long: `Write one .java stub per top-level class of the archive into the output
directory, with Javadoc, parameter names and nested classes taken from the
mapping file. Positional arguments override the corresponding flags and
configuration values.`,
		Args: cobra.MaximumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			positional := []*string{&cfg.Mappings, &cfg.Archive, &cfg.Output, &cfg.Table}
			for i, arg := range args {
				*positional[i] = arg
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if cmd.Flags().Changed("include") {
				cfg.Include = include
			}
			if cmd.Flags().Changed("exclude") {
				cfg.Exclude = exclude
			}
			if noClean {
				cfg.Clean = false
			}

			report, err := generate.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Classes scanned: %d\n", report.Classes)
			fmt.Fprintf(out, "Files written:   %d\n", len(report.Files))
			fmt.Fprintf(out, "Excluded:        %d\n", len(report.Excluded))
			fmt.Fprintf(out, "Filtered:        %d\n", len(report.Filtered))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	cmd.Flags().StringSliceVar(&include, "include", nil, "only generate top-level classes matching these globs")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "skip top-level classes matching these globs")
	cmd.Flags().BoolVar(&noClean, "no-clean", false, "keep existing files in the output directory")

	return cmd
}
