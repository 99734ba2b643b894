package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/mappingpoet/config"
)

// rootOptions carries the configuration loaded before any subcommand runs.
type rootOptions struct {
	configPath string
	logFile    string
	verbose    int
	mappings   string
	archive    string
	table      string
	namespace  string
	workers    int

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "mappingpoet",
		Short:        "Generate documented Java source stubs from a class archive and mappings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVarP(&opts.mappings, "mappings", "m", "", "tiny mapping file")
	flags.StringVarP(&opts.archive, "archive", "a", "", "class archive (jar)")
	flags.StringVarP(&opts.table, "table", "t", "", "rename table (.properties or .yaml)")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "mapping namespace to document from")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "parallel workers")

	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newLookupCmd(opts))
	rootCmd.AddCommand(newClassesCmd(opts))

	return rootCmd
}

// load reads the configuration and applies every flag the user set.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbosity = o.verbose
	}
	if flags.Changed("mappings") {
		cfg.Mappings = o.mappings
	}
	if flags.Changed("archive") {
		cfg.Archive = o.archive
	}
	if flags.Changed("table") {
		cfg.Table = o.table
	}
	if flags.Changed("namespace") {
		cfg.Namespace = o.namespace
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}

	var logPath *string
	if o.logFile != "" {
		logPath = &o.logFile
	}
	commonlog.Configure(cfg.Verbosity, logPath)

	o.cfg = cfg
	return nil
}
