// Command `prefer` shows how its configuration was resolved.
//
// Every setting is looked up in order: command-line flag, environment
// variable, config file, static default. The first source that has the
// value wins.
//
// Usage:
//
//	prefer show                - Show every setting and where it came from
//	prefer get <setting>       - Print a single setting
//	prefer init [--force]      - Write the resolved configuration as a config file
//	prefer version             - Show version information
//
// Examples:
//
//	prefer show --work-dir /tmp/work
//	HOME=/srv prefer get System.HomeDir
//	prefer --config ./prefer.yaml show
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lc/prefer/internal/buildinfo"
	"github.com/lc/prefer/internal/config"
	"github.com/lc/prefer/internal/filesys"
	"github.com/lc/prefer/internal/log"
	"github.com/lc/prefer/pkg/source"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "prefer",
		Short: "Resolve configuration from flags, environment and config file",
		Long: `prefer resolves each of its settings from, in order of preference:
a command-line flag, an environment variable, a config file and a static default.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if verbose {
				return log.SetLevel("debug")
			}
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String(config.ConfigFlag, "", "config file (default ~/"+config.DefaultConfigPath+")")
	pf.String("home-dir", "", "home directory")
	pf.String("work-dir", "", "working directory")
	pf.String("app-dir", "", "application directory")
	pf.String("tmp-dir", "", "temporary directory")
	pf.String("timeout", "", "operation timeout, e.g. 30s")
	pf.String("workers", "", "number of workers")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log how each setting is resolved")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := config.New(config.WithArgs(source.Flags(cmd.Flags()))).Load()
		if err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
		if !verbose {
			if err := log.SetLevel(cfg.Log.Level); err != nil {
				log.Warn("cannot apply log level", "error", err)
			}
		}
		return cfg, nil
	}

	// ---- show command ----
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show every setting and its source",
		Long: `Show the resolved value of every setting, together with the source
it was taken from (arg:, env:, config: or default).`,
		Example: "prefer show --work-dir /tmp/work",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			renderSettings(cmd.OutOrStdout(), cfg)
			return nil
		},
	}

	// ---- get command ----
	getCmd := &cobra.Command{
		Use:     "get <setting>",
		Short:   "Print the value of one setting",
		Example: "prefer get System.HomeDir",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			s, ok := cfg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Value)
			return nil
		},
	}

	// ---- init command ----
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved configuration to the config file",
		Long: `Write the currently resolved configuration as an INI file at the
config file path. An existing file is only replaced with --force.`,
		Example: "prefer init --config ./prefer.ini --work-dir /srv/work",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			fsys := filesys.OS()
			if _, err := fsys.Stat(cfg.Path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Path)
			}
			data, err := cfg.SampleINI()
			if err != nil {
				return err
			}
			if err := filesys.AtomicWrite(fsys, cfg.Path, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", cfg.Path, err)
			}
			log.Info("wrote config file", "path", cfg.Path)
			color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", cfg.Path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	// ---- version command ----
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "version: %s\n", buildinfo.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", buildinfo.Commit)
		},
	}

	root.AddCommand(showCmd, getCmd, initCmd, versionCmd)
	return root
}

func renderSettings(w io.Writer, cfg *config.Config) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Setting", "Value", "Source"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
	)
	table.SetBorder(false)
	table.SetColumnColor(
		tablewriter.Colors{tablewriter.FgHiWhiteColor},
		tablewriter.Colors{tablewriter.FgGreenColor},
		tablewriter.Colors{tablewriter.FgYellowColor},
	)

	for _, s := range cfg.Settings() {
		table.Append([]string{s.Name, fmt.Sprint(s.Value), s.Source})
	}

	color.New(color.Bold).Fprintf(w, "CONFIG FILE: %s\n", cfg.Path)
	table.Render()
}
