package main

import (
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pgraham/codetmpl/internal/logging"
	"github.com/pgraham/codetmpl/internal/version"
	"github.com/pgraham/codetmpl/pkg/codetmpl"
)

// defaultConfigFiles are searched for in the XDG config directories when no
// --config flag is given
var defaultConfigFiles = []string{
	"codetmpl/config.yaml",
	"codetmpl/config.yml",
	"codetmpl/config.toml",
}

// app holds the state shared by all commands of one invocation
type app struct {
	verbosity  int
	configFile string
	config     *codetmpl.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "codetmpl",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.loadConfig()
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)

	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newSyntaxCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) loadConfig() error {
	path := a.configFile
	if path == "" {
		for _, rel := range defaultConfigFiles {
			if found, err := xdg.SearchConfigFile(rel); err == nil {
				path = found
				break
			}
		}
	}

	cfg, err := codetmpl.LoadConfig(path)
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}
	log.Debug().Str("path", path).Msg("Configuration loaded")
	a.config = cfg
	return nil
}

// engine creates a template engine from the loaded configuration
func (a *app) engine(opts ...codetmpl.Option) *codetmpl.Engine {
	cfg := a.config
	if cfg == nil {
		cfg = codetmpl.DefaultConfig()
	}
	all := append([]codetmpl.Option{codetmpl.WithConfig(cfg)}, opts...)
	return codetmpl.NewWithOptions(all...)
}

// isTerminal reports whether f is a file attached to a terminal
func isTerminal(f interface{}) bool {
	file, ok := f.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "codetmpl version %s\n", version.Version)
	fmt.Fprintf(w, "  commit: %s\n", version.Commit)
	fmt.Fprintf(w, "  built:  %s\n", version.Date)
}
