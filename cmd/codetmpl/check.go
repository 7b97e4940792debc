package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pgraham/codetmpl/internal/logging"
	"github.com/pgraham/codetmpl/pkg/codetmpl"
)

var (
	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#00875F", Dark: "#5FD787"})
	failStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"})
	detailStyle = lipgloss.NewStyle().
		Faint(true).
		PaddingLeft(5)
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check TEMPLATE...",
		Short: MsgCheckShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), a.engine(), args)
		},
	}
}

// runCheck parses every template and reports one line per template. All
// failures are returned together.
func runCheck(w io.Writer, engine *codetmpl.Engine, names []string) error {
	logger := logging.GetLogger("check")
	done := logging.LogOperationStart(logger, "check")
	defer done()

	errs := codetmpl.NewMultiError()
	for _, name := range names {
		path := templatePath(engine, name)
		if _, err := engine.ParseFile(path); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("Template failed to parse")
			errs.Add(err)
			fmt.Fprintf(w, "%s %s\n", failStyle.Render(MsgCheckFail), path)
			fmt.Fprintln(w, detailStyle.Render(err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s   %s\n", okStyle.Render(MsgCheckOK), path)
	}
	return errs.Err()
}
