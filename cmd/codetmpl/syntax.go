package main

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed syntax.md
var syntaxReference string

func newSyntaxCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "syntax",
		Short: MsgSyntaxShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !isTerminal(out) {
				_, err := io.WriteString(out, syntaxReference)
				return err
			}
			rendered, err := renderMarkdown(syntaxReference, width)
			if err != nil {
				return fmt.Errorf(MsgErrRenderSyntax, err)
			}
			_, err = io.WriteString(out, rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "wrap the reference at this column")
	return cmd
}

func renderMarkdown(content string, width int) (string, error) {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}
