package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgraham/codetmpl/internal/logging"
	"github.com/pgraham/codetmpl/pkg/codetmpl"
	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

type renderOptions struct {
	valueFiles []string
	sets       []string
	output     string
	format     string
	indent     string
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: MsgRenderShort,
		Example: `  codetmpl render model.template -f user.yaml
  codetmpl render model -f base.json -f user.toml --set class=Admin -o src/Admin.php
  cat user.json | codetmpl render model.template -f -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.valueFiles, "values", "f", nil, MsgFlagValues)
	flags.StringArrayVar(&opts.sets, "set", nil, MsgFlagSet)
	flags.StringVarP(&opts.output, "output", "o", "", MsgFlagOutput)
	flags.StringVar(&opts.format, "format", string(data.FormatJSON), MsgFlagFormat)
	flags.StringVar(&opts.indent, "indent", "", MsgFlagIndent)

	return cmd
}

func runRender(cmd *cobra.Command, a *app, opts *renderOptions, name string) error {
	defer logging.LogDuration(time.Now(), "render")
	logger := logging.GetLogger("render")

	var engineOpts []codetmpl.Option
	if opts.indent != "" {
		engineOpts = append(engineOpts, codetmpl.WithIndentUnit(opts.indent))
	}
	engine := a.engine(engineOpts...)

	values, err := collectValues(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	path := templatePath(engine, name)
	logger.Debug().Str("template", path).Int("values", len(values)).Msg("Rendering template")

	if opts.output != "" {
		if err := engine.ResolveFile(path, opts.output, values); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), MsgWritten, opts.output)
		return nil
	}

	tmpl, err := engine.ParseFile(path)
	if err != nil {
		return err
	}
	out, err := tmpl.Resolve(values)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

// templatePath returns name itself when it names an existing file, otherwise
// the engine's lookup path for it
func templatePath(engine *codetmpl.Engine, name string) string {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name
	}
	return engine.TemplatePath(name)
}

// collectValues merges the value files in order and then applies --set
// assignments
func collectValues(stdin io.Reader, opts *renderOptions) (codetmpl.TemplateData, error) {
	values := map[string]interface{}{}

	for _, file := range opts.valueFiles {
		var (
			loaded map[string]interface{}
			err    error
		)
		if file == "-" {
			loaded, err = readStdinValues(stdin, opts.format)
		} else {
			loaded, err = data.LoadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf(MsgErrLoadValues, err)
		}
		data.Merge(values, loaded)
	}

	for _, assignment := range opts.sets {
		if err := applySet(values, assignment); err != nil {
			return nil, err
		}
	}

	return codetmpl.TemplateData(values), nil
}

func readStdinValues(stdin io.Reader, formatName string) (map[string]interface{}, error) {
	if isTerminal(stdin) {
		return nil, errors.New(MsgErrStdinTTY)
	}
	format, err := data.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	return data.Decode(stdin, format)
}

// applySet stores one name[index]...=value assignment. The value is typed
// the way a YAML scalar would be.
func applySet(values map[string]interface{}, assignment string) error {
	name, raw, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf(MsgErrInvalidSet, assignment)
	}
	ref, err := codetmpl.ParseVarRef(name)
	if err != nil {
		return fmt.Errorf("invalid --set %q: %w", assignment, err)
	}
	return data.SetPath(values, ref.Name, ref.Indexes, data.ParseScalar(raw))
}
