package main

// Short messages (one-liners)
const (
	MsgRootShort    = "Generate source code from line-oriented templates"
	MsgRootLong     = `codetmpl resolves code templates against value sets loaded from JSON,
YAML, TOML or XML files. Templates hold literal lines, /*# name */
substitution tags and #{ if / each / switch directives.

Run "codetmpl syntax" for the template language reference.`
	MsgRenderShort  = "Resolve a template and print or write the result"
	MsgCheckShort   = "Parse templates and report syntax errors"
	MsgSyntaxShort  = "Show the template syntax reference"
	MsgVersionShort = "Print version information"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "config file (default is $XDG_CONFIG_HOME/codetmpl/config.yaml)"
	MsgFlagValues  = "values file (json, yaml, toml or xml); repeatable, later files win; - reads stdin"
	MsgFlagSet     = "set a value, e.g. --set fields[0][name]=id; repeatable"
	MsgFlagOutput  = "write the result to this file instead of stdout"
	MsgFlagFormat  = "format of values read from stdin"
	MsgFlagIndent  = "indentation unit of the template and its output"

	// Status messages
	MsgCheckOK   = "OK"
	MsgCheckFail = "FAIL"
	MsgWritten   = "wrote %s\n"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrLoadValues   = "failed to load values: %w"
	MsgErrInvalidSet   = "invalid --set %q: expected name=value"
	MsgErrStdinTTY     = "refusing to read values from a terminal; pipe a document into -f -"
	MsgErrRenderSyntax = "failed to render syntax reference: %w"
)
