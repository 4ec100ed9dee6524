package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/format"
	"github.com/dhamidi/combo/grammars"
)

// parseOptions are the flags shared by parse and watch.
type parseOptions struct {
	grammar  string
	format   string
	encoding string
	keyed    bool
	trace    bool
}

func (o *parseOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.grammar, "grammar", "g", "", "grammar to parse with (see `combo grammars`)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format (json, yaml, line)")
	cmd.Flags().StringVar(&o.encoding, "encoding", "", "IANA name of the text encoding of the input, e.g. ISO-8859-1")
	cmd.Flags().BoolVar(&o.keyed, "keyed", false, "key results by label")
	cmd.Flags().BoolVar(&o.trace, "trace", false, "log the grammar's progress at debug level")
}

// resolve fills unset flags from the config file.
func (o *parseOptions) resolve(cmd *cobra.Command) {
	if !cmd.Flags().Changed("grammar") {
		o.grammar = cfg.Grammar
	}
	if !cmd.Flags().Changed("format") {
		o.format = cfg.Format
	}
	if !cmd.Flags().Changed("encoding") {
		o.encoding = cfg.Encoding
	}
	if !cmd.Flags().Changed("keyed") {
		o.keyed = cfg.Keyed
	}
	if o.trace {
		commonlog.Configure(logVerbosity(cfg.Verbosity, o.trace), nil)
	}
}

func newParseCmd() *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file with a built-in grammar and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolve(cmd)
			return parseAndPrint(cmd.OutOrStdout(), args[0], &opts)
		},
	}

	opts.register(cmd)

	return cmd
}

func parseAndPrint(w io.Writer, path string, opts *parseOptions) error {
	g, ok := grammars.Lookup(opts.grammar)
	if !ok {
		return fmt.Errorf("unknown grammar %q (want one of %v)", opts.grammar, grammars.Names())
	}
	enc, err := format.New(opts.format, w)
	if err != nil {
		return err
	}

	parseOpts := []combo.ParseOption{combo.WithMedium(g.Medium), combo.WithLogger(log)}
	if opts.encoding != "" {
		e, err := ianaindex.IANA.Encoding(opts.encoding)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", opts.encoding, err)
		}
		if e == nil {
			return fmt.Errorf("encoding %q is not supported", opts.encoding)
		}
		parseOpts = append(parseOpts, combo.WithEncoding(e))
	}

	p := g.Parser()
	if opts.trace {
		p = combo.Trace(p, g.Name)
	}

	var result any
	if opts.keyed {
		result, err = combo.ParseFileKeyed(path, p, parseOpts...)
	} else {
		result, err = combo.ParseFile(path, p, parseOpts...)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return enc.Encode(result)
}
