// Command epcis-inspect parses EPCIS documents from the command line:
// format detection, event listing, validation, and full normalized
// document output as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamischarles/epcis-parser/pkg/epcis"
	"github.com/jamischarles/epcis-parser/pkg/epcis/config"
	"github.com/jamischarles/epcis-parser/pkg/epcis/observability"
)

var (
	flagValidate bool
	flagLenient  bool
	flagVerbose  bool
	flagSummary  bool
	flagConfig   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "epcis-inspect",
		Short:         "Inspect and normalize EPCIS documents",
		Long:          "epcis-inspect reads an EPCIS document (1.2 XML, 2.0 XML or 2.0 JSON-LD)\nand prints its normalized form, its events, or its validation outcome.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&flagValidate, "validate", true, "run schema validation")
	root.PersistentFlags().BoolVar(&flagLenient, "lenient", false, "record validation errors instead of failing")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log parse progress to stderr")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "parser configuration file (yaml or json)")

	root.AddCommand(newDetectCmd(), newListCmd(), newValidateCmd(), newParseCmd())
	return root
}

// parserFor reads the document file and builds a parser with the
// flag-derived options. Config file settings apply first so explicit
// flags win.
func parserFor(path string) (*epcis.Parser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var opts []epcis.Option
	if flagConfig != "" {
		cfg, err := config.FromFile(flagConfig)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		opts = append(opts, epcis.OptionsFromConfig(cfg)...)
	}
	opts = append(opts,
		epcis.WithValidation(flagValidate),
		epcis.WithThrowOnError(!flagLenient),
	)
	if flagVerbose {
		opts = append(opts,
			epcis.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
			epcis.WithTracing(observability.NewSpanManager()),
			epcis.WithMetrics(observability.NewMetricsRecorder()),
		)
	}
	return epcis.NewParser(string(data), opts...)
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Print the detected EPCIS dialect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			format, err := epcis.DetectFormat(string(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (EPCIS %s)\n", format, format.Version())
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List the normalized events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parserFor(args[0])
			if err != nil {
				return err
			}
			events, err := p.Events(context.Background())
			if err != nil {
				return err
			}
			for i, ev := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-20s %-25s action=%-7s epcs=%d\n",
					i, ev.Type, ev.EventTime, ev.Action, len(ev.EPCList)+len(ev.ChildEPCs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d event(s)\n", len(events))
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate the document and report violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validation reporting needs the lenient path; a fatal
			// validation error would preempt the report.
			flagLenient = true
			p, err := parserFor(args[0])
			if err != nil {
				return err
			}
			res, err := p.Validity(context.Background())
			if err != nil {
				return err
			}
			if res.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "invalid:")
			for _, msg := range res.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", msg)
			}
			return fmt.Errorf("document failed validation with %d error(s)", len(res.Errors))
		},
	}
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the full normalized document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parserFor(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			doc, err := p.Document(ctx)
			if err != nil {
				return err
			}

			if flagSummary {
				res, _ := p.Validity(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "format:      %s\n", p.Format())
				fmt.Fprintf(cmd.OutOrStdout(), "events:      %d\n", len(doc.Events))
				fmt.Fprintf(cmd.OutOrStdout(), "master data: %d\n", len(doc.MasterData))
				fmt.Fprintf(cmd.OutOrStdout(), "sender:      %s\n", partyLine(doc.Sender))
				fmt.Fprintf(cmd.OutOrStdout(), "receiver:    %s\n", partyLine(doc.Receiver))
				fmt.Fprintf(cmd.OutOrStdout(), "valid:       %t\n", res.Valid)
				return nil
			}

			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagSummary, "summary", false, "print a one-screen summary instead of JSON")
	return cmd
}

func partyLine(p epcis.Party) string {
	switch {
	case p.IsZero():
		return "(unresolved)"
	case p.Name != "":
		return fmt.Sprintf("%s <%s>", p.Name, p.Identifier)
	default:
		return p.Identifier
	}
}
