package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/semmap/rules"
	"github.com/c360studio/semmap/status"
)

// errValidation is returned when at least one snapshot has invalid rules.
var errValidation = errors.New("validation failed")

func serializeCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "serialize <snapshot>...",
		Short: "Serialize rule snapshots to TransformRules XML",
		Long: `Serialize reads one or more rule snapshots and writes the TransformRules
document of each. Arguments may be glob patterns, including **.

Nothing is written for a snapshot whose rule names are not unique.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			files, err := resolveInputs(args)
			if err != nil {
				return err
			}
			if output != "" && len(files) > 1 {
				return fmt.Errorf("--output needs exactly one snapshot, got %d", len(files))
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}

			failed := false
			for _, path := range files {
				snap, rs, err := loadSnapshot(path)
				if err != nil {
					return err
				}
				doc, msgs := rules.Serialize(rs, cfg.PrefixTable().Merge(snap.Prefixes))
				if len(msgs) > 0 {
					failed = true
					printMessages(cmd.ErrOrStderr(), path, msgs)
					continue
				}
				if err := doc.Encode(out); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintln(out)
				logger.Debug("Serialized snapshot", "path", path, "rules", doc.Len())
			}
			if failed {
				return errValidation
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	return cmd
}

func validateCmd(opts *globalOptions) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "validate <snapshot>...",
		Short: "Check rule snapshots for duplicate names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := opts.setup(cmd); err != nil {
				return err
			}
			files, err := resolveInputs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false
			for _, path := range files {
				_, rs, err := loadSnapshot(path)
				if err != nil {
					return err
				}
				msgs := rules.ValidateNames(rules.Names(rs))
				sum := status.Summarize(msgs)
				if sum.State == status.StateInvalid {
					failed = true
				}

				if html {
					rendered, err := status.RenderHTML(msgs)
					if err != nil {
						return fmt.Errorf("render messages: %w", err)
					}
					fmt.Fprint(out, rendered)
					continue
				}
				fmt.Fprintf(out, "%s: %s (%d rules)\n", path, sum.State, len(rs))
				printMessages(out, path, msgs)
			}
			if failed {
				return errValidation
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Render messages as HTML fragments")
	return cmd
}

func printMessages(w io.Writer, path string, msgs []rules.Message) {
	for _, m := range msgs {
		fmt.Fprintf(w, "%s: %s: %s\n", path, m.Severity, m.Text)
	}
}
