// Package cli implements the offline ganadero command line: parse instructions
// against a YAML catalog without a database and inspect the vocabularies
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ganadero/internal/catalog"
	"ganadero/internal/core/fuzzy"
	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	"ganadero/internal/core/version"
)

// NewRoot builds the command tree writing results to out
func NewRoot(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "ganadero",
		Short: "Ganadero - livestock instructions in Spanish, interpreted offline",
		Long: `Ganadero interprets one Spanish livestock instruction such as
"Mover 120 terneros del Potrero 3 al Potrero 7 hoy" into a reviewable preview.

Nothing is persisted here; confirming previews is the API's job.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.AddCommand(newParseCmd(), newVocabularyCmd(), newVersionCmd())
	return root
}

func newParseCmd() *cobra.Command {
	var (
		catalogPath string
		now         string
		threshold   float64
	)
	cmd := &cobra.Command{
		Use:   `parse "<text>"`,
		Short: "Interpret an instruction and print the preview as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ctx interpreter.ParseContext
			if catalogPath != "" {
				f, err := catalog.Load(catalogPath)
				if err != nil {
					return err
				}
				ctx = f.Context()
			}

			opts := interpreter.Options{Threshold: threshold}
			if now != "" {
				at, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				opts.Clock = func() time.Time { return at }
			}

			res := interpreter.NewWithOptions(opts).Parse(strings.Join(args, " "), ctx)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog with paddocks, consignors and slaughterhouses")
	cmd.Flags().StringVar(&now, "now", "", "reference instant for relative dates (RFC3339)")
	cmd.Flags().Float64Var(&threshold, "threshold", fuzzy.DefaultThreshold, "fuzzy name acceptance threshold")
	return cmd
}

func newVocabularyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocabulary",
		Short: "Print the herd categories with their labels and synonyms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tLABEL\tSPECIES\tSYNONYMS")
			for _, c := range herd.Categories() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Category, c.Label, c.Category.Species(), strings.Join(c.Synonyms, ", "))
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			bi := version.Info()
			fmt.Fprintf(cmd.OutOrStdout(), "ganadero %s (%s, %s)\n", bi.Version, bi.Commit, bi.Date)
		},
	}
}
