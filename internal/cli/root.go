// Package cli implements wqctl, the offline companion to the API: it scores
// measurement files, analyzes series and checks guideline catalogs without a
// database or server.
package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"waterquality-backend/internal/bootstrap"
	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/shared/telemetry"
)

type options struct {
	catalogPath string
}

// NewRootCmd builds the wqctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	var restoreLog func()

	root := &cobra.Command{
		Use:   "wqctl",
		Short: "Water quality assessment tooling",
		Long: `wqctl scores water quality measurements against the guideline catalog,
analyzes measurement series for trends, and validates or imports catalogs.

Output is JSON on stdout; logs go to stderr.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			restoreLog = telemetry.SetOutput(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if restoreLog != nil {
				restoreLog()
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", os.Getenv("GUIDELINES_PATH"),
		"Guideline catalog YAML (defaults to the embedded catalog)")

	root.AddCommand(newAssessCmd(opts), newTrendsCmd(opts), newCatalogCmd(opts))
	return root
}

// Execute runs wqctl with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) catalog() (*guidelines.Catalog, error) {
	return bootstrap.LoadCatalog(o.catalogPath)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
