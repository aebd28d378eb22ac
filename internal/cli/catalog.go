package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/guidelines/pdfimport"
)

type catalogSummary struct {
	Version    int      `json:"version"`
	Parameters []string `json:"parameters"`
}

type importOutput struct {
	Pages    int                 `json:"pages"`
	Overlays []pdfimport.Overlay `json:"overlays"`
	Catalog  string              `json:"catalog,omitempty"`
}

func newCatalogCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and import guideline catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd(opts), newCatalogImportCmd(opts))
	return cmd
}

func newCatalogValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Load and validate a catalog file",
		Long: `Load a guideline catalog and report every structural problem found.
Without a path the --catalog flag is used, then the embedded catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.catalogPath = args[0]
			}
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), catalogSummary{Version: cat.Version(), Parameters: cat.Names()})
		},
	}
}

func newCatalogImportCmd(opts *options) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "import-pdf <pdf>",
		Short: "Extract ranges, thresholds and actions from a guideline PDF",
		Long: `Extract acceptable ranges, severity thresholds and remediation actions from
a guideline PDF and print them as overlays on the current catalog. The overlays
are merged into a copy of the catalog and validated; the command fails if the
result is invalid. With --out the merged catalog is written as YAML, ready for
--catalog or GUIDELINES_PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			pages, err := pdfimport.ExtractFile(args[0])
			if err != nil {
				return err
			}
			overlays := pdfimport.Parse(pages, cat)
			merged, err := pdfimport.ApplyOverlays(cat, overlays)
			if err != nil {
				return fmt.Errorf("imported guidelines do not validate: %w", err)
			}
			if outPath != "" {
				if err := writeCatalog(outPath, merged); err != nil {
					return err
				}
			}
			if overlays == nil {
				overlays = []pdfimport.Overlay{}
			}
			return writeJSON(cmd.OutOrStdout(), importOutput{Pages: len(pages), Overlays: overlays, Catalog: outPath})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the merged catalog YAML to this path")
	return cmd
}

func writeCatalog(path string, cat *guidelines.Catalog) error {
	raw, err := guidelines.Marshal(cat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
