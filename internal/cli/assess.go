package cli

import (
	"github.com/spf13/cobra"

	"waterquality-backend/internal/assessments"
)

func newAssessCmd(opts *options) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "assess <file>",
		Short: "Score a measurement file and print the assessment",
		Long: `Score one measurement against the guideline catalog.

The file is YAML, or JSON when it ends in .json:

  source: plant-a
  timestamp: "2024-06-01T12:00:00Z"
  values:
    ph: 7.2
    dissolved_oxygen: 8.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			var doc sampleFile
			if err := decodeFile(args[0], &doc); err != nil {
				return err
			}
			in, err := doc.input(source)
			if err != nil {
				return err
			}
			svc := &assessments.Service{Repo: assessments.NewMemoryRepo(), Catalog: cat}
			a, err := svc.Assess(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), a)
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "cli", "Source used when the file names none")
	return cmd
}
