package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/quality"
	"waterquality-backend/internal/trends"
)

type trendsOutput struct {
	Source     string            `json:"source"`
	Samples    int               `json:"samples"`
	Report     trends.Report     `json:"report"`
	Advisories []trends.Advisory `json:"advisories"`
}

func newTrendsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trends <file>",
		Short: "Analyze a series of measurements for trends",
		Long: `Analyze a source's samples for trends, anomalies and warnings.

Samples must be listed oldest first; a series that goes back in time is
rejected rather than reordered.

  source: plant-a
  samples:
    - timestamp: "2024-05-01T08:00:00Z"
      values: {ph: 7.4, nitrate: 4}
    - timestamp: "2024-05-02T08:00:00Z"
      values: {ph: 7.1, nitrate: 6}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			var doc seriesFile
			if err := decodeFile(args[0], &doc); err != nil {
				return err
			}
			out, err := analyzeSeries(cat, doc)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func analyzeSeries(cat *guidelines.Catalog, doc seriesFile) (trendsOutput, error) {
	ms := make([]quality.Measurement, 0, len(doc.Samples))
	scores := make([]float64, 0, len(doc.Samples))
	for i, s := range doc.Samples {
		in, err := s.input(doc.Source)
		if err != nil {
			return trendsOutput{}, fmt.Errorf("sample %d: %w", i, err)
		}
		if in.MeasuredAt.IsZero() {
			return trendsOutput{}, fmt.Errorf("sample %d: timestamp is required", i)
		}
		m := quality.NewMeasurement(in.Source, in.MeasuredAt, in.Values)
		ms = append(ms, m)
		index, _ := quality.Aggregate(m, cat)
		scores = append(scores, index.Score)
	}
	report, err := trends.Analyze(cat, trends.FromAssessments(ms, scores))
	if err != nil {
		return trendsOutput{}, err
	}
	return trendsOutput{
		Source:     doc.Source,
		Samples:    len(ms),
		Report:     report,
		Advisories: trends.Advisories(cat, report),
	}, nil
}
