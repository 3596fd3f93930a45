package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"jobmatch-workers/internal/matching/scoring"
	"jobmatch-workers/internal/matching/skills"
	"jobmatch-workers/internal/models"
)

func newScoreCmd() *cobra.Command {
	var (
		candidate []string
		required  []string
		jobType   string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Compute the deterministic match score for a skill set against a job",
		Example: `  jobmatchctl score --skills react,node.js,css --required react,node.js,mongodb --type full_time`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jt, err := models.ParseJobType(jobType)
			if err != nil {
				return err
			}

			b := scoring.Explain(skills.Normalize(candidate), skills.Normalize(required), jt)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score:         %d\n", b.Score)
			fmt.Fprintf(out, "exact:         %.2f\n", b.Exact)
			fmt.Fprintf(out, "related:       %.2f %v\n", b.Related, b.RelatedGroups)
			fmt.Fprintf(out, "type modifier: %.2f\n", b.TypeModifier)
			fmt.Fprintf(out, "matched:       %v\n", b.Matched)
			fmt.Fprintf(out, "missing:       %v\n", b.Missing)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&candidate, "skills", "s", nil, "candidate skills, comma separated")
	cmd.Flags().StringSliceVarP(&required, "required", "r", nil, "required job skills, comma separated")
	cmd.Flags().StringVarP(&jobType, "type", "t", string(models.JobTypeFullTime), "job type: internship, full_time, part_time, contract")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "print the breakdown as json")
	return cmd
}
