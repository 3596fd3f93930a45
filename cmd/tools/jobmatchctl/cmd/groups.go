package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobmatch-workers/internal/matching/skills"
)

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups [skill...]",
		Short: "Print the skill affinity groups, or the group of each given skill",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, g := range skills.Groups {
					fmt.Fprintf(out, "%-9s %4.0f  %s\n", g, g.Weight(), strings.Join(g.Members(), ", "))
				}
				return nil
			}
			for _, s := range args {
				g, ok := skills.GroupOf(s)
				if !ok {
					fmt.Fprintf(out, "%s: -\n", skills.NormalizeToken(s))
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", skills.NormalizeToken(s), g)
			}
			return nil
		},
	}
}
