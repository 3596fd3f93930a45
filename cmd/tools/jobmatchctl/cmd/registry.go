package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jobmatch-workers/pkg/registry"
)

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}
	cmd.PersistentFlags().StringVarP(&path, "path", "p", registry.DefaultPath, "path to the registry file")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}

	check := &cobra.Command{
		Use:   "check <task-type> [input.json]",
		Short: "Check job variables against a task type's input schema (stdin when no file is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			activity, ok := reg.Find(args[0])
			if !ok {
				return fmt.Errorf("unknown task type %q", args[0])
			}

			var doc []byte
			if len(args) == 2 {
				doc, err = os.ReadFile(args[1])
			} else {
				doc, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			if err := activity.ValidateInput(doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: input ok\n", activity.TaskType)
			return nil
		},
	}

	cmd.AddCommand(validate, check)
	return cmd
}
