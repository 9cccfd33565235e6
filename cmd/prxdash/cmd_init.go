package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/wizard"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var answers wizard.Answers
	var force bool
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a .prxdash.yaml project config",
		Long: `Create a .prxdash.yaml project config in dir (default: current directory).

Without --dataset and --models an interactive form asks for the score
source, the dataset and its models. With both flags set, no questions are
asked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			target := filepath.Join(dir, projectconfig.FileName)
			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", target)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			var spec *wizard.ProjectSpec
			var err error
			if answers.Dataset != "" && answers.Models != "" {
				spec, err = wizard.ParseAnswers(answers)
			} else {
				spec, err = wizard.RunProjectWizard(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			content, err := wizard.GenerateConfigYAML(spec)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target) //nolint:errcheck
			return nil
		},
	}
	cmd.Flags().StringVar(&answers.SourceKind, "source", projectconfig.SourceDir, "Score source: dir | http | azblob")
	cmd.Flags().StringVar(&answers.Location, "location", "", "Directory, base URL, or storage account URL")
	cmd.Flags().StringVar(&answers.Container, "container", "", "Blob container (azblob only)")
	cmd.Flags().StringVar(&answers.Dataset, "dataset", "", "Dataset name")
	cmd.Flags().StringVar(&answers.Models, "models", "", "Comma-separated model names")
	cmd.Flags().StringVar(&answers.Categories, "categories", "", "Comma-separated category files per model")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}
