package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rbyshko/kraken-std/git"
)

var checkFiles []string

func init() {
	checkCmd.Flags().StringSliceVar(&checkFiles, "file", []string{"Cargo.lock"},
		"files that must exist and be committed")
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Verify important files exist and are committed",
	Long: `Verify that each listed file exists in the project and is tracked by
git. Files matched by the project's .gitignore are flagged, since they will
silently fall out of the repository.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		failed := false
		for _, file := range checkFiles {
			if err := git.CheckImportantFile(cmd.Context(), dir, file); err != nil {
				logger.Error(err.Error())
				failed = true
				continue
			}
			ignored, err := git.Ignored(dir, file)
			if err != nil {
				return err
			}
			if ignored {
				logger.Warn("file is matched by .gitignore", "file", file)
			}
			logger.Info("ok", "file", file)
		}
		if failed {
			return errors.New("check failed")
		}
		return nil
	},
}
