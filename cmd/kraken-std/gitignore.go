package main

import (
	"github.com/spf13/cobra"

	"github.com/rbyshko/kraken-std/git"
)

var (
	gitignorePath   string
	gitignoreHeader string
)

func init() {
	gitignoreCmd.Flags().StringVar(&gitignorePath, "path", ".gitignore", "ignore file to update")
	gitignoreCmd.Flags().StringVar(&gitignoreHeader, "header", "", "comment line placed at the top of the managed block")
}

var gitignoreCmd = &cobra.Command{
	Use:   "gitignore <pattern>...",
	Short: "Sync patterns into a managed .gitignore block",
	Long: `Maintain a sentinel-delimited block in the ignore file. The block is
created on first run and updated in place afterwards; content outside it is
never touched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changed, err := git.SyncIgnoreSection(gitignorePath, gitignoreHeader, args)
		if err != nil {
			return err
		}
		if changed {
			logger.Info("updated", "path", gitignorePath)
		} else {
			logger.Info("up to date", "path", gitignorePath)
		}
		return nil
	},
}
