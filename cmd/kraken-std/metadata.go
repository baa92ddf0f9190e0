package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbyshko/kraken-std/cargo"
	"github.com/rbyshko/kraken-std/internal/render"
)

var metadataJSON bool

func init() {
	metadataCmd.PersistentFlags().BoolVar(&metadataJSON, "json", false, "print the result as JSON")
	metadataCmd.AddCommand(metadataMembersCmd, metadataArtifactsCmd)
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Read cargo metadata for a project",
}

var metadataMembersCmd = &cobra.Command{
	Use:   "members [dir]",
	Short: "List workspace members",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := readMetadata(cmd, args)
		if err != nil {
			return err
		}
		if metadataJSON {
			return printJSON(cmd.OutOrStdout(), md.WorkspaceMembers)
		}
		rows := make([][]string, 0, len(md.WorkspaceMembers))
		for _, m := range md.WorkspaceMembers {
			rows = append(rows, []string{m.Name, m.Version, m.Edition, m.ManifestPath})
		}
		fmt.Fprintln(cmd.OutOrStdout(),
			render.Table("members", []string{"name", "version", "edition", "manifest"}, rows))
		return nil
	},
}

var metadataArtifactsCmd = &cobra.Command{
	Use:   "artifacts [dir]",
	Short: "List bin and lib artifacts of the workspace members",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := readMetadata(cmd, args)
		if err != nil {
			return err
		}
		if metadataJSON {
			return printJSON(cmd.OutOrStdout(), md.Artifacts)
		}
		rows := make([][]string, 0, len(md.Artifacts))
		for _, a := range md.Artifacts {
			rows = append(rows, []string{a.Name, a.Path, string(a.Kind)})
		}
		fmt.Fprintln(cmd.OutOrStdout(),
			render.Table("artifacts", []string{"name", "path", "kind"}, rows))
		return nil
	},
}

func readMetadata(cmd *cobra.Command, args []string) (*cargo.Metadata, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	logger.Debug("running cargo metadata", "dir", dir, "bin", cfg.CargoBin)
	return cargo.ReadMetadata(cmd.Context(), cargo.ExecTool{Bin: cfg.CargoBin}, dir)
}
