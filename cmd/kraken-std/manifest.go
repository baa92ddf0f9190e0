package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbyshko/kraken-std/cargo"
	"github.com/rbyshko/kraken-std/internal/render"
)

var (
	manifestShowJSON bool
	manifestShowTOML bool

	setVersionDryRun bool
)

func init() {
	manifestShowCmd.Flags().BoolVar(&manifestShowJSON, "json", false, "print the full document as JSON")
	manifestShowCmd.Flags().BoolVar(&manifestShowTOML, "toml", false, "print the re-encoded manifest TOML")
	manifestShowCmd.MarkFlagsMutuallyExclusive("json", "toml")
	manifestSetVersionCmd.Flags().BoolVar(&setVersionDryRun, "dry-run", false, "print the updated manifest instead of writing it")
	manifestCmd.AddCommand(manifestShowCmd, manifestSetVersionCmd)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect and edit Cargo.toml manifests",
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Print the typed view of a manifest",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := cargo.ReadManifest(manifestPath(args))
		if err != nil {
			return err
		}
		if manifestShowJSON {
			return printJSON(cmd.OutOrStdout(), m.Document())
		}
		if manifestShowTOML {
			out, err := m.Encode()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		}

		var parts []string
		if m.Package != nil {
			parts = append(parts,
				render.Field("name", m.Package.Name),
				render.Field("version", m.Package.Version),
				render.Field("edition", m.Package.Edition),
			)
		}
		if m.Dependencies != nil {
			parts = append(parts, render.Field("dependencies", strconv.Itoa(len(m.Dependencies.Data))))
		}
		if m.Workspace != nil {
			if m.Workspace.Package != nil {
				parts = append(parts, render.Field("workspace-version", m.Workspace.Package.Version))
			}
			rows := make([][]string, 0, len(m.Workspace.Members))
			for _, member := range m.Workspace.Members {
				rows = append(rows, []string{member})
			}
			parts = append(parts, render.Table("members", []string{"pattern"}, rows))
		}
		if len(m.Bin) > 0 {
			rows := make([][]string, 0, len(m.Bin))
			for _, b := range m.Bin {
				rows = append(rows, []string{b.Name, b.Path})
			}
			parts = append(parts, render.Table("bin", []string{"name", "path"}, rows))
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, "\n"))
		return nil
	},
}

var manifestSetVersionCmd = &cobra.Command{
	Use:   "set-version <version> [dir]",
	Short: "Set the package version and write the manifest back",
	Long: `Set the version of [package], or of [workspace.package] for a
workspace-only manifest, and write the manifest back in place. Every field
the tool does not model is preserved as-is.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		version := args[0]
		path := manifestPath(args[1:])
		m, err := cargo.ReadManifest(path)
		if err != nil {
			return err
		}
		switch {
		case m.Package != nil:
			m.Package.Version = version
		default:
			if m.Workspace.Package == nil {
				m.Workspace.Package = &cargo.Package{}
			}
			m.Workspace.Package.Version = version
		}
		if setVersionDryRun {
			out, err := m.Encode()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		}
		if err := m.Save(""); err != nil {
			return err
		}
		logger.Info("version updated", "path", path, "version", version)
		return nil
	},
}

// manifestPath resolves the optional [dir] argument to a Cargo.toml path.
func manifestPath(args []string) string {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	return filepath.Join(dir, cargo.ManifestName)
}
