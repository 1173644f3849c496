package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/config"
	"github.com/kintree/kintree/pkg/kinio"
)

// exportCommand creates the export command that writes a store snapshot.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output     string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the record store to a JSON snapshot",
		Long: `Export every person and relationship in the configured store to a JSON
snapshot file. Without --output the snapshot is written to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if output == "" {
				return kinio.WriteJSON(ctx, st, os.Stdout)
			}

			if err := kinio.ExportJSON(ctx, st, output); err != nil {
				return err
			}
			printSuccess("Exported snapshot")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file (default stdout)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to kintree.toml")

	return cmd
}

// importCommand creates the import command that replays a snapshot into a store.
func (c *CLI) importCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "import [snapshot.json]",
		Short: "Import a JSON snapshot into the record store",
		Long: `Replay a snapshot file into the configured store. Records are inserted
through the normal store operations, so IDs are reassigned and every
relationship gets its reciprocal edge re-established.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Store.Backend == config.StoreMemory {
				printWarning("importing into an in-memory store; records are gone when the process exits")
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			snap, err := kinio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			if err := kinio.Restore(ctx, st, snap); err != nil {
				return err
			}

			printSuccess("Imported snapshot %s", snap.ID)
			printStats(len(snap.People), len(snap.Relationships), false)
			prog.done("Import complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to kintree.toml")

	return cmd
}
