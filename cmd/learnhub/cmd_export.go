package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export learning state to a snapshot file",
	Long:  `Writes the full learning state to learning-hub-backup-<date>.json in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		hub, closeHub, err := openHub(cfg)
		if err != nil {
			return err
		}
		defer closeHub()

		snap, filename := hub.ExportSnapshot()
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize snapshot: %w", err)
		}

		path := filepath.Join(exportOutDir, filename)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}

		fmt.Printf("Exported %d progress records and %d bookmarks to %s\n",
			len(snap.Progress), len(snap.Bookmarks), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "output directory")
}
