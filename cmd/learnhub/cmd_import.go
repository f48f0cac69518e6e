package main

import (
	"errors"
	"fmt"
	"os"

	"learnhub/internal/state"

	"github.com/spf13/cobra"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <snapshot.json>",
	Short: "Import a snapshot file",
	Long: `Reads a previously exported snapshot and applies it.

By default imported data is merged into the current state: imported progress
wins on conflicting unit ids and bookmark lists are combined without
duplicates. With --replace the whole state is replaced by the snapshot.`,
	Args: cobra.ExactArgs(1),
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

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()

		result, err := hub.ImportSnapshot(cmd.Context(), f, !importReplace)
		if err != nil {
			var readErr *state.ImportReadError
			var valErr *state.ImportValidationError
			switch {
			case errors.As(err, &readErr):
				return fmt.Errorf("%s is not a readable JSON file: %w", args[0], readErr.Err)
			case errors.As(err, &valErr):
				return fmt.Errorf("%s is not a learnhub snapshot: %s", args[0], valErr.Reason)
			default:
				return err
			}
		}

		mode := "merged"
		if importReplace {
			mode = "replaced"
		}
		fmt.Printf("Import complete (%s): %d progress records, %d bookmarks\n",
			mode, len(result.Progress), len(result.Bookmarks))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "replace current state instead of merging")
}
