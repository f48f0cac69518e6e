package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completeUndo bool

var completeCmd = &cobra.Command{
	Use:   "complete <unit-id>",
	Short: "Mark a unit complete (or incomplete with --undo)",
	Args:  cobra.ExactArgs(1),
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

		// Validate the unit against the catalog when it is available.
		if cat, err := openCatalog(cmd.Context(), cfg, hub); err == nil {
			if _, ok := cat.Unit(args[0]); !ok {
				return fmt.Errorf("unknown unit %q", args[0])
			}
		}

		if completeUndo {
			hub.MarkIncomplete(args[0])
			fmt.Printf("Marked %s incomplete\n", args[0])
			return nil
		}

		hub.MarkComplete(args[0])
		stats := hub.Stats()
		fmt.Printf("Marked %s complete. Streak: %d day(s)\n", args[0], stats.StudyStreak)
		return nil
	},
}

func init() {
	completeCmd.Flags().BoolVar(&completeUndo, "undo", false, "mark the unit incomplete instead")
}
