package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all learning state",
	Long:  `Replaces all progress, bookmarks, settings, and stats with fresh defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			fmt.Print("This erases all progress, bookmarks, and settings. Type 'yes' to continue: ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(answer) != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		hub, closeHub, err := openHub(cfg)
		if err != nil {
			return err
		}
		defer closeHub()

		if hub.ResetAll() {
			fmt.Println("All learning state reset.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
}
