package main

import (
	"fmt"
	"time"

	"learnhub/internal/state"

	"github.com/spf13/cobra"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks [query]",
	Short: "List or search bookmarks",
	Args:  cobra.MaximumNArgs(1),
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

		var list []state.Bookmark
		if len(args) == 1 {
			list = hub.SearchBookmarks(args[0])
		} else {
			list = hub.Bookmarks()
		}

		if len(list) == 0 {
			fmt.Println("No bookmarks.")
			return nil
		}
		for _, bm := range list {
			created := time.UnixMilli(bm.CreatedAt).Format("2006-01-02")
			fmt.Printf("%s  %-30s %s\n", created, bm.Title, bm.UnitID)
			if bm.ContentSnippet != "" {
				fmt.Printf("            %s\n", bm.ContentSnippet)
			}
		}
		return nil
	},
}
