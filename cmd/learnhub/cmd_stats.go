package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study analytics",
	Long:  `Prints completion counters, total study time, the current daily streak, and recent activity.`,
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

		// Make sure totals reflect the current catalog before reporting.
		if _, err := openCatalog(cmd.Context(), cfg, hub); err != nil {
			logger.Warn("catalog unavailable, using stored totals", zap.Error(err))
		}

		report := hub.AnalyticsReport()

		fmt.Printf("Modules:        %d/%d completed (%.1f%%)\n",
			report.CompletedModules, report.TotalModules, report.CompletionRate)
		fmt.Printf("Study streak:   %d day(s)\n", report.StudyStreak)
		if report.LastStudyDate != nil {
			fmt.Printf("Last studied:   %s\n", *report.LastStudyDate)
		}
		fmt.Printf("Time spent:     %s total, %s avg per started module\n",
			formatDuration(report.TotalTimeSpent), formatDuration(report.AverageTimePerModule))
		fmt.Printf("Bookmarks:      %d\n", report.BookmarksCount)

		if len(report.RecentActivity) > 0 {
			fmt.Println("\nRecent activity:")
			for _, a := range report.RecentActivity {
				ts := time.UnixMilli(a.Timestamp).Format("2006-01-02 15:04")
				fmt.Printf("  %s  [%s]  %s\n", ts, a.Kind, a.Description)
			}
		}
		return nil
	},
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return d.Round(time.Second).String()
}
