package state

import (
	"fmt"
	"math"
	"sort"
	"time"

	"learnhub/internal/logging"
)

// Analytics is the derived study report.
type Analytics struct {
	TotalModules         int        `json:"totalModules"`
	CompletedModules     int        `json:"completedModules"`
	CompletionRate       float64    `json:"completionRate"`
	TotalTimeSpent       int64      `json:"totalTimeSpent"`
	AverageTimePerModule int64      `json:"averageTimePerModule"`
	StudyStreak          int        `json:"studyStreak"`
	BookmarksCount       int        `json:"bookmarksCount"`
	LastStudyDate        *string    `json:"lastStudyDate"`
	RecentActivity       []Activity `json:"recentActivity"`
}

// Activity is one recent-activity entry, either a completion or a bookmark.
type Activity struct {
	Kind        string `json:"kind"` // "completion" | "bookmark"
	Timestamp   int64  `json:"timestamp"`
	Description string `json:"description"`
}

// SetTotalModules records the catalog size. The catalog layer supplies the
// count at startup; the core never discovers it itself.
func (h *Hub) SetTotalModules(n int) {
	h.mu.Lock()
	h.state.Stats.TotalModules = n
	h.persistLocked()
	h.mu.Unlock()
	logging.Get(logging.CategoryStats).Debug("Total modules set to %d", n)
}

// Stats returns a copy of the current aggregate counters.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.state.Stats
	if out.LastStudyDate != nil {
		d := *out.LastStudyDate
		out.LastStudyDate = &d
	}
	return out
}

// recomputeCountsLocked rederives completedModules from progress records.
// This is the only writer of the counter.
func (h *Hub) recomputeCountsLocked() {
	count := 0
	for _, rec := range h.state.Progress {
		if rec.Completed {
			count++
		}
	}
	h.state.Stats.CompletedModules = count
}

// updateStreakLocked advances the study streak on local calendar days:
// first study ever or a gap of two or more days starts a new streak of 1,
// a completion the day after the last one extends it, and repeat
// completions on the same day are no-ops. A lastStudyDate in the future
// (clock skew) also restarts at 1.
func (h *Hub) updateStreakLocked() {
	today := dayStart(h.now())
	todayStr := today.Format("2006-01-02")

	last := h.state.Stats.LastStudyDate
	if last != nil && *last == todayStr {
		return // already counted today
	}

	streak := 1
	if last != nil {
		if lastDay, err := time.ParseInLocation("2006-01-02", *last, time.Local); err == nil {
			if lastDay.Equal(today.AddDate(0, 0, -1)) {
				streak = h.state.Stats.StudyStreak + 1
			}
		}
	}

	h.state.Stats.StudyStreak = streak
	h.state.Stats.LastStudyDate = &todayStr
	logging.Get(logging.CategoryStats).Info("Study streak now %d (last study %s)", streak, todayStr)
}

// dayStart truncates a time to its local calendar day.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AnalyticsReport derives the aggregate study report from current state.
func (h *Hub) AnalyticsReport() Analytics {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := h.state.Stats

	var totalTime int64
	started := 0
	for _, rec := range h.state.Progress {
		totalTime += rec.TimeSpent
		if rec.TimeSpent > 0 || rec.Completed {
			started++
		}
	}

	rate := 0.0
	if stats.TotalModules > 0 {
		rate = float64(stats.CompletedModules) / float64(stats.TotalModules) * 100
		rate = math.Round(rate*10) / 10
	}

	avg := int64(0)
	if started > 0 {
		avg = totalTime / int64(started)
	}

	report := Analytics{
		TotalModules:         stats.TotalModules,
		CompletedModules:     stats.CompletedModules,
		CompletionRate:       rate,
		TotalTimeSpent:       totalTime,
		AverageTimePerModule: avg,
		StudyStreak:          stats.StudyStreak,
		BookmarksCount:       len(h.state.Bookmarks),
		RecentActivity:       h.recentActivityLocked(),
	}
	if stats.LastStudyDate != nil {
		d := *stats.LastStudyDate
		report.LastStudyDate = &d
	}
	return report
}

// recentActivityLocked merges the 5 most recent completions and 3 most
// recent bookmarks into one reverse-chronological list of at most 10.
func (h *Hub) recentActivityLocked() []Activity {
	type completion struct {
		unitID string
		at     int64
	}
	completions := make([]completion, 0, len(h.state.Progress))
	for id, rec := range h.state.Progress {
		if rec.Completed && rec.CompletedAt != nil {
			completions = append(completions, completion{unitID: id, at: *rec.CompletedAt})
		}
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].at > completions[j].at })
	if len(completions) > 5 {
		completions = completions[:5]
	}

	bookmarks := make([]*Bookmark, len(h.state.Bookmarks))
	copy(bookmarks, h.state.Bookmarks)
	sort.SliceStable(bookmarks, func(i, j int) bool { return bookmarks[i].CreatedAt > bookmarks[j].CreatedAt })
	if len(bookmarks) > 3 {
		bookmarks = bookmarks[:3]
	}

	activity := make([]Activity, 0, len(completions)+len(bookmarks))
	for _, c := range completions {
		activity = append(activity, Activity{
			Kind:        "completion",
			Timestamp:   c.at,
			Description: fmt.Sprintf("Completed %s", c.unitID),
		})
	}
	for _, bm := range bookmarks {
		activity = append(activity, Activity{
			Kind:        "bookmark",
			Timestamp:   bm.CreatedAt,
			Description: fmt.Sprintf("Bookmarked %s", bm.Title),
		})
	}

	sort.SliceStable(activity, func(i, j int) bool { return activity[i].Timestamp > activity[j].Timestamp })
	if len(activity) > 10 {
		activity = activity[:10]
	}
	return activity
}
