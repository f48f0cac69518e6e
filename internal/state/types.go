// Package state implements the durable learning-state core of learnhub:
// per-unit progress, bookmarks, display settings, derived study analytics,
// and snapshot export/import, all persisted as a single versioned blob.
package state

// ProgressRecord tracks completion and time spent for one content unit.
// Absence of a record means the unit was never started.
type ProgressRecord struct {
	Completed    bool   `json:"completed"`
	CompletedAt  *int64 `json:"completedAt"`
	TimeSpent    int64  `json:"timeSpent"`
	LastAccessed *int64 `json:"lastAccessed"`
}

// Bookmark is a saved reference to a content unit. At most one bookmark
// exists per unit id.
type Bookmark struct {
	ID             string `json:"id"`
	UnitID         string `json:"unitId"`
	Title          string `json:"title"`
	Path           string `json:"path"`
	ContentSnippet string `json:"contentSnippet"`
	CreatedAt      int64  `json:"createdAt"`
}

// Settings holds flat key/value display preferences. The known keys carry
// defaults; unknown keys are stored but ignored by consumers.
type Settings map[string]string

// Known settings keys.
const (
	SettingTheme       = "theme"
	SettingFontSize    = "fontSize"
	SettingFontFamily  = "fontFamily"
	SettingLineSpacing = "lineSpacing"
)

// Stats holds the derived aggregate counters. CompletedModules is always
// recomputed from progress records, never hand-edited. LastStudyDate is a
// local calendar day formatted as YYYY-MM-DD.
type Stats struct {
	TotalModules     int     `json:"totalModules"`
	CompletedModules int     `json:"completedModules"`
	StudyStreak      int     `json:"studyStreak"`
	LastStudyDate    *string `json:"lastStudyDate"`
}

// RootState is the single persisted aggregate. It is written atomically:
// serialize-then-replace, never partially.
type RootState struct {
	SchemaVersion int                        `json:"schemaVersion"`
	Progress      map[string]*ProgressRecord `json:"progress"`
	Bookmarks     []*Bookmark                `json:"bookmarks"`
	Settings      Settings                   `json:"settings"`
	Stats         Stats                      `json:"stats"`
	CurrentUnit   *string                    `json:"currentUnit"`
	LastAccessed  int64                      `json:"lastAccessed"`
}

// Clone returns a deep copy of the state.
func (s *RootState) Clone() *RootState {
	out := &RootState{
		SchemaVersion: s.SchemaVersion,
		Progress:      make(map[string]*ProgressRecord, len(s.Progress)),
		Bookmarks:     make([]*Bookmark, 0, len(s.Bookmarks)),
		Settings:      make(Settings, len(s.Settings)),
		Stats:         s.Stats,
		LastAccessed:  s.LastAccessed,
	}
	for id, rec := range s.Progress {
		out.Progress[id] = rec.clone()
	}
	for _, bm := range s.Bookmarks {
		c := *bm
		out.Bookmarks = append(out.Bookmarks, &c)
	}
	for k, v := range s.Settings {
		out.Settings[k] = v
	}
	if s.Stats.LastStudyDate != nil {
		d := *s.Stats.LastStudyDate
		out.Stats.LastStudyDate = &d
	}
	if s.CurrentUnit != nil {
		u := *s.CurrentUnit
		out.CurrentUnit = &u
	}
	return out
}

func (r *ProgressRecord) clone() *ProgressRecord {
	c := *r
	if r.CompletedAt != nil {
		v := *r.CompletedAt
		c.CompletedAt = &v
	}
	if r.LastAccessed != nil {
		v := *r.LastAccessed
		c.LastAccessed = &v
	}
	return &c
}

// ProgressPatch carries partial progress fields for SetProgress.
// Nil fields are left untouched.
type ProgressPatch struct {
	Completed   *bool
	CompletedAt *int64
	TimeSpent   *int64
}

// ProgressUpdate is the payload published with progress events.
type ProgressUpdate struct {
	UnitID string
	Record ProgressRecord
}

// SettingChange is the payload published with setting-changed events.
type SettingChange struct {
	Key   string
	Value string
}
