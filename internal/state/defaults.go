package state

// DefaultSettings returns the built-in display preferences.
func DefaultSettings() Settings {
	return Settings{
		SettingTheme:       "light",
		SettingFontSize:    "medium",
		SettingFontFamily:  "sans",
		SettingLineSpacing: "normal",
	}
}

// defaultState returns a fresh root state at the current schema version.
func defaultState() *RootState {
	return &RootState{
		SchemaVersion: CurrentSchemaVersion,
		Progress:      make(map[string]*ProgressRecord),
		Bookmarks:     make([]*Bookmark, 0),
		Settings:      DefaultSettings(),
		Stats: Stats{
			TotalModules:     0,
			CompletedModules: 0,
			StudyStreak:      0,
			LastStudyDate:    nil,
		},
	}
}

// normalize repairs nil containers, drops JSON-null entries, and fills
// missing setting defaults after a blob has been unmarshaled, so old or
// hand-edited stored data always carries the fields current code expects.
func (s *RootState) normalize() {
	if s.Progress == nil {
		s.Progress = make(map[string]*ProgressRecord)
	}
	for id, rec := range s.Progress {
		if rec == nil {
			delete(s.Progress, id)
		}
	}
	if s.Bookmarks == nil {
		s.Bookmarks = make([]*Bookmark, 0)
	}
	kept := s.Bookmarks[:0]
	for _, bm := range s.Bookmarks {
		if bm != nil {
			kept = append(kept, bm)
		}
	}
	s.Bookmarks = kept
	if s.Settings == nil {
		s.Settings = make(Settings)
	}
	for k, v := range DefaultSettings() {
		if _, ok := s.Settings[k]; !ok {
			s.Settings[k] = v
		}
	}
	if s.Stats.StudyStreak < 0 {
		s.Stats.StudyStreak = 0
	}
}
