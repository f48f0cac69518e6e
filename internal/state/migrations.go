// Schema versions:
// v1: legacy blob without schemaVersion; lastStudyDate in locale date-string form
// v2: explicit schemaVersion field; lastStudyDate normalized to YYYY-MM-DD
package state

import (
	"time"

	"learnhub/internal/logging"
)

const CurrentSchemaVersion = 2

// migration upgrades a raw decoded blob from one schema version to the next.
type migration struct {
	to    int
	apply func(raw map[string]interface{})
}

var migrations = []migration{
	{to: 2, apply: migrateLocaleDates},
}

// blobVersion reads the schema version of a raw blob. Blobs written before
// versioning carry no schemaVersion field and are treated as v1.
func blobVersion(raw map[string]interface{}) int {
	v, ok := raw["schemaVersion"]
	if !ok {
		return 1
	}
	f, ok := v.(float64)
	if !ok || f < 1 {
		return 1
	}
	return int(f)
}

// migrate upgrades raw to the current schema version in place and returns
// the version it started from.
func migrate(raw map[string]interface{}) int {
	from := blobVersion(raw)
	if from >= CurrentSchemaVersion {
		return from
	}

	logging.Store("Migrating state blob from schema v%d to v%d", from, CurrentSchemaVersion)
	for _, m := range migrations {
		if m.to <= from {
			continue
		}
		m.apply(raw)
		logging.StoreDebug("Applied state migration to v%d", m.to)
	}
	raw["schemaVersion"] = CurrentSchemaVersion
	return from
}

// migrateLocaleDates rewrites stats.lastStudyDate from the legacy locale
// form ("Mon Jan 2 2006") to YYYY-MM-DD. Unparseable dates are cleared;
// the streak then restarts on the next completion.
func migrateLocaleDates(raw map[string]interface{}) {
	stats, ok := raw["stats"].(map[string]interface{})
	if !ok {
		return
	}
	last, ok := stats["lastStudyDate"].(string)
	if !ok || last == "" {
		return
	}
	if _, err := time.ParseInLocation("2006-01-02", last, time.Local); err == nil {
		return // already normalized
	}
	if t, err := time.ParseInLocation("Mon Jan 2 2006", last, time.Local); err == nil {
		stats["lastStudyDate"] = t.Format("2006-01-02")
		return
	}
	logging.Get(logging.CategoryStore).Warn("Unparseable lastStudyDate %q, clearing", last)
	stats["lastStudyDate"] = nil
}
