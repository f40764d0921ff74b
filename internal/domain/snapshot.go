package domain

// SnapshotKind names one of the cached campaign metadata mirrors.
type SnapshotKind string

const (
	SnapshotPolls    SnapshotKind = "polls"
	SnapshotSchedule SnapshotKind = "schedule"
	SnapshotTargets  SnapshotKind = "targets"
	SnapshotRewards  SnapshotKind = "rewards"
	SnapshotMatches  SnapshotKind = "matches"
)

// MirrorTotal is the notification kind used when the campaign total advances.
// It is not a snapshot mirror; the total follows the monotonic rule instead
// of the diff-and-replace rule.
const MirrorTotal = "total"
