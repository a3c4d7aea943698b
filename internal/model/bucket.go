package model

// Bucket is a deadline urgency level.
type Bucket string

// Buckets from most to least urgent.
const (
	BucketOverdue Bucket = "overdue"
	BucketUrgent  Bucket = "urgent"
	BucketSoon    Bucket = "soon"
	BucketWarning Bucket = "warning"
	BucketNormal  Bucket = "normal"
	BucketSafe    Bucket = "safe"
)

// Buckets lists every bucket in urgency order.
var Buckets = []Bucket{BucketOverdue, BucketUrgent, BucketSoon, BucketWarning, BucketNormal, BucketSafe}

// RankUnknown is the sort rank of a value outside the enum.
const RankUnknown = 6

// Rank returns the sort priority (lower = more urgent). Overdue ranks 0;
// anything not in the enum ranks after safe.
func (b Bucket) Rank() int {
	switch b {
	case BucketOverdue:
		return 0
	case BucketUrgent:
		return 1
	case BucketSoon:
		return 2
	case BucketWarning:
		return 3
	case BucketNormal:
		return 4
	case BucketSafe:
		return 5
	default:
		return RankUnknown
	}
}

// Valid reports whether b is one of the six buckets.
func (b Bucket) Valid() bool {
	return b.Rank() != RankUnknown
}

// Label is the Korean display name used by the dashboard badges.
func (b Bucket) Label() string {
	switch b {
	case BucketOverdue:
		return "지연"
	case BucketUrgent:
		return "긴급"
	case BucketSoon:
		return "임박"
	case BucketWarning, BucketNormal:
		return "보통"
	case BucketSafe:
		return "여유"
	default:
		return "보통"
	}
}
