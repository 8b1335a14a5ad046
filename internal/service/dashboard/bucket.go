package dashboard

import (
	"time"

	"github.com/venuedesk/tableops/internal/domain"
)

// ClassifyBucket places an order in exactly one reporting bucket. LIVE is
// decided by elapsed time alone and takes precedence over the day boundary,
// so an order placed just before midnight stays LIVE past it. The result is
// a pure function of its inputs; nothing is cached or stored, so a later
// "now" moves orders LIVE → TODAY → HISTORY without any write.
func ClassifyBucket(createdAt, now time.Time, loc *time.Location, window time.Duration) domain.Bucket {
	if !createdAt.Before(now.Add(-window)) {
		return domain.BucketLive
	}
	if !createdAt.Before(StartOfDay(now, loc)) {
		return domain.BucketToday
	}
	return domain.BucketHistory
}

// StartOfDay is venue-local midnight for the day containing now.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	year, month, day := now.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
