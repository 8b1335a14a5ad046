package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/venuedesk/tableops/internal/domain"
)

func TestClassifyBucket(t *testing.T) {
	loc := time.UTC
	window := 30 * time.Minute
	now := time.Date(2025, 6, 10, 14, 0, 0, 0, loc)

	testCases := []struct {
		name      string
		createdAt time.Time
		expected  domain.Bucket
	}{
		{"just created", now, domain.BucketLive},
		{"within window", now.Add(-29 * time.Minute), domain.BucketLive},
		{"exactly at window edge", now.Add(-window), domain.BucketLive},
		{"just past window", now.Add(-window - time.Second), domain.BucketToday},
		{"this morning", time.Date(2025, 6, 10, 8, 0, 0, 0, loc), domain.BucketToday},
		{"at local midnight", time.Date(2025, 6, 10, 0, 0, 0, 0, loc), domain.BucketToday},
		{"just before midnight", time.Date(2025, 6, 9, 23, 59, 59, 0, loc), domain.BucketHistory},
		{"yesterday", now.Add(-24 * time.Hour), domain.BucketHistory},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyBucket(tc.createdAt, now, loc, window))
		})
	}
}

// An order placed just before midnight stays LIVE right after midnight even
// though it belongs to the previous calendar day.
func TestClassifyBucket_LiveSpansMidnight(t *testing.T) {
	loc := time.UTC
	window := 30 * time.Minute
	createdAt := time.Date(2025, 6, 9, 23, 45, 0, 0, loc)

	now := time.Date(2025, 6, 10, 0, 5, 0, 0, loc)
	assert.Equal(t, domain.BucketLive, ClassifyBucket(createdAt, now, loc, window))

	// Once the window lapses it drops straight to HISTORY: the order belongs
	// to yesterday, so it never passes through TODAY.
	later := time.Date(2025, 6, 10, 0, 20, 0, 0, loc)
	assert.Equal(t, domain.BucketHistory, ClassifyBucket(createdAt, later, loc, window))
}

func TestClassifyBucket_MigrationIsMonotonic(t *testing.T) {
	loc := time.UTC
	window := 30 * time.Minute
	createdAt := time.Date(2025, 6, 10, 10, 0, 0, 0, loc)

	rank := map[domain.Bucket]int{
		domain.BucketLive:    0,
		domain.BucketToday:   1,
		domain.BucketHistory: 2,
	}

	prev := -1
	for offset := time.Duration(0); offset <= 48*time.Hour; offset += 10 * time.Minute {
		bucket := ClassifyBucket(createdAt, createdAt.Add(offset), loc, window)
		assert.GreaterOrEqual(t, rank[bucket], prev, "bucket moved backwards at offset %s", offset)
		prev = rank[bucket]
	}
}

func TestClassifyBucket_VenueTimezone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	assert.NoError(t, err)
	window := 30 * time.Minute

	// 03:00 UTC on June 10 is still June 9 in Chicago (22:00 CDT).
	now := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 6, 9, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.BucketHistory, ClassifyBucket(createdAt, now, time.UTC, window))
	assert.Equal(t, domain.BucketToday, ClassifyBucket(createdAt, now, chicago, window))
}

func TestStartOfDay(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	assert.NoError(t, err)

	now := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)

	utcMidnight := StartOfDay(now, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), utcMidnight)

	chicagoMidnight := StartOfDay(now, chicago)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, chicago), chicagoMidnight)
}
