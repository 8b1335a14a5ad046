package domain

type Overlay string

const (
	OverlayNone          Overlay = "NONE"
	OverlayReservedNow   Overlay = "RESERVED_NOW"
	OverlayReservedLater Overlay = "RESERVED_LATER"
)

type Bucket string

const (
	BucketLive    Bucket = "LIVE"
	BucketToday   Bucket = "TODAY"
	BucketHistory Bucket = "HISTORY"
)
