package model

import "time"

// KlineFilter : selection over the candle store. Symbol matches exactly when
// set; Start/End bound open_time inclusively, each side optional.
type KlineFilter struct {
	Symbol string
	Start  *time.Time
	End    *time.Time
}

// ListOptions : pagination and ordering for the CRUD list endpoint.
type ListOptions struct {
	Limit     int64
	Skip      int64
	SortBy    string
	SortOrder string
}
