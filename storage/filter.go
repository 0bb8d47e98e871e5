package storage

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson"

	"marmot/model"
)

// Fields the list endpoint may sort by; anything else falls back to open_time.
var sortableFields = []string{
	"open_time", "close_time", "open_price", "close_price",
	"high_price", "low_price", "volume", "symbol",
}

// buildQuery translates a KlineFilter into a Mongo filter document.
func buildQuery(filter model.KlineFilter) bson.M {
	query := bson.M{}
	if filter.Symbol != "" {
		query["symbol"] = filter.Symbol
	}

	openTime := bson.M{}
	if filter.Start != nil {
		openTime["$gte"] = *filter.Start
	}
	if filter.End != nil {
		openTime["$lte"] = *filter.End
	}
	if len(openTime) > 0 {
		query["open_time"] = openTime
	}
	return query
}

// sortSpec resolves ListOptions into a (field, direction) pair.
func sortSpec(opts model.ListOptions) (string, int) {
	field := opts.SortBy
	if !slices.Contains(sortableFields, field) {
		field = "open_time"
	}
	direction := -1
	if opts.SortOrder == "asc" {
		direction = 1
	}
	return field, direction
}
