package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"marmot/model"
)

func TestBuildQuery_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildQuery(model.KlineFilter{}))
}

func TestBuildQuery_SymbolOnly(t *testing.T) {
	query := buildQuery(model.KlineFilter{Symbol: "BTCUSDT"})
	assert.Equal(t, bson.M{"symbol": "BTCUSDT"}, query)
}

func TestBuildQuery_TimeRange(t *testing.T) {
	start := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	query := buildQuery(model.KlineFilter{Symbol: "ETHUSDT", Start: &start, End: &end})
	assert.Equal(t, bson.M{
		"symbol":    "ETHUSDT",
		"open_time": bson.M{"$gte": start, "$lte": end},
	}, query)
}

func TestBuildQuery_OpenEndedRange(t *testing.T) {
	start := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)

	query := buildQuery(model.KlineFilter{Start: &start})
	assert.Equal(t, bson.M{"open_time": bson.M{"$gte": start}}, query)
}

func TestSortSpec_Defaults(t *testing.T) {
	field, direction := sortSpec(model.ListOptions{})
	assert.Equal(t, "open_time", field)
	assert.Equal(t, -1, direction)
}

func TestSortSpec_WhitelistedFields(t *testing.T) {
	for _, name := range sortableFields {
		field, _ := sortSpec(model.ListOptions{SortBy: name})
		assert.Equal(t, name, field)
	}
}

func TestSortSpec_UnknownFieldFallsBack(t *testing.T) {
	field, direction := sortSpec(model.ListOptions{SortBy: "number_of_trades", SortOrder: "asc"})
	assert.Equal(t, "open_time", field)
	assert.Equal(t, 1, direction)
}
