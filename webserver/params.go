package webserver

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"marmot/errors"
	"marmot/model"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTimeParam(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, errors.NewInvalidFilter(fmt.Sprintf("%s is not a valid timestamp: %q", name, raw))
}

// parseKlineFilter reads symbol/start/end, rejecting malformed or inverted ranges.
func parseKlineFilter(c *fiber.Ctx) (model.KlineFilter, error) {
	filter := model.KlineFilter{Symbol: c.Query("symbol")}

	start, err := parseTimeParam(c, "start")
	if err != nil {
		return model.KlineFilter{}, err
	}
	end, err := parseTimeParam(c, "end")
	if err != nil {
		return model.KlineFilter{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return model.KlineFilter{}, errors.NewInvalidFilter("end precedes start")
	}

	filter.Start = start
	filter.End = end
	return filter, nil
}

func parseListOptions(c *fiber.Ctx) (model.ListOptions, error) {
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 1000 {
		return model.ListOptions{}, errors.NewInvalidFilter("limit must be in 1..1000")
	}
	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		return model.ListOptions{}, errors.NewInvalidFilter("skip must be >= 0")
	}

	order := c.Query("sort_order", "desc")
	if order != "asc" && order != "desc" {
		return model.ListOptions{}, errors.NewInvalidFilter("sort_order must be 'asc' or 'desc'")
	}

	return model.ListOptions{
		Limit:     int64(limit),
		Skip:      int64(skip),
		SortBy:    c.Query("sort_by", "open_time"),
		SortOrder: order,
	}, nil
}
