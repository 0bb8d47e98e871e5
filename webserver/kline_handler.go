package webserver

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marmot/model"
	fiberhelpers "marmot/utils/fiberhelper"
	"marmot/utils/fiberhelper/response"
)

func (s *Server) createKline(c *fiber.Ctx) error {
	kline := fiberhelpers.RequestParse[model.Kline](c)
	if kline.AggTrades == nil {
		kline.AggTrades = []model.AggTrade{}
	}

	id, err := s.store.Insert(c.Context(), kline)
	if err != nil {
		return err
	}
	kline.ID, _ = primitive.ObjectIDFromHex(id)
	return response.Ext{Ctx: c}.Created(kline)
}

func (s *Server) listKlines(c *fiber.Ctx) error {
	filter, err := parseKlineFilter(c)
	if err != nil {
		return err
	}
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}

	klines, err := s.store.List(c.Context(), filter, opts)
	if err != nil {
		return err
	}
	if klines == nil {
		klines = []model.Kline{}
	}
	return response.Ext{Ctx: c}.Ok(klines)
}

func (s *Server) getKline(c *fiber.Ctx) error {
	kline, err := s.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(kline)
}

func (s *Server) updateKline(c *fiber.Ctx) error {
	update := fiberhelpers.RequestParse[model.KlineUpdate](c)

	kline, err := s.store.Update(c.Context(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(kline)
}

func (s *Server) deleteKline(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.store.Delete(c.Context(), id); err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(fiber.Map{"detail": "kline deleted", "id": id})
}

func (s *Server) distinctSymbols(c *fiber.Ctx) error {
	symbols, err := s.store.DistinctSymbols(c.Context())
	if err != nil {
		return err
	}
	if symbols == nil {
		symbols = []string{}
	}
	return response.Ext{Ctx: c}.Ok(fiber.Map{"symbols": symbols})
}

func (s *Server) countKlines(c *fiber.Ctx) error {
	filter, err := parseKlineFilter(c)
	if err != nil {
		return err
	}
	count, err := s.store.Count(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(fiber.Map{
		"count": count,
		"filters": fiber.Map{
			"symbol": filter.Symbol,
			"start":  filter.Start,
			"end":    filter.End,
		},
	})
}
