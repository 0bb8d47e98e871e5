package webserver

import (
	"github.com/gofiber/fiber/v2"

	"marmot/utils/fiberhelper/response"
)

func (s *Server) volatility(c *fiber.Ctx) error {
	filter, err := parseKlineFilter(c)
	if err != nil {
		return err
	}
	stats, err := s.aggregator.Volatility(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(stats)
}

func (s *Server) volume(c *fiber.Ctx) error {
	filter, err := parseKlineFilter(c)
	if err != nil {
		return err
	}
	stats, err := s.aggregator.Volume(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(stats)
}

func (s *Server) pressure(c *fiber.Ctx) error {
	filter, err := parseKlineFilter(c)
	if err != nil {
		return err
	}
	stats, err := s.aggregator.Pressure(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(stats)
}

func (s *Server) tradeDistribution(c *fiber.Ctx) error {
	filter, err := parseKlineFilter(c)
	if err != nil {
		return err
	}
	stats, err := s.aggregator.TradeDistribution(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(stats)
}

func (s *Server) summary(c *fiber.Ctx) error {
	filter, err := parseKlineFilter(c)
	if err != nil {
		return err
	}
	summary, err := s.aggregator.Summary(c.Context(), filter)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(summary)
}
