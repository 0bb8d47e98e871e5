package fiberhelpers

import (
	"reflect"

	"github.com/gofiber/fiber/v2"

	"marmot/errors"
	"marmot/utils/log"
)

// RequestParse parses the request body into T, panicking with a parser
// ErrorBase on failure. The recover middleware turns the panic back into an
// error for the central error handler, so callers never see the panic.
func RequestParse[T any](context *fiber.Ctx) T {
	var destination T
	if err := context.BodyParser(&destination); err != nil {
		typeName := reflect.TypeOf(destination).Name()
		log.Error(err.Error())
		panic(errors.NewRequestParserError(typeName))
	}
	return destination
}
