package fiberhelpers

import (
	_error "errors"

	"github.com/gofiber/fiber/v2"

	"marmot/errors"
	"marmot/utils/log"
)

func DefaultErrorHandler(ctx *fiber.Ctx, err error) error {
	errorBase, err := errors.ConvertToErrorBase(err)
	if err != nil {
		fiberError, err := convertToFiberError(err)
		if err != nil {
			log.Error(err.Error())
			return ctx.Status(fiber.StatusInternalServerError).JSON(errors.NewInternalServerError().NewErrorResponse())
		}
		log.Error(fiberError.Error())
		return ctx.Status(fiberError.Code).JSON(errors.NewInternalServerError().NewErrorResponse())
	}
	if err = ctx.Status(errorBase.Status).JSON(errorBase.NewErrorResponse()); err != nil {
		log.Error(err.Error())
		return ctx.Status(fiber.StatusInternalServerError).JSON(errors.NewInternalServerError().NewErrorResponse())
	}
	return nil
}

func convertToFiberError(err error) (fiber.Error, error) {
	var fiberError *fiber.Error
	if _error.As(err, &fiberError) {
		return *fiberError, nil
	}
	return fiber.Error{}, err
}
