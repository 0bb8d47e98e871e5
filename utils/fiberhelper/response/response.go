package response

import (
	"github.com/gofiber/fiber/v2"

	"marmot/errors"
	"marmot/utils/log"
)

type Ext struct {
	*fiber.Ctx
}

// Ok : 200 with a JSON body.
func (ext Ext) Ok(data interface{}) error {
	return ext.Status(fiber.StatusOK).JSON(data)
}

// Created : 201 with a JSON body.
func (ext Ext) Created(data interface{}) error {
	return ext.Status(fiber.StatusCreated).JSON(data)
}

// Error : error response; ErrorBase carries its own status, anything else is a 500.
func (ext Ext) Error(err error) error {
	errorBase, rest := errors.ConvertToErrorBase(err)
	if rest != nil {
		log.Error(rest.Error())
		errorBase = errors.NewInternalServerError()
	}
	return ext.Status(errorBase.Status).JSON(errorBase.NewErrorResponse())
}
