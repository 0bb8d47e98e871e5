package errors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced by the API.
const (
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInvalidFilter      = "INVALID_FILTER"
	CodeNotFound           = "NOT_FOUND"
	CodeRequestParser      = "REQUEST_PARSER"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

// ErrorBase : error with an HTTP status, a stable code and a human message.
type ErrorBase struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorBase) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorBase) NewErrorResponse() ErrorResponse {
	return ErrorResponse{Code: e.Code, Message: e.Message}
}

// ConvertToErrorBase unwraps err into an ErrorBase, or returns err back.
func ConvertToErrorBase(err error) (ErrorBase, error) {
	var base ErrorBase
	if errors.As(err, &base) {
		return base, nil
	}
	return ErrorBase{}, err
}

// NewStorageUnavailable : the candle store could not be reached.
func NewStorageUnavailable(cause error) ErrorBase {
	return ErrorBase{
		Status:  fiber.StatusInternalServerError,
		Code:    CodeStorageUnavailable,
		Message: fmt.Sprintf("candle store unavailable: %v", cause),
	}
}

// NewInvalidFilter : malformed filter input, rejected before querying.
func NewInvalidFilter(detail string) ErrorBase {
	return ErrorBase{
		Status:  fiber.StatusBadRequest,
		Code:    CodeInvalidFilter,
		Message: detail,
	}
}

func NewNotFound(what string) ErrorBase {
	return ErrorBase{
		Status:  fiber.StatusNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", what),
	}
}

func NewRequestParserError(typeName string) ErrorBase {
	return ErrorBase{
		Status:  fiber.StatusBadRequest,
		Code:    CodeRequestParser,
		Message: fmt.Sprintf("request body does not parse into %s", typeName),
	}
}

func NewUnauthorized(detail string) ErrorBase {
	return ErrorBase{
		Status:  fiber.StatusUnauthorized,
		Code:    CodeUnauthorized,
		Message: detail,
	}
}

func NewInternalServerError() ErrorBase {
	return ErrorBase{
		Status:  fiber.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "Internal Server Error",
	}
}
