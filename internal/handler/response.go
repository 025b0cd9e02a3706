package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"
)

// Fail records err on the context and aborts; the error middleware
// renders the response body.
func Fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// FailValidation wraps a binding/parsing failure as a 400.
func FailValidation(c *gin.Context, message string) {
	Fail(c, apperrors.Validation(message))
}

// PathID parses an int64 path parameter, failing the request with a
// 400 when it is not numeric.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		FailValidation(c, "the parameter '"+name+"' of value '"+c.Param(name)+"' could not be converted to a numeric id")
		return 0, false
	}
	return id, true
}
