package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
)

// Empty is returned in place of a record that does not exist.
var Empty = gin.H{}

// ParseID reads an integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("invalid "+name+": "+strconv.Quote(raw), err)
	}
	return id, nil
}

// BindJSON decodes the request body into obj. An absent body leaves obj
// untouched, so every field is optional.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.BadRequest("invalid request body", err)
	}
	return nil
}
