package api

import (
	"strconv"

	"furnistore/internal/errs"
	"furnistore/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP status and a uniform
// error body.
func respondError(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	if status >= 500 {
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("invalid %s: %s", name, c.Param(name))
	}
	return id, nil
}
