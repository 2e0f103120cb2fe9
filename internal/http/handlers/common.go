package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload", err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
