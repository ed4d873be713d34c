package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	DetailNotFound = "Note not found"
	DetailInternal = "Internal Server Error"
)

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail})
}
