package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, Body{Code: 0, Msg: msg, Data: data})
}

func Fail(c *gin.Context, msg string, data any) {
	FailWithStatus(c, http.StatusBadRequest, msg, data)
}

func FailWithStatus(c *gin.Context, status int, msg string, data any) {
	c.JSON(status, Body{Code: status, Msg: msg, Data: data})
}
