package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

// bizError carries a business error code through proxyutil, which renders
// it as the {code, msg, data} envelope with HTTP 200.
type bizError struct {
	code uint32
	msg  string
}

func (e *bizError) Error() string {
	return e.msg
}

func (e *bizError) Code() uint32 {
	return e.code
}

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, http.StatusOK, &bizError{code: uint32(code), msg: message})
}
