package httpx

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Msg writes the {"msg": ...} body used for every non-validation error.
func Msg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"msg": msg})
}

// Errors writes a 400 with the {"errors": [...]} body shape used by the
// validation layer, so clients read business rejections the same way.
func Errors(c *gin.Context, errs any) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// ServerError logs err with the route that produced it and answers 500
// without leaking details.
func ServerError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	_ = c.Error(err)
	Msg(c, http.StatusInternalServerError, "Server error")
}
