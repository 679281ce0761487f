package router

import "github.com/gin-gonic/gin"

// Module is a feature area that registers its own routes on the shared
// group; the task and user modules implement it.
type Module interface {
	Register(rg *gin.RouterGroup)
}
