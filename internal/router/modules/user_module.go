package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dquelhas/taskquest/internal/container"
	handlers "github.com/dquelhas/taskquest/internal/interface/http"
	"github.com/dquelhas/taskquest/internal/interface/middleware"
)

// UserModule wires the action-dispatched /user endpoint
// (?action=register|login|logout|status). Public: status answers
// loggedIn:false instead of rejecting anonymous callers.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Credential actions share one limiter key per IP. Loopback and
	// private-range callers bypass it so local tooling is never throttled.
	limiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/user", limiter, m.Handler.Handle)
	rg.POST("/user", limiter, m.Handler.Handle)
}
