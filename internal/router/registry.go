package router

import "github.com/gin-gonic/gin"

// Registry collects feature modules and mounts them under the shared /api
// group. Startup builds one, adds the task and user modules, then mounts.
type Registry struct {
	api    *gin.RouterGroup
	shared []gin.HandlerFunc
	mods   []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{api: engine.Group("/api")}
}

// Use appends middleware applied ahead of every module's routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.shared = append(r.shared, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.mods = append(r.mods, mods...)
}

// Mount applies the shared middleware and registers every module's routes.
func (r *Registry) Mount() {
	if len(r.shared) > 0 {
		r.api.Use(r.shared...)
	}
	for _, m := range r.mods {
		m.Register(r.api)
	}
}
