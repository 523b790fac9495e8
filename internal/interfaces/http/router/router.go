// Package router assembles the HTTP route tree.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a set of routes under an API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them under a versioned prefix.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAPIVersion overrides the version segment of the API prefix.
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a router mounting routes under /api/v1 by default.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a registrar for Setup.
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts every registered group onto the engine.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Group is a declarative route group for one domain area. Routes are
// recorded first and mounted when RegisterRoutes runs, so groups can be
// built away from the gin engine.
type Group struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	subgroups  []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewGroup creates a route group mounted at prefix.
func NewGroup(prefix string) *Group {
	return &Group{prefix: prefix}
}

// Use appends middleware applied to every route in this group and its
// subgroups.
func (g *Group) Use(middleware ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Handle records a route with an arbitrary method.
func (g *Group) Handle(method, path string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

// GET records a GET route.
func (g *Group) GET(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodGet, path, handlers...)
}

// POST records a POST route.
func (g *Group) POST(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPost, path, handlers...)
}

// PUT records a PUT route.
func (g *Group) PUT(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPut, path, handlers...)
}

// PATCH records a PATCH route.
func (g *Group) PATCH(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPatch, path, handlers...)
}

// DELETE records a DELETE route.
func (g *Group) DELETE(path string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodDelete, path, handlers...)
}

// Group creates a nested subgroup mounted under this group's prefix.
func (g *Group) Group(prefix string) *Group {
	subgroup := NewGroup(prefix)
	g.subgroups = append(g.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes mounts the recorded routes onto rg.
func (g *Group) RegisterRoutes(rg *gin.RouterGroup) {
	mounted := rg.Group(g.prefix)
	if len(g.middleware) > 0 {
		mounted.Use(g.middleware...)
	}
	for _, rt := range g.routes {
		mounted.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, subgroup := range g.subgroups {
		subgroup.RegisterRoutes(mounted)
	}
}

// Prefix returns the group's mount prefix.
func (g *Group) Prefix() string {
	return g.prefix
}
