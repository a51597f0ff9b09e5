package server

import (
	"github.com/gofiber/fiber/v2"
)

// NotFound answers requests no route matched with 404 and the requested URL,
// query string included. Register it last.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": c.OriginalURL() + " route not found",
	})
}

// Guard returns a router that runs guard in front of every route registered
// through it. Unlike app.Use the guard is bound to the routes, so unmatched
// requests fall through to NotFound untouched.
func Guard(r fiber.Router, guard fiber.Handler) fiber.Router {
	return &guardedRouter{Router: r, guard: guard}
}

type guardedRouter struct {
	fiber.Router
	guard fiber.Handler
}

func (g *guardedRouter) with(handlers []fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{g.guard}, handlers...)
}

func (g *guardedRouter) Add(method, path string, handlers ...fiber.Handler) fiber.Router {
	g.Router.Add(method, path, g.with(handlers)...)
	return g
}

func (g *guardedRouter) Get(path string, handlers ...fiber.Handler) fiber.Router {
	g.Add(fiber.MethodHead, path, handlers...)
	return g.Add(fiber.MethodGet, path, handlers...)
}

func (g *guardedRouter) Head(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodHead, path, handlers...)
}

func (g *guardedRouter) Post(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodPost, path, handlers...)
}

func (g *guardedRouter) Put(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodPut, path, handlers...)
}

func (g *guardedRouter) Delete(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodDelete, path, handlers...)
}

func (g *guardedRouter) Connect(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodConnect, path, handlers...)
}

func (g *guardedRouter) Options(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodOptions, path, handlers...)
}

func (g *guardedRouter) Trace(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodTrace, path, handlers...)
}

func (g *guardedRouter) Patch(path string, handlers ...fiber.Handler) fiber.Router {
	return g.Add(fiber.MethodPatch, path, handlers...)
}

func (g *guardedRouter) All(path string, handlers ...fiber.Handler) fiber.Router {
	g.Router.All(path, g.with(handlers)...)
	return g
}

func (g *guardedRouter) Group(prefix string, handlers ...fiber.Handler) fiber.Router {
	return &guardedRouter{Router: g.Router.Group(prefix, handlers...), guard: g.guard}
}

func (g *guardedRouter) Route(prefix string, fn func(router fiber.Router), name ...string) fiber.Router {
	g.Router.Route(prefix, func(r fiber.Router) {
		fn(&guardedRouter{Router: r, guard: g.guard})
	}, name...)
	return g
}
