package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktrail-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasktrail-api/internal/api/middleware"
)

// setupRouter creates the router with middleware and every route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)

	api.RegisterRoutes(r,
		api.NewTaskHandler(app.taskService, app.logger),
		api.NewUserHandler(app.userService, app.logger),
	)
	r.Method(http.MethodGet, "/health", api.NewHealthHandler(app.db))

	return r
}
