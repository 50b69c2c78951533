package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

const (
	keyParam = `/{key:[a-z0-9-]+}`
	idParam  = `/{id:\d+}`
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin", app.PrivateDir))
	root.Mount("/", servePublicFiles(app.PublicDir))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticated(app.TokenSecret))

		r.Get("/forms", ListFormKeys(app))
		r.Get("/forms/all", ListForms(app))
		r.Get("/forms"+keyParam, GetForm(app))

		r.Post("/form-data"+keyParam, SubmitForm(app))
		r.Get("/form-data"+keyParam, ListSubmissionsByKey(app))
		r.Get("/form-data/submission"+idParam, GetSubmission(app))

		r.Get("/items", ListItems(app))
		r.Get("/items"+idParam, GetItem(app))
	})

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD forms
		r.Post("/forms", CreateForm(app))
		r.Put("/forms"+keyParam, UpdateForm(app))
		r.Delete("/forms"+keyParam, DeleteForm(app))

		r.Get("/form-data", ListSubmissions(app))
		r.Delete("/form-data/submission"+idParam, DeleteSubmission(app))

		// CRUD items
		r.Post("/items", CreateItem(app))
		r.Put("/items"+idParam, UpdateItem(app))
		r.Delete("/items"+idParam, DeleteItem(app))
	})

	return api
}

func servePublicFiles(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}

func servePrivateFiles(path string, dir string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir(dir)))
}
