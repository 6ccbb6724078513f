package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"github.com/formforge/formforge/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// builder-facing form CRUD
	api.Post("/forms", CreateForm(app))
	api.Get("/forms", ListForms(app))
	api.Get(`/forms/{id:^\d+$}`, GetFormByID(app))
	api.Put(`/forms/{id:^\d+$}`, UpdateForm(app))
	api.Delete(`/forms/{id:^\d+$}`, DeleteForm(app))

	// response review
	api.Post(`/forms/{formId:^\d+$}/responses`, CreateResponse(app))
	api.Get(`/forms/{formId:^\d+$}/responses`, ListFormResponses(app))
	api.Get(`/responses/{id:^\d+$}`, GetResponse(app))
	api.Delete(`/responses/{id:^\d+$}`, DeleteResponse(app))

	// respondent-facing endpoints, addressed by public id
	api.Get("/forms/public/{publicId}", PublicGetForm(app))
	api.Post("/public/{publicId}/submit", PublicSubmitForm(app))

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
