package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/model"
	"github.com/formforge/formforge/routes/middlewares"
	"github.com/formforge/formforge/store"
	"github.com/formforge/formforge/validation"
)

func PublicGetForm(app app.App) http.HandlerFunc {
	guard := middlewares.Authenticated(app.TokenSecret)

	return func(w http.ResponseWriter, r *http.Request) {
		publicID := chi.URLParam(r, "publicId")

		form, err := app.Store.GetFormByPublicID(r.Context(), publicID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_form.public", publicID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form.public", err)
			return
		}

		serve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, form)
		})

		if form.Settings.RequireAuth {
			guard(serve).ServeHTTP(w, r)
			return
		}
		serve(w, r)
	}
}

func PublicSubmitForm(app app.App) http.HandlerFunc {
	guard := middlewares.Authenticated(app.TokenSecret)

	return func(w http.ResponseWriter, r *http.Request) {
		publicID := chi.URLParam(r, "publicId")

		form, err := app.Store.GetFormByPublicID(r.Context(), publicID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "submit.get_form", publicID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.submit.get_form", err)
			return
		}

		submit := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := responseBody{}
			err := render.DecodeJSON(r.Body, &body)
			if err != nil || body.Data == nil {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
				return
			}

			// every step is re-validated server-side; a failed submission
			// persists nothing
			if err := validation.CheckForm(form, body.Data); err != nil {
				httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "submit.validate", "%s", err)
				return
			}

			resp, err := app.Store.CreateResponse(r.Context(), model.Response{
				FormID:     form.ID,
				Data:       body.Data,
				IsComplete: true,
			})
			if err != nil {
				httpx.LogInternalError(w, "db.insert_response", err)
				return
			}

			render.JSON(w, r, map[string]any{
				"success":  true,
				"response": resp,
			})
		})

		if form.Settings.RequireAuth {
			guard(submit).ServeHTTP(w, r)
			return
		}
		submit(w, r)
	}
}
