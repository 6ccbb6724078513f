package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/model"
	"github.com/formforge/formforge/store"
)

type responseBody struct {
	Data       map[string]any `json:"data"`
	IsComplete bool           `json:"isComplete"`
}

func CreateResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "formId"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.formId")
			return
		}

		body := responseBody{}
		err = render.DecodeJSON(r.Body, &body)
		if err != nil || body.Data == nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		resp, err := app.Store.CreateResponse(r.Context(), model.Response{
			FormID:     formID,
			Data:       body.Data,
			IsComplete: body.IsComplete,
		})
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "create_response.form", formID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response", err)
			return
		}

		render.JSON(w, r, resp)
	}
}

func ListFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "formId"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.formId")
			return
		}

		responses, err := app.Store.ListResponsesByForm(r.Context(), formID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		render.JSON(w, r, responses)
	}
}

func GetResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responseID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		resp, err := app.Store.GetResponse(r.Context(), responseID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_response", responseID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_response", err)
			return
		}

		render.JSON(w, r, resp)
	}
}

func DeleteResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responseID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		deleted, err := app.Store.DeleteResponse(r.Context(), responseID)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_response", err)
			return
		}
		if !deleted {
			httpx.LogNotFound(w, "delete_response", responseID)
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
		})
	}
}
