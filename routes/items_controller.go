package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

func ListItems(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := app.Items.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "items.list", err)
			return
		}

		render.JSON(w, r, items)
	}
}

func GetItem(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		item, err := app.Items.Get(r.Context(), id)
		if err != nil {
			httpx.LogError(w, r, "items.get", id, err)
			return
		}

		render.JSON(w, r, item)
	}
}

func CreateItem(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := model.Item{}
		err := render.DecodeJSON(r.Body, &item)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		created, err := app.Items.Create(r.Context(), item)
		if err != nil {
			httpx.LogError(w, r, "items.create", item.Name, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func UpdateItem(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		item := model.Item{}
		err = render.DecodeJSON(r.Body, &item)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		updated, err := app.Items.Update(r.Context(), id, item)
		if err != nil {
			httpx.LogError(w, r, "items.update", id, err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteItem(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = app.Items.Delete(r.Context(), id)
		if err != nil {
			httpx.LogError(w, r, "items.delete", id, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
