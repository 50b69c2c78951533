package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

// formUpdate is the body of an update: the key comes from the URL and cannot change.
type formUpdate struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Fields      []model.Field `json:"fields"`
}

func ListFormKeys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := app.Forms.Keys(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "forms.list_keys", err)
			return
		}

		render.JSON(w, r, keys)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Forms.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "forms.list", err)
			return
		}

		render.JSON(w, r, forms)
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		form, err := app.Forms.Get(r.Context(), key)
		if err != nil {
			httpx.LogError(w, r, "forms.get", key, err)
			return
		}

		render.JSON(w, r, form)
	}
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := model.Form{}
		err := render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		created, err := app.Forms.Create(r.Context(), form)
		if err != nil {
			httpx.LogError(w, r, "forms.create", form.Key, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		body := formUpdate{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		updated, err := app.Forms.Update(r.Context(), key, body.Title, body.Description, body.Fields)
		if err != nil {
			httpx.LogError(w, r, "forms.update", key, err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		err := app.Forms.Delete(r.Context(), key)
		if err != nil {
			httpx.LogError(w, r, "forms.delete", key, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
