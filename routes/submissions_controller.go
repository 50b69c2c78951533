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
	"github.com/mbolis/quick-forms/routes/middlewares"
)

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		payload := model.Payload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid submission: %s", err)
			return
		}

		sub, err := app.Submissions.Submit(r.Context(), key, payload, middlewares.Subject(r))
		if err != nil {
			httpx.LogError(w, r, "submissions.submit", key, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, sub)
	}
}

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := app.Submissions.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "submissions.list", err)
			return
		}

		render.JSON(w, r, list)
	}
}

func ListSubmissionsByKey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := app.Submissions.ListByKey(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			httpx.LogInternalError(w, "submissions.list_by_key", err)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		sub, err := app.Submissions.Get(r.Context(), id)
		if err != nil {
			httpx.LogError(w, r, "submissions.get", id, err)
			return
		}

		render.JSON(w, r, sub)
	}
}

func DeleteSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = app.Submissions.Delete(r.Context(), id)
		if err != nil {
			httpx.LogError(w, r, "submissions.delete", id, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
