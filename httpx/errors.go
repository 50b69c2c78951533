package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

// ErrorBody is the JSON shape of every error response carrying details.
type ErrorBody struct {
	Message string            `json:"message"`
	Errors  model.FieldErrors `json:"errors,omitempty"`
}

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// LogError answers with the status matching a domain error: 404 for
// model.ErrNotFound, 409 for model.ErrConflict, 400 with the field errors
// for *model.ValidationError. Anything else is an internal error.
func LogError(w http.ResponseWriter, r *http.Request, code string, id any, err error) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		LogNotFound(w, code, id)
	case errors.Is(err, model.ErrConflict):
		log.Debugf("%s: conflict (%v)", code, id)
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, ErrorBody{Message: fmt.Sprintf("%v already exists", id)})
	case errors.As(err, &verr):
		log.Debugf("%s: %s", code, verr)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorBody{Message: verr.Message, Errors: verr.Errors})
	default:
		LogInternalError(w, code, err)
	}
}
