package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/items"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/submissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	ctx := context.Background()
	db, err := database.Open(filepath.Join(t.TempDir(), "routes.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, httpx.EnsureUser(ctx, db, "root", "s3cret", httpx.RoleAdmin))
	require.NoError(t, httpx.EnsureUser(ctx, db, "ann", "passw0rd", httpx.RoleUser))

	cfg := config.Config{
		TokenSecret: "test-secret",
		TokenTTL:    time.Minute,
		PublicDir:   t.TempDir(),
		PrivateDir:  t.TempDir(),
	}
	catalogue := forms.NewCatalogue(forms.NewSQLStore(db))
	_, err = forms.NewLoader(catalogue).Load(ctx, forms.Definitions, forms.DefinitionsDir)
	require.NoError(t, err)

	srv := httptest.NewServer(Wire(app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Forms:        catalogue,
		Submissions:  submissions.NewService(catalogue, submissions.NewSQLStore(db)),
		Items:        items.NewService(db),
	}))
	t.Cleanup(srv.Close)
	return &testServer{srv, t}
}

func (s *testServer) login(user, pass string) string {
	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/login", nil)
	require.NoError(s.t, err)
	req.SetBasicAuth(user, pass)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	require.Equal(s.t, http.StatusOK, resp.StatusCode)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&tokens))
	require.NotEmpty(s.t, tokens.AccessToken)
	return tokens.AccessToken
}

// do sends a JSON request and decodes the response body into out, if given.
func (s *testServer) do(method, path, token, body string, out any) int {
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(s.t, err)
	req.Header.Set("content-type", "application/json")
	if token != "" {
		req.Header.Set("authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRoutes_RequiresToken(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodGet, "/api/forms", "", "", nil))
}

func TestRoutes_LoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/login", nil)
	require.NoError(t, err)
	req.SetBasicAuth("ann", "wrong")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_FormsListing(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("ann", "passw0rd")

	var keys []string
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/forms", token, "", &keys))
	assert.Equal(t, []string{"contact", "feedback"}, keys)

	var all []model.Form
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/forms/all", token, "", &all))
	assert.Len(t, all, 2)

	var form model.Form
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/forms/contact", token, "", &form))
	assert.Equal(t, "Contact us", form.Title)

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/api/forms/nope", token, "", nil))
}

func TestRoutes_SubmitAndRead(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("ann", "passw0rd")

	var sub model.Submission
	status := srv.do(http.MethodPost, "/api/form-data/contact", token,
		`{"name": "Ann", "email": "a@x.com", "urgency": "low"}`, &sub)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ann", sub.SubmittedBy)
	assert.Equal(t, "contact", sub.FormKey)

	var list []model.Submission
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/form-data/contact", token, "", &list))
	require.Len(t, list, 1)
	assert.Equal(t, sub.ID, list[0].ID)

	var got model.Submission
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/form-data/submission/1", token, "", &got))
	assert.Equal(t, model.String("Ann"), got.Data["name"])
}

func TestRoutes_SubmitInvalid(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("ann", "passw0rd")

	var body httpx.ErrorBody
	status := srv.do(http.MethodPost, "/api/form-data/contact", token, `{"name": "", "urgency": "extreme"}`, &body)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.FieldErrors{
		"name":    "required",
		"email":   "required",
		"urgency": "not a valid option",
	}, body.Errors)

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodPost, "/api/form-data/nope", token, `{}`, nil))
	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodPost, "/api/form-data/contact", token, `{"name": {"first": "Ann"}}`, nil))
}

func TestRoutes_AdminOnly(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("ann", "passw0rd")

	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodDelete, "/api/forms/contact", token, "", nil))
	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodGet, "/api/form-data", token, "", nil))
	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodPost, "/api/items", token, `{"name": "Chair"}`, nil))
}

func TestRoutes_AdminFormLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login("root", "s3cret")

	newForm := `{
		"formKey": "rsvp",
		"title": "RSVP",
		"fields": [{"name": "guests", "label": "Guests", "type": "number", "required": true}]
	}`
	var created model.Form
	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/forms", token, newForm, &created))
	assert.Equal(t, "rsvp", created.Key)
	assert.False(t, created.CreatedAt.IsZero())

	assert.Equal(t, http.StatusConflict, srv.do(http.MethodPost, "/api/forms", token, newForm, nil))

	var invalid httpx.ErrorBody
	require.Equal(t, http.StatusBadRequest, srv.do(http.MethodPost, "/api/forms", token, `{"formKey": "BAD", "title": "x", "fields": []}`, &invalid))
	assert.Contains(t, invalid.Errors, "key")

	var reserved httpx.ErrorBody
	require.Equal(t, http.StatusBadRequest, srv.do(http.MethodPost, "/api/forms", token,
		`{"formKey": "all", "title": "All", "fields": [{"name": "a", "label": "A", "type": "text"}]}`, &reserved))
	assert.Equal(t, `"all" is a reserved key`, reserved.Errors["key"])

	var updated model.Form
	update := `{"title": "RSVP!", "fields": [{"name": "guests", "label": "Guests", "type": "number"}]}`
	require.Equal(t, http.StatusOK, srv.do(http.MethodPut, "/api/forms/rsvp", token, update, &updated))
	assert.Equal(t, "RSVP!", updated.Title)
	assert.Equal(t, "rsvp", updated.Key)

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodPut, "/api/forms/ghost", token, update, nil))

	var sub model.Submission
	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/form-data/rsvp", token, `{"guests": 2}`, &sub))
	assert.Equal(t, "root", sub.SubmittedBy)

	assert.Equal(t, http.StatusNoContent, srv.do(http.MethodDelete, "/api/forms/rsvp", token, "", nil))
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/api/forms/rsvp", token, "", nil))

	var all []model.Submission
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/form-data", token, "", &all))
	assert.Len(t, all, 1)

	assert.Equal(t, http.StatusNoContent, srv.do(http.MethodDelete, "/api/form-data/submission/1", token, "", nil))
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodDelete, "/api/form-data/submission/1", token, "", nil))
}

func TestRoutes_Items(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.login("root", "s3cret")
	user := srv.login("ann", "passw0rd")

	var chair model.Item
	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/items", admin, `{"name": "Chair", "description": "Wooden"}`, &chair))
	assert.Equal(t, http.StatusConflict, srv.do(http.MethodPost, "/api/items", admin, `{"name": "Chair"}`, nil))

	var list []model.Item
	require.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/items", user, "", &list))
	assert.Len(t, list, 1)

	var updated model.Item
	require.Equal(t, http.StatusOK, srv.do(http.MethodPut, "/api/items/1", admin, `{"name": "Stool", "description": ""}`, &updated))
	assert.Equal(t, "Stool", updated.Name)

	assert.Equal(t, http.StatusNoContent, srv.do(http.MethodDelete, "/api/items/1", admin, "", nil))
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/api/items/1", user, "", nil))
}
