package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/config"
	"github.com/formforge/formforge/database"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/model"
	"github.com/formforge/formforge/routes"
	"github.com/formforge/formforge/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		DBUrl:       filepath.Join(t.TempDir(), "test.sqlite"),
		TokenSecret: "test-secret",
		TokenTTL:    time.Minute,
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.EnsureAdminAccount(db, "hunter2"))

	a := app.App{
		Store:        store.New(db),
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
	}

	srv := httptest.NewServer(routes.Wire(a))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func createForm(t *testing.T, srv *httptest.Server, form model.Form) model.Form {
	t.Helper()

	resp, body := doJSON(t, "POST", srv.URL+"/api/forms", form)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created model.Form
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotZero(t, created.ID)
	require.GreaterOrEqual(t, len(created.PublicID), 8)
	return created
}

func nameForm() model.Form {
	form := model.NewForm()
	form.Title = "Signup"
	form.Fields = []model.Field{
		{ID: model.NewFieldID(), Type: model.FieldText, Label: "Name", Required: true, StepID: 1, Order: 1},
	}
	return form
}

func TestFormCRUD(t *testing.T) {
	srv := newServer(t)

	created := createForm(t, srv, nameForm())

	resp, body := doJSON(t, "GET", fmt.Sprintf("%s/api/forms/%d", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Form
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Fields, got.Fields)

	resp, body = doJSON(t, "GET", srv.URL+"/api/forms", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []model.Form
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 1)

	resp, body = doJSON(t, "PUT", fmt.Sprintf("%s/api/forms/%d", srv.URL, created.ID), map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, created.PublicID, got.PublicID)

	resp, body = doJSON(t, "DELETE", fmt.Sprintf("%s/api/forms/%d", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))

	resp, _ = doJSON(t, "DELETE", fmt.Sprintf("%s/api/forms/%d", srv.URL, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateFormRejectsInvalidPayload(t *testing.T) {
	srv := newServer(t)

	form := nameForm()
	form.Title = ""
	resp, _ := doJSON(t, "POST", srv.URL+"/api/forms", form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	form = nameForm()
	form.Fields[0].StepID = 42
	resp, _ = doJSON(t, "POST", srv.URL+"/api/forms", form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetFormByPublicID(t *testing.T) {
	srv := newServer(t)
	created := createForm(t, srv, nameForm())

	resp, body := doJSON(t, "GET", srv.URL+"/api/forms/public/"+created.PublicID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Form
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.ID, got.ID)

	resp, _ = doJSON(t, "GET", srv.URL+"/api/forms/public/doesnotexist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicSubmit(t *testing.T) {
	srv := newServer(t)
	created := createForm(t, srv, nameForm())
	fieldID := created.Fields[0].ID

	// required field missing: rejected, nothing persisted
	resp, _ := doJSON(t, "POST", srv.URL+"/api/public/"+created.PublicID+"/submit",
		map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, "GET", fmt.Sprintf("%s/api/forms/%d/responses", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var responses []model.Response
	require.NoError(t, json.Unmarshal(body, &responses))
	assert.Empty(t, responses)

	// valid submission
	resp, body = doJSON(t, "POST", srv.URL+"/api/public/"+created.PublicID+"/submit",
		map[string]any{"data": map[string]any{fieldID: "Alice"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result struct {
		Success  bool           `json:"success"`
		Response model.Response `json:"response"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Success)
	assert.True(t, result.Response.IsComplete)
	assert.Equal(t, created.ID, result.Response.FormID)

	resp, body = doJSON(t, "GET", fmt.Sprintf("%s/api/forms/%d/responses", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &responses))
	require.Len(t, responses, 1)
	assert.Equal(t, "Alice", responses[0].Data[fieldID])

	// unknown public id
	resp, _ = doJSON(t, "POST", srv.URL+"/api/public/doesnotexist/submit",
		map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResponseEndpoints(t *testing.T) {
	srv := newServer(t)
	created := createForm(t, srv, nameForm())
	fieldID := created.Fields[0].ID

	resp, body := doJSON(t, "POST", fmt.Sprintf("%s/api/forms/%d/responses", srv.URL, created.ID),
		map[string]any{"data": map[string]any{fieldID: "Bob"}, "isComplete": false})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var stored model.Response
	require.NoError(t, json.Unmarshal(body, &stored))
	assert.False(t, stored.IsComplete)

	resp, body = doJSON(t, "GET", fmt.Sprintf("%s/api/responses/%d", srv.URL, stored.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Response
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Bob", got.Data[fieldID])

	// responses for a missing form
	resp, _ = doJSON(t, "POST", srv.URL+"/api/forms/999/responses",
		map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, "DELETE", fmt.Sprintf("%s/api/responses/%d", srv.URL, stored.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))

	resp, _ = doJSON(t, "GET", fmt.Sprintf("%s/api/responses/%d", srv.URL, stored.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequireAuthGuardsPublicEndpoints(t *testing.T) {
	srv := newServer(t)

	form := nameForm()
	form.Settings.RequireAuth = true
	created := createForm(t, srv, form)
	fieldID := created.Fields[0].ID

	resp, _ := doJSON(t, "GET", srv.URL+"/api/forms/public/"+created.PublicID, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, "POST", srv.URL+"/api/public/"+created.PublicID+"/submit",
		map[string]any{"data": map[string]any{fieldID: "Alice"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, srv)

	req, err := http.NewRequest("GET", srv.URL+"/api/forms/public/"+created.PublicID, nil)
	require.NoError(t, err)
	req.Header.Set("authorization", "Bearer "+token)
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	assert.Equal(t, http.StatusOK, authed.StatusCode)
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	req, err := http.NewRequest("POST", srv.URL+"/api/login", nil)
	require.NoError(t, err)
	req.SetBasicAuth("admin", "hunter2")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}
