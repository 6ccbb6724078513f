package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formforge/formforge/config"
	"github.com/formforge/formforge/database"
	"github.com/formforge/formforge/model"
	"github.com/formforge/formforge/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()

	cfg := config.Config{DBUrl: filepath.Join(t.TempDir(), "test.sqlite")}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db)
}

func draftForm() model.Form {
	form := model.NewForm()
	form.Title = "Survey"
	form.Description = "A small survey"
	form.AddField(model.FieldText, 1)
	form.AddField(model.FieldSelect, 1)
	return form
}

func TestCreateFormRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	draft := draftForm()
	created, err := s.CreateForm(ctx, draft)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.GreaterOrEqual(t, len(created.PublicID), 8)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetForm(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, draft.Title, got.Title)
	assert.Equal(t, draft.Description, got.Description)
	assert.Equal(t, draft.Fields, got.Fields)
	assert.Equal(t, draft.Steps, got.Steps)
	assert.Equal(t, draft.Settings, got.Settings)
	assert.Equal(t, created.PublicID, got.PublicID)
}

func TestGetFormByPublicID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)

	got, err := s.GetFormByPublicID(ctx, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetFormByPublicID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetFormNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.GetForm(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPublicIDsAreDistinct(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		created, err := s.CreateForm(ctx, draftForm())
		require.NoError(t, err)
		assert.False(t, seen[created.PublicID])
		seen[created.PublicID] = true
	}
}

func TestUpdateForm(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)

	title := "Renamed"
	published := true
	updated, err := s.UpdateForm(ctx, created.ID, store.FormUpdate{Title: &title, IsPublished: &published})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.IsPublished)
	// partial update: untouched attributes survive
	assert.Equal(t, created.Fields, updated.Fields)
	assert.Equal(t, created.PublicID, updated.PublicID)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	got, err := s.GetForm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestUpdateFormNotFound(t *testing.T) {
	s := newStore(t)

	title := "x"
	_, err := s.UpdateForm(context.Background(), 999, store.FormUpdate{Title: &title})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateFormRejectsInvalidState(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)

	empty := ""
	_, err = s.UpdateForm(ctx, created.ID, store.FormUpdate{Title: &empty})
	assert.ErrorIs(t, err, store.ErrInvalid)

	// nothing was written
	got, err := s.GetForm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
}

func TestDeleteFormIdempotence(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)

	deleted, err := s.DeleteForm(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteForm(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListForms(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	forms, err := s.ListForms(ctx)
	require.NoError(t, err)
	assert.Empty(t, forms)

	_, err = s.CreateForm(ctx, draftForm())
	require.NoError(t, err)
	_, err = s.CreateForm(ctx, draftForm())
	require.NoError(t, err)

	forms, err = s.ListForms(ctx)
	require.NoError(t, err)
	assert.Len(t, forms, 2)
}

func TestCreateResponse(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	form, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)

	resp, err := s.CreateResponse(ctx, model.Response{
		FormID:     form.ID,
		Data:       map[string]any{"f1": "hello", "f2": []any{"a", "b"}},
		IsComplete: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.False(t, resp.CreatedAt.IsZero())

	got, err := s.GetResponse(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, form.ID, got.FormID)
	assert.True(t, got.IsComplete)
	assert.Equal(t, map[string]any{"f1": "hello", "f2": []any{"a", "b"}}, got.Data)
}

func TestCreateResponseFormMissing(t *testing.T) {
	s := newStore(t)

	_, err := s.CreateResponse(context.Background(), model.Response{
		FormID: 999,
		Data:   map[string]any{},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListResponsesByForm(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	form, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)
	other, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.CreateResponse(ctx, model.Response{FormID: form.ID, Data: map[string]any{}})
		require.NoError(t, err)
	}
	_, err = s.CreateResponse(ctx, model.Response{FormID: other.ID, Data: map[string]any{}})
	require.NoError(t, err)

	responses, err := s.ListResponsesByForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Len(t, responses, 3)
}

func TestDeleteResponseIdempotence(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	form, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)
	resp, err := s.CreateResponse(ctx, model.Response{FormID: form.ID, Data: map[string]any{}})
	require.NoError(t, err)

	deleted, err := s.DeleteResponse(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteResponse(ctx, resp.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteFormCascadesToResponses(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	form, err := s.CreateForm(ctx, draftForm())
	require.NoError(t, err)
	resp, err := s.CreateResponse(ctx, model.Response{FormID: form.ID, Data: map[string]any{}})
	require.NoError(t, err)

	deleted, err := s.DeleteForm(ctx, form.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = s.GetResponse(ctx, resp.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
